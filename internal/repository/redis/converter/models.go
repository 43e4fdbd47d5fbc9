package converter

import "time"

// CatalogProductRedisModel описывает товар в снимке категории каталога.
type CatalogProductRedisModel struct {
	ID           string     `json:"id"`
	ExternalID   string     `json:"external_id"`
	Name         string     `json:"name"`
	Brand        string     `json:"brand"`
	Category     string     `json:"category"`
	Price        string     `json:"price"`
	Currency     string     `json:"currency"`
	Description  string     `json:"description,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	RetailerName string     `json:"retailer_name,omitempty"`
	RetailerURL  string     `json:"retailer_url,omitempty"`
	AffiliateURL string     `json:"affiliate_url,omitempty"`
	InStock      bool       `json:"in_stock"`
	Embedding    []float32  `json:"embedding,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// CategorySnapshotRedisModel хранит снимок категории вместе с версией модели эмбеддингов.
type CategorySnapshotRedisModel struct {
	Category     string                     `json:"category"`
	ModelVersion string                     `json:"model_version"`
	Products     []CatalogProductRedisModel `json:"products"`
}
