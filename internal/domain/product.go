package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога, доступный для покупки
type Product struct {
	ID           string // uuid
	ExternalID   string
	Name         string
	Brand        string
	Category     string
	Price        decimal.Decimal
	Currency     string // ISO 4217, например "USD"
	Description  string
	ImageURL     string
	RetailerName string
	RetailerURL  string
	AffiliateURL string
	InStock      bool
	// Embedding равен nil, если у товара нет сохранённого эмбеддинга
	Embedding Vector
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewProduct(externalID, name, brand, category string, price decimal.Decimal, retailer string) *Product {
	return &Product{
		ExternalID:   externalID,
		Name:         name,
		Brand:        brand,
		Category:     category,
		Price:        price,
		Currency:     DefaultCurrency,
		RetailerName: retailer,
		InStock:      true,
	}
}

// HasEmbedding сообщает, есть ли у товара вектор для сравнения.
func (p *Product) HasEmbedding() bool {
	return len(p.Embedding) > 0
}

const DefaultCurrency = "USD"
