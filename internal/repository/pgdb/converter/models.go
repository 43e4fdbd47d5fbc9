package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// Цена хранится как NUMERIC и читается в текстовом виде.
type ProductModel struct {
	ID           string     `db:"id"`
	ExternalID   string     `db:"external_id"`
	Name         string     `db:"name"`
	Brand        string     `db:"brand"`
	Category     string     `db:"category"`
	Price        string     `db:"price"`
	Currency     string     `db:"currency"`
	Description  string     `db:"description"`
	ImageURL     string     `db:"image_url"`
	RetailerName string     `db:"retailer_name"`
	RetailerURL  string     `db:"retailer_url"`
	AffiliateURL string     `db:"affiliate_url"`
	InStock      bool       `db:"in_stock"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// ScanModel представляет запись таблицы scans.
type ScanModel struct {
	ID               string     `db:"id"`
	UserID           string     `db:"user_id"`
	Status           string     `db:"status"`
	ImageKey         string     `db:"image_key"`
	ItemCount        int        `db:"item_count"`
	ProcessingTimeMs int64      `db:"processing_time_ms"`
	ErrorMessage     string     `db:"error_message"`
	CreatedAt        time.Time  `db:"created_at"`
	CompletedAt      *time.Time `db:"completed_at"`
}

// DetectedItemModel представляет запись таблицы detected_items.
type DetectedItemModel struct {
	ID         string    `db:"id"`
	ScanID     string    `db:"scan_id"`
	Category   string    `db:"category"`
	BBoxX      float64   `db:"bbox_x"`
	BBoxY      float64   `db:"bbox_y"`
	BBoxWidth  float64   `db:"bbox_width"`
	BBoxHeight float64   `db:"bbox_height"`
	Confidence float64   `db:"confidence"`
	Embedding  []float32 `db:"embedding"`
	Position   int       `db:"position"`
	CreatedAt  time.Time `db:"created_at"`
}

// ItemMatchModel представляет запись таблицы item_matches.
type ItemMatchModel struct {
	ID                  string    `db:"id"`
	ItemID              string    `db:"item_id"`
	ProductID           string    `db:"product_id"`
	Rank                int       `db:"rank"`
	SimilarityScore     float64   `db:"similarity_score"`
	IsBudgetAlternative bool      `db:"is_budget_alternative"`
	CreatedAt           time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
