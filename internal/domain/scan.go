package domain

import "time"

type ScanStatus string

const (
	ScanPending    ScanStatus = "pending"
	ScanProcessing ScanStatus = "processing"
	ScanCompleted  ScanStatus = "completed"
	ScanFailed     ScanStatus = "failed"
)

// BoundingBox задаёт рамку предмета в нормализованных координатах [0, 1]
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Detection описывает один предмет, найденный детектором
type Detection struct {
	Category   string
	BBox       BoundingBox
	Confidence float64
}

func NewDetection(category string, bbox BoundingBox, confidence float64) Detection {
	return Detection{
		Category:   category,
		BBox:       bbox,
		Confidence: confidence,
	}
}

// Scan описывает обработку одной фотографии комнаты
type Scan struct {
	ID               string
	UserID           string
	Status           ScanStatus
	ImageKey         string
	ItemCount        int
	ProcessingTimeMs int64
	ErrorMessage     string
	CreatedAt        time.Time
	CompletedAt      *time.Time
	Items            []DetectedItem
}

// DetectedItem хранит предмет мебели, найденный на фотографии
type DetectedItem struct {
	ID         string
	ScanID     string
	Category   string
	BBox       BoundingBox
	Confidence float64
	Embedding  Vector
	CreatedAt  time.Time
	Matches    []ItemMatch
}

// ItemMatch хранит совпадение предмета с товаром
type ItemMatch struct {
	ID                  string
	ItemID              string
	ProductID           string
	Rank                int
	SimilarityScore     float64 // округлённое значение
	IsBudgetAlternative bool
	CreatedAt           time.Time
	// Product заполняется при чтении скана
	Product *Product
}

// NewItemMatch строит запись для сохранения из результата ранжирования.
func NewItemMatch(id, itemID string, m RankedMatch) ItemMatch {
	product := m.Product
	return ItemMatch{
		ID:                  id,
		ItemID:              itemID,
		ProductID:           m.Product.ID,
		Rank:                m.Rank,
		SimilarityScore:     m.DisplayScore,
		IsBudgetAlternative: m.IsBudgetAlternative,
		Product:             &product,
	}
}
