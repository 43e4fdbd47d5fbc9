// Package converter преобразует сущности domain/usecase в модели PostgreSQL и обратно.
package converter

import (
	"fmt"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductToModel преобразует товар в модель PostgreSQL. Эмбеддинг в PostgreSQL не хранится.
func ProductToModel(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:           p.ID,
		ExternalID:   p.ExternalID,
		Name:         p.Name,
		Brand:        p.Brand,
		Category:     p.Category,
		Price:        p.Price.StringFixed(2),
		Currency:     p.Currency,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		RetailerName: p.RetailerName,
		RetailerURL:  p.RetailerURL,
		AffiliateURL: p.AffiliateURL,
		InStock:      p.InStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ProductToEntity преобразует модель в товар, цена разбирается из текста NUMERIC.
func ProductToEntity(m *ProductModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s price %q: %w", m.ID, m.Price, e.ErrInvalidPrice)
	}

	return &domain.Product{
		ID:           m.ID,
		ExternalID:   m.ExternalID,
		Name:         m.Name,
		Brand:        m.Brand,
		Category:     m.Category,
		Price:        price,
		Currency:     m.Currency,
		Description:  m.Description,
		ImageURL:     m.ImageURL,
		RetailerName: m.RetailerName,
		RetailerURL:  m.RetailerURL,
		AffiliateURL: m.AffiliateURL,
		InStock:      m.InStock,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func ScanToModel(s *domain.Scan) *ScanModel {
	return &ScanModel{
		ID:               s.ID,
		UserID:           s.UserID,
		Status:           string(s.Status),
		ImageKey:         s.ImageKey,
		ItemCount:        s.ItemCount,
		ProcessingTimeMs: s.ProcessingTimeMs,
		ErrorMessage:     s.ErrorMessage,
		CreatedAt:        s.CreatedAt,
		CompletedAt:      s.CompletedAt,
	}
}

func ScanToEntity(m *ScanModel) *domain.Scan {
	return &domain.Scan{
		ID:               m.ID,
		UserID:           m.UserID,
		Status:           domain.ScanStatus(m.Status),
		ImageKey:         m.ImageKey,
		ItemCount:        m.ItemCount,
		ProcessingTimeMs: m.ProcessingTimeMs,
		ErrorMessage:     m.ErrorMessage,
		CreatedAt:        m.CreatedAt,
		CompletedAt:      m.CompletedAt,
	}
}

// DetectedItemToModel сохраняет position, чтобы при чтении восстановить порядок детекций.
func DetectedItemToModel(item *domain.DetectedItem, position int) *DetectedItemModel {
	return &DetectedItemModel{
		ID:         item.ID,
		ScanID:     item.ScanID,
		Category:   item.Category,
		BBoxX:      item.BBox.X,
		BBoxY:      item.BBox.Y,
		BBoxWidth:  item.BBox.Width,
		BBoxHeight: item.BBox.Height,
		Confidence: item.Confidence,
		Embedding:  item.Embedding,
		Position:   position,
		CreatedAt:  item.CreatedAt,
	}
}

func DetectedItemToEntity(m *DetectedItemModel) *domain.DetectedItem {
	return &domain.DetectedItem{
		ID:       m.ID,
		ScanID:   m.ScanID,
		Category: m.Category,
		BBox: domain.BoundingBox{
			X:      m.BBoxX,
			Y:      m.BBoxY,
			Width:  m.BBoxWidth,
			Height: m.BBoxHeight,
		},
		Confidence: m.Confidence,
		Embedding:  m.Embedding,
		CreatedAt:  m.CreatedAt,
	}
}

func ItemMatchToModel(m *domain.ItemMatch) *ItemMatchModel {
	return &ItemMatchModel{
		ID:                  m.ID,
		ItemID:              m.ItemID,
		ProductID:           m.ProductID,
		Rank:                m.Rank,
		SimilarityScore:     m.SimilarityScore,
		IsBudgetAlternative: m.IsBudgetAlternative,
		CreatedAt:           m.CreatedAt,
	}
}

func ItemMatchToEntity(m *ItemMatchModel) *domain.ItemMatch {
	return &domain.ItemMatch{
		ID:                  m.ID,
		ItemID:              m.ItemID,
		ProductID:           m.ProductID,
		Rank:                m.Rank,
		SimilarityScore:     m.SimilarityScore,
		IsBudgetAlternative: m.IsBudgetAlternative,
		CreatedAt:           m.CreatedAt,
	}
}

func OutboxEventToModel(ev *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          ev.ID,
		EventID:     ev.EventID,
		EventType:   string(ev.EventType),
		AggregateID: ev.AggregateID,
		Payload:     ev.Payload,
		Status:      string(ev.Status),
		CreatedAt:   ev.CreatedAt,
		ProcessedAt: ev.ProcessedAt,
	}
}

func OutboxEventToEntity(m *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          m.ID,
		EventID:     m.EventID,
		EventType:   usecase.OutboxEventType(m.EventType),
		AggregateID: m.AggregateID,
		Payload:     m.Payload,
		Status:      usecase.OutboxStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		ProcessedAt: m.ProcessedAt,
	}
}

func OutboxEventsToEntities(models []*OutboxEventModel) []*usecase.OutboxEvent {
	res := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		res = append(res, OutboxEventToEntity(m))
	}
	return res
}
