// Package converter преобразует товары каталога в модели Redis и обратно.
package converter

import (
	"fmt"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func ToRedisModel(p *domain.Product) CatalogProductRedisModel {
	return CatalogProductRedisModel{
		ID:           p.ID,
		ExternalID:   p.ExternalID,
		Name:         p.Name,
		Brand:        p.Brand,
		Category:     p.Category,
		Price:        p.Price.String(),
		Currency:     p.Currency,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		RetailerName: p.RetailerName,
		RetailerURL:  p.RetailerURL,
		AffiliateURL: p.AffiliateURL,
		InStock:      p.InStock,
		Embedding:    p.Embedding,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToEntity(m *CatalogProductRedisModel) (domain.Product, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s price %q: %w", m.ID, m.Price, err)
	}

	return domain.Product{
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
		Embedding:    m.Embedding,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func ToArrRedisModel(products []domain.Product) []CatalogProductRedisModel {
	res := make([]CatalogProductRedisModel, 0, len(products))
	for i := range products {
		res = append(res, ToRedisModel(&products[i]))
	}
	return res
}

func ToArrEntity(models []CatalogProductRedisModel) ([]domain.Product, error) {
	res := make([]domain.Product, 0, len(models))
	for i := range models {
		p, err := ToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}
