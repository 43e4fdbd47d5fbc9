package converter

import (
	"testing"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPrice(t *testing.T) {
	p := domain.NewProduct("prod_001", "Harmony Sofa", "West Elm", domain.CategorySofa, decimal.RequireFromString("1299.5"), "West Elm")

	m := ProductToModel(p)
	assert.Equal(t, "1299.50", m.Price)

	got, err := ProductToEntity(m)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, domain.DefaultCurrency, got.Currency)
	assert.Nil(t, got.Embedding)
}

func TestProductToEntity_InvalidPrice(t *testing.T) {
	_, err := ProductToEntity(&ProductModel{ID: "x", Price: "abc"})
	assert.ErrorIs(t, err, e.ErrInvalidPrice)
}

func TestDetectedItemPosition(t *testing.T) {
	item := &domain.DetectedItem{
		ID:        "item",
		ScanID:    "scan",
		Category:  domain.CategorySofa,
		BBox:      domain.BoundingBox{X: 0.15, Y: 0.35, Width: 0.5, Height: 0.4},
		Embedding: domain.Vector{0.6, 0.8},
	}

	m := DetectedItemToModel(item, 2)
	assert.Equal(t, 2, m.Position)
	assert.Equal(t, item.BBox, DetectedItemToEntity(m).BBox)
	assert.Equal(t, item.Embedding, DetectedItemToEntity(m).Embedding)
}
