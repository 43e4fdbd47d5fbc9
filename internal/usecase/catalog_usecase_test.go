package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/matching"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductEmbeddingText(t *testing.T) {
	p := domain.NewProduct("prod_001", "Harmony Sofa", "West Elm", domain.CategorySofa, decimal.NewFromInt(1299), "West Elm")
	assert.Equal(t, "sofa Harmony Sofa West Elm", ProductEmbeddingText(p))
}

func TestCatalogUseCase_SeedCatalog(t *testing.T) {
	products := &fakeProducts{}
	embeddings := &fakeEmbeddings{}
	cache := newFakeCache()
	cache.data[domain.CategorySofa] = []domain.Product{{ID: "stale"}}
	tx := &fakeTx{}

	uc := NewCatalogUseCase(products, embeddings, cache, matching.NewGenerator(16), tx, matching.ModelVersion, logger.NewNopLogger())

	seed := []*domain.Product{
		domain.NewProduct("prod_001", "Harmony Sofa", "West Elm", domain.CategorySofa, decimal.NewFromInt(1299), "West Elm"),
		domain.NewProduct("prod_002", "Oval Table", "IKEA", domain.CategoryCoffeeTable, decimal.NewFromInt(199), "IKEA"),
		domain.NewProduct("prod_003", "Budget Sofa", "IKEA", domain.CategorySofa, decimal.NewFromInt(499), "IKEA"),
	}

	res, err := uc.SeedCatalog(context.Background(), seed)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Products)
	assert.Equal(t, 3, res.Embeddings)
	assert.Equal(t, []string{domain.CategoryCoffeeTable, domain.CategorySofa}, res.Categories)
	assert.Equal(t, 1, tx.calls)

	require.Len(t, embeddings.upserted, 3)
	first := embeddings.upserted[0]
	assert.Equal(t, "id-prod_001", first.ID)
	assert.Len(t, first.Vector, 16)
	assert.Equal(t, "id-prod_001", first.Payload["product_id"])
	assert.Equal(t, matching.ModelVersion, first.Payload["model_version"])

	want, err := matching.GenerateEmbedding("sofa Harmony Sofa West Elm", 16)
	require.NoError(t, err)
	assert.Equal(t, want, first.Vector)

	assert.NotContains(t, cache.data, domain.CategorySofa)
	assert.ElementsMatch(t, []string{domain.CategorySofa, domain.CategoryCoffeeTable}, cache.deleted)
}

func TestCatalogUseCase_SeedCatalogValidation(t *testing.T) {
	uc := NewCatalogUseCase(&fakeProducts{}, &fakeEmbeddings{}, nil, matching.NewGenerator(8), &fakeTx{}, matching.ModelVersion, logger.NewNopLogger())

	tests := []struct {
		name    string
		product *domain.Product
		wantErr error
	}{
		{name: "nil", product: nil, wantErr: e.ErrMissingFields},
		{name: "no name", product: &domain.Product{ExternalID: "x", Category: domain.CategorySofa}, wantErr: e.ErrMissingFields},
		{name: "no category", product: &domain.Product{ExternalID: "x", Name: "n"}, wantErr: e.ErrCategoryRequired},
		{name: "negative price", product: &domain.Product{ExternalID: "x", Name: "n", Category: domain.CategorySofa, Price: decimal.NewFromInt(-1)}, wantErr: e.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.SeedCatalog(context.Background(), []*domain.Product{tt.product})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCatalogUseCase_CategoryStats(t *testing.T) {
	products, _ := sofaCatalog()
	uc := NewCatalogUseCase(products, &fakeEmbeddings{}, nil, matching.NewGenerator(8), &fakeTx{}, matching.ModelVersion, logger.NewNopLogger())

	stats, err := uc.CategoryStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{domain.CategorySofa: 3, domain.CategoryChair: 1}, stats)
}
