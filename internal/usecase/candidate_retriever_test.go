package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sofaCatalog() (*fakeProducts, *fakeEmbeddings) {
	products := &fakeProducts{products: []domain.Product{
		product("a", domain.CategorySofa, "1000", true),
		product("b", domain.CategorySofa, "900", true),
		product("c", domain.CategorySofa, "800", false),
		product("d", domain.CategoryChair, "100", true),
		product("e", domain.CategorySofa, "700", true),
	}}
	embeddings := &fakeEmbeddings{vectors: map[string]domain.Vector{
		"a": unitVector(0.6),
		"b": unitVector(0.9),
		"c": unitVector(0.99),
		"d": unitVector(0.99),
	}}
	return products, embeddings
}

func candidateIDs(candidates []domain.Candidate) []string {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Product.ID)
	}
	return ids
}

func TestCandidateRetriever_LoadsAndScores(t *testing.T) {
	products, embeddings := sofaCatalog()
	cache := newFakeCache()
	r := NewCandidateRetriever(products, embeddings, cache, nil, logger.NewNopLogger())

	got, err := r.FindCandidates(context.Background(), domain.CategorySofa, domain.Vector{1, 0}, 20)
	require.NoError(t, err)

	// c нет в наличии, e без эмбеддинга, d другой категории
	assert.Equal(t, []string{"b", "a"}, candidateIDs(got))
	assert.InDelta(t, 0.9, got[0].SimilarityScore, 1e-6)
	assert.Equal(t, 1, cache.sets)
	assert.Len(t, cache.data[domain.CategorySofa], 3)
}

func TestCandidateRetriever_CacheHit(t *testing.T) {
	products, embeddings := sofaCatalog()
	cache := newFakeCache()
	r := NewCandidateRetriever(products, embeddings, cache, nil, logger.NewNopLogger())

	ctx := context.Background()
	_, err := r.FindCandidates(ctx, domain.CategorySofa, domain.Vector{1, 0}, 20)
	require.NoError(t, err)

	got, err := r.FindCandidates(ctx, domain.CategorySofa, domain.Vector{1, 0}, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, candidateIDs(got))
	assert.Equal(t, 1, products.calls)
}

func TestCandidateRetriever_CacheErrorFallsBack(t *testing.T) {
	products, embeddings := sofaCatalog()
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	r := NewCandidateRetriever(products, embeddings, cache, nil, logger.NewNopLogger())

	got, err := r.FindCandidates(context.Background(), domain.CategorySofa, domain.Vector{1, 0}, 20)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, products.calls)
}

func TestCandidateRetriever_StoreErrors(t *testing.T) {
	tests := []struct {
		name       string
		productErr error
		vectorErr  error
	}{
		{name: "postgres", productErr: errors.New("connection refused")},
		{name: "qdrant", vectorErr: errors.New("unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, embeddings := sofaCatalog()
			products.err = tt.productErr
			embeddings.err = tt.vectorErr
			r := NewCandidateRetriever(products, embeddings, nil, nil, logger.NewNopLogger())

			_, err := r.FindCandidates(context.Background(), domain.CategorySofa, domain.Vector{1, 0}, 20)
			require.Error(t, err)
			assert.ErrorIs(t, err, e.ErrCatalogUnavailable)
		})
	}
}

func TestCandidateRetriever_SkipsForeignDimension(t *testing.T) {
	products, embeddings := sofaCatalog()
	embeddings.vectors["a"] = domain.Vector{1, 0, 0}
	r := NewCandidateRetriever(products, embeddings, nil, nil, logger.NewNopLogger())

	got, err := r.FindCandidates(context.Background(), domain.CategorySofa, domain.Vector{1, 0}, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, candidateIDs(got))
}

func TestCandidateRetriever_UnknownCategory(t *testing.T) {
	products, embeddings := sofaCatalog()
	r := NewCandidateRetriever(products, embeddings, nil, nil, logger.NewNopLogger())

	got, err := r.FindCandidates(context.Background(), "spaceship", domain.Vector{1, 0}, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}
