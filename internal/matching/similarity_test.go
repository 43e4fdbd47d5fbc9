package matching

import (
	"testing"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     domain.Vector
		expected float64
	}{
		{"Identical", domain.Vector{1, 2, 3}, domain.Vector{1, 2, 3}, 1},
		{"Scaled", domain.Vector{1, 2, 3}, domain.Vector{2, 4, 6}, 1},
		{"Orthogonal", domain.Vector{1, 0}, domain.Vector{0, 1}, 0},
		{"Opposite", domain.Vector{1, 1}, domain.Vector{-1, -1}, -1},
		{"EmptyLeft", domain.Vector{}, domain.Vector{1, 2}, 0},
		{"EmptyRight", domain.Vector{1, 2}, nil, 0},
		{"ZeroLeft", domain.Vector{0, 0, 0}, domain.Vector{1, 2, 3}, 0},
		{"ZeroRight", domain.Vector{1, 2, 3}, domain.Vector{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestCosineSimilarity_SymmetricOnEmbeddings(t *testing.T) {
	a, err := GenerateEmbedding("sofa furniture", 512)
	require.NoError(t, err)
	b, err := GenerateEmbedding("Harmony Sofa sofa", 512)
	require.NoError(t, err)

	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)
	aa, err := CosineSimilarity(a, a)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.InDelta(t, 1.0, aa, 1e-6)
	assert.GreaterOrEqual(t, ab, -1.0)
	assert.LessOrEqual(t, ab, 1.0)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity(domain.Vector{1, 2}, domain.Vector{1, 2, 3})
	assert.ErrorIs(t, err, e.ErrDimensionMismatch)
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm(domain.Vector{3, 4}), 1e-9)
	assert.Zero(t, Norm(nil))
}
