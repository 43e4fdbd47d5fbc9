package matching

import (
	"fmt"
	"testing"

	"github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id, price string, score float64) domain.Candidate {
	return domain.NewCandidate(domain.Product{
		ID:       id,
		Category: domain.CategorySofa,
		Price:    decimal.RequireFromString(price),
		InStock:  true,
	}, score)
}

// topTier возвращает пять кандидатов верхнего яруса, лучший стоит top.
func topTier(top string) []domain.Candidate {
	return []domain.Candidate{
		candidate("t1", top, 0.99),
		candidate("t2", "95", 0.98),
		candidate("t3", "90", 0.97),
		candidate("t4", "85", 0.96),
		candidate("t5", "85", 0.95),
	}
}

func newRanker() *Ranker {
	return NewRanker(cfg.DefaultMatchingCfg())
}

func rankedIDs(matches []domain.RankedMatch) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.Product.ID
	}
	return ids
}

func TestRank_SizeInvariant(t *testing.T) {
	r := newRanker()

	for k := 0; k <= 12; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			candidates := make([]domain.Candidate, 0, k)
			for i := range k {
				// все кандидаты после яруса подходят под бюджетные критерии
				price := "1000"
				if i >= 5 {
					price = "10"
				}
				candidates = append(candidates, candidate(fmt.Sprintf("p%d", i), price, 0.9))
			}

			got, err := r.Rank(candidates, 6)
			require.NoError(t, err)

			topCount := 0
			budgetCount := 0
			for _, m := range got {
				if m.IsBudgetAlternative {
					budgetCount++
				} else {
					topCount++
				}
			}

			assert.Equal(t, min(k, 5), topCount)
			assert.LessOrEqual(t, budgetCount, 1)
			assert.LessOrEqual(t, len(got), 6)
			if k > 5 {
				assert.Equal(t, 1, budgetCount)
			}
		})
	}
}

func TestRank_BudgetEligibility(t *testing.T) {
	tests := []struct {
		name     string
		budget   domain.Candidate
		selected bool
	}{
		{"cheaper and similar", candidate("b", "79.99", 0.80), true},
		{"exactly at floor", candidate("b", "50", 0.75), true},
		{"not strictly cheaper", candidate("b", "80.00", 0.80), false},
		{"too expensive", candidate("b", "80.01", 0.80), false},
		{"cheap but dissimilar", candidate("b", "70", 0.70), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := append(topTier("100"), tt.budget)

			got, err := newRanker().Rank(candidates, 6)
			require.NoError(t, err)

			if !tt.selected {
				assert.Len(t, got, 5)
				return
			}

			require.Len(t, got, 6)
			budget := got[5]
			assert.Equal(t, "b", budget.Product.ID)
			assert.True(t, budget.IsBudgetAlternative)
			assert.Equal(t, 6, budget.Rank)
		})
	}
}

func TestRank_FirstQualifyingWins(t *testing.T) {
	candidates := append(topTier("100"),
		candidate("first", "70", 0.76),
		candidate("second", "10", 0.94),
	)

	got, err := newRanker().Rank(candidates, 6)
	require.NoError(t, err)

	require.Len(t, got, 6)
	assert.Equal(t, "first", got[5].Product.ID)
}

func TestRank_Contiguity(t *testing.T) {
	candidates := append(topTier("100"), candidate("b", "50", 0.9))

	got, err := newRanker().Rank(candidates, 6)
	require.NoError(t, err)

	for i, m := range got[:5] {
		assert.Equal(t, i+1, m.Rank)
		assert.False(t, m.IsBudgetAlternative)
		assert.Equal(t, candidates[i].Product.ID, m.Product.ID)
	}
	assert.Equal(t, 6, got[5].Rank)
	assert.True(t, got[5].IsBudgetAlternative)
}

func TestRank_BudgetNeverFromTopTier(t *testing.T) {
	// дешёвый товар внутри яруса не становится бюджетной альтернативой
	candidates := []domain.Candidate{
		candidate("t1", "100", 0.99),
		candidate("cheap", "10", 0.98),
		candidate("t3", "90", 0.97),
	}

	got, err := newRanker().Rank(candidates, 6)
	require.NoError(t, err)

	assert.Equal(t, []string{"t1", "cheap", "t3"}, rankedIDs(got))
	for _, m := range got {
		assert.False(t, m.IsBudgetAlternative)
	}
}

func TestRank_EndToEndSofaScenario(t *testing.T) {
	scores := []float64{0.95, 0.90, 0.85, 0.80, 0.75, 0.70, 0.92}
	prices := []string{"1000", "900", "800", "700", "600", "79", "500"}

	candidates := make([]domain.Candidate, len(scores))
	for i := range scores {
		candidates[i] = candidate(fmt.Sprintf("sofa-%d", i), prices[i], scores[i])
	}

	t.Run("score floor skips index 5", func(t *testing.T) {
		got, err := newRanker().Rank(candidates, 6)
		require.NoError(t, err)

		require.Len(t, got, 6)
		assert.Equal(t, []string{"sofa-0", "sofa-1", "sofa-2", "sofa-3", "sofa-4", "sofa-6"}, rankedIDs(got))
		assert.True(t, got[5].IsBudgetAlternative)
	})

	t.Run("no other qualifying candidate", func(t *testing.T) {
		got, err := newRanker().Rank(candidates[:6], 6)
		require.NoError(t, err)

		assert.Len(t, got, 5)
		for _, m := range got {
			assert.False(t, m.IsBudgetAlternative)
		}
	})
}

func TestRank_RoundsDisplayScore(t *testing.T) {
	got, err := newRanker().Rank([]domain.Candidate{candidate("a", "10", 0.87654321)}, 6)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.InDelta(t, 0.877, got[0].DisplayScore, 1e-12)
	assert.InDelta(t, 0.87654321, got[0].SimilarityScore, 1e-12)
}

func TestRank_BudgetComparesUnroundedScore(t *testing.T) {
	// 0.7496 округляется до 0.750, но фактически ниже порога
	candidates := append(topTier("100"), candidate("b", "10", 0.7496))

	got, err := newRanker().Rank(candidates, 6)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestRank_TopN(t *testing.T) {
	candidates := append(topTier("100"), candidate("b", "10", 0.9))
	r := newRanker()

	got, err := r.Rank(candidates, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = r.Rank(candidates, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3"}, rankedIDs(got))

	got, err = r.Rank(candidates, 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = r.Rank(candidates, 100)
	require.NoError(t, err)
	assert.Len(t, got, 6)

	_, err = r.Rank(candidates, -1)
	assert.ErrorIs(t, err, e.ErrInvalidArgument)
}

func TestRank_Empty(t *testing.T) {
	got, err := newRanker().Rank(nil, 6)
	require.NoError(t, err)
	assert.Empty(t, got)
}
