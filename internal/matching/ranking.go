package matching

import (
	"fmt"

	"github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// Ranker формирует итоговую выдачу по предмету: верхний ярус и бюджетную альтернативу.
type Ranker struct {
	topTierSize         int
	budgetDiscount      decimal.Decimal
	budgetMinSimilarity float64
	maxResults          int
}

func NewRanker(c *cfg.MatchingCfg) *Ranker {
	return &Ranker{
		topTierSize:         c.TopTierSize,
		budgetDiscount:      decimal.NewFromFloat(c.BudgetDiscount),
		budgetMinSimilarity: c.BudgetMinSimilarity,
		maxResults:          c.MaxResults,
	}
}

// Rank присваивает ранги кандидатам, уже отсортированным по убыванию сходства.
//
// Первые min(topTierSize, topN, len) кандидатов получают ранги 1..k в порядке входа.
// Бюджетная альтернатива ищется только среди кандидатов после верхнего яруса и только если
// topN оставляет для неё место: берётся первый кандидат дешевле цены лучшего совпадения,
// умноженной на budgetDiscount, со сходством не ниже budgetMinSimilarity.
// Она получает ранг topTierSize+1. Для отрицательного topN возвращается e.ErrInvalidArgument.
func (r *Ranker) Rank(candidates []domain.Candidate, topN int) ([]domain.RankedMatch, error) {
	const op = "Ranker.Rank"

	if topN < 0 {
		return nil, e.Wrap(op, fmt.Errorf("top_n %d: %w", topN, e.ErrInvalidArgument))
	}

	topN = min(topN, r.maxResults)
	tierSize := min(r.topTierSize, topN, len(candidates))

	result := make([]domain.RankedMatch, 0, tierSize+1)
	for i := range tierSize {
		result = append(result, domain.NewRankedMatch(candidates[i], i+1, false))
	}

	if tierSize == 0 || topN <= r.topTierSize {
		return result, nil
	}

	if budget, ok := r.findBudgetAlternative(candidates); ok {
		result = append(result, domain.NewRankedMatch(budget, r.topTierSize+1, true))
	}

	return result, nil
}

// findBudgetAlternative возвращает первого подходящего кандидата после верхнего яруса.
func (r *Ranker) findBudgetAlternative(candidates []domain.Candidate) (domain.Candidate, bool) {
	if len(candidates) <= r.topTierSize {
		return domain.Candidate{}, false
	}

	threshold := candidates[0].Product.Price.Mul(r.budgetDiscount)
	for _, c := range candidates[r.topTierSize:] {
		if c.Product.Price.LessThan(threshold) && c.SimilarityScore >= r.budgetMinSimilarity {
			return c, true
		}
	}

	return domain.Candidate{}, false
}

// TopTierSize возвращает размер верхнего яруса.
func (r *Ranker) TopTierSize() int {
	return r.topTierSize
}

// MaxResults возвращает максимальную длину выдачи.
func (r *Ranker) MaxResults() int {
	return r.maxResults
}
