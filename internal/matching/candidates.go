package matching

import (
	"fmt"
	"sort"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
)

// ScoreCandidates оценивает товары каталога относительно вектора предмета.
//
// В оценку попадают только товары нужной категории, которые есть в наличии и имеют эмбеддинг.
// Результат отсортирован по убыванию сходства и обрезан до limit.
// При равном сходстве выше идёт более дешёвый товар, затем товар с меньшим ID,
// поэтому порядок не зависит от порядка выдачи хранилища.
func ScoreCandidates(category string, products []domain.Product, item domain.Vector, limit int) ([]domain.Candidate, error) {
	const op = "matching.ScoreCandidates"

	if limit < 0 {
		return nil, e.Wrap(op, fmt.Errorf("limit %d: %w", limit, e.ErrInvalidArgument))
	}

	candidates := make([]domain.Candidate, 0, len(products))
	for _, p := range products {
		if p.Category != category || !p.InStock || !p.HasEmbedding() {
			continue
		}

		score, err := CosineSimilarity(item, p.Embedding)
		if err != nil {
			return nil, e.Wrap(op, fmt.Errorf("product %s: %w", p.ID, err))
		}

		candidates = append(candidates, domain.NewCandidate(p, score))
	}

	SortCandidates(candidates)

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// SortCandidates упорядочивает кандидатов: сходство по убыванию, цена по возрастанию, ID по возрастанию.
func SortCandidates(candidates []domain.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.SimilarityScore != b.SimilarityScore {
			return a.SimilarityScore > b.SimilarityScore
		}

		if cmp := a.Product.Price.Cmp(b.Product.Price); cmp != 0 {
			return cmp < 0
		}

		return a.Product.ID < b.Product.ID
	})
}
