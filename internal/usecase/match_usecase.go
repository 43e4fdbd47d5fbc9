package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/matching"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
)

// MatchUseCase подбирает товары для одного предмета: эмбеддинг, кандидаты, ранжирование.
type MatchUseCase struct {
	embedder       matching.Embedder
	finder         CandidateFinder
	ranker         *matching.Ranker
	candidateLimit int
	metrics        MatchingMetrics
	log            logger.Logger
}

func NewMatchUseCase(
	embedder matching.Embedder,
	finder CandidateFinder,
	ranker *matching.Ranker,
	candidateLimit int,
	metrics MatchingMetrics,
	log logger.Logger,
) *MatchUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}

	return &MatchUseCase{
		embedder:       embedder,
		finder:         finder,
		ranker:         ranker,
		candidateLimit: candidateLimit,
		metrics:        metrics,
		log:            log,
	}
}

// MatchItem подбирает товары по категории и текстовому запросу.
// Limit == 0 означает максимальную выдачу.
func (u *MatchUseCase) MatchItem(ctx context.Context, req *MatchItemReq) (*MatchItemRes, error) {
	const op = "MatchUseCase.MatchItem"

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, e.Wrap(op, e.ErrCategoryRequired)
	}

	if req.Limit < 0 {
		return nil, e.Wrap(op, fmt.Errorf("limit %d: %w", req.Limit, e.ErrInvalidArgument))
	}

	limit := req.Limit
	if limit == 0 {
		limit = u.ranker.MaxResults()
	}

	text := strings.TrimSpace(req.Query)
	if text == "" {
		text = domain.EmbeddingText(category)
	}

	vector, err := u.embedder.Embed(text)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	matches, considered, err := u.MatchVector(ctx, category, vector, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewMatchItemRes(category, considered, matches), nil
}

// MatchVector ранжирует кандидатов категории для готового вектора предмета.
// Возвращает выдачу и число рассмотренных кандидатов.
func (u *MatchUseCase) MatchVector(ctx context.Context, category string, vector domain.Vector, topN int) ([]domain.RankedMatch, int, error) {
	start := time.Now()

	candidates, err := u.finder.FindCandidates(ctx, category, vector, u.candidateLimit)
	if err != nil {
		return nil, 0, err
	}

	matches, err := u.ranker.Rank(candidates, topN)
	if err != nil {
		return nil, 0, err
	}

	budget := false
	for _, m := range matches {
		if m.IsBudgetAlternative {
			budget = true
			break
		}
	}

	u.metrics.ObserveRanking(category, len(candidates), budget, time.Since(start))
	u.log.Debugf("category %s: %d candidates, %d matches, budget=%t", category, len(candidates), len(matches), budget)

	return matches, len(candidates), nil
}
