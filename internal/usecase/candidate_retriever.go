package usecase

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/matching"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
)

// CandidateRetriever достаёт товары категории из каталога и векторного хранилища и оценивает их.
type CandidateRetriever struct {
	products   ProductRepository
	embeddings EmbeddingRepository
	cache      CatalogCacheRepository // может быть nil
	metrics    MatchingMetrics
	log        logger.Logger
}

func NewCandidateRetriever(
	products ProductRepository,
	embeddings EmbeddingRepository,
	cache CatalogCacheRepository,
	metrics MatchingMetrics,
	log logger.Logger,
) *CandidateRetriever {
	if metrics == nil {
		metrics = NopMetrics()
	}

	return &CandidateRetriever{
		products:   products,
		embeddings: embeddings,
		cache:      cache,
		metrics:    metrics,
		log:        log,
	}
}

// FindCandidates возвращает до limit кандидатов категории по убыванию сходства с item.
// Ошибки чтения каталога оборачиваются в e.ErrCatalogUnavailable.
func (r *CandidateRetriever) FindCandidates(ctx context.Context, category string, item domain.Vector, limit int) ([]domain.Candidate, error) {
	const op = "CandidateRetriever.FindCandidates"

	products, err := r.loadCategory(ctx, category)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrCatalogUnavailable, err))
	}

	compatible := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.HasEmbedding() && p.Embedding.Dimension() != item.Dimension() {
			r.log.Warnf("product %s skipped: embedding dimension %d, expected %d", p.ID, p.Embedding.Dimension(), item.Dimension())
			continue
		}
		compatible = append(compatible, p)
	}

	candidates, err := matching.ScoreCandidates(category, compatible, item, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return candidates, nil
}

// loadCategory читает снимок категории из кэша, при промахе собирает его из PostgreSQL и Qdrant.
func (r *CandidateRetriever) loadCategory(ctx context.Context, category string) ([]domain.Product, error) {
	if r.cache != nil {
		cached, ok, err := r.cache.GetCategory(ctx, category)
		switch {
		case err != nil:
			r.log.Warnf("catalog cache read failed for %s: %v", category, err)
		case ok:
			r.metrics.IncCatalogCache(true)
			return cached, nil
		}
		r.metrics.IncCatalogCache(false)
	}

	products, err := r.products.FindInStockByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return products, nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	vectors, err := r.embeddings.GetVectors(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range products {
		products[i].Embedding = vectors[products[i].ID]
	}

	if r.cache != nil {
		if err := r.cache.SetCategory(ctx, category, products); err != nil {
			r.log.Warnf("catalog cache write failed for %s: %v", category, err)
		}
	}

	return products, nil
}
