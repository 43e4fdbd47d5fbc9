package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/matching"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
)

// CatalogUseCase наполняет каталог товарами и их эмбеддингами.
type CatalogUseCase struct {
	products     ProductRepository
	embeddings   EmbeddingRepository
	cache        CatalogCacheRepository // может быть nil
	embedder     matching.Embedder
	trManager    TxManager
	modelVersion string
	log          logger.Logger
}

func NewCatalogUseCase(
	products ProductRepository,
	embeddings EmbeddingRepository,
	cache CatalogCacheRepository,
	embedder matching.Embedder,
	trManager TxManager,
	modelVersion string,
	log logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		products:     products,
		embeddings:   embeddings,
		cache:        cache,
		embedder:     embedder,
		trManager:    trManager,
		modelVersion: modelVersion,
		log:          log,
	}
}

// ProductEmbeddingText возвращает текст, по которому строится эмбеддинг товара каталога.
func ProductEmbeddingText(p *domain.Product) string {
	return strings.Join([]string{p.Category, p.Name, p.Brand}, " ")
}

// SeedCatalog записывает товары в PostgreSQL, их эмбеддинги в Qdrant и сбрасывает кэш затронутых категорий.
// Повторный вызов с теми же ExternalID обновляет товары, а не дублирует их.
func (u *CatalogUseCase) SeedCatalog(ctx context.Context, products []*domain.Product) (*SeedCatalogRes, error) {
	const op = "CatalogUseCase.SeedCatalog"

	for _, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	saved := make([]*domain.Product, 0, len(products))
	err := u.trManager.Do(ctx, func(ctx context.Context) error {
		for _, p := range products {
			res, err := u.products.Upsert(ctx, p)
			if err != nil {
				return fmt.Errorf("product %s: %w", p.ExternalID, err)
			}
			saved = append(saved, res)
		}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	embeddings := make([]domain.Embedding, 0, len(saved))
	categories := make([]string, 0)
	for _, p := range saved {
		vector, err := u.embedder.Embed(ProductEmbeddingText(p))
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		payload := domain.NewPayload(p.ID, p.Category, u.modelVersion)
		embeddings = append(embeddings, *domain.NewEmbedding(p.ID, vector, payload))

		if !slices.Contains(categories, p.Category) {
			categories = append(categories, p.Category)
		}
	}

	if len(embeddings) > 0 {
		if err := u.embeddings.Upsert(ctx, embeddings); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	if u.cache != nil && len(categories) > 0 {
		if err := u.cache.DeleteCategories(ctx, categories); err != nil {
			u.log.Warnf("catalog cache invalidation failed: %v", err)
		}
	}

	slices.Sort(categories)
	u.log.Infof("catalog seeded: %d products, %d embeddings, categories %v", len(saved), len(embeddings), categories)

	return &SeedCatalogRes{
		Products:   len(saved),
		Embeddings: len(embeddings),
		Categories: categories,
	}, nil
}

// CategoryStats возвращает число товаров в наличии по категориям.
func (u *CatalogUseCase) CategoryStats(ctx context.Context) (map[string]int, error) {
	const op = "CatalogUseCase.CategoryStats"

	stats, err := u.products.CountByCategory(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return stats, nil
}

func validateProduct(p *domain.Product) error {
	switch {
	case p == nil:
		return fmt.Errorf("nil product: %w", e.ErrMissingFields)
	case p.ExternalID == "" || p.Name == "":
		return fmt.Errorf("product %q: %w", p.ExternalID, e.ErrMissingFields)
	case p.Category == "":
		return fmt.Errorf("product %s: %w", p.ExternalID, e.ErrCategoryRequired)
	case p.Price.IsNegative():
		return fmt.Errorf("product %s: %w", p.ExternalID, e.ErrInvalidPrice)
	}

	return nil
}
