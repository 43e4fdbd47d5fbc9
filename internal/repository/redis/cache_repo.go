package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/roomscan-backend/pkg/clients"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует снимки категорий каталога вместе с эмбеддингами товаров.
type CacheRepo struct {
	client       *clients.RedisClient
	cfg          *cfg.RedisCfg
	modelVersion string
	logger       logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, modelVersion string, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client:       client,
		cfg:          cfg,
		modelVersion: modelVersion,
		logger:       logger,
	}
}

// GetCategory возвращает снимок категории. Битый или устаревший снимок считается промахом.
func (c *CacheRepo) GetCategory(ctx context.Context, category string) ([]domain.Product, bool, error) {
	key := categoryKey(category)

	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, false, nil
		}
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	products, ok, err := decodeSnapshot(data, category, c.modelVersion)
	if err != nil || !ok {
		if err != nil {
			c.logger.Warnf("catalog snapshot %s is broken: %v", key, err)
		}
		if err := c.client.Client.Del(ctx, key).Err(); err != nil {
			c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, false, nil
	}

	return products, true, nil
}

// SetCategory сохраняет снимок категории с TTL из конфигурации.
func (c *CacheRepo) SetCategory(ctx context.Context, category string, products []domain.Product) error {
	data, err := encodeSnapshot(category, c.modelVersion, products)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, categoryKey(category), data, c.cfg.CatalogTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteCategories удаляет снимки категорий.
func (c *CacheRepo) DeleteCategories(ctx context.Context, categories []string) error {
	if len(categories) == 0 {
		return nil
	}

	keys := make([]string, len(categories))
	for i, category := range categories {
		keys[i] = categoryKey(category)
	}

	if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func encodeSnapshot(category, modelVersion string, products []domain.Product) ([]byte, error) {
	return json.Marshal(converter.CategorySnapshotRedisModel{
		Category:     category,
		ModelVersion: modelVersion,
		Products:     converter.ToArrRedisModel(products),
	})
}

// decodeSnapshot возвращает ok=false, если снимок принадлежит другой категории или версии модели.
func decodeSnapshot(data []byte, category, modelVersion string) ([]domain.Product, bool, error) {
	var snapshot converter.CategorySnapshotRedisModel
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false, err
	}

	if snapshot.Category != category || snapshot.ModelVersion != modelVersion {
		return nil, false, nil
	}

	products, err := converter.ToArrEntity(snapshot.Products)
	if err != nil {
		return nil, false, err
	}

	return products, true, nil
}

// categoryKey возвращает Redis-ключ снимка категории
func categoryKey(category string) string {
	return fmt.Sprintf("catalog:category:%s", category)
}
