package usecase

import (
	"context"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
)

// ProductRepository хранит каталог товаров. При подборе только читается, пишется при наполнении каталога.
type ProductRepository interface {
	FindInStockByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// EmbeddingRepository хранит векторы товаров.
type EmbeddingRepository interface {
	Upsert(ctx context.Context, embeddings []domain.Embedding) error
	GetVectors(ctx context.Context, productIDs []string) (map[string]domain.Vector, error)
}

// CatalogCacheRepository кэширует снимок категории каталога вместе с эмбеддингами.
type CatalogCacheRepository interface {
	GetCategory(ctx context.Context, category string) ([]domain.Product, bool, error)
	SetCategory(ctx context.Context, category string, products []domain.Product) error
	DeleteCategories(ctx context.Context, categories []string) error
}

type ScanRepository interface {
	Create(ctx context.Context, scan *domain.Scan) error
	SaveItems(ctx context.Context, items []domain.DetectedItem) error
	GetByID(ctx context.Context, id string) (*domain.Scan, error)
	List(ctx context.Context, userID string, skip, limit int) ([]domain.Scan, int, error)
	Delete(ctx context.Context, id string) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
