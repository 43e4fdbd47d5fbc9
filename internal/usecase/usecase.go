package usecase

import (
	"context"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
)

type ScanUC interface {
	CreateScan(ctx context.Context, req *CreateScanReq) (*domain.Scan, error)
	GetScan(ctx context.Context, req *GetScanReq) (*domain.Scan, error)
	ListScans(ctx context.Context, req *ListScansReq) (*ListScansRes, error)
	DeleteScan(ctx context.Context, req *DeleteScanReq) error
}

type MatchUC interface {
	MatchItem(ctx context.Context, req *MatchItemReq) (*MatchItemRes, error)
}

type CatalogUC interface {
	SeedCatalog(ctx context.Context, products []*domain.Product) (*SeedCatalogRes, error)
	CategoryStats(ctx context.Context) (map[string]int, error)
}
