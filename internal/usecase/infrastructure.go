package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
)

// VisionDetector находит предметы мебели на сохранённой фотографии.
type VisionDetector interface {
	Detect(ctx context.Context, imageKey string) ([]domain.Detection, error)
	SupportedCategories() []string
}

type ImagesInfra interface {
	UploadScanImage(ctx context.Context, req *UploadImageReq) (string, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует события для outbox.
type EventEncoder interface {
	EncodeScanCompleted(scan *domain.Scan) ([]byte, error)
	EncodeScanDeleted(scanID string) ([]byte, error)
}

// TxManager выполняет fn в одной транзакции.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// CandidateFinder ищет кандидатов для предмета.
type CandidateFinder interface {
	FindCandidates(ctx context.Context, category string, item domain.Vector, limit int) ([]domain.Candidate, error)
}

// MatchingMetrics собирает метрики подбора.
type MatchingMetrics interface {
	ObserveRanking(category string, candidates int, budget bool, took time.Duration)
	IncCatalogCache(hit bool)
	IncScan(status domain.ScanStatus)
}

type nopMetrics struct{}

func (nopMetrics) ObserveRanking(string, int, bool, time.Duration) {}
func (nopMetrics) IncCatalogCache(bool)                           {}
func (nopMetrics) IncScan(domain.ScanStatus)                      {}

// NopMetrics возвращает MatchingMetrics, который ничего не делает.
func NopMetrics() MatchingMetrics {
	return nopMetrics{}
}
