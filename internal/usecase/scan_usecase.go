package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/matching"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ScanUseCase обрабатывает фотографии комнат: детекция, подбор товаров, сохранение результата.
type ScanUseCase struct {
	scans     ScanRepository
	outbox    OutboxRepository
	images    ImagesInfra
	detector  VisionDetector
	embedder  matching.Embedder
	matcher   *MatchUseCase
	trManager TxManager
	encoder   EventEncoder
	metrics   MatchingMetrics
	cfg       *cfg.ScanCfg
	// maxConcurrent ограничивает число предметов, обрабатываемых одновременно
	maxConcurrent int
	log           logger.Logger
}

func NewScanUseCase(
	scans ScanRepository,
	outbox OutboxRepository,
	images ImagesInfra,
	detector VisionDetector,
	embedder matching.Embedder,
	matcher *MatchUseCase,
	trManager TxManager,
	encoder EventEncoder,
	metrics MatchingMetrics,
	scanCfg *cfg.ScanCfg,
	maxConcurrent int,
	log logger.Logger,
) *ScanUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}

	return &ScanUseCase{
		scans:         scans,
		outbox:        outbox,
		images:        images,
		detector:      detector,
		embedder:      embedder,
		matcher:       matcher,
		trManager:     trManager,
		encoder:       encoder,
		metrics:       metrics,
		cfg:           scanCfg,
		maxConcurrent: max(maxConcurrent, 1),
		log:           log,
	}
}

// CreateScan сохраняет фотографию, находит на ней мебель и подбирает товары для каждого предмета.
// Скан, предметы, совпадения и событие scan.completed записываются в одной транзакции.
// При ошибке после загрузки фотография удаляется.
func (u *ScanUseCase) CreateScan(ctx context.Context, req *CreateScanReq) (*domain.Scan, error) {
	const op = "ScanUseCase.CreateScan"

	if err := u.validateImage(&req.Image); err != nil {
		return nil, e.Wrap(op, err)
	}

	start := time.Now()
	scanID := uuid.NewString()

	key, err := u.images.UploadScanImage(ctx, NewUploadImageReq(scanID, req.Image))
	if err != nil {
		u.metrics.IncScan(domain.ScanFailed)
		return nil, e.Wrap(op, err)
	}

	scan, err := u.process(ctx, scanID, req.UserID, key, start)
	if err != nil {
		u.images.CleanupImages([]string{key})
		u.saveFailedScan(ctx, scanID, req.UserID, err)
		u.metrics.IncScan(domain.ScanFailed)
		return nil, e.Wrap(op, err)
	}

	u.metrics.IncScan(domain.ScanCompleted)
	u.log.Infof("scan %s completed: %d items in %d ms", scan.ID, scan.ItemCount, scan.ProcessingTimeMs)

	return scan, nil
}

func (u *ScanUseCase) validateImage(img *ScanImage) error {
	if len(img.Data) == 0 {
		return e.ErrNoImages
	}

	if !domain.IsSupportedImageType(img.MimeType) {
		return fmt.Errorf("%s: %w", img.MimeType, e.ErrUnsupportedMediaType)
	}

	if u.cfg != nil && img.Size > u.cfg.MaxImageSize {
		return fmt.Errorf("%d bytes: %w", img.Size, e.ErrFileTooLarge)
	}

	return nil
}

func (u *ScanUseCase) process(ctx context.Context, scanID, userID, imageKey string, start time.Time) (*domain.Scan, error) {
	detections, err := u.detector.Detect(ctx, imageKey)
	if err != nil {
		return nil, err
	}

	items, err := u.matchDetections(ctx, scanID, detections)
	if err != nil {
		return nil, err
	}

	completedAt := time.Now().UTC()
	scan := &domain.Scan{
		ID:               scanID,
		UserID:           userID,
		Status:           domain.ScanCompleted,
		ImageKey:         imageKey,
		ItemCount:        len(items),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		CreatedAt:        start.UTC(),
		CompletedAt:      &completedAt,
		Items:            items,
	}

	payload, err := u.encoder.EncodeScanCompleted(scan)
	if err != nil {
		return nil, err
	}

	err = u.trManager.Do(ctx, func(ctx context.Context) error {
		if err := u.scans.Create(ctx, scan); err != nil {
			return err
		}

		if err := u.scans.SaveItems(ctx, items); err != nil {
			return err
		}

		_, err := u.outbox.Create(ctx, NewOutboxEvent(uuid.NewString(), ScanCompleted, scanID, payload))
		return err
	})
	if err != nil {
		return nil, err
	}

	return scan, nil
}

// matchDetections обрабатывает предметы параллельно, результат упорядочен как detections.
func (u *ScanUseCase) matchDetections(ctx context.Context, scanID string, detections []domain.Detection) ([]domain.DetectedItem, error) {
	items := make([]domain.DetectedItem, len(detections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.maxConcurrent)

	for i, d := range detections {
		g.Go(func() error {
			item, err := u.matchDetection(gctx, scanID, d)
			if err != nil {
				return fmt.Errorf("detection %d (%s): %w", i, d.Category, err)
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

func (u *ScanUseCase) matchDetection(ctx context.Context, scanID string, d domain.Detection) (domain.DetectedItem, error) {
	vector, err := u.embedder.Embed(domain.EmbeddingText(d.Category))
	if err != nil {
		return domain.DetectedItem{}, err
	}

	ranked, _, err := u.matcher.MatchVector(ctx, d.Category, vector, u.matcher.ranker.MaxResults())
	if err != nil {
		return domain.DetectedItem{}, err
	}

	item := domain.DetectedItem{
		ID:         uuid.NewString(),
		ScanID:     scanID,
		Category:   d.Category,
		BBox:       d.BBox,
		Confidence: d.Confidence,
		Embedding:  vector,
		CreatedAt:  time.Now().UTC(),
		Matches:    make([]domain.ItemMatch, 0, len(ranked)),
	}

	for _, m := range ranked {
		match := domain.NewItemMatch(uuid.NewString(), item.ID, m)
		match.CreatedAt = item.CreatedAt
		item.Matches = append(item.Matches, match)
	}

	return item, nil
}

// saveFailedScan сохраняет скан со статусом failed, ошибки сохранения только логируются.
func (u *ScanUseCase) saveFailedScan(ctx context.Context, scanID, userID string, cause error) {
	now := time.Now().UTC()
	scan := &domain.Scan{
		ID:           scanID,
		UserID:       userID,
		Status:       domain.ScanFailed,
		ErrorMessage: cause.Error(),
		CreatedAt:    now,
		CompletedAt:  &now,
	}

	if err := u.scans.Create(context.WithoutCancel(ctx), scan); err != nil {
		u.log.Errorf(err, "failed to record failed scan %s", scanID)
	}
}

// GetScan возвращает скан с предметами и совпадениями.
// Чужой скан возвращает e.ErrForbidden.
func (u *ScanUseCase) GetScan(ctx context.Context, req *GetScanReq) (*domain.Scan, error) {
	const op = "ScanUseCase.GetScan"

	scan, err := u.scans.GetByID(ctx, req.ScanID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := checkOwner(scan, req.UserID); err != nil {
		return nil, e.Wrap(op, err)
	}

	return scan, nil
}

// ListScans возвращает страницу сканов пользователя, новые первыми.
func (u *ScanUseCase) ListScans(ctx context.Context, req *ListScansReq) (*ListScansRes, error) {
	const op = "ScanUseCase.ListScans"

	limit := req.Limit
	if limit == 0 {
		limit = u.cfg.DefaultListLimit
	}

	if req.Skip < 0 || limit < 0 || limit > u.cfg.MaxListLimit {
		return nil, e.Wrap(op, fmt.Errorf("skip=%d limit=%d: %w", req.Skip, req.Limit, e.ErrInvalidPagination))
	}

	scans, total, err := u.scans.List(ctx, req.UserID, req.Skip, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &ListScansRes{
		Scans: scans,
		Total: total,
		Skip:  req.Skip,
		Limit: limit,
	}, nil
}

// DeleteScan удаляет скан вместе с предметами и совпадениями, затем фотографию.
func (u *ScanUseCase) DeleteScan(ctx context.Context, req *DeleteScanReq) error {
	const op = "ScanUseCase.DeleteScan"

	scan, err := u.scans.GetByID(ctx, req.ScanID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := checkOwner(scan, req.UserID); err != nil {
		return e.Wrap(op, err)
	}

	payload, err := u.encoder.EncodeScanDeleted(scan.ID)
	if err != nil {
		return e.Wrap(op, err)
	}

	err = u.trManager.Do(ctx, func(ctx context.Context) error {
		if err := u.scans.Delete(ctx, scan.ID); err != nil {
			return err
		}

		_, err := u.outbox.Create(ctx, NewOutboxEvent(uuid.NewString(), ScanDeleted, scan.ID, payload))
		return err
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	if scan.ImageKey != "" {
		u.images.CleanupImages([]string{scan.ImageKey})
	}

	return nil
}

func checkOwner(scan *domain.Scan, userID string) error {
	if scan.UserID != "" && scan.UserID != userID {
		return fmt.Errorf("scan %s: %w", scan.ID, e.ErrForbidden)
	}

	return nil
}
