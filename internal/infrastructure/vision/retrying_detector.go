package vision

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/jitter"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
)

// RetryingDetector повторяет вызов детектора с экспоненциальной задержкой и jitter.
type RetryingDetector struct {
	next    usecase.VisionDetector
	backoff jitter.Backoff
	logger  logger.Logger
}

func NewRetryingDetector(next usecase.VisionDetector, maxRetries int, logger logger.Logger) *RetryingDetector {
	return &RetryingDetector{
		next: next,
		backoff: jitter.Backoff{
			Base:     500 * time.Millisecond,
			Max:      5 * time.Second,
			Factor:   jitter.DefaultJitter,
			Attempts: max(maxRetries, 1),
		},
		logger: logger,
	}
}

func (r *RetryingDetector) Detect(ctx context.Context, imageKey string) ([]domain.Detection, error) {
	const op = "RetryingDetector.Detect"

	var lastErr error
	for attempt := range r.backoff.Attempts {
		detections, err := r.next.Detect(ctx, imageKey)
		if err == nil {
			return detections, nil
		}
		lastErr = err

		if attempt == r.backoff.Attempts-1 {
			break
		}

		sleepTime := r.backoff.Delay(attempt)
		r.logger.Warnf("detection failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)

		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", r.backoff.Attempts, lastErr))
}

func (r *RetryingDetector) SupportedCategories() []string {
	return r.next.SupportedCategories()
}
