// Package vision содержит детекторы мебели на фотографиях комнат.
package vision

import (
	"context"
	"crypto/md5"
	"encoding/binary"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
)

// StubDetector находит мебель детерминированно, без модели.
// Диван и журнальный столик находятся всегда, третий предмет зависит от чётности md5 ключа фотографии.
type StubDetector struct{}

func NewStubDetector() *StubDetector {
	return &StubDetector{}
}

func (d *StubDetector) Detect(ctx context.Context, imageKey string) ([]domain.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detections := []domain.Detection{
		domain.NewDetection(domain.CategorySofa, domain.BoundingBox{X: 0.15, Y: 0.35, Width: 0.50, Height: 0.40}, 0.95),
		domain.NewDetection(domain.CategoryCoffeeTable, domain.BoundingBox{X: 0.35, Y: 0.65, Width: 0.30, Height: 0.20}, 0.88),
	}

	if keySeed(imageKey)%2 == 0 {
		detections = append(detections,
			domain.NewDetection(domain.CategoryFloorLamp, domain.BoundingBox{X: 0.75, Y: 0.15, Width: 0.12, Height: 0.50}, 0.82))
	} else {
		detections = append(detections,
			domain.NewDetection(domain.CategoryTableLamp, domain.BoundingBox{X: 0.20, Y: 0.25, Width: 0.10, Height: 0.15}, 0.79))
	}

	return detections, nil
}

// SupportedCategories возвращает категории, которые умеет находить детектор.
func (d *StubDetector) SupportedCategories() []string {
	return domain.SupportedCategories()
}

func keySeed(key string) uint32 {
	sum := md5.Sum([]byte(key))
	return binary.BigEndian.Uint32(sum[:4])
}
