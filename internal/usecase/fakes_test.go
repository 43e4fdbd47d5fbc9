package usecase

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// unitVector возвращает вектор (cos a, sin a), его сходство с (1, 0) равно score.
func unitVector(score float64) domain.Vector {
	return domain.Vector{float32(score), float32(math.Sqrt(1 - score*score))}
}

func product(id, category, price string, inStock bool) domain.Product {
	return domain.Product{
		ID:         id,
		ExternalID: "ext-" + id,
		Name:       "name " + id,
		Brand:      "brand",
		Category:   category,
		Price:      decimal.RequireFromString(price),
		Currency:   domain.DefaultCurrency,
		InStock:    inStock,
	}
}

type fakeProducts struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	calls    int
	upserted []*domain.Product
}

func (f *fakeProducts) FindInStockByCategory(_ context.Context, category string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	var res []domain.Product
	for _, p := range f.products {
		if p.Category == category && p.InStock {
			res = append(res, p)
		}
	}
	return res, nil
}

func (f *fakeProducts) Upsert(_ context.Context, p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	saved := *p
	if saved.ID == "" {
		saved.ID = "id-" + p.ExternalID
	}
	f.upserted = append(f.upserted, &saved)
	return &saved, nil
}

func (f *fakeProducts) CountByCategory(context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	res := make(map[string]int)
	for _, p := range f.products {
		if p.InStock {
			res[p.Category]++
		}
	}
	return res, nil
}

type fakeEmbeddings struct {
	mu       sync.Mutex
	vectors  map[string]domain.Vector
	err      error
	upserted []domain.Embedding
}

func (f *fakeEmbeddings) Upsert(_ context.Context, embeddings []domain.Embedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, embeddings...)
	return nil
}

func (f *fakeEmbeddings) GetVectors(_ context.Context, ids []string) (map[string]domain.Vector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	res := make(map[string]domain.Vector, len(ids))
	for _, id := range ids {
		if v, ok := f.vectors[id]; ok {
			res[id] = v
		}
	}
	return res, nil
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]domain.Product
	getErr  error
	sets    int
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]domain.Product)}
}

func (f *fakeCache) GetCategory(_ context.Context, category string) ([]domain.Product, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	p, ok := f.data[category]
	return p, ok, nil
}

func (f *fakeCache) SetCategory(_ context.Context, category string, products []domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.data[category] = slices.Clone(products)
	return nil
}

func (f *fakeCache) DeleteCategories(_ context.Context, categories []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range categories {
		delete(f.data, c)
	}
	f.deleted = append(f.deleted, categories...)
	return nil
}

type fakeScans struct {
	mu        sync.Mutex
	scans     map[string]*domain.Scan
	items     []domain.DetectedItem
	createErr error
	deleted   []string
}

func newFakeScans() *fakeScans {
	return &fakeScans{scans: make(map[string]*domain.Scan)}
}

func (f *fakeScans) Create(_ context.Context, scan *domain.Scan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.scans[scan.ID] = scan
	return nil
}

func (f *fakeScans) SaveItems(_ context.Context, items []domain.DetectedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeScans) GetByID(_ context.Context, id string) (*domain.Scan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	scan, ok := f.scans[id]
	if !ok {
		return nil, fmt.Errorf("scan %s: %w", id, e.ErrScanNotFound)
	}
	return scan, nil
}

func (f *fakeScans) List(_ context.Context, userID string, skip, limit int) ([]domain.Scan, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []domain.Scan
	for _, s := range f.scans {
		if s.UserID == userID {
			all = append(all, *s)
		}
	}
	slices.SortFunc(all, func(a, b domain.Scan) int { return b.CreatedAt.Compare(a.CreatedAt) })

	total := len(all)
	if skip >= total {
		return []domain.Scan{}, total, nil
	}
	return all[skip:min(skip+limit, total)], total, nil
}

func (f *fakeScans) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scans, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (f *fakeOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutbox) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkAsProcessed(context.Context, int64) error {
	return nil
}

type fakeImages struct {
	mu        sync.Mutex
	uploadErr error
	uploaded  []string
	cleaned   []string
}

func (f *fakeImages) UploadScanImage(_ context.Context, req *UploadImageReq) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	key := "scans/" + req.ScanID + ".jpg"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, keys...)
}

type fakeDetector struct {
	detections []domain.Detection
	err        error
}

func (f *fakeDetector) Detect(context.Context, string) ([]domain.Detection, error) {
	return f.detections, f.err
}

func (f *fakeDetector) SupportedCategories() []string {
	return domain.SupportedCategories()
}

// fakeEmbedder возвращает (1, 0) для любого текста.
type fakeEmbedder struct {
	err error
}

func (f fakeEmbedder) Embed(string) (domain.Vector, error) {
	if f.err != nil {
		return nil, f.err
	}
	return domain.Vector{1, 0}, nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeEncoder struct{}

func (fakeEncoder) EncodeScanCompleted(scan *domain.Scan) ([]byte, error) {
	return []byte("completed:" + scan.ID), nil
}

func (fakeEncoder) EncodeScanDeleted(scanID string) ([]byte, error) {
	return []byte("deleted:" + scanID), nil
}
