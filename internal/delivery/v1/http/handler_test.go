package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "7f1c2f0e-6a3b-4d0f-9a51-2f6c1e0b8c11"

// минимальный PNG, DetectContentType распознаёт его по сигнатуре
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeScanUC struct {
	created *usecase.CreateScanReq
	getReq  *usecase.GetScanReq
	listReq *usecase.ListScansReq
	err     error
}

func (f *fakeScanUC) CreateScan(_ context.Context, req *usecase.CreateScanReq) (*domain.Scan, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return sampleScan(req.UserID), nil
}

func (f *fakeScanUC) GetScan(_ context.Context, req *usecase.GetScanReq) (*domain.Scan, error) {
	f.getReq = req
	if f.err != nil {
		return nil, f.err
	}
	return sampleScan(req.UserID), nil
}

func (f *fakeScanUC) ListScans(_ context.Context, req *usecase.ListScansReq) (*usecase.ListScansRes, error) {
	f.listReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.ListScansRes{Scans: []domain.Scan{*sampleScan(req.UserID)}, Total: 1, Skip: req.Skip, Limit: 20}, nil
}

func (f *fakeScanUC) DeleteScan(context.Context, *usecase.DeleteScanReq) error {
	return f.err
}

type fakeMatchUC struct {
	req *usecase.MatchItemReq
	err error
}

func (f *fakeMatchUC) MatchItem(_ context.Context, req *usecase.MatchItemReq) (*usecase.MatchItemRes, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	product := domain.Product{ID: "p1", Name: "Harbor Sofa", Category: req.Category, Price: decimal.RequireFromString("499.00"), Currency: "USD"}
	matches := []domain.RankedMatch{domain.NewRankedMatch(domain.NewCandidate(product, 0.91234), 1, false)}
	return usecase.NewMatchItemRes(req.Category, 1, matches), nil
}

type fakeCatalogUC struct{}

func (fakeCatalogUC) SeedCatalog(context.Context, []*domain.Product) (*usecase.SeedCatalogRes, error) {
	return &usecase.SeedCatalogRes{}, nil
}

func (fakeCatalogUC) CategoryStats(context.Context) (map[string]int, error) {
	return map[string]int{domain.CategorySofa: 3}, nil
}

func sampleScan(userID string) *domain.Scan {
	product := &domain.Product{ID: "p1", Name: "Harbor Sofa", Price: decimal.RequireFromString("1299.99"), Currency: "USD"}
	return &domain.Scan{
		ID:        "scan-1",
		UserID:    userID,
		Status:    domain.ScanCompleted,
		ItemCount: 1,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Items: []domain.DetectedItem{{
			ID:         "item-1",
			Category:   domain.CategorySofa,
			BBox:       domain.BoundingBox{X: 0.15, Y: 0.35, Width: 0.5, Height: 0.4},
			Confidence: 0.95,
			Matches: []domain.ItemMatch{
				{ProductID: "p1", Rank: 1, SimilarityScore: 0.912, Product: product},
			},
		}},
	}
}

type testServer struct {
	handler http.Handler
	scans   *fakeScanUC
	matches *fakeMatchUC
}

func newTestServer(t *testing.T, burst int) *testServer {
	t.Helper()

	ts := &testServer{scans: &fakeScanUC{}, matches: &fakeMatchUC{}}
	mux := chi.NewRouter()
	NewRouter(mux, logger.NewNopLogger()).Init(&Deps{
		ScanUC:    ts.scans,
		MatchUC:   ts.matches,
		CatalogUC: fakeCatalogUC{},
		HTTPCfg:   &cfg.HTTPConfig{ScanRateLimit: 0.001, ScanRateBurst: burst},
		ScanCfg:   &cfg.ScanCfg{MaxImageSize: 1 << 10},
	})
	ts.handler = mux
	return ts
}

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, "room.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{e.ErrNoImages, http.StatusBadRequest},
		{e.Wrap("op", e.ErrCategoryRequired), http.StatusBadRequest},
		{e.ErrInvalidPagination, http.StatusBadRequest},
		{e.ErrInvalidUserID, http.StatusBadRequest},
		{fmt.Errorf("scan x: %w", e.ErrForbidden), http.StatusForbidden},
		{e.ErrScanNotFound, http.StatusNotFound},
		{e.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{e.ErrTooManyRequests, http.StatusTooManyRequests},
		{fmt.Errorf("%w: %w", e.ErrCatalogUnavailable, fmt.Errorf("dial")), http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			code, _ := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestCreateScan(t *testing.T) {
	ts := newTestServer(t, 10)
	body, contentType := multipartBody(t, scanImageField, pngHeader)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(userIDHeader, testUserID)
	rec := ts.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, ts.scans.created)
	assert.Equal(t, testUserID, ts.scans.created.UserID)
	assert.Equal(t, "image/png", ts.scans.created.Image.MimeType)
	assert.Equal(t, int64(len(pngHeader)), ts.scans.created.Image.Size)

	var res ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "scan-1", res.ScanID)
	require.Len(t, res.DetectedItems, 1)
	require.Len(t, res.DetectedItems[0].Matches, 1)
	assert.Equal(t, "1299.99", res.DetectedItems[0].Matches[0].Price.StringFixed(2))
}

func TestCreateScan_Validation(t *testing.T) {
	t.Run("not multipart", func(t *testing.T) {
		ts := newTestServer(t, 10)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusBadRequest, ts.do(req).Code)
	})

	t.Run("no image field", func(t *testing.T) {
		ts := newTestServer(t, 10)
		body, contentType := multipartBody(t, "other", pngHeader)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/", body)
		req.Header.Set("Content-Type", contentType)
		assert.Equal(t, http.StatusBadRequest, ts.do(req).Code)
	})

	t.Run("too large", func(t *testing.T) {
		ts := newTestServer(t, 10)
		body, contentType := multipartBody(t, scanImageField, bytes.Repeat([]byte{0x89}, 2<<10))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/", body)
		req.Header.Set("Content-Type", contentType)
		assert.Equal(t, http.StatusRequestEntityTooLarge, ts.do(req).Code)
	})

	t.Run("bad user id", func(t *testing.T) {
		ts := newTestServer(t, 10)
		body, contentType := multipartBody(t, scanImageField, pngHeader)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(userIDHeader, "not-a-uuid")
		assert.Equal(t, http.StatusBadRequest, ts.do(req).Code)
		assert.Nil(t, ts.scans.created)
	})

	t.Run("use case error", func(t *testing.T) {
		ts := newTestServer(t, 10)
		ts.scans.err = e.ErrUnsupportedMediaType
		body, contentType := multipartBody(t, scanImageField, []byte("plain text"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/", body)
		req.Header.Set("Content-Type", contentType)
		assert.Equal(t, http.StatusUnsupportedMediaType, ts.do(req).Code)
	})
}

func TestCreateScan_RateLimited(t *testing.T) {
	ts := newTestServer(t, 1)

	codes := make([]int, 0, 2)
	for range 2 {
		body, contentType := multipartBody(t, scanImageField, pngHeader)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/", body)
		req.Header.Set("Content-Type", contentType)
		codes = append(codes, ts.do(req).Code)
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestGetScan(t *testing.T) {
	ts := newTestServer(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scans/scan-1", nil)
	req.Header.Set(userIDHeader, testUserID)
	rec := ts.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "scan-1", ts.scans.getReq.ScanID)
	assert.Equal(t, testUserID, ts.scans.getReq.UserID)
}

func TestGetScan_Errors(t *testing.T) {
	ts := newTestServer(t, 10)

	ts.scans.err = e.ErrScanNotFound
	assert.Equal(t, http.StatusNotFound, ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/scans/x", nil)).Code)

	ts.scans.err = fmt.Errorf("scan x: %w", e.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/scans/x", nil)).Code)
}

func TestListScans(t *testing.T) {
	ts := newTestServer(t, 10)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/scans/?skip=5&limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, ts.scans.listReq.Skip)
	assert.Equal(t, 10, ts.scans.listReq.Limit)

	var res ScanListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 5, res.Skip)
	require.Len(t, res.Scans, 1)
}

func TestListScans_BadQuery(t *testing.T) {
	ts := newTestServer(t, 10)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/scans/?limit=ten", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, ts.scans.listReq)
}

func TestDeleteScan(t *testing.T) {
	ts := newTestServer(t, 10)
	assert.Equal(t, http.StatusNoContent, ts.do(httptest.NewRequest(http.MethodDelete, "/api/v1/scans/scan-1", nil)).Code)

	ts.scans.err = e.ErrScanNotFound
	assert.Equal(t, http.StatusNotFound, ts.do(httptest.NewRequest(http.MethodDelete, "/api/v1/scans/scan-1", nil)).Code)
}

func TestMatchItem(t *testing.T) {
	ts := newTestServer(t, 10)

	body := strings.NewReader(`{"category":"sofa","query":"grey velvet sofa","limit":3}`)
	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/matches", body))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, &usecase.MatchItemReq{Category: "sofa", Query: "grey velvet sofa", Limit: 3}, ts.matches.req)

	var res MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Matches, 1)
	assert.InDelta(t, 0.912, res.Matches[0].SimilarityScore, 1e-9)
	assert.Equal(t, 1, res.Matches[0].Rank)
}

func TestMatchItem_Errors(t *testing.T) {
	ts := newTestServer(t, 10)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/matches", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.matches.err = fmt.Errorf("%w: %w", e.ErrCatalogUnavailable, fmt.Errorf("connection refused"))
	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/matches", strings.NewReader(`{"category":"sofa"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCategoryStats(t *testing.T) {
	ts := newTestServer(t, 10)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res CategoryStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Categories[domain.CategorySofa])
}
