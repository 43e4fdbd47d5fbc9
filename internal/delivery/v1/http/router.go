package http

import (
	"net/http"

	_ "github.com/DRSN-tech/roomscan-backend/docs" // Регистрация swagger-спецификации
	"github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/infrastructure/metrics"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/time/rate"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Deps содержит зависимости для регистрации маршрутов.
type Deps struct {
	ScanUC         usecase.ScanUC
	MatchUC        usecase.MatchUC
	CatalogUC      usecase.CatalogUC
	HTTPCfg        *cfg.HTTPConfig
	ScanCfg        *cfg.ScanCfg
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func (r *Router) Init(deps *Deps) {
	r.router.Use(middleware.RequestID, middleware.Recoverer)
	if deps.HTTPMetrics != nil {
		r.router.Use(instrument(deps.HTTPMetrics))
	}

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if deps.MetricsHandler != nil {
		r.router.Handle("/metrics", deps.MetricsHandler)
	}

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	limiter := rate.NewLimiter(rate.Limit(deps.HTTPCfg.ScanRateLimit), deps.HTTPCfg.ScanRateBurst)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		scanHandler := NewScanHandler(deps.ScanUC, deps.ScanCfg.MaxImageSize, r.logger)
		registerScanRoutes(v1, scanHandler, rateLimit(limiter, r.logger))

		matchHandler := NewMatchHandler(deps.MatchUC, deps.CatalogUC, r.logger)
		registerMatchRoutes(v1, matchHandler)
	})
}

func registerScanRoutes(router chi.Router, h *ScanHandler, limit func(http.Handler) http.Handler) {
	router.Route("/scans", func(sc chi.Router) {
		sc.With(limit).Post("/", h.createScan)
		sc.Get("/", h.listScans)
		sc.Get("/{id}", h.getScan)
		sc.Delete("/{id}", h.deleteScan)
	})
}

func registerMatchRoutes(router chi.Router, h *MatchHandler) {
	router.Post("/matches", h.matchItem)
	router.Get("/categories", h.categoryStats)
}
