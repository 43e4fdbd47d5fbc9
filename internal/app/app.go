package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/roomscan-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/roomscan-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/roomscan-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/roomscan-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/roomscan-backend/internal/infrastructure/metrics"
	minioInfra "github.com/DRSN-tech/roomscan-backend/internal/infrastructure/minio"
	"github.com/DRSN-tech/roomscan-backend/internal/infrastructure/vision"
	"github.com/DRSN-tech/roomscan-backend/internal/matching"
	s3Repo "github.com/DRSN-tech/roomscan-backend/internal/repository/minio"
	"github.com/DRSN-tech/roomscan-backend/internal/repository/pgdb"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/clients"
	"github.com/DRSN-tech/roomscan-backend/pkg/closer"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout  = 15 * time.Second
	startupTimeout   = 30 * time.Second
	topicTimeout     = 10 * time.Second
	visionMaxRetries = 3
)

type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	baseCtx context.Context
	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	outbox  *kafka.OutboxWorker
}

// NewApp поднимает все зависимости сервиса. При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	baseCtx, baseCancel := context.WithCancel(context.Background())

	a := &App{
		cfg:     cfg,
		logger:  log,
		closer:  closer.NewCloser(5 * time.Second),
		baseCtx: baseCtx,
	}
	// контекст фоновых задач отменяется последним
	a.closer.AddFunc("background", func() error {
		baseCancel()
		return nil
	})

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			log.Warnf("cleanup after failed start: %v", closeErr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(a.baseCtx, startupTimeout)
	defer cancel()

	storage, err := OpenStorage(ctx, a.cfg, a.logger, a.closer)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	imagesInfra := minioInfra.NewMinioInfrastructure(s3Repo.NewImageRepo(minioClient, a.cfg.Minio), a.cfg.Minio, a.logger, a.baseCtx)
	a.closer.Add("minio cleanup", imagesInfra.WaitForCleanup)

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.AddFunc("kafka producer", producer.Close)
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		a.logger.Errorf(err, "failed to ensure kafka topic")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	appMetrics, err := metrics.New()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	outboxRepo := pgdb.NewOutboxEventRepo(storage.DB.Pool)
	a.outbox = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, storage.DB.Dsn, pgdb.OutboxNotifyChannel, a.cfg.Kafka.OutboxBatchSize)
	a.closer.Add("outbox worker", a.outbox.Close)

	embedder := NewEmbedder(a.cfg.Matching)
	retriever := usecase.NewCandidateRetriever(storage.Products, storage.Embeddings, storage.Cache, appMetrics.Matching, a.logger)
	matchUC := usecase.NewMatchUseCase(embedder, retriever, matching.NewRanker(a.cfg.Matching), a.cfg.Matching.CandidateLimit, appMetrics.Matching, a.logger)

	detector := vision.NewRetryingDetector(vision.NewStubDetector(), visionMaxRetries, a.logger)
	scanUC := usecase.NewScanUseCase(
		pgdb.NewScanRepo(storage.DB.Pool),
		outboxRepo,
		imagesInfra,
		detector,
		embedder,
		matchUC,
		storage.TrManager,
		kafka.NewScanEventEncoder(),
		appMetrics.Matching,
		a.cfg.Scan,
		a.cfg.Matching.MaxConcurrentMatching,
		a.logger,
	)

	catalogUC := usecase.NewCatalogUseCase(storage.Products, storage.Embeddings, storage.Cache, embedder, storage.TrManager, matching.ModelVersion, a.logger)

	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices(matchUC)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(&v1Http.Deps{
		ScanUC:         scanUC,
		MatchUC:        matchUC,
		CatalogUC:      catalogUC,
		HTTPCfg:        a.cfg.Http,
		ScanCfg:        a.cfg.Scan,
		HTTPMetrics:    appMetrics.HTTP,
		MetricsHandler: appMetrics.Handler(),
	})
	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и фоновые задачи и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	a.outbox.Start(a.baseCtx)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("shutdown completed with errors: %v", err)
		if !errors.Is(err, context.DeadlineExceeded) {
			appErr = errors.Join(appErr, err)
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}
