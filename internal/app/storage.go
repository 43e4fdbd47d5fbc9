package app

import (
	"context"
	"time"

	config "github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/matching"
	"github.com/DRSN-tech/roomscan-backend/internal/repository/pgdb"
	qdrantRepo "github.com/DRSN-tech/roomscan-backend/internal/repository/qdrant"
	redisRepo "github.com/DRSN-tech/roomscan-backend/internal/repository/redis"
	"github.com/DRSN-tech/roomscan-backend/pkg/clients"
	"github.com/DRSN-tech/roomscan-backend/pkg/closer"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/DRSN-tech/roomscan-backend/pkg/postgres"
	"github.com/DRSN-tech/roomscan-backend/pkg/tr"
	"github.com/jimlawless/whereami"
)

// Storage объединяет хранилища каталога, общие для сервиса и сидера.
type Storage struct {
	DB         *postgres.PgDatabase
	TrManager  *tr.Manager
	Products   *pgdb.ProductRepo
	Embeddings *qdrantRepo.EmbeddingRepo
	Cache      *redisRepo.CacheRepo
	Redis      *clients.RedisClient
}

// OpenStorage подключается к PostgreSQL, Qdrant и Redis и регистрирует их закрытие в c.
func OpenStorage(ctx context.Context, cfg *config.Config, log logger.Logger, c *closer.Closer) (*Storage, error) {
	db, err := initPGDB(ctx, log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	c.AddFunc("postgres", func() error {
		db.Close()
		return nil
	})

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	c.AddFunc("qdrant", qdrantClient.Close)

	qdrantCtx, qdrantCancel := context.WithTimeout(ctx, 10*time.Second)
	defer qdrantCancel()
	if err := clients.EnsureCollection(qdrantCtx, qdrantClient); err != nil {
		log.Errorf(err, "failed to initialize qdrant collection")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	c.AddFunc("redis", redisClient.Close)

	redisCtx, redisCancel := context.WithTimeout(ctx, 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Storage{
		DB:         db,
		TrManager:  tr.NewManager(db.Pool),
		Products:   pgdb.NewProductRepo(db.Pool),
		Embeddings: qdrantRepo.NewEmbeddingRepo(qdrantClient.Client, cfg.Qdrant),
		Cache:      redisRepo.NewCacheRepo(redisClient, cfg.Redis, matching.ModelVersion, log),
		Redis:      redisClient,
	}, nil
}

// NewEmbedder возвращает генератор эмбеддингов с in-memory кэшем текстов.
func NewEmbedder(cfg *config.MatchingCfg) *matching.CachedEmbedder {
	return matching.NewCachedEmbedder(matching.NewGenerator(cfg.EmbeddingDimension), cfg.EmbeddingCacheTTL)
}

func initPGDB(ctx context.Context, log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log, postgres.DefaultMigrationsURL); err != nil {
		log.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
