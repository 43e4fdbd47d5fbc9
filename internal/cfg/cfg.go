package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Minio    *MinIOCfg
	Http     *HTTPConfig
	Grpc     *GRPCConfig
	Db       *PGDBCfg
	Qdrant   *QdrantCfg
	Redis    *RedisCfg
	Kafka    *KafkaCfg
	Matching *MatchingCfg
	Scan     *ScanCfg
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	OutboxBatchSize   int
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки MinIO
	BucketName        string // Бакет для фотографий сканов
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// Лимит загрузок сканов в секунду на весь процесс
	ScanRateLimit float64
	ScanRateBurst int
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type QdrantCfg struct {
	Port                 int
	Host                 string
	ApiKey               string
	QdrantCollectionName string // имя коллекции с эмбеддингами товаров
	UseTLS               bool
	VectorSize           uint64
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	CatalogTTL  time.Duration
}

// MatchingCfg задаёт параметры подбора и ранжирования товаров.
type MatchingCfg struct {
	EmbeddingDimension    int
	TopTierSize           int
	BudgetDiscount        float64 // доля цены лучшего совпадения, ниже которой товар считается бюджетным
	BudgetMinSimilarity   float64
	MaxResults            int
	CandidateLimit        int
	EmbeddingCacheTTL     time.Duration
	MaxConcurrentMatching int
}

// ScanCfg ограничивает загружаемые фотографии и пагинацию.
type ScanCfg struct {
	MaxImageSize     int64
	DefaultListLimit int
	MaxListLimit     int
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	matching, err := loadMatchingCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log, matching.EmbeddingDimension)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	scan, err := loadScanCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:    minio,
		Http:     http,
		Grpc:     loadGRPCConfig(),
		Db:       db,
		Qdrant:   qdrant,
		Redis:    redis,
		Kafka:    kafka,
		Matching: matching,
		Scan:     scan,
	}, nil
}

// LoadCatalog загружает только то, что нужно для наполнения каталога: PostgreSQL, Qdrant, Redis и параметры эмбеддингов.
func LoadCatalog(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	matching, err := loadMatchingCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log, matching.EmbeddingDimension)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Db:       db,
		Qdrant:   qdrant,
		Redis:    redis,
		Matching: matching,
	}, nil
}

// DefaultMatchingCfg возвращает параметры ранжирования по умолчанию.
func DefaultMatchingCfg() *MatchingCfg {
	return &MatchingCfg{
		EmbeddingDimension:    512,
		TopTierSize:           5,
		BudgetDiscount:        0.8,
		BudgetMinSimilarity:   0.75,
		MaxResults:            6,
		CandidateLimit:        20,
		EmbeddingCacheTTL:     10 * time.Minute,
		MaxConcurrentMatching: 4,
	}
}

func loadMatchingCfg(log logger.Logger) (*MatchingCfg, error) {
	c := DefaultMatchingCfg()

	var err error
	if c.EmbeddingDimension, err = parseIntEnv("EMBEDDING_DIMENSION", c.EmbeddingDimension); err != nil {
		log.Errorf(err, "invalid EMBEDDING_DIMENSION")
		return nil, e.Wrap("EMBEDDING_DIMENSION", err)
	}

	if c.TopTierSize, err = parseIntEnv("MATCH_TOP_TIER", c.TopTierSize); err != nil {
		log.Errorf(err, "invalid MATCH_TOP_TIER")
		return nil, e.Wrap("MATCH_TOP_TIER", err)
	}

	if c.BudgetDiscount, err = parseFloatEnv("MATCH_BUDGET_DISCOUNT", c.BudgetDiscount); err != nil {
		log.Errorf(err, "invalid MATCH_BUDGET_DISCOUNT")
		return nil, e.Wrap("MATCH_BUDGET_DISCOUNT", err)
	}

	if c.BudgetMinSimilarity, err = parseFloatEnv("MATCH_BUDGET_MIN_SIMILARITY", c.BudgetMinSimilarity); err != nil {
		log.Errorf(err, "invalid MATCH_BUDGET_MIN_SIMILARITY")
		return nil, e.Wrap("MATCH_BUDGET_MIN_SIMILARITY", err)
	}

	if c.MaxResults, err = parseIntEnv("MATCH_MAX_RESULTS", c.MaxResults); err != nil {
		log.Errorf(err, "invalid MATCH_MAX_RESULTS")
		return nil, e.Wrap("MATCH_MAX_RESULTS", err)
	}

	if c.CandidateLimit, err = parseIntEnv("MATCH_CANDIDATE_LIMIT", c.CandidateLimit); err != nil {
		log.Errorf(err, "invalid MATCH_CANDIDATE_LIMIT")
		return nil, e.Wrap("MATCH_CANDIDATE_LIMIT", err)
	}

	if c.EmbeddingCacheTTL, err = parseDurationEnv("EMBEDDING_CACHE_TTL", c.EmbeddingCacheTTL); err != nil {
		log.Errorf(err, "invalid EMBEDDING_CACHE_TTL")
		return nil, e.Wrap("EMBEDDING_CACHE_TTL", err)
	}

	if c.MaxConcurrentMatching, err = parseIntEnv("MATCH_MAX_CONCURRENT", c.MaxConcurrentMatching); err != nil {
		log.Errorf(err, "invalid MATCH_MAX_CONCURRENT")
		return nil, e.Wrap("MATCH_MAX_CONCURRENT", err)
	}

	if err := c.Validate(); err != nil {
		log.Errorf(err, "invalid matching configuration")
		return nil, err
	}

	return c, nil
}

// Validate проверяет согласованность параметров ранжирования.
func (c *MatchingCfg) Validate() error {
	switch {
	case c.EmbeddingDimension <= 0:
		return fmt.Errorf("embedding dimension must be positive: %w", e.ErrInvalidArgument)
	case c.TopTierSize <= 0:
		return fmt.Errorf("top tier size must be positive: %w", e.ErrInvalidArgument)
	case c.BudgetDiscount <= 0 || c.BudgetDiscount > 1:
		return fmt.Errorf("budget discount must be in (0, 1]: %w", e.ErrInvalidArgument)
	case c.BudgetMinSimilarity < -1 || c.BudgetMinSimilarity > 1:
		return fmt.Errorf("budget similarity floor must be in [-1, 1]: %w", e.ErrInvalidArgument)
	case c.MaxResults < c.TopTierSize:
		return fmt.Errorf("max results must not be less than top tier size: %w", e.ErrInvalidArgument)
	case c.CandidateLimit <= 0:
		return fmt.Errorf("candidate limit must be positive: %w", e.ErrInvalidArgument)
	case c.MaxConcurrentMatching <= 0:
		return fmt.Errorf("max concurrent matching must be positive: %w", e.ErrInvalidArgument)
	}

	return nil
}

func loadScanCfg(log logger.Logger) (*ScanCfg, error) {
	const (
		defaultMaxImageSize = 10 << 20
		defaultListLimit    = 20
		defaultMaxListLimit = 100
	)

	maxSize, err := parseIntEnv("SCAN_MAX_IMAGE_SIZE", defaultMaxImageSize)
	if err != nil {
		log.Errorf(err, "invalid SCAN_MAX_IMAGE_SIZE")
		return nil, e.Wrap("SCAN_MAX_IMAGE_SIZE", err)
	}

	return &ScanCfg{
		MaxImageSize:     int64(maxSize),
		DefaultListLimit: defaultListLimit,
		MaxListLimit:     defaultMaxListLimit,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultTopic             = "scan-events"
		defaultOutboxBatchSize   = 10
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	batchSize, err := parseIntEnv("OUTBOX_BATCH_SIZE", defaultOutboxBatchSize)
	if err != nil {
		return nil, e.Wrap("OUTBOX_BATCH_SIZE", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		OutboxBatchSize:   batchSize,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
		defaultBucket   = "scans"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort          = "8080"
		defaultReadTimeout   = 15 * time.Second
		defaultWriteTimeout  = 30 * time.Second
		defaultIdleTimeout   = 60 * time.Second
		defaultScanRateLimit = 5.0
		defaultScanRateBurst = 10
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	rateLimit, err := parseFloatEnv("SCAN_RATE_LIMIT", defaultScanRateLimit)
	if err != nil {
		log.Errorf(err, "invalid SCAN_RATE_LIMIT")
		return nil, err
	}

	rateBurst, err := parseIntEnv("SCAN_RATE_BURST", defaultScanRateBurst)
	if err != nil {
		log.Errorf(err, "invalid SCAN_RATE_BURST")
		return nil, err
	}

	return &HTTPConfig{
		Port:          port,
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		IdleTimeout:   idleTimeout,
		ScanRateLimit: rateLimit,
		ScanRateBurst: rateBurst,
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

// loadQdrantCfg читает настройки Qdrant; размер вектора совпадает с размерностью эмбеддингов.
func loadQdrantCfg(log logger.Logger, vectorSize int) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = "6334"
		defaultUseTLS         = false
		defaultHost           = "localhost"
		defaultCollection     = "products"
	)

	port, err := strconv.Atoi(getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort))
	if err != nil {
		log.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		log.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	return &QdrantCfg{
		Host:                 getEnvOrDefault("QDRANT_HOST", defaultHost),
		Port:                 port,
		ApiKey:               getEnv("QDRANT__SERVICE__API_KEY"),
		QdrantCollectionName: getEnvOrDefault("COLLECTION_NAME", defaultCollection),
		UseTLS:               useTLS,
		VectorSize:           uint64(vectorSize),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultCatalogTTL   = 3 * time.Minute
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	catalogTTL, err := parseDurationEnv("CATALOG_TTL", defaultCatalogTTL)
	if err != nil {
		log.Errorf(err, "invalid CATALOG_TTL")
		return nil, err
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     max(readTimeout, writeTimeout),
		CatalogTTL:  catalogTTL,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	floatValue, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return floatValue, nil
}
