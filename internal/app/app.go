// Package app wires config, storage backend, upstream client, and the
// httpapi router into one http.Handler (spec §1, §4.1, §4.3).
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/derekfrye/rusty-golf-sub001/internal/config"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/storage"
	kvobjectrepo "github.com/derekfrye/rusty-golf-sub001/internal/infrastructure/repository/kvobject"
	postgresrepo "github.com/derekfrye/rusty-golf-sub001/internal/infrastructure/repository/postgres"
	"github.com/derekfrye/rusty-golf-sub001/internal/interfaces/httpapi"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/resilience"

	"github.com/derekfrye/rusty-golf-sub001/external/upstream"
)

// NewHTTPHandler builds the storage backend selected by cfg.StorageBackend
// (spec §4.1), the blocking-HTTP upstream client (spec §4.3, the
// long-running server deployment shape), and the httpapi router over
// both. The returned closer releases whatever the backend opened (a
// *sql.DB or a *redis.Client).
func NewHTTPHandler(cfg config.Config, logger *logging.Logger) (http.Handler, func() error, error) {
	store, closer, err := newStorage(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := upstream.NewHTTPClient(upstream.HTTPClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.UpstreamTimeout},
		FanOut:     cfg.UpstreamFanoutWidth,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: cfg.UpstreamCircuitFailureCount,
			OpenTimeout:      cfg.UpstreamCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.UpstreamCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(store, client, logger, cfg.AdminAuthTokens, time.Now, cfg.EventListingsCacheTTL)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		CORSAllowedOrigins: []string{"*"},
		Logger:             logger,
	})

	return router, closer, nil
}

// NewServerlessStorage builds the same storage backend NewHTTPHandler
// would, exported for cmd/serverless's per-invocation wiring (spec §4.3's
// serverless deployment shape has no long-lived process to build it once).
func NewServerlessStorage(cfg config.Config) (storage.Storage, func() error, error) {
	return newStorage(cfg)
}

// NewServerlessUpstreamClient builds the lighter, non-pooled upstream
// client for the serverless deployment shape (spec §4.3): no
// circuit-breaker machinery, since a failed invocation is itself retried
// by the serverless host.
func NewServerlessUpstreamClient(cfg config.Config) upstream.Client {
	return upstream.NewFetchClient(upstream.FetchClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.UpstreamTimeout},
		Timeout:    cfg.UpstreamTimeout,
		FanOut:     cfg.UpstreamFanoutWidth,
	})
}

func newStorage(cfg config.Config) (storage.Storage, func() error, error) {
	switch cfg.StorageBackend {
	case config.StorageKvObject:
		return newKvObjectStorage(cfg)
	default:
		return newSQLStorage(cfg)
	}
}

func newSQLStorage(cfg config.Config) (storage.Storage, func() error, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	return postgresrepo.NewRepository(db), db.Close, nil
}

func newKvObjectStorage(cfg config.Config) (storage.Storage, func() error, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.ObjectStoreRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.ObjectStoreAccessKeyID, cfg.ObjectStoreSecretAccessKey, "",
		)),
	)
	if err != nil {
		_ = redisClient.Close()
		return nil, nil, fmt.Errorf("load object store config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ObjectStoreEndpoint != "" {
			o.BaseEndpoint = &cfg.ObjectStoreEndpoint
			o.UsePathStyle = true
		}
	})
	objectStore := kvobjectrepo.NewS3ObjectStore(s3Client, cfg.ObjectStoreBucket)

	repo := kvobjectrepo.NewRepository(redisClient, objectStore, logging.Default())
	return repo, redisClient.Close, nil
}
