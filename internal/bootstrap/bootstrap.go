package bootstrap

import (
	"context"
	"fmt"

	"github.com/kirillkom/resume-rag/internal/config"
	"github.com/kirillkom/resume-rag/internal/core/domain"
	"github.com/kirillkom/resume-rag/internal/core/ports"
	"github.com/kirillkom/resume-rag/internal/core/usecase"
	"github.com/kirillkom/resume-rag/internal/infrastructure/cache/localfs"
	"github.com/kirillkom/resume-rag/internal/infrastructure/cache/memory"
	"github.com/kirillkom/resume-rag/internal/infrastructure/cache/natskv"
	"github.com/kirillkom/resume-rag/internal/infrastructure/cache/postgres"
	rediscache "github.com/kirillkom/resume-rag/internal/infrastructure/cache/redis"
	"github.com/kirillkom/resume-rag/internal/infrastructure/chunking"
	"github.com/kirillkom/resume-rag/internal/infrastructure/embedding/cached"
	"github.com/kirillkom/resume-rag/internal/infrastructure/embedding/hashing"
	"github.com/kirillkom/resume-rag/internal/infrastructure/embedding/ollama"
	"github.com/kirillkom/resume-rag/internal/infrastructure/extractor/resume"
	"github.com/kirillkom/resume-rag/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config
	Engine *usecase.ResumeEngine

	closeFns []func()
}

type Option func(*options)

type options struct {
	observer ports.EngineObserver
}

func WithObserver(observer ports.EngineObserver) Option {
	return func(o *options) {
		o.observer = observer
	}
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	policy := resilienceConfig(cfg.Resilience)

	embedder, err := newEmbedder(cfg, resilience.NewExecutor(policy))
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}

	store, closeStore, err := newCacheStore(ctx, cfg, resilience.NewExecutor(policy.ForCache()))
	if err != nil {
		return nil, fmt.Errorf("init cache store: %w", err)
	}

	engine := usecase.NewResumeEngine(
		chunking.NewResumeChunker(),
		embedder,
		store,
		resume.NewLoader(cfg.ResumePath),
		o.observer,
		domain.EngineLimits{
			ShortlistSize:       cfg.RAGShortlistSize,
			RerankTopK:          cfg.RAGRerankTopK,
			ConfidenceThreshold: float32(cfg.RAGConfidenceThreshold),
			CacheKey:            cfg.CacheKey,
			CacheTTL:            cfg.CacheTTL,
		},
	)

	app := &App{
		Config: cfg,
		Engine: engine,
	}
	if closeStore != nil {
		app.closeFns = append(app.closeFns, closeStore)
	}
	return app, nil
}

func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
}

func resilienceConfig(c config.ResilienceConfig) resilience.Config {
	return resilience.Config{
		RetryMaxAttempts:        c.RetryMaxAttempts,
		RetryInitialBackoff:     c.RetryInitialBackoff,
		RetryMaxBackoff:         c.RetryMaxBackoff,
		RetryMultiplier:         c.RetryMultiplier,
		AttemptTimeout:          c.AttemptTimeout,
		BreakerEnabled:          c.BreakerEnabled,
		BreakerMinRequests:      uint32(max(c.BreakerMinRequests, 0)),
		BreakerFailureRatio:     c.BreakerFailureRatio,
		BreakerOpenTimeout:      c.BreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: uint32(max(c.BreakerHalfOpenMaxCalls, 0)),
	}
}

func newEmbedder(cfg config.Config, executor *resilience.Executor) (ports.EmbeddingProvider, error) {
	var provider ports.EmbeddingProvider
	switch cfg.EmbeddingProvider {
	case "ollama":
		provider = ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel,
			ollama.WithExecutor(executor),
			ollama.WithBatching(cfg.EmbeddingBatchSize, cfg.EmbeddingConcurrency),
		)
	case "hashing", "":
		provider = hashing.New(cfg.EmbeddingDimension)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.EmbeddingProvider)
	}

	if cfg.QueryEmbeddingCacheSize <= 0 {
		return provider, nil
	}
	return cached.New(provider, cfg.QueryEmbeddingCacheSize)
}

func newCacheStore(ctx context.Context, cfg config.Config, executor *resilience.Executor) (ports.CacheStore, func(), error) {
	switch cfg.CacheBackend {
	case "memory":
		return memory.New(), nil, nil
	case "localfs", "":
		store, err := localfs.New(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case "redis":
		store, err := rediscache.New(ctx, rediscache.Options{
			Addr:               cfg.RedisAddr,
			Password:           cfg.RedisPassword,
			DB:                 cfg.RedisDB,
			TTL:                cfg.CacheTTL,
			ResilienceExecutor: executor,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		store := postgres.NewCacheStore(db, executor)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, func() { _ = db.Close() }, nil
	case "nats":
		store, err := natskv.New(ctx, cfg.NATSURL, natskv.Options{
			Bucket:             cfg.NATSKVBucket,
			TTL:                cfg.CacheTTL,
			ResilienceExecutor: executor,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}
}
