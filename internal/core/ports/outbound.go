package ports

import (
	"context"
	"time"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

// EmbeddingProvider maps text to dense vectors.
type EmbeddingProvider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingFingerprinter names the model and dimension behind a provider.
// Vectors are only comparable between providers with equal fingerprints.
type EmbeddingFingerprinter interface {
	Fingerprint() string
}

// QueryCachePurger drops memoized query vectors.
type QueryCachePurger interface {
	Purge()
}

// CacheStore is a key-value byte store. A missing key is (nil, false, nil).
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Chunker splits a résumé into overlapping passages.
type Chunker interface {
	Chunk(src domain.ResumeSource) []domain.Chunk
}

// ResumeLoader reads and parses the résumé from its physical location.
type ResumeLoader interface {
	Load(ctx context.Context) (domain.ResumeSource, error)
}

// EngineObserver receives engine lifecycle measurements.
type EngineObserver interface {
	ObserveInitialize(duration time.Duration, cacheHit bool, err error)
	ObserveSearch(duration time.Duration, answer *domain.Answer, err error)
}
