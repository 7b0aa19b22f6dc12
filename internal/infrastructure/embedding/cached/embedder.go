// Package cached memoizes query embeddings in a bounded LRU.
package cached

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kirillkom/resume-rag/internal/core/ports"
)

type Embedder struct {
	next    ports.EmbeddingProvider
	queries *lru.Cache[string, []float32]
}

func New(next ports.EmbeddingProvider, size int) (*Embedder, error) {
	if next == nil {
		return nil, fmt.Errorf("cached embedder: provider is nil")
	}
	queries, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create query embedding cache: %w", err)
	}
	return &Embedder{next: next, queries: queries}, nil
}

// EmbedBatch is not memoized; chunk vectors already live in the engine cache.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.next.EmbedBatch(ctx, texts)
}

func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.queries.Get(text); ok {
		return clone(vec), nil
	}
	vec, err := e.next.EmbedOne(ctx, text)
	if err != nil {
		return nil, err
	}
	e.queries.Add(text, clone(vec))
	return vec, nil
}

// Fingerprint delegates so the wrapper does not change cache identity.
func (e *Embedder) Fingerprint() string {
	if f, ok := e.next.(ports.EmbeddingFingerprinter); ok {
		return f.Fingerprint()
	}
	return ""
}

func (e *Embedder) Purge() {
	e.queries.Purge()
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
