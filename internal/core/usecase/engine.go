package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/resume-rag/internal/core/domain"
	"github.com/kirillkom/resume-rag/internal/core/ports"
)

const (
	DefaultShortlistSize = 12
	DefaultRerankTopK    = 4
)

// ResumeEngine answers questions about a single résumé. Initialize publishes
// an immutable snapshot; Search reads it without holding locks, so
// overlapping searches are independent and may complete in any order.
type ResumeEngine struct {
	chunker  ports.Chunker
	embedder ports.EmbeddingProvider
	cache    ports.CacheStore
	loader   ports.ResumeLoader
	observer ports.EngineObserver
	synth    *Synthesizer
	limits   domain.EngineLimits
	now      func() time.Time

	initMu sync.Mutex
	mu     sync.RWMutex
	state  *engineState
}

type engineState struct {
	source     domain.ResumeSource
	hash       string
	chunks     []domain.Chunk
	embeddings [][]float32
	index      *LexicalIndex
	cacheHit   bool
}

func NewResumeEngine(
	chunker ports.Chunker,
	embedder ports.EmbeddingProvider,
	cache ports.CacheStore,
	loader ports.ResumeLoader,
	observer ports.EngineObserver,
	limits domain.EngineLimits,
) *ResumeEngine {
	if limits.ShortlistSize <= 0 {
		limits.ShortlistSize = DefaultShortlistSize
	}
	if limits.RerankTopK <= 0 {
		limits.RerankTopK = DefaultRerankTopK
	}
	if limits.ConfidenceThreshold <= 0 {
		limits.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if strings.TrimSpace(limits.CacheKey) == "" {
		limits.CacheKey = DefaultCacheKey
	}
	if limits.CacheTTL <= 0 {
		limits.CacheTTL = DefaultCacheTTL
	}

	return &ResumeEngine{
		chunker:  chunker,
		embedder: embedder,
		cache:    cache,
		loader:   loader,
		observer: observer,
		synth:    NewSynthesizer(limits.ConfidenceThreshold),
		limits:   limits,
		now:      time.Now,
	}
}

func (e *ResumeEngine) Initialize(ctx context.Context, src domain.ResumeSource) (err error) {
	start := time.Now()
	cacheHit := false
	defer func() {
		if e.observer != nil {
			e.observer.ObserveInitialize(time.Since(start), cacheHit, err)
		}
	}()

	if err := src.Validate(); err != nil {
		return err
	}

	e.initMu.Lock()
	defer e.initMu.Unlock()

	hash, err := src.ContentHash()
	if err != nil {
		return err
	}
	chunks := e.chunker.Chunk(src)

	embeddings, cacheHit := e.loadCached(ctx, hash, chunks)
	if !cacheHit {
		embeddings, err = e.embedChunks(ctx, chunks)
		if err != nil {
			return err
		}
		e.storeCached(ctx, hash, chunks, embeddings)
	}

	state := &engineState{
		source:     src,
		hash:       hash,
		chunks:     chunks,
		embeddings: embeddings,
		index:      NewLexicalIndex(chunks),
		cacheHit:   cacheHit,
	}
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()

	slog.Info("resume_initialized",
		"source_kind", string(src.Kind),
		"chunks", len(chunks),
		"cache_hit", cacheHit,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return nil
}

func (e *ResumeEngine) Search(ctx context.Context, query string) (answer *domain.Answer, err error) {
	start := time.Now()
	defer func() {
		if e.observer != nil {
			e.observer.ObserveSearch(time.Since(start), answer, err)
		}
	}()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", fmt.Errorf("query is required"))
	}

	state := e.snapshot()
	if state == nil {
		return nil, domain.WrapError(domain.ErrNotInitialized, "search", fmt.Errorf("initialize has not completed"))
	}

	shortlist := state.index.Shortlist(query, e.limits.ShortlistSize)
	var results []domain.SearchResult
	if len(shortlist) > 0 {
		queryVector, err := e.embedder.EmbedOne(ctx, query)
		if err != nil {
			return nil, wrapEmbeddingError("embed query", err)
		}
		results = Rerank(queryVector, shortlist, state.chunks, state.embeddings, e.limits.RerankTopK)
	}

	out := e.synth.Synthesize(query, results, state.source)
	var top float32
	if len(results) > 0 {
		top = results[0].SimilarityScore
	}
	slog.Debug("resume_search",
		"shortlist", len(shortlist),
		"results", len(results),
		"top_similarity", top,
		"confidence", out.Confidence,
		"citations", out.Citations,
	)
	return &out, nil
}

// Reload re-reads the résumé through the configured loader.
func (e *ResumeEngine) Reload(ctx context.Context) error {
	if e.loader == nil {
		return domain.WrapError(domain.ErrInvalidInput, "reload", fmt.Errorf("no resume loader configured"))
	}
	src, err := e.loader.Load(ctx)
	if err != nil {
		return err
	}
	return e.Initialize(ctx, src)
}

func (e *ResumeEngine) InvalidateCache(ctx context.Context) error {
	if p, ok := e.embedder.(ports.QueryCachePurger); ok {
		p.Purge()
	}
	if e.cache == nil {
		return nil
	}
	if err := e.cache.Remove(ctx, e.limits.CacheKey); err != nil {
		return fmt.Errorf("remove cache entry: %w", err)
	}
	slog.Info("resume_cache_invalidated", "key", e.limits.CacheKey)
	return nil
}

func (e *ResumeEngine) Stats() domain.EngineStats {
	state := e.snapshot()
	if state == nil {
		return domain.EngineStats{}
	}
	sections := make([]string, 0, 10)
	for _, chunk := range state.chunks {
		if len(sections) == 0 || sections[len(sections)-1] != chunk.Section {
			sections = append(sections, chunk.Section)
		}
	}
	return domain.EngineStats{
		Initialized: true,
		SourceKind:  string(state.source.Kind),
		ContentHash: state.hash,
		Chunks:      len(state.chunks),
		Sections:    sections,
		CacheHit:    state.cacheHit,
	}
}

func (e *ResumeEngine) snapshot() *engineState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

func (e *ResumeEngine) loadCached(ctx context.Context, hash string, chunks []domain.Chunk) ([][]float32, bool) {
	if e.cache == nil {
		return nil, false
	}

	raw, found, err := e.cache.Get(ctx, e.limits.CacheKey)
	if err != nil {
		slog.Warn("resume_cache_read_failed", "key", e.limits.CacheKey, "error", err)
		return nil, false
	}
	if !found {
		slog.Info("resume_cache_miss", "reason", "absent")
		return nil, false
	}

	entry, err := DecodeCacheEntry(raw, hash, e.fingerprint(), e.now(), e.limits.CacheTTL)
	if err != nil {
		slog.Info("resume_cache_miss", "reason", err.Error())
		return nil, false
	}
	if !chunksEqual(entry.Chunks, chunks) {
		slog.Info("resume_cache_miss", "reason", "chunk layout changed")
		return nil, false
	}
	return entry.Embeddings, true
}

func (e *ResumeEngine) storeCached(ctx context.Context, hash string, chunks []domain.Chunk, embeddings [][]float32) {
	if e.cache == nil {
		return
	}
	raw, err := EncodeCacheEntry(domain.CacheEntry{
		Hash:       hash,
		Embedder:   e.fingerprint(),
		Chunks:     chunks,
		Embeddings: embeddings,
		Timestamp:  e.now().UnixMilli(),
	})
	if err == nil {
		err = e.cache.Set(ctx, e.limits.CacheKey, raw)
	}
	if err != nil {
		slog.Warn("resume_cache_write_failed", "key", e.limits.CacheKey, "error", err)
	}
}

func (e *ResumeEngine) fingerprint() string {
	if f, ok := e.embedder.(ports.EmbeddingFingerprinter); ok {
		return f.Fingerprint()
	}
	return ""
}

func (e *ResumeEngine) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = embeddingInput(chunk)
	}

	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, wrapEmbeddingError("embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return nil, domain.WrapError(domain.ErrEmbeddingProvider, "embed chunks",
			fmt.Errorf("provider returned %d vectors for %d chunks", len(vectors), len(chunks)))
	}
	return vectors, nil
}

// embeddingInput prefixes the section title so a query naming a section
// ("skills", "education") lands near that section's vectors.
func embeddingInput(chunk domain.Chunk) string {
	return chunk.Section + "\n" + chunk.Text
}

func wrapEmbeddingError(operation string, err error) error {
	if domain.IsKind(err, domain.ErrEmbeddingProvider) || errors.Is(err, context.Canceled) {
		return err
	}
	return domain.WrapError(domain.ErrEmbeddingProvider, operation, err)
}

func chunksEqual(a, b []domain.Chunk) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
