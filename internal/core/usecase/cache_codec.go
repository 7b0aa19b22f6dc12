package usecase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

const (
	DefaultCacheKey = "resume_rag_cache_v1"
	DefaultCacheTTL = 30 * 24 * time.Hour
)

func EncodeCacheEntry(entry domain.CacheEntry) ([]byte, error) {
	if !entry.Consistent() {
		return nil, fmt.Errorf("encode cache entry: %d chunks vs %d embeddings or mixed dimensions", len(entry.Chunks), len(entry.Embeddings))
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return raw, nil
}

// DecodeCacheEntry returns ErrCacheCorrupt for anything that cannot be
// reused as-is: bad json, misaligned embeddings, another document, another
// embedder or an entry older than ttl.
func DecodeCacheEntry(raw []byte, wantHash, wantEmbedder string, now time.Time, ttl time.Duration) (domain.CacheEntry, error) {
	var entry domain.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.CacheEntry{}, domain.WrapError(domain.ErrCacheCorrupt, "decode cache entry", err)
	}
	if !entry.Consistent() {
		return domain.CacheEntry{}, domain.WrapError(domain.ErrCacheCorrupt, "decode cache entry",
			fmt.Errorf("%d chunks vs %d embeddings or mixed dimensions", len(entry.Chunks), len(entry.Embeddings)))
	}
	if entry.Hash != wantHash {
		return domain.CacheEntry{}, domain.WrapError(domain.ErrCacheCorrupt, "decode cache entry", fmt.Errorf("hash mismatch"))
	}
	if entry.Embedder != wantEmbedder {
		return domain.CacheEntry{}, domain.WrapError(domain.ErrCacheCorrupt, "decode cache entry",
			fmt.Errorf("embedder changed from %q to %q", entry.Embedder, wantEmbedder))
	}
	if ttl > 0 && now.Sub(entry.CreatedAt()) >= ttl {
		return domain.CacheEntry{}, domain.WrapError(domain.ErrCacheCorrupt, "decode cache entry",
			fmt.Errorf("expired at %s", entry.CreatedAt().Add(ttl).UTC().Format(time.RFC3339)))
	}
	return entry, nil
}
