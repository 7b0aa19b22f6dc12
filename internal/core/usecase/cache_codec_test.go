package usecase

import (
	"strconv"
	"testing"
	"time"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

func TestCacheEntryRoundTripKeepsAlignment(t *testing.T) {
	now := time.Now()
	entry := domain.CacheEntry{
		Hash:     "abc",
		Embedder: "hashing:2",
		Chunks: []domain.Chunk{
			{ID: "Skills_0", Text: "frontend: React", Section: "Skills", Start: 0, End: 15, TotalWords: 2},
			{ID: "Profile_0", Text: "Name: Jane", Section: "Profile", Start: 0, End: 10, TotalWords: 2},
		},
		Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		Timestamp:  now.UnixMilli(),
	}

	raw, err := EncodeCacheEntry(entry)
	if err != nil {
		t.Fatalf("EncodeCacheEntry() error = %v", err)
	}
	got, err := DecodeCacheEntry(raw, "abc", "hashing:2", now, DefaultCacheTTL)
	if err != nil {
		t.Fatalf("DecodeCacheEntry() error = %v", err)
	}
	if len(got.Embeddings) != len(got.Chunks) || len(got.Chunks) != 2 {
		t.Fatalf("expected aligned entry, got %d chunks and %d embeddings", len(got.Chunks), len(got.Embeddings))
	}
	if got.Chunks[1] != entry.Chunks[1] {
		t.Fatalf("expected chunk to survive round trip, got %+v", got.Chunks[1])
	}
}

func TestDecodeCacheEntryRejectsMismatches(t *testing.T) {
	now := time.Now()
	valid, err := EncodeCacheEntry(domain.CacheEntry{
		Hash:       "abc",
		Embedder:   "hashing:1",
		Chunks:     []domain.Chunk{{ID: "A_0"}},
		Embeddings: [][]float32{{1}},
		Timestamp:  now.Add(-31 * 24 * time.Hour).UnixMilli(),
	})
	if err != nil {
		t.Fatalf("EncodeCacheEntry() error = %v", err)
	}

	fresh := strconv.FormatInt(now.UnixMilli(), 10)

	cases := map[string]struct {
		raw      []byte
		hash     string
		embedder string
	}{
		"expired":    {raw: valid, hash: "abc", embedder: "hashing:1"},
		"hash":       {raw: valid, hash: "other", embedder: "hashing:1"},
		"embedder":   {raw: []byte(`{"hash":"abc","embedder":"hashing:256","chunks":[{"id":"A_0"}],"embeddings":[[1]],"timestamp":` + fresh + `}`), hash: "abc", embedder: "hashing:128"},
		"unlabelled": {raw: []byte(`{"hash":"abc","chunks":[{"id":"A_0"}],"embeddings":[[1]],"timestamp":` + fresh + `}`), hash: "abc", embedder: "hashing:128"},
		"dimensions": {raw: []byte(`{"hash":"abc","chunks":[{"id":"A_0"},{"id":"A_1"}],"embeddings":[[1,0],[1]],"timestamp":` + fresh + `}`), hash: "abc"},
		"misaligned": {raw: []byte(`{"hash":"abc","chunks":[{"id":"A_0"}],"embeddings":[],"timestamp":` + fresh + `}`), hash: "abc"},
		"json":       {raw: []byte(`[`), hash: "abc"},
	}
	for name, tc := range cases {
		if _, err := DecodeCacheEntry(tc.raw, tc.hash, tc.embedder, now, DefaultCacheTTL); !domain.IsKind(err, domain.ErrCacheCorrupt) {
			t.Fatalf("%s: expected ErrCacheCorrupt, got %v", name, err)
		}
	}
}

func TestEncodeCacheEntryRejectsMisalignedEntry(t *testing.T) {
	_, err := EncodeCacheEntry(domain.CacheEntry{Chunks: []domain.Chunk{{ID: "A_0"}}})
	if err == nil {
		t.Fatalf("expected error")
	}
}
