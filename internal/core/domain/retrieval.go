package domain

import "time"

type Chunk struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Section    string `json:"section"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	TotalWords int    `json:"totalWords"`
}

type SearchResult struct {
	ChunkID         string  `json:"chunk_id"`
	Chunk           Chunk   `json:"-"`
	LexicalScore    float32 `json:"lexical_score"`
	SimilarityScore float32 `json:"similarity_score"`
}

type Answer struct {
	Text       string   `json:"answer"`
	Citations  []string `json:"citations"`
	Confidence float32  `json:"confidence"`
}

// CacheEntry is the persisted result of one full embedding pass.
type CacheEntry struct {
	Hash       string      `json:"hash"`
	Embedder   string      `json:"embedder,omitempty"`
	Chunks     []Chunk     `json:"chunks"`
	Embeddings [][]float32 `json:"embeddings"`
	Timestamp  int64       `json:"timestamp"`
}

func (e CacheEntry) CreatedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Consistent reports one vector per chunk, all of the same dimension.
func (e CacheEntry) Consistent() bool {
	if len(e.Chunks) != len(e.Embeddings) {
		return false
	}
	for _, vec := range e.Embeddings {
		if len(vec) != len(e.Embeddings[0]) {
			return false
		}
	}
	return true
}

type EngineStats struct {
	Initialized bool     `json:"initialized"`
	SourceKind  string   `json:"source_kind,omitempty"`
	ContentHash string   `json:"content_hash,omitempty"`
	Chunks      int      `json:"chunks"`
	Sections    []string `json:"sections,omitempty"`
	CacheHit    bool     `json:"cache_hit"`
}

type EngineLimits struct {
	ShortlistSize       int
	RerankTopK          int
	ConfidenceThreshold float32
	CacheKey            string
	CacheTTL            time.Duration
}
