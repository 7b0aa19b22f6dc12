package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

const (
	bm25K1        = 1.5
	bm25B         = 0.75
	bm25AvgDocLen = 100.0
)

type LexicalHit struct {
	Index   int
	ChunkID string
	Score   float32
}

type lexicalDoc struct {
	termFreq map[string]int
	length   int
}

// LexicalIndex holds pre-tokenized chunks for BM25-style scoring.
type LexicalIndex struct {
	chunks []domain.Chunk
	docs   []lexicalDoc
}

func NewLexicalIndex(chunks []domain.Chunk) *LexicalIndex {
	docs := make([]lexicalDoc, len(chunks))
	for i, chunk := range chunks {
		docs[i] = newLexicalDoc(chunk.Text)
	}
	return &LexicalIndex{chunks: chunks, docs: docs}
}

func newLexicalDoc(text string) lexicalDoc {
	tokens := strings.Fields(Normalize(text))
	tf := make(map[string]int, len(tokens))
	for _, token := range tokens {
		tf[token]++
	}
	return lexicalDoc{termFreq: tf, length: len(tokens)}
}

// ScoreLexical scores one chunk against a normalized query within a corpus of
// corpusSize chunks.
func ScoreLexical(normalizedQuery, chunkText string, corpusSize int) float32 {
	return float32(bm25(queryTerms(normalizedQuery), newLexicalDoc(chunkText), inverseDocFrequency(corpusSize)))
}

// inverseDocFrequency treats every term as present in exactly one chunk;
// per-term document frequency is not tracked.
func inverseDocFrequency(corpusSize int) float64 {
	return math.Log((float64(corpusSize) - 1 + 0.5) / (1 + 0.5))
}

func bm25(terms []string, doc lexicalDoc, idf float64) float64 {
	if len(terms) == 0 || doc.length == 0 {
		return 0
	}
	norm := bm25K1 * (1 - bm25B + bm25B*(float64(doc.length)/bm25AvgDocLen))
	score := 0.0
	for _, term := range terms {
		tf := float64(doc.termFreq[term])
		if tf == 0 {
			continue
		}
		score += idf * (tf * (bm25K1 + 1)) / (tf + norm)
	}
	return score
}

// Shortlist returns up to k chunks ordered by descending score; ties keep
// chunk order.
func (ix *LexicalIndex) Shortlist(query string, k int) []LexicalHit {
	if ix == nil || len(ix.docs) == 0 || k <= 0 {
		return nil
	}
	terms := queryTerms(Normalize(query))
	idf := inverseDocFrequency(len(ix.docs))

	hits := make([]LexicalHit, len(ix.docs))
	for i, doc := range ix.docs {
		hits[i] = LexicalHit{
			Index:   i,
			ChunkID: ix.chunks[i].ID,
			Score:   float32(bm25(terms, doc, idf)),
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
