package usecase

import (
	"math"
	"sort"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

// CosineSimilarity is NaN when either vector has zero norm or the
// dimensions differ.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return float32(math.NaN())
	}
	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return float32(math.NaN())
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Rerank orders the lexical shortlist by cosine similarity to the query
// vector and keeps the top k. NaN similarities always sort last.
func Rerank(queryVector []float32, shortlist []LexicalHit, chunks []domain.Chunk, embeddings [][]float32, k int) []domain.SearchResult {
	if len(shortlist) == 0 || k <= 0 {
		return nil
	}

	results := make([]domain.SearchResult, 0, len(shortlist))
	for _, hit := range shortlist {
		if hit.Index < 0 || hit.Index >= len(chunks) || hit.Index >= len(embeddings) {
			continue
		}
		results = append(results, domain.SearchResult{
			ChunkID:         hit.ChunkID,
			Chunk:           chunks[hit.Index],
			LexicalScore:    hit.Score,
			SimilarityScore: CosineSimilarity(queryVector, embeddings[hit.Index]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return similarityLess(results[i].SimilarityScore, results[j].SimilarityScore)
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

func similarityLess(a, b float32) bool {
	aNaN := isNaN32(a)
	bNaN := isNaN32(b)
	if aNaN || bNaN {
		return !aNaN && bNaN
	}
	return a > b
}

func isNaN32(v float32) bool {
	return v != v
}
