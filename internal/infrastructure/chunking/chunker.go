package chunking

import (
	"strings"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

const (
	StructuredWindowChars  = 600
	StructuredOverlapChars = 120
	FreeformWindowWords    = 117
	FreeformOverlapWords   = 25
)

// ResumeChunker produces deterministic, section-tagged chunks.
type ResumeChunker struct {
	chars *Splitter
	words *WordSplitter
}

func NewResumeChunker() *ResumeChunker {
	return &ResumeChunker{
		chars: NewSplitter(StructuredWindowChars, StructuredOverlapChars),
		words: NewWordSplitter(FreeformWindowWords, FreeformOverlapWords),
	}
}

func (c *ResumeChunker) Chunk(src domain.ResumeSource) []domain.Chunk {
	switch src.Kind {
	case domain.SourceStructured:
		return emit(structuredSections(src.Structured), c.chars.Split)
	case domain.SourceFreeform:
		return emit(markdownSections(src.Freeform), c.words.Split)
	default:
		return nil
	}
}

func emit(sections []section, split func(string) []Window) []domain.Chunk {
	out := make([]domain.Chunk, 0, len(sections))
	for _, sec := range sections {
		if strings.TrimSpace(sec.text) == "" {
			continue
		}
		totalWords := len(strings.Fields(sec.text))
		for i, w := range split(sec.text) {
			out = append(out, domain.Chunk{
				ID:         domain.ChunkID(sec.title, i),
				Text:       w.Text,
				Section:    sec.title,
				Start:      w.Start,
				End:        w.End,
				TotalWords: totalWords,
			})
		}
	}
	return out
}
