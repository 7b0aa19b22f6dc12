package chunking

import (
	"regexp"
	"strings"
)

// Window is one slice of a section. Start and End are offsets in the unit
// the splitter counts (runes or words).
type Window struct {
	Text  string
	Start int
	End   int
}

type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 600
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

// Split slides a rune window across text; the last window may be shorter.
func (s *Splitter) Split(text string) []Window {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]Window, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, Window{Text: chunk, Start: start, End: end})
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

var wordPattern = regexp.MustCompile(`\S+`)

type WordSplitter struct {
	WindowWords  int
	OverlapWords int
}

func NewWordSplitter(windowWords, overlapWords int) *WordSplitter {
	if windowWords <= 0 {
		windowWords = 117
	}
	if overlapWords < 0 {
		overlapWords = 0
	}
	if overlapWords >= windowWords {
		overlapWords = windowWords / 4
	}
	return &WordSplitter{
		WindowWords:  windowWords,
		OverlapWords: overlapWords,
	}
}

// Split slides a word window across text. Window text is cut from the
// original string so line breaks inside a window survive.
func (s *WordSplitter) Split(text string) []Window {
	spans := wordPattern.FindAllStringIndex(text, -1)
	if len(spans) == 0 {
		return nil
	}

	step := s.WindowWords - s.OverlapWords
	if step <= 0 {
		step = s.WindowWords
	}

	out := make([]Window, 0, len(spans)/step+1)
	for start := 0; start < len(spans); start += step {
		end := start + s.WindowWords
		if end > len(spans) {
			end = len(spans)
		}
		out = append(out, Window{
			Text:  text[spans[start][0]:spans[end-1][1]],
			Start: start,
			End:   end,
		})
		if end == len(spans) {
			break
		}
	}
	return out
}
