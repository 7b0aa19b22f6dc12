package cached

import (
	"context"
	"errors"
	"testing"
)

type countingEmbedder struct {
	one   int
	batch int
	err   error
}

func (c *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.batch++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func (c *countingEmbedder) EmbedOne(_ context.Context, text string) ([]float32, error) {
	c.one++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 0}, nil
}

func TestEmbedOneIsMemoized(t *testing.T) {
	inner := &countingEmbedder{}
	e, err := New(inner, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first, _ := e.EmbedOne(context.Background(), "skills?")
	first[0] = 99
	second, _ := e.EmbedOne(context.Background(), "skills?")
	if inner.one != 1 {
		t.Fatalf("expected one provider call, got %d", inner.one)
	}
	if second[0] != 7 {
		t.Fatalf("cached vector was mutated through caller: %v", second)
	}

	e.Purge()
	_, _ = e.EmbedOne(context.Background(), "skills?")
	if inner.one != 2 {
		t.Fatalf("expected purge to drop cached vector")
	}
}

func TestEmbedOneDoesNotCacheErrors(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("down")}
	e, _ := New(inner, 4)
	for i := 0; i < 2; i++ {
		if _, err := e.EmbedOne(context.Background(), "q"); err == nil {
			t.Fatalf("expected error")
		}
	}
	if inner.one != 2 {
		t.Fatalf("expected errors to bypass cache, got %d calls", inner.one)
	}
}

func TestNewRejectsInvalidSize(t *testing.T) {
	if _, err := New(&countingEmbedder{}, 0); err == nil {
		t.Fatalf("expected error for zero size")
	}
}

type namedEmbedder struct {
	countingEmbedder
}

func (namedEmbedder) Fingerprint() string { return "hashing:1024" }

func TestFingerprintDelegatesToProvider(t *testing.T) {
	named, _ := New(&namedEmbedder{}, 2)
	if got := named.Fingerprint(); got != "hashing:1024" {
		t.Fatalf("expected delegated fingerprint, got %q", got)
	}
	anonymous, _ := New(&countingEmbedder{}, 2)
	if got := anonymous.Fingerprint(); got != "" {
		t.Fatalf("expected empty fingerprint, got %q", got)
	}
}
