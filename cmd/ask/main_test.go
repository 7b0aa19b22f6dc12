package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

func TestPrintAnswerTextListsSources(t *testing.T) {
	var buf bytes.Buffer
	answer := &domain.Answer{Text: "Go, PostgreSQL", Citations: []string{"Skills_0"}, Confidence: 0.95}
	if err := printAnswer(&buf, answer, false); err != nil {
		t.Fatalf("printAnswer() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Go, PostgreSQL\n") {
		t.Fatalf("unexpected answer line: %q", out)
	}
	if !strings.Contains(out, "sources: Skills_0 (confidence 0.95)") {
		t.Fatalf("sources line missing: %q", out)
	}
}

func TestPrintAnswerTextOmitsSourcesWhenUngrounded(t *testing.T) {
	var buf bytes.Buffer
	answer := &domain.Answer{Text: "not sure", Citations: []string{}, Confidence: 0.1}
	if err := printAnswer(&buf, answer, false); err != nil {
		t.Fatalf("printAnswer() error = %v", err)
	}
	if strings.Contains(buf.String(), "sources:") {
		t.Fatalf("ungrounded answer should not print sources: %q", buf.String())
	}
}

func TestPrintAnswerJSON(t *testing.T) {
	var buf bytes.Buffer
	answer := &domain.Answer{Text: "x", Citations: []string{}, Confidence: 0.3}
	if err := printAnswer(&buf, answer, true); err != nil {
		t.Fatalf("printAnswer() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	citations, ok := decoded["citations"].([]any)
	if !ok || len(citations) != 0 {
		t.Fatalf("citations = %#v, want empty array", decoded["citations"])
	}
}
