package usecase

import (
	"math"
	"strings"
	"testing"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

func result(id, section, text string, similarity float32) domain.SearchResult {
	return domain.SearchResult{
		ChunkID:         id,
		Chunk:           domain.Chunk{ID: id, Section: section, Text: text},
		SimilarityScore: similarity,
	}
}

func TestSynthesizeLowConfidenceReturnsFallback(t *testing.T) {
	synth := NewSynthesizer(0.48)
	answer := synth.Synthesize("xkjqzplm", []domain.SearchResult{result("Skills_0", "Skills", "go", 0.21)}, domain.FreeformSource("# a"))

	if answer.Text != LowConfidenceText {
		t.Fatalf("expected fallback text, got %q", answer.Text)
	}
	if len(answer.Citations) != 0 {
		t.Fatalf("expected no citations, got %v", answer.Citations)
	}
	if answer.Confidence != 0.21 {
		t.Fatalf("expected confidence to equal top score, got %v", answer.Confidence)
	}
}

func TestSynthesizeTreatsNaNAndEmptyAsLowConfidence(t *testing.T) {
	synth := NewSynthesizer(0.48)

	nan := synth.Synthesize("skills", []domain.SearchResult{result("Skills_0", "Skills", "go", float32(math.NaN()))}, domain.FreeformSource("x"))
	if nan.Text != LowConfidenceText || nan.Confidence != 0 {
		t.Fatalf("expected fallback with zero confidence for NaN, got %+v", nan)
	}

	empty := synth.Synthesize("skills", nil, domain.FreeformSource("x"))
	if empty.Text != LowConfidenceText || empty.Confidence != 0 || len(empty.Citations) != 0 {
		t.Fatalf("expected fallback for empty results, got %+v", empty)
	}
}

func TestSynthesizeStructuredSkillsShortcut(t *testing.T) {
	doc := &domain.ResumeDocument{
		Skills: domain.Skills{{Category: "frontend", Terms: []string{"React", "TypeScript"}}},
	}
	answer := NewSynthesizer(0.48).Synthesize("What are your top skills?",
		[]domain.SearchResult{result("Profile_0", "Profile", "Name: Jane", 0.9)},
		domain.StructuredSource(doc))

	if !strings.Contains(answer.Text, "frontend: React, TypeScript") {
		t.Fatalf("expected skills line in answer, got %q", answer.Text)
	}
	if len(answer.Citations) != 1 || answer.Citations[0] != "Skills_0" {
		t.Fatalf("expected Skills_0 citation, got %v", answer.Citations)
	}
}

func TestSynthesizeStructuredCareerGoalsReturnsSentencesVerbatim(t *testing.T) {
	doc := &domain.ResumeDocument{
		CareerGoals: "Grow into staff engineering. Ship reliable systems. Mentor juniors. Learn Rust.",
	}
	answer := NewSynthesizer(0.48).Synthesize("career goals",
		[]domain.SearchResult{result("Career Goals_0", "Career Goals", doc.CareerGoals, 0.7)},
		domain.StructuredSource(doc))

	want := "Grow into staff engineering. Ship reliable systems. Mentor juniors."
	if answer.Text != want {
		t.Fatalf("expected %q, got %q", want, answer.Text)
	}
	if len(answer.Citations) != 1 || answer.Citations[0] != "Career Goals_0" {
		t.Fatalf("expected Career Goals_0 citation, got %v", answer.Citations)
	}
}

func TestSynthesizeShortcutFallsThroughWhenFieldEmpty(t *testing.T) {
	doc := &domain.ResumeDocument{}
	answer := NewSynthesizer(0.48).Synthesize("tell me about your education",
		[]domain.SearchResult{result("Overview_0", "Overview", "Studied physics in Prague. Loves climbing.", 0.8)},
		domain.StructuredSource(doc))

	if answer.Citations[0] != "Overview_0" {
		t.Fatalf("expected heuristic citations, got %v", answer.Citations)
	}
}

func TestSynthesizeFactualExtractsEmailAndLocation(t *testing.T) {
	results := []domain.SearchResult{
		result("Contact_0", "Contact", "Email: jane.doe@example.com\nPhone: +1 555 010 2000\nLocation: Berlin, Germany", 0.8),
		result("Profile_0", "Profile", "Name: Jane Doe\nAge: 31", 0.6),
		result("Skills_0", "Skills", "backend: Go", 0.5),
	}
	answer := NewSynthesizer(0.48).Synthesize("How can I contact you?", results, domain.FreeformSource("x"))

	if !strings.Contains(answer.Text, "jane.doe@example.com") {
		t.Fatalf("expected email in answer, got %q", answer.Text)
	}
	if !strings.Contains(answer.Text, "Berlin, Germany") {
		t.Fatalf("expected location in answer, got %q", answer.Text)
	}
	if answer.Confidence != factualConfidence {
		t.Fatalf("expected factual confidence, got %v", answer.Confidence)
	}
	if len(answer.Citations) != 2 || answer.Citations[0] != "Contact_0" || answer.Citations[1] != "Profile_0" {
		t.Fatalf("expected first two citations, got %v", answer.Citations)
	}

	age := NewSynthesizer(0.48).Synthesize("How old are you?", results, domain.FreeformSource("x"))
	if !strings.Contains(age.Text, "31") {
		t.Fatalf("expected age in answer, got %q", age.Text)
	}
}

func TestSynthesizeListDeduplicatesInOrder(t *testing.T) {
	results := []domain.SearchResult{
		result("Tools_0", "Tools", "Tools: Docker, Kubernetes, docker\n- Terraform\n- Kubernetes", 0.9),
	}
	answer := NewSynthesizer(0.48).Synthesize("which tools do you use", results, domain.FreeformSource("x"))

	want := "From the résumé: Docker, Kubernetes, Terraform."
	if answer.Text != want {
		t.Fatalf("expected %q, got %q", want, answer.Text)
	}
	if answer.Confidence != listConfidence {
		t.Fatalf("expected list confidence, got %v", answer.Confidence)
	}
}

func TestSynthesizeExperienceExtractsPipeLines(t *testing.T) {
	results := []domain.SearchResult{
		result("Experience_0", "Experience", "Staff Engineer | Acme | 2021 - present\n- Led the platform team\nEngineer | Beta | 2018 - 2021", 0.9),
	}
	answer := NewSynthesizer(0.48).Synthesize("Where have you worked?", results, domain.FreeformSource("x"))

	want := "Experience: Staff Engineer at Acme (2021 - present); Engineer at Beta (2018 - 2021)."
	if answer.Text != want {
		t.Fatalf("expected %q, got %q", want, answer.Text)
	}
	if answer.Confidence != experienceConfidence {
		t.Fatalf("expected experience confidence, got %v", answer.Confidence)
	}
}

func TestSynthesizeGeneralKeepsFirstThreeSentences(t *testing.T) {
	results := []domain.SearchResult{
		result("About_0", "About", "One. Two! Three? Four.", 0.9),
	}
	answer := NewSynthesizer(0.48).Synthesize("tell me something", results, domain.FreeformSource("x"))
	if answer.Text != "One. Two! Three?" {
		t.Fatalf("unexpected general answer %q", answer.Text)
	}
	if answer.Confidence != generalConfidence {
		t.Fatalf("expected general confidence, got %v", answer.Confidence)
	}
}

func TestSynthesizeNothingFoundUsesLowFixedConfidence(t *testing.T) {
	results := []domain.SearchResult{
		result("About_0", "About", "Enjoys long walks.", 0.9),
	}
	answer := NewSynthesizer(0.48).Synthesize("what is your email", results, domain.FreeformSource("x"))
	if answer.Confidence != nothingFoundConfidence {
		t.Fatalf("expected nothing-found confidence, got %v", answer.Confidence)
	}
	if len(answer.Citations) != 1 {
		t.Fatalf("expected citation of the retrieved chunk, got %v", answer.Citations)
	}
}

func TestSynthesizeFreeformSkillsSkipsShortcut(t *testing.T) {
	results := []domain.SearchResult{
		result("Skills_0", "Skills", "- Go\n- Kubernetes", 0.9),
		result("Experience_0", "Experience", "Senior Engineer at Acme.", 0.4),
		result("About_0", "About", "Based in Berlin.", 0.1),
	}
	answer := NewSynthesizer(0.48).Synthesize("What are your skills?", results, domain.FreeformSource("# Skills\n- Go\n- Kubernetes"))

	if answer.Text != "From the résumé: Go, Kubernetes." {
		t.Fatalf("expected list answer, got %q", answer.Text)
	}
	if strings.Contains(answer.Text, "Key skills by area") {
		t.Fatalf("freeform source must not use the structured skills answer, got %q", answer.Text)
	}
	if answer.Confidence != listConfidence {
		t.Fatalf("expected list confidence, got %v", answer.Confidence)
	}
	if len(answer.Citations) != 2 || answer.Citations[0] != "Skills_0" || answer.Citations[1] != "Experience_0" {
		t.Fatalf("expected the first two result ids, got %v", answer.Citations)
	}
}
