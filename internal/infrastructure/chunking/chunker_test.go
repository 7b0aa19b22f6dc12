package chunking

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

func sampleDocument() *domain.ResumeDocument {
	return &domain.ResumeDocument{
		Profile:     domain.Profile{FullName: "Jane Doe", Age: "31", Title: "Engineer"},
		Contact:     domain.Contact{Email: "jane@example.com", Location: "Berlin"},
		CareerGoals: "Grow into a staff role. Keep shipping.",
		Education:   []domain.Education{{Degree: "BSc Computer Science", Institution: "TU Berlin", GPA: "3.7"}},
		Experience: []domain.Experience{{
			Company:    "Acme",
			Role:       "Senior Engineer",
			Period:     "2020-2024",
			Highlights: []string{"Led a team of five engineers", "Wrote the billing service"},
		}},
		Skills: domain.Skills{
			{Category: "frontend", Terms: []string{"React", "TypeScript"}},
			{Category: "backend", Terms: []string{"Go"}},
		},
		Strengths:      []string{"Pragmatic"},
		ProjectsRecent: []string{"Search revamp"},
	}
}

func TestStructuredChunksFollowSectionOrder(t *testing.T) {
	chunks := NewResumeChunker().Chunk(domain.StructuredSource(sampleDocument()))

	var sections []string
	for _, c := range chunks {
		sections = append(sections, c.Section)
	}
	want := []string{
		domain.SectionCareerGoals,
		domain.SectionEducation,
		domain.SectionExperience,
		domain.SectionLeadership,
		domain.SectionProjects,
		domain.SectionSkills,
		domain.SectionStrengths,
		domain.SectionProfile,
		domain.SectionContact,
	}
	if !reflect.DeepEqual(sections, want) {
		t.Fatalf("unexpected sections: %v", sections)
	}

	for _, c := range chunks {
		if c.ID != domain.ChunkID(c.Section, 0) {
			t.Fatalf("unexpected chunk id %q for section %q", c.ID, c.Section)
		}
	}
}

func TestStructuredSkillsRenderOneLinePerCategory(t *testing.T) {
	chunks := NewResumeChunker().Chunk(domain.StructuredSource(sampleDocument()))
	for _, c := range chunks {
		if c.Section != domain.SectionSkills {
			continue
		}
		if c.Text != "frontend: React, TypeScript\nbackend: Go" {
			t.Fatalf("unexpected skills text: %q", c.Text)
		}
		return
	}
	t.Fatalf("skills chunk not found")
}

func TestStructuredExperienceUsesPipeHeader(t *testing.T) {
	chunks := NewResumeChunker().Chunk(domain.StructuredSource(sampleDocument()))
	for _, c := range chunks {
		if c.Section != domain.SectionExperience {
			continue
		}
		if !strings.HasPrefix(c.Text, "Senior Engineer | Acme | 2020-2024\n- Led a team") {
			t.Fatalf("unexpected experience text: %q", c.Text)
		}
		return
	}
	t.Fatalf("experience chunk not found")
}

func TestChunkingIsDeterministic(t *testing.T) {
	chunker := NewResumeChunker()
	first := chunker.Chunk(domain.StructuredSource(sampleDocument()))
	second := chunker.Chunk(domain.StructuredSource(sampleDocument()))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("chunking is not deterministic")
	}
}

func TestLongSectionProducesOverlappingWindows(t *testing.T) {
	doc := sampleDocument()
	doc.CareerGoals = strings.Repeat("abcdefghij", 150)

	var goals []domain.Chunk
	for _, c := range NewResumeChunker().Chunk(domain.StructuredSource(doc)) {
		if c.Section == domain.SectionCareerGoals {
			goals = append(goals, c)
		}
	}
	if len(goals) != 3 {
		t.Fatalf("expected 3 windows for 1500 chars, got %d", len(goals))
	}
	if goals[0].Start != 0 || goals[0].End != 600 {
		t.Fatalf("unexpected first window: %d-%d", goals[0].Start, goals[0].End)
	}
	if goals[1].Start != 480 {
		t.Fatalf("expected 120-char overlap, second window starts at %d", goals[1].Start)
	}
	if goals[2].End != 1500 || len(goals[2].Text) != 1500-960 {
		t.Fatalf("unexpected final window: %d-%d len=%d", goals[2].Start, goals[2].End, len(goals[2].Text))
	}
	if goals[2].ID != "Career Goals_2" {
		t.Fatalf("unexpected id %q", goals[2].ID)
	}
}

func TestEmptySectionsAreSkipped(t *testing.T) {
	doc := &domain.ResumeDocument{CareerGoals: "   ", Strengths: []string{"Calm"}}
	chunks := NewResumeChunker().Chunk(domain.StructuredSource(doc))
	if len(chunks) != 1 || chunks[0].Section != domain.SectionStrengths {
		t.Fatalf("expected only the strengths chunk, got %+v", chunks)
	}
}

func TestFreeformSplitsOnHeadings(t *testing.T) {
	text := "Jane Doe, engineer.\n\n# Experience\nSenior Engineer | Acme | 2020-2024\n\n## Skills\n- Go\n- SQL\n#### Not a heading\n### Skills\n- Kafka\n"
	chunks := NewResumeChunker().Chunk(domain.FreeformSource(text))

	var sections []string
	for _, c := range chunks {
		sections = append(sections, c.Section)
	}
	want := []string{"Overview", "Experience", "Skills", "Skills (2)"}
	if !reflect.DeepEqual(sections, want) {
		t.Fatalf("unexpected sections: %v", sections)
	}
	if chunks[2].Text != "- Go\n- SQL\n#### Not a heading" {
		t.Fatalf("expected line breaks to survive, got %q", chunks[2].Text)
	}
	if chunks[3].ID != "Skills (2)_0" {
		t.Fatalf("unexpected id %q", chunks[3].ID)
	}
}

func TestFreeformWordWindows(t *testing.T) {
	words := make([]string, 300)
	for i := range words {
		words[i] = "word"
	}
	chunks := NewResumeChunker().Chunk(domain.FreeformSource("# Summary\n" + strings.Join(words, " ")))

	if len(chunks) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(chunks))
	}
	if chunks[0].End-chunks[0].Start != FreeformWindowWords {
		t.Fatalf("unexpected first window size %d", chunks[0].End-chunks[0].Start)
	}
	if chunks[1].Start != FreeformWindowWords-FreeformOverlapWords {
		t.Fatalf("unexpected overlap, second window starts at %d", chunks[1].Start)
	}
	if chunks[2].End != 300 || chunks[2].TotalWords != 300 {
		t.Fatalf("unexpected final window: %+v", chunks[2])
	}
}

func TestSplitterShortTextYieldsSingleWindow(t *testing.T) {
	got := NewSplitter(600, 120).Split("short text")
	if len(got) != 1 || got[0].Text != "short text" || got[0].End != 10 {
		t.Fatalf("unexpected windows: %+v", got)
	}
}
