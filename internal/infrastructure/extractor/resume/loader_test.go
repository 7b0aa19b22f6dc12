package resume

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadJSONIsStructured(t *testing.T) {
	path := writeFile(t, "resume.json", `{"profile":{"fullName":"Jane Doe","age":31},"skills":{"backend":["Go"]}}`)
	src, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src.Kind != domain.SourceStructured || src.Structured.Profile.FullName != "Jane Doe" {
		t.Fatalf("unexpected source: %+v", src)
	}
}

func TestLoadMarkdownIsFreeform(t *testing.T) {
	path := writeFile(t, "resume.md", "\n# Experience\nAcme\n")
	src, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src.Kind != domain.SourceFreeform || src.Freeform != "# Experience\nAcme" {
		t.Fatalf("unexpected source: %+v", src)
	}
}

func TestDecodeSniffsJSONWithoutExtension(t *testing.T) {
	src, err := Decode("resume", []byte(` {"career_goals":"Lead."}`))
	if err != nil || src.Kind != domain.SourceStructured {
		t.Fatalf("expected structured source, got %+v, %v", src, err)
	}
}

func TestDecodeErrorsAreParseErrors(t *testing.T) {
	cases := map[string][]byte{
		"broken.json": []byte(`{"skills":`),
		"empty.md":    []byte("   \n"),
		"binary.txt":  {0xff, 0xfe, 0x00},
		"resume.pdf":  []byte("not a pdf"),
	}
	for name, raw := range cases {
		if _, err := Decode(name, raw); !domain.IsKind(err, domain.ErrDocumentParse) {
			t.Fatalf("%s: expected ErrDocumentParse, got %v", name, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := NewLoader("").Load(context.Background()); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty path, got %v", err)
	}
}
