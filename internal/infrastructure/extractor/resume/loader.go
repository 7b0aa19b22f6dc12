package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

// Loader reads a résumé from disk. JSON files become structured sources;
// markdown, text and PDF files become freeform sources.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Load(ctx context.Context) (domain.ResumeSource, error) {
	if err := ctx.Err(); err != nil {
		return domain.ResumeSource{}, err
	}
	if strings.TrimSpace(l.path) == "" {
		return domain.ResumeSource{}, domain.WrapError(domain.ErrInvalidInput, "load resume", fmt.Errorf("resume path is empty"))
	}
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return domain.ResumeSource{}, fmt.Errorf("read resume %s: %w", l.path, err)
	}
	return Decode(filepath.Base(l.path), raw)
}

func Decode(filename string, raw []byte) (domain.ResumeSource, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return decodeJSON(raw)
	case ".md", ".markdown", ".txt":
		return decodeText(filename, raw)
	case ".pdf":
		return decodePDF(filename, raw)
	default:
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
			return decodeJSON(raw)
		}
		return decodeText(filename, raw)
	}
}

func decodeJSON(raw []byte) (domain.ResumeSource, error) {
	doc, err := domain.ParseResumeJSON(raw)
	if err != nil {
		return domain.ResumeSource{}, err
	}
	return domain.StructuredSource(doc), nil
}

func decodeText(filename string, raw []byte) (domain.ResumeSource, error) {
	if !utf8.Valid(raw) {
		return domain.ResumeSource{}, domain.WrapError(domain.ErrDocumentParse, "decode resume", fmt.Errorf("unsupported binary format: %s", filename))
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return domain.ResumeSource{}, domain.WrapError(domain.ErrDocumentParse, "decode resume", fmt.Errorf("%s is empty", filename))
	}
	return domain.FreeformSource(text), nil
}

func decodePDF(filename string, raw []byte) (domain.ResumeSource, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return domain.ResumeSource{}, domain.WrapError(domain.ErrDocumentParse, "open pdf", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return domain.ResumeSource{}, domain.WrapError(domain.ErrDocumentParse, "extract pdf text", err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return domain.ResumeSource{}, domain.WrapError(domain.ErrDocumentParse, "read pdf text", err)
	}
	return decodeText(filename, text)
}
