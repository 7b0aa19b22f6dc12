package ports

import (
	"context"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

// ResumeQA is the inbound contract for question answering over one résumé.
type ResumeQA interface {
	Initialize(ctx context.Context, src domain.ResumeSource) error
	Search(ctx context.Context, query string) (*domain.Answer, error)
}

// ResumeAdmin exposes lifecycle operations used by transport adapters.
type ResumeAdmin interface {
	Reload(ctx context.Context) error
	InvalidateCache(ctx context.Context) error
	Stats() domain.EngineStats
}
