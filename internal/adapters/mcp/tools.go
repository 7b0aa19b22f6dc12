package mcpadapter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

func (s *Server) handleAskResume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, _ := request.GetArguments()["question"].(string)
	if strings.TrimSpace(question) == "" {
		return mcp.NewToolResultError("question parameter is required and cannot be empty"), nil
	}

	answer, err := s.qa.Search(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}
	return mcp.NewToolResultText(formatJSON(answer)), nil
}

func (s *Server) handleResumeStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(s.admin.Stats())), nil
}

func toolErrorMessage(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrNotInitialized):
		return "résumé is not loaded yet: " + err.Error()
	case domain.IsKind(err, domain.ErrTemporary):
		return "temporary failure, retry later: " + err.Error()
	case domain.IsKind(err, domain.ErrEmbeddingProvider):
		return "embedding provider failed: " + err.Error()
	default:
		return err.Error()
	}
}

func formatJSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}
