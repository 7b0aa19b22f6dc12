// Package mcpadapter exposes the résumé engine as MCP tools over stdio.
package mcpadapter

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/resume-rag/internal/core/ports"
)

const ServerName = "resume-rag"

type Server struct {
	mcp   *server.MCPServer
	qa    ports.ResumeQA
	admin ports.ResumeAdmin
}

func NewServer(qa ports.ResumeQA, admin ports.ResumeAdmin, version string) *Server {
	s := &Server{
		mcp:   server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false)),
		qa:    qa,
		admin: admin,
	}
	s.mcp.AddTool(askResumeTool(), s.handleAskResume)
	s.mcp.AddTool(resumeStatusTool(), s.handleResumeStatus)
	return s
}

// Serve blocks on stdio until ctx is cancelled or stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}
