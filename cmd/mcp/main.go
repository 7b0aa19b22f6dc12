package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/kirillkom/resume-rag/internal/adapters/mcp"
	"github.com/kirillkom/resume-rag/internal/bootstrap"
	"github.com/kirillkom/resume-rag/internal/config"
	"github.com/kirillkom/resume-rag/internal/observability/logging"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	// stdout carries the MCP protocol.
	slog.SetDefault(logging.New(os.Stderr, "mcp", cfg.LogFormat, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Engine.Reload(ctx); err != nil {
		slog.Error("resume_initial_load_failed", "path", cfg.ResumePath, "error", err)
	}

	if err := mcpadapter.NewServer(app.Engine, app.Engine, version).Serve(ctx); err != nil && ctx.Err() == nil {
		slog.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
