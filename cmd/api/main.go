package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kirillkom/resume-rag/internal/adapters/http"
	"github.com/kirillkom/resume-rag/internal/bootstrap"
	"github.com/kirillkom/resume-rag/internal/config"
	"github.com/kirillkom/resume-rag/internal/observability/logging"
	"github.com/kirillkom/resume-rag/internal/observability/metrics"
)

const serviceName = "api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stdout, serviceName, cfg.LogFormat, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	engineMetrics := metrics.NewEngineMetrics(serviceName, httpMetrics.Registry())

	app, err := bootstrap.New(ctx, cfg, bootstrap.WithObserver(engineMetrics))
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// A failed first load keeps the server up; /readyz reports 503 until a
	// POST /v1/resume/reload succeeds.
	if err := app.Engine.Reload(ctx); err != nil {
		slog.Error("resume_initial_load_failed", "path", cfg.ResumePath, "error", err)
	}

	router := httpadapter.NewRouter(cfg, app.Engine, app.Engine, httpadapter.WithMetrics(httpMetrics)).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
