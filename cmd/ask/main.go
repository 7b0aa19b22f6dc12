// Command ask answers a single question about a résumé file and exits.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kirillkom/resume-rag/internal/bootstrap"
	"github.com/kirillkom/resume-rag/internal/config"
	"github.com/kirillkom/resume-rag/internal/core/domain"
	"github.com/kirillkom/resume-rag/internal/observability/logging"
)

func main() {
	var (
		resumePath string
		question   string
		configFile string
		asJSON     bool
	)
	flags := pflag.NewFlagSet("ask", pflag.ExitOnError)
	flags.StringVarP(&resumePath, "resume", "r", "", "path to the résumé (.json, .md, .txt, .pdf)")
	flags.StringVarP(&question, "question", "q", "", "question to ask")
	flags.StringVarP(&configFile, "config", "c", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flags.BoolVar(&asJSON, "json", false, "print the answer as JSON")
	_ = flags.Parse(os.Args[1:])

	if strings.TrimSpace(question) == "" {
		question = strings.Join(flags.Args(), " ")
	}
	if strings.TrimSpace(question) == "" {
		fmt.Fprintln(os.Stderr, "usage: ask --resume resume.json --question \"What are your skills?\"")
		os.Exit(2)
	}

	if err := run(resumePath, configFile, question, asJSON, os.Stdout); err != nil {
		slog.Error("ask_failed", "error", err)
		os.Exit(1)
	}
}

func run(resumePath, configFile, question string, asJSON bool, out io.Writer) error {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return err
	}
	if resumePath != "" {
		cfg.ResumePath = resumePath
	}
	slog.SetDefault(logging.NewTextLogger(os.Stderr, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Engine.Reload(ctx); err != nil {
		return err
	}
	answer, err := app.Engine.Search(ctx, question)
	if err != nil {
		return err
	}
	return printAnswer(out, answer, asJSON)
}

func printAnswer(out io.Writer, answer *domain.Answer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}
	if _, err := fmt.Fprintln(out, answer.Text); err != nil {
		return err
	}
	if len(answer.Citations) > 0 {
		_, err := fmt.Fprintf(out, "\nsources: %s (confidence %.2f)\n", strings.Join(answer.Citations, ", "), answer.Confidence)
		return err
	}
	return nil
}
