package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/a3tai/mcp-intake-report/internal/api"
	"github.com/a3tai/mcp-intake-report/internal/config"
	"github.com/a3tai/mcp-intake-report/internal/mcp"
	"github.com/a3tai/mcp-intake-report/internal/pdf"
	"github.com/a3tai/mcp-intake-report/internal/templates"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newLogger configures logging based on the server mode. In stdio mode
// stdout carries the MCP protocol, so records go to stderr.
func newLogger(cfg *config.Config, stdout, stderr io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if cfg.IsStdioMode() {
		return slog.New(slog.NewTextHandler(stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(stdout, opts))
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// newReportService wires the template fetcher into the report service
func newReportService(cfg *config.Config, log *slog.Logger) (*pdf.Service, error) {
	fetcher, err := templates.New(templates.Config{
		Directory: cfg.TemplateDirectory,
		Cover:     cfg.CoverTemplate,
		End:       cfg.EndTemplate,
		MaxSize:   cfg.MaxTemplateSize,
		Timeout:   cfg.FetchTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure templates: %w", err)
	}

	return pdf.NewService(pdf.ServiceConfig{
		Templates:       fetcher,
		OutputDirectory: cfg.OutputDirectory,
		MaxFileSize:     cfg.MaxFileSize,
		ProductName:     cfg.ProductName,
		CoverTemplate:   cfg.CoverTemplate,
		EndTemplate:     cfg.EndTemplate,
		Logger:          log,
	})
}

// runServerMode serves the HTTP API until a shutdown signal arrives
func runServerMode(ctx context.Context, cfg *config.Config, svc *pdf.Service, log *slog.Logger) error {
	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      api.NewServer(svc, log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		log.Info("starting intake report server", "addr", httpServer.Addr)
		serverErrCh <- httpServer.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil

	case err := <-serverErrCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// runStdioMode serves MCP over standard I/O. The parent process controls
// our lifecycle.
func runStdioMode(ctx context.Context, cfg *config.Config, svc *pdf.Service, log *slog.Logger) error {
	server, err := mcp.NewServer(cfg, svc, log)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

func main() {
	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	log := newLogger(cfg, os.Stdout, os.Stderr)
	log.Debug("starting with configuration", "config", cfg.String())

	svc, err := newReportService(cfg, log)
	if err != nil {
		log.Error("failed to create report service", "error", err)
		os.Exit(1)
	}

	// Set up context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsServerMode() {
		err = runServerMode(ctx, cfg, svc, log)
	} else {
		err = runStdioMode(ctx, cfg, svc, log)
	}
	if err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Debug("server stopped")
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Intake Report\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
