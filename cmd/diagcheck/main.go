package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/venegas/diagcheck/internal/lint"
	"github.com/venegas/diagcheck/internal/logging"
	"github.com/venegas/diagcheck/internal/retention"
	"github.com/venegas/diagcheck/internal/rules"
	"github.com/venegas/diagcheck/internal/server"
	"github.com/venegas/diagcheck/internal/store"
	"github.com/venegas/diagcheck/internal/streaming"
	diagmcp "github.com/venegas/diagcheck/pkg/mcp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("diagcheck exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg := loadConfig()
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional custom lint rules.
	var ruleApplier lint.RuleApplier
	if cfg.RulesPath != "" {
		set, err := rules.Load(cfg.RulesPath, logger)
		if err != nil {
			return err
		}
		logger.Info("custom rules loaded",
			slog.String("path", cfg.RulesPath),
			slog.Int("count", set.Len()))
		ruleApplier = set
	}

	checker := lint.New(ruleApplier, logger)

	// Optional validation history.
	var st store.Store
	if cfg.History {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return err
		}
		libsqlStore, err := store.NewLibSQLStore("file:" + cfg.DBPath)
		if err != nil {
			return err
		}
		defer libsqlStore.Close()
		if err := libsqlStore.Migrate(ctx); err != nil {
			return err
		}
		st = libsqlStore

		if cfg.RetentionDays > 0 {
			pruner, err := retention.NewPruner(st, cfg.PruneSchedule, cfg.RetentionDays, logger)
			if err != nil {
				return err
			}
			if err := pruner.Start(ctx); err != nil {
				return err
			}
			defer pruner.Stop()
		}
	}

	if cfg.MCP {
		logger.Info("serving MCP on stdio")
		mcpSrv := diagmcp.NewDiagServer(diagmcp.DiagServerDeps{
			Checker: checker,
			Store:   st,
			Logger:  logger,
		})
		return mcpSrv.Serve(ctx)
	}

	hub := streaming.NewMemoryHub()
	srv, err := server.New(server.Deps{
		Checker: checker,
		Store:   st,
		Hub:     hub,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("diagcheck listening", slog.String("addr", cfg.ListenAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return httpSrv.Shutdown(shutdownCtx)
}

// newLogger builds the service logger with correlation ID injection.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(logging.NewCorrelationHandler(inner))
}
