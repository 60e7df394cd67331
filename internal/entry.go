// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/xrefview/internal/api"
	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/projects"
	"github.com/starford/xrefview/internal/storage"
)

// xrefDir is the directory under the data root holding the cross-reference
// cache.
const xrefDir = "xref"

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("source_root", cfg.Source.Root),
		slog.String("data_root", cfg.Source.DataRoot),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Int("projects", len(cfg.Projects)),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize storage.
	src, err := storage.NewFS(cfg.Source.Root)
	if err != nil {
		return fmt.Errorf("init source storage: %w", err)
	}
	data, err := storage.NewFS(cfg.Source.DataRoot)
	if err != nil {
		return fmt.Errorf("init data storage: %w", err)
	}
	xref, err := data.Sub(xrefDir)
	if err != nil {
		return fmt.Errorf("init xref cache: %w", err)
	}

	// Initialize SQLite index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// Project notifications.
	var messages *projects.Store
	if cfg.Messages.Path != "" {
		messages, err = projects.LoadStore(cfg.Messages.Path)
		if err != nil {
			return fmt.Errorf("load messages: %w", err)
		}
	}

	svc := api.NewService(db, src, xref, api.Options{
		ContextPath:    cfg.Render.ContextPath,
		TabSize:        cfg.Render.TabSize,
		SourceContext:  cfg.Render.SourceContext,
		HistoryContext: cfg.Render.HistoryContext,
		LastEdited:     cfg.Render.LastEdited,
		ContextLimit:   cfg.Render.ContextLimit,
		PageSize:       cfg.Render.PageSize,
		CompressXrefs:  cfg.Source.CompressXrefs,
		Projects:       projects.NewRegistry(cfg.Projects),
		Messages:       messages,
		Descriptions:   cfg.Descriptions,
		Logger:         logger,
	})
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Ping(req.Context()); err != nil {
			logger.Warn("readiness check failed", slog.String("error", err.Error()))
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	})

	r.Mount("/", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload project messages when their file changes.
	if messages != nil {
		g.Go(func() error {
			if err := messages.Watch(gCtx, logger); err != nil {
				logger.Warn("messages watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, `{"status":%q}`, status)
}
