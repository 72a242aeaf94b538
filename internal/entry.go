// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/filenav/internal/api"
	"github.com/starford/filenav/internal/commands"
	"github.com/starford/filenav/internal/i18n"
	"github.com/starford/filenav/internal/index"
	"github.com/starford/filenav/internal/models"
	"github.com/starford/filenav/internal/navservice"
	"github.com/starford/filenav/internal/settings"
	"github.com/starford/filenav/internal/sse"
	"github.com/starford/filenav/internal/storage"
)

var errConfigRequired = errors.New("config is required")

// runtime holds the components shared by every entry point.
type runtime struct {
	logger   *slog.Logger
	store    *storage.FS
	db       *index.DB
	settings *settings.Store
	tr       *i18n.Translator
	registry *commands.Registry
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// bootstrap opens storage, the index and the settings file, and runs an
// initial sync so the index reflects the vault.
func bootstrap(ctx context.Context, cfg *Config, logger *slog.Logger) (*runtime, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	ss, err := settings.Open(ctx, cfg.Settings.Path)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}

	tr := i18n.New(cfg.App.ResolvedLocale())
	registry := commands.NewRegistry(tr, ss.Snapshot())
	ss.OnChange(registry.Refresh)

	return &runtime{
		logger:   logger,
		store:    store,
		db:       db,
		settings: ss,
		tr:       tr,
		registry: registry,
	}, nil
}

func (rt *runtime) Close() {
	if err := rt.db.Close(); err != nil {
		rt.logger.Warn("close index", slog.String("error", err.Error()))
	}
}

func (rt *runtime) navigator(opener navservice.Opener, notifier navservice.Notifier) *navservice.Service {
	return navservice.New(rt.settings, rt.db, opener, notifier, rt.tr, rt.logger)
}

// Run starts the HTTP server, the vault watcher and the SSE broker.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("settings_path", cfg.Settings.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	rt.settings.OnChange(func(settings.Settings) {
		broker.PublishSettings(rt.registry.List())
	})

	opener := navservice.OpenerFunc(func(_ context.Context, doc models.Document) error {
		broker.PublishOpen(doc.Path)
		return nil
	})
	notifier := navservice.NotifierFunc(func(_ context.Context, n navservice.Notice) {
		broker.PublishNotice(n.Key, n.Message)
	})

	apiRouter := api.NewRouter(api.Services{
		Settings:  rt.settings,
		Commands:  rt.registry,
		Navigator: rt.navigator(opener, notifier),
		Documents: rt.db,
	}, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := rt.db.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Keep the index in step with the vault and forward changes to clients.
	g.Go(func() error {
		err := index.Watch(gCtx, rt.db, rt.store, rt.store.Root(), logger, broker.PublishDocumentEvent)
		if err != nil {
			logger.Warn("watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

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

		// Ends open event streams so Shutdown does not wait on them.
		broker.Close()

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
