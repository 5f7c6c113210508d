package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sped-on/iep-bot/internal/ai"
	"github.com/sped-on/iep-bot/internal/criteria"
	"github.com/sped-on/iep-bot/internal/gate"
	"github.com/sped-on/iep-bot/internal/httpapi"
	"github.com/sped-on/iep-bot/internal/platform/cache"
	"github.com/sped-on/iep-bot/internal/platform/config"
	"github.com/sped-on/iep-bot/internal/platform/database"
	"github.com/sped-on/iep-bot/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.Log))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	criteriaStore, err := criteria.NewStore(cfg.CriteriaPath)
	if err != nil {
		slog.Error("failed to open criteria store", "error", err)
		os.Exit(1)
	}

	allowList, err := gate.Load(cfg.AllowListPath)
	if err != nil {
		slog.Error("failed to load allow-list", "error", err)
		os.Exit(1)
	}
	slog.Info("allow-list loaded", "entries", allowList.Len())

	registry := newRegistry(cfg.AI)

	store, readies, cleanup, err := newSessionStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up session store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := httpapi.New(session.NewService(criteriaStore, registry), store, allowList)
	for name, c := range readies {
		srv.AddReadyCheck(name, c)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Mux(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "session_store", cfg.Session.Store)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func newRegistry(cfg config.AIConfig) *ai.Registry {
	registry := ai.NewRegistry()
	if cfg.Google.APIKey != "" {
		registry.Register("google", ai.NewGoogleProvider(cfg.Google.APIKey))
	}
	if cfg.OpenAI.APIKey != "" {
		var opts []ai.OpenAIOption
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, ai.WithOpenAIBaseURL(cfg.OpenAI.BaseURL))
		}
		registry.Register("openai", ai.NewOpenAIProvider(cfg.OpenAI.APIKey, opts...))
	}
	return registry
}

// newSessionStore builds the configured session store, returning the
// backing services to register as readiness checks and a cleanup that
// closes their connections.
func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, map[string]httpapi.ReadyChecker, func(), error) {
	switch cfg.Session.Store {
	case "redis":
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect cache: %w", err)
		}
		ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
		readies := map[string]httpapi.ReadyChecker{"cache": c}
		return session.NewRedisStore(c, ttl), readies, func() { c.Close() }, nil

	case "postgres":
		db, err := database.Connect(ctx, database.Config{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect database: %w", err)
		}
		store, err := session.NewPostgresStore(db.Pool)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		readies := map[string]httpapi.ReadyChecker{"database": db}
		return store, readies, db.Close, nil

	default:
		return session.NewMemoryStore(), nil, func() {}, nil
	}
}
