package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"

	"github.com/handsomefox/movie-sentiment/internal/env"
	"github.com/handsomefox/movie-sentiment/internal/handlers"
	"github.com/handsomefox/movie-sentiment/internal/logger"
	"github.com/handsomefox/movie-sentiment/internal/sentiment"
	"github.com/handsomefox/movie-sentiment/internal/store"
	"github.com/handsomefox/movie-sentiment/internal/view"
	"github.com/handsomefox/movie-sentiment/internal/web"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultPort       = "8080"
	defaultAPIURL     = "http://127.0.0.1:5000"
	defaultAPITimeout = 10 * time.Second
	defaultMoviesTTL  = 10 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

func main() {
	slog.SetDefault(logger.New(slog.LevelDebug))
	if err := run(); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiTimeout, err := durationOr("API_TIMEOUT", defaultAPITimeout)
	if err != nil {
		return err
	}
	moviesTTL, err := durationOr("MOVIES_TTL", defaultMoviesTTL)
	if err != nil {
		return err
	}
	handoffTTL, err := durationOr("HANDOFF_TTL", store.DefaultTTL)
	if err != nil {
		return err
	}

	handoffs, err := openHandoffs(ctx, handoffTTL)
	if err != nil {
		return err
	}
	defer func() {
		if err := handoffs.Close(); err != nil {
			slog.Error("Failed to close handoff store", logger.Error(err))
		}
	}()

	templates, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	views, err := view.NewRenderer(templates)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	assets, err := web.Static()
	if err != nil {
		return fmt.Errorf("failed to load static assets: %w", err)
	}

	api := sentiment.New(envOr("API_URL", defaultAPIURL), envOr("API_SESSION_COOKIE", sentiment.DefaultSessionCookie), apiTimeout)
	app, err := handlers.New(&handlers.Config{
		API:         api,
		Handoffs:    handoffs,
		Views:       views,
		MoviesTTL:   moviesTTL,
		HandoffTTL:  handoffTTL,
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
	})
	if err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	// Warm the movie list so the first catalog or handoff render does not
	// pay for it. Failures are retried on demand.
	go func() {
		if _, err := app.Movies().Movies(ctx); err != nil {
			slog.Warn("Initial movie load failed", logger.Error(err))
		}
	}()

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(slog.Default(), &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaECS.Concise(env.Current == env.Local),
		RecoverPanics: true,
		Skip: func(req *http.Request, respStatus int) bool {
			return respStatus < 400 && (req.URL.Path == "/readyz" || strings.HasPrefix(req.URL.Path, "/static/"))
		},
	}))
	r.Handle("/static/*", handlers.Static(assets))
	app.RegisterRoutes(r)

	addr := ":" + envOr("PORT", defaultPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      apiTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", slog.String("addr", addr), slog.String("env", string(env.Current)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openHandoffs(ctx context.Context, ttl time.Duration) (store.Handoffs, error) {
	switch backend := envOr("HANDOFF_BACKEND", "sqlite"); backend {
	case "sqlite":
		st, err := store.Open(envOr("HANDOFF_DB", ":memory:"), ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to open handoff db: %w", err)
		}
		return st, nil
	case "redis":
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return nil, errors.New("REDIS_URL is required for the redis handoff backend")
		}
		st, err := store.OpenRedis(ctx, redisURL, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown HANDOFF_BACKEND %q", backend)
	}
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
