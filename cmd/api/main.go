// Package main is the entrypoint for the tiktoker API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tiktoker/tiktoker/internal/cache"
	"github.com/tiktoker/tiktoker/internal/config"
	"github.com/tiktoker/tiktoker/internal/handler"
	"github.com/tiktoker/tiktoker/internal/metrics"
	"github.com/tiktoker/tiktoker/internal/middleware"
	"github.com/tiktoker/tiktoker/internal/repository"
	"github.com/tiktoker/tiktoker/internal/server"
	"github.com/tiktoker/tiktoker/internal/service"
	"github.com/tiktoker/tiktoker/internal/tiktok"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Upstream clients
	fetchClient := tiktok.NewHTTPClient(cfg.FetchTimeout)
	redirectClient := tiktok.NewHTTPClient(cfg.RedirectTimeout)
	fetcher := tiktok.NewFetcher(fetchClient, cfg.DetailURL, cfg.MusicURL)
	resolver := tiktok.NewResolver(redirectClient)

	// Services
	recorder := metrics.NewInMemory()
	shortener := service.NewShortURLService(repo, cfg.ShortBaseURL, recorder)
	resolution := service.NewResolutionService(resolver, fetcher, shortener, recorder)
	redirectSvc := service.NewRedirectService(repo, cacheClient, recorder)
	guildSvc := service.NewGuildService(repo, cacheClient)
	usageSvc := service.NewUsageService(repo)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	resolveHandler := handler.NewResolveHandler(resolution, logger)
	redirectHandler := handler.NewRedirectHandler(redirectSvc, cfg.PlaybackURL, logger)
	guildHandler := handler.NewGuildHandler(guildSvc, logger)
	usageHandler := handler.NewUsageHandler(usageSvc, logger)
	musicHandler := handler.NewMusicHandler(fetcher, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)

	r := setupRouter(h, healthHandler, resolveHandler, redirectHandler, guildHandler, usageHandler, musicHandler, metricsHandler, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"short_base_url", cfg.ShortBaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	resolveHandler *handler.ResolveHandler,
	redirectHandler *handler.RedirectHandler,
	guildHandler *handler.GuildHandler,
	usageHandler *handler.UsageHandler,
	musicHandler *handler.MusicHandler,
	metricsHandler *handler.MetricsHandler,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Get("/", h.Hello)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/resolve", resolveHandler.Resolve)

		r.Route("/guilds/{guildID}", func(r chi.Router) {
			r.Get("/config", guildHandler.GetConfig)
			r.Put("/config", guildHandler.UpdateConfig)
			r.Get("/usage", usageHandler.GuildUsage)
			r.Delete("/users/{userID}/usage", usageHandler.Scrub)
		})

		r.Post("/usage", usageHandler.Record)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/usage", usageHandler.UserUsage)
			r.Post("/optout", usageHandler.OptOut)
			r.Delete("/optout", usageHandler.OptIn)
		})

		r.Get("/music/{musicID}", musicHandler.Detail)
	})

	// Short-link redirect hot path, no auth.
	r.Get("/{slug}", redirectHandler.Redirect)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
