// Package main is the entrypoint for the GitReq API server.
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

	"github.com/gitreq/gitreq/internal/auth"
	"github.com/gitreq/gitreq/internal/cache"
	"github.com/gitreq/gitreq/internal/config"
	"github.com/gitreq/gitreq/internal/handler"
	"github.com/gitreq/gitreq/internal/metrics"
	"github.com/gitreq/gitreq/internal/middleware"
	"github.com/gitreq/gitreq/internal/repository"
	"github.com/gitreq/gitreq/internal/server"
	"github.com/gitreq/gitreq/internal/service"
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

	recorder := metrics.NewInMemory()
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTTTL)

	authService := service.NewAuthService(repo, tokens, cfg.BcryptCost, recorder)
	projectService := service.NewProjectService(repo, recorder)
	fileService := service.NewFileService(repo, repo, recorder)

	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	authHandler := handler.NewAuthHandler(authService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)

	r := setupRouter(routerDeps{
		health:   healthHandler,
		metrics:  metricsHandler,
		auth:     authHandler,
		projects: projectHandler,
		files:    fileHandler,
		tokens:   tokens,
		cache:    cacheClient,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
	})

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

// parseLogLevel converts string log level to slog.Level.
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

type routerDeps struct {
	health   *handler.HealthHandler
	metrics  *handler.MetricsHandler
	auth     *handler.AuthHandler
	projects *handler.ProjectHandler
	files    *handler.FileHandler
	tokens   *auth.TokenService
	cache    *cache.Cache
	recorder metrics.Recorder
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	// Probes and metrics (no auth required)
	r.Get("/health", deps.health.Healthz)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	authCfg := middleware.AuthConfig{
		Logger:  deps.logger,
		Tokens:  deps.tokens,
		Metrics: deps.recorder,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitAuthEnabled,
		RPM:     deps.cfg.RateLimitAuthRPM,
		Burst:   deps.cfg.RateLimitAuthBurst,
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints carry IP rate limiting but no auth.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimitAuth(rateLimitCfg))
				r.Post("/register", deps.auth.Register)
				r.Post("/login", deps.auth.Login)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(authCfg))
				r.Get("/profile", deps.auth.Profile)
				r.Patch("/profile", deps.auth.UpdateProfile)
				r.Delete("/profile", deps.auth.DeleteAccount)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(middleware.Authenticate(authCfg))
			r.Post("/", deps.projects.Create)
			r.Get("/", deps.projects.List)
			r.Get("/{id}", deps.projects.Get)
			r.Put("/{id}", deps.projects.Update)
			r.Delete("/{id}", deps.projects.Delete)
		})

		r.Route("/files", func(r chi.Router) {
			r.Use(middleware.Authenticate(authCfg))
			r.Post("/", deps.files.Create)
			r.Get("/project/{projectId}", deps.files.ListForProject)
			r.Get("/{id}", deps.files.Get)
			r.Put("/{id}", deps.files.Update)
			r.Delete("/{id}", deps.files.Delete)
		})
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL strips credentials from a connection URL before logging.
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

// sanitizeError scrubs connection secrets out of an error message.
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
