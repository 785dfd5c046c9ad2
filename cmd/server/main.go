package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"goaltracker/docs" // swagger docs
	"goaltracker/internal/ai"
	"goaltracker/internal/auth"
	"goaltracker/internal/cache"
	"goaltracker/internal/config"
	"goaltracker/internal/handler"
	"goaltracker/internal/logging"
	"goaltracker/internal/repository"
	"goaltracker/internal/router"
	"goaltracker/internal/service"
)

// @title Goal Tracker API
// @version 1.0
// @description Goal and habit tracking API with AI goal analysis and JWT authentication.
// @host localhost:3001
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	log := logging.NewJSON(os.Stdout, os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "config load failed", "error", err)
		return err
	}
	log = logging.NewJSON(os.Stdout, cfg.LogLevel)

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Error(ctx, "store init failed", "backend", cfg.Backend, "error", err)
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Error(ctx, "migrate failed", "backend", cfg.Backend, "error", err)
		return err
	}
	log.Info(ctx, "store ready", "backend", cfg.Backend)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if cacheClient != nil {
		if err := cacheClient.Ping(ctx); err != nil {
			log.Warn(ctx, "redis unreachable, serving from the store only", "addr", cfg.RedisAddr, "error", err)
		}
	}

	if cfg.AIAPIKey == "" {
		log.Warn(ctx, "AI_API_KEY is not set; goal analysis will fall back to NONE")
	}
	gateway := ai.New(ai.Options{
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
		APIKey:  cfg.AIAPIKey,
		Timeout: cfg.AITimeout,
	}, log.With("component", "ai"))

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokens := auth.NewTokenStore(cacheClient)
	authService := service.NewAuthService(store.Users(), jwtService, tokens, log.With("component", "auth"))
	goalService := service.NewGoalService(store.Goals(), cacheClient, cfg.CacheTTL, log.With("component", "goals"))

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	goalHandler := handler.NewGoalHandler(goalService)
	aiHandler := handler.NewAIHandler(gateway, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, log, jwtService, tokens, authHandler, goalHandler, aiHandler)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Info(ctx, "swagger documentation available", "url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server listening", "addr", addr, "require_auth", cfg.RequireAuth)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error(ctx, "server start failed", "error", err)
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "shutdown failed", "error", err)
		return err
	}
	return nil
}
