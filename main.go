package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shadow-boy/short-uri-project/internal/config"
	"github.com/shadow-boy/short-uri-project/internal/jwt"
	"github.com/shadow-boy/short-uri-project/internal/router"
	"github.com/shadow-boy/short-uri-project/internal/service"
	"github.com/shadow-boy/short-uri-project/internal/store"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	if cfg.JWTSecret == "dev-secret-change-me" {
		log.Warn().Msg("JWT_SECRET not set, using insecure development default")
	}

	// Connect to the store. Without REDIS_URL the server runs on the
	// in-memory store, which is fine for local development but loses all
	// links on restart.
	var st store.Store
	if cfg.RedisURL != "" {
		st, err = store.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		log.Info().Msg("connected to Redis")
	} else {
		st = store.NewMemoryStore()
		log.Warn().Msg("REDIS_URL not set, using in-memory store")
	}

	tokens := jwt.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	authService, err := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, tokens)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth service")
	}
	linkService := service.NewLinkService(st)
	clickService := service.NewClickService(st)
	resolverService := service.NewResolverService(st, clickService, log)

	engine := router.New(cfg, log, router.Services{
		Auth:     authService,
		Links:    linkService,
		Clicks:   clickService,
		Resolver: resolverService,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
