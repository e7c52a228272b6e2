package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doggo-community/internal/adapters/auth/jwtauth"
	"doggo-community/internal/adapters/places/geoplaces"
	"doggo-community/internal/adapters/places/rediscache"
	"doggo-community/internal/adapters/storage/postgres"
	"doggo-community/internal/config"
	"doggo-community/internal/platform/bus"
	"doggo-community/internal/platform/httpclient"
	"doggo-community/internal/platform/logger"
	"doggo-community/internal/ports/auth"
	"doggo-community/internal/ports/places"
	"doggo-community/internal/router"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env es opcional; en prod las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid config", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	opts := router.Options{
		JWTSecret: cfg.JWTSecret,
		JWTExpiry: cfg.JWTExpiry,
	}

	if cfg.DatabaseDSN != "" {
		db, err := postgres.Open(cfg.DatabaseDSN)
		if err != nil {
			log.Error("postgres unavailable", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
		log.Info("using postgres storage", nil)
	} else {
		log.Info("using in-memory storage", nil)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		rdb, err = bus.OpenRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Error("redis unavailable", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer rdb.Close()
		opts.Redis = rdb
		log.Info("redis fanout enabled", nil)
	}

	var verifier auth.AuthVerifier
	if cfg.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.JWTSecret)
	} else {
		log.Warn("JWT_SECRET not set, auth in dev mode (X-Debug-User-ID)", nil)
	}
	opts.AuthVerifier = verifier

	if cfg.PlacesBaseURL != "" {
		hc, err := httpclient.NewWithBaseURL(cfg.PlacesBaseURL, httpclient.DefaultTimeout)
		if err != nil {
			log.Error("invalid PLACES_BASE_URL", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		var searcher places.Searcher = geoplaces.New(hc, cfg.PlacesAPIKey)
		if rdb != nil {
			searcher = rediscache.New(searcher, rdb, rediscache.DefaultTTL, log)
		}
		opts.Searcher = searcher
	}

	handler, shutdownRouter := router.NewRouter(opts)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: handler,
		// Sin WriteTimeout global: los endpoints /watch son streams SSE
		// de larga vida.
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", map[string]any{"err": err.Error()})
	}
	shutdownRouter()

	log.Info("bye", nil)
}
