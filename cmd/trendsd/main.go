// SPDX-License-Identifier: MIT

// Command trendsd serves normalized TMDB trending content over HTTP with a
// TTL cache in front of the upstream API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/streamvibe/trendsd/internal/api"
	"github.com/streamvibe/trendsd/internal/cache"
	"github.com/streamvibe/trendsd/internal/config"
	"github.com/streamvibe/trendsd/internal/health"
	"github.com/streamvibe/trendsd/internal/log"
	"github.com/streamvibe/trendsd/internal/tmdb"
	"github.com/streamvibe/trendsd/internal/trends"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "", "path to optional YAML config file")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("trendsd %s\n", Version)
		return
	}

	// Best effort: a missing .env is the normal production case.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Configure(log.Config{Version: Version})
		logger := log.Base()
		logger.Fatal().Err(err).Str("event", "config.load_failed").Msg("failed to load configuration")
	}

	log.Configure(log.Config{Level: cfg.LogLevel, Version: Version})
	logger := log.WithComponent("main")

	client, err := tmdb.New(tmdb.Config{
		BaseURL: cfg.TMDBBaseURL,
		Token:   cfg.TMDBToken,
		APIKey:  cfg.TMDBAPIKey,
		Timeout: cfg.UpstreamTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Str("event", "tmdb.client_failed").Msg("failed to build TMDB client")
	}

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "cache.init_failed").Msg("failed to initialize cache")
	}
	defer cleanup()

	service := trends.NewService(client, store)

	healthManager := health.NewManager(Version)
	healthManager.Register(health.CheckerFunc{
		CheckerName: "tmdb",
		Fn: func(ctx context.Context) health.CheckResult {
			if h := service.CheckHealth(ctx); h.Status != trends.StatusOK {
				return health.CheckResult{Status: health.StatusUnhealthy, Error: "TMDB unreachable"}
			}
			return health.CheckResult{Status: health.StatusHealthy}
		},
	})

	apiCfg := api.Config{
		DefaultRegion:  cfg.DefaultRegion,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPM:   cfg.RateLimitRPM,
	}
	if cfg.MetricsEnabled {
		apiCfg.MetricsHandler = promhttp.Handler()
	}
	server := api.NewServer(service, healthManager, apiCfg)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("event", "http.listening").
			Str("addr", cfg.ListenAddr).
			Str("cache", cfg.CacheBackend).
			Msg("trendsd listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Str("event", "shutdown.signal").Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Str("event", "http.serve_failed").Msg("HTTP server failed")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Str("event", "shutdown.failed").Msg("graceful shutdown failed")
		os.Exit(1)
	}
	logger.Info().Str("event", "shutdown.complete").Msg("trendsd stopped")
}

// buildStore selects the cache backend from configuration. The returned
// cleanup releases backend resources and is safe to call once.
func buildStore(cfg config.Config) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		store, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log.WithComponent("cache"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.CacheOff:
		return cache.NewDisabled(), func() {}, nil
	default:
		store := cache.NewMemory(cfg.CacheSweep)
		return store, store.Stop, nil
	}
}
