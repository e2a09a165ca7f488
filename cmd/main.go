package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/croft/internal/assets"
	"github.com/bilgisen/croft/internal/cache"
	"github.com/bilgisen/croft/internal/config"
	"github.com/bilgisen/croft/internal/logger"
	"github.com/bilgisen/croft/internal/page"
	"github.com/bilgisen/croft/internal/probe"
	"github.com/bilgisen/croft/internal/web"
)

func main() {
	probeOnly := flag.Bool("probe", false, "check that a local instance is healthy and exit")
	flag.Parse()

	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.LogPretty,
	}); err != nil {
		logger.Get().Warn().Err(err).Msg("Falling back to stdout logging")
	}

	log := logger.Get()

	if *probeOnly {
		url, err := probe.LocalURL(":"+cfg.Port, "/healthz")
		if err == nil {
			err = probe.New(3*time.Second, 2).Check(context.Background(), url)
		}
		if err != nil {
			log.Error().Err(err).Msg("Probe failed")
			os.Exit(1)
		}
		return
	}

	log.Info().Str("env", cfg.Env).Msg("Starting web responder...")

	if cfg.UsesDefaultSecret() && cfg.IsProduction() {
		log.Warn().Msg("SESSION_SECRET is not set, using the default key in production")
	}

	pg, err := page.Load(cfg.TemplatePath, page.Data{StaticPrefix: "/static"})
	if err != nil {
		log.Fatal().Err(err).Str("template", cfg.TemplatePath).Msg("Failed to load index page")
	}

	ctx := context.Background()

	var store assets.Store
	store, err = assets.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.AssetBackend).Msg("Failed to initialize asset store")
	}
	if disk, ok := store.(*assets.DiskStore); ok {
		count, err := disk.Count(ctx)
		if err != nil {
			log.Fatal().Err(err).Str("dir", disk.Root()).Msg("Failed to read static directory")
		}
		log.Info().Str("dir", disk.Root()).Int("files", count).Msg("Serving static assets from disk")
	} else {
		log.Info().Str("bucket", cfg.R2Bucket).Str("prefix", cfg.R2Prefix).Msg("Serving static assets from R2")
	}

	// Optional Redis cache in front of the asset store
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		defer func() {
			log.Info().Msg("Closing Redis client...")
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing Redis client")
			}
		}()

		if cfg.CachePurgeOnStart {
			purged, err := redisClient.Purge(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to purge asset cache")
			} else {
				log.Info().Int("keys", purged).Msg("Purged asset cache")
			}
		}

		store = assets.NewCachedStore(store, redisClient, cfg.CacheTTL, cfg.CacheMaxObjectSize)
	}

	srv, err := web.NewServer(cfg, pg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build routes")
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create a deadline for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
