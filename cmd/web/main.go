package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/bilgisen/croft/internal/config"
	"github.com/bilgisen/croft/internal/daemon"
	"github.com/bilgisen/croft/internal/logger"
	"github.com/bilgisen/croft/internal/probe"
)

func main() {
	probeOnly := flag.Bool("probe", false, "check that a local daemon answers and exit")
	flag.Parse()

	cfg := config.LoadDaemon()

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.LogPretty,
	}); err != nil {
		logger.Get().Warn().Err(err).Msg("Falling back to stdout logging")
	}
	log := logger.Get()

	if *probeOnly {
		url, err := probe.LocalURL(cfg.DaemonAddr, "/")
		if err == nil {
			err = probe.New(3*time.Second, 2).Check(context.Background(), url)
		}
		if err != nil {
			log.Error().Err(err).Msg("Probe failed")
			os.Exit(1)
		}
		return
	}

	handler, err := daemon.NewHandler(cfg.DaemonRoot, cfg.DaemonIndex)
	if err != nil {
		log.Fatal().Err(err).Str("root", cfg.DaemonRoot).Msg("Failed to resolve serving directory")
	}

	server := &http.Server{
		Addr:              cfg.DaemonAddr,
		Handler:           daemon.WithAccessLog(handler, *log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", cfg.DaemonAddr).
		Str("root", cfg.DaemonRoot).
		Str("index", cfg.DaemonIndex).
		Msgf("Serving at http://%s", cfg.DaemonAddr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
