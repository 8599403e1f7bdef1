// Package main API.
//
// go-pdftools provides a REST API for watermarking, protecting, unlocking,
// compressing and rearranging PDF files.
//
//	Schemes: http
//	BasePath: /
//	Version: 1.0.0
//	Host: localhost:8080
//
//	Consumes:
//	- multipart/form-data
//
//	Produces:
//	- application/json
//	- application/pdf
//
// swagger:meta
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"

	"go-pdftools/internal/config"
	"go-pdftools/internal/logger"
	"go-pdftools/internal/server"
)

func gracefulShutdown(apiServer *http.Server, done chan bool, cleanupFunc func()) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop()

	// In-flight requests get 5 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if cleanupFunc != nil {
		log.Info().Msg("cleaning scratch directory")
		cleanupFunc()
	}

	log.Info().Msg("server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := logger.Init(logger.Options{
		Level:      cfg.Logging.Level,
		Pretty:     cfg.Logging.Pretty,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}

	// pdfcpu must not create or read a user config directory.
	pdfapi.DisableConfigDir()

	apiServer, cleanup, err := server.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, done, cleanup)

	log.Info().Str("addr", apiServer.Addr).Str("work_dir", cfg.Storage.WorkDir).Msg("starting server")
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
}
