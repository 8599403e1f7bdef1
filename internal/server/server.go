// Package server provides the HTTP server setup for go-pdftools.
//
// NewServer wires the PDF engine, the watermark composer, the compressor
// and the scratch workspace into the HTTP handlers.
//
// Expected outputs:
// - Server listens on the configured port (default 8080)
// - Stale scratch directories are swept periodically
//
// Usage:
//
//	srv, cleanup, err := server.NewServer(cfg)
//	defer cleanup()
//	srv.ListenAndServe()
//
// See internal/server/routes.go for route registration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"go-pdftools/internal/compress"
	"go-pdftools/internal/config"
	"go-pdftools/internal/metrics"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/watermark"
	"go-pdftools/internal/workspace"
)

type Server struct {
	port       int
	cfg        config.Config
	Engine     *pdf.Engine
	Composer   *watermark.Composer
	Compressor *compress.Compressor
	Workspace  *workspace.Manager
	Dictionary []string
}

// New builds a Server from cfg without starting anything.
func New(cfg config.Config) (*Server, error) {
	ws, err := workspace.NewManager(cfg.Storage.WorkDir)
	if err != nil {
		return nil, err
	}
	engine := pdf.NewEngine()
	gs := compress.NewGhostscript(cfg.Compress.GhostscriptBinary, cfg.Compress.Timeout)

	return &Server{
		port:       cfg.Server.Port,
		cfg:        cfg,
		Engine:     engine,
		Composer:   watermark.NewComposer(),
		Compressor: compress.NewCompressor(gs, engine),
		Workspace:  ws,
		Dictionary: dictionary(cfg.Unlock),
	}, nil
}

// NewServer returns the HTTP server and a cleanup function that stops the
// sweeper and purges the scratch root.
func NewServer(cfg config.Config) (*http.Server, func(), error) {
	srv, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		srv.sweep(ctx, cfg.Storage.SweepInterval, cfg.Storage.ScratchTTL)
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  cfg.Server.IdleTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	cleanup := func() {
		cancel()
		wg.Wait()
		if err := srv.Workspace.Purge(); err != nil {
			log.Warn().Err(err).Str("dir", srv.Workspace.Root).Msg("failed to purge scratch directory")
		}
	}
	return server, cleanup, nil
}

// sweep removes orphaned scratch directories older than ttl every interval.
func (s *Server) sweep(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Workspace.Sweep(ttl)
			if err != nil {
				log.Warn().Err(err).Msg("scratch sweep incomplete")
			}
			if removed > 0 {
				log.Info().Int("removed", removed).Msg("swept stale scratch directories")
				metrics.AddScratchSwept(removed)
			}
			metrics.SetScratchActive(s.Workspace.Active())
		}
	}
}

// dictionary returns the unlock password list, or nil when the search is
// disabled. Duplicates are dropped, keeping first occurrences.
func dictionary(cfg config.UnlockConfig) []string {
	if !cfg.DictionaryEnabled {
		return nil
	}
	list := cfg.Dictionary
	if len(list) == 0 {
		return pdf.DefaultPasswords()
	}
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, p := range list {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
