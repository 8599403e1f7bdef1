package server

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-pdftools/docs"
	"go-pdftools/internal/handlers"
	"go-pdftools/internal/logger"
	"go-pdftools/internal/metrics"
)

// Only allow requests from localhost to /swagger/*
func localhostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, _ := net.SplitHostPort(r.RemoteAddr)
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records the outcome and latency of op.
func instrument(op string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next(ww, r)

		result := "success"
		switch status := ww.Status(); {
		case status >= http.StatusInternalServerError:
			result = "error"
		case status >= http.StatusBadRequest:
			result = "rejected"
		}
		metrics.ObserveOperation(op, result, time.Since(start))
	}
}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(*logger.Get()))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.RemoteAddrHandler("ip"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	origins := s.cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Requested-With"},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-Original-Size",
			"X-Compressed-Size",
			"X-Compression-Ratio",
			"X-Quality-Used",
			"X-Compression-Method",
			"X-Target-Size",
		},
	}))

	r.With(localhostOnly).Get("/swagger/*", httpSwagger.WrapHandler)
	r.Handle("/metrics", metrics.Handler())

	h := handlers.NewAPIHandler(handlers.Options{
		Engine:         s.Engine,
		Composer:       s.Composer,
		Compressor:     s.Compressor,
		Workspace:      s.Workspace,
		MaxUploadBytes: s.cfg.MaxUploadBytes(),
		Dictionary:     s.Dictionary,
	})
	r.Get("/", h.Health)
	r.Post("/watermark-pdf", instrument("watermark", h.WatermarkPDF))
	r.Post("/protect-pdf", instrument("protect", h.ProtectPDF))
	r.Post("/unlock-pdf", instrument("unlock", h.UnlockPDF))
	r.Post("/compress", instrument("compress", h.CompressPDF))
	r.Post("/merge-pdf", instrument("merge", h.MergePDF))
	r.Post("/rotate-pdf", instrument("rotate", h.RotatePDF))
	r.Post("/remove-pages", instrument("remove_pages", h.RemovePages))
	r.Post("/extract-pages", instrument("extract_pages", h.ExtractPages))
	r.Post("/reorder-pages", instrument("reorder_pages", h.ReorderPages))
	r.Post("/insert-blank-page", instrument("insert_blank_page", h.InsertBlankPage))
	r.Post("/add-page-numbers", instrument("add_page_numbers", h.AddPageNumbers))

	return r
}
