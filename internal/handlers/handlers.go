// Package handlers provides HTTP handlers for the PDF tools API.
//
// Every endpoint takes a multipart form with one PDF (merge takes several),
// transforms it synchronously and returns the result as an attachment.
//
// Example usage:
//
//	h := handlers.NewAPIHandler(handlers.Options{Engine: pdf.NewEngine(), ...})
//	r := chi.NewRouter()
//	r.Post("/watermark-pdf", h.WatermarkPDF)
//
// All handlers are designed to be used with the chi router.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/hlog"

	"go-pdftools/internal/apperr"
	"go-pdftools/internal/compress"
	"go-pdftools/internal/metrics"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/utils"
	"go-pdftools/internal/watermark"
	"go-pdftools/internal/workspace"
)

const defaultMaxUpload = 50 << 20

type Options struct {
	Engine     *pdf.Engine
	Composer   *watermark.Composer
	Compressor *compress.Compressor
	Workspace  *workspace.Manager

	// MaxUploadBytes bounds the whole request body.
	MaxUploadBytes int64
	// Dictionary is tried in order by UnlockPDF when no password is given.
	// Nil disables the search; only the empty password is tried.
	Dictionary []string
}

type APIHandler struct {
	engine     *pdf.Engine
	composer   *watermark.Composer
	compressor *compress.Compressor
	workspace  *workspace.Manager
	maxUpload  int64
	dictionary []string
}

func NewAPIHandler(opts Options) *APIHandler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	return &APIHandler{
		engine:     opts.Engine,
		composer:   opts.Composer,
		compressor: opts.Compressor,
		workspace:  opts.Workspace,
		maxUpload:  opts.MaxUploadBytes,
		dictionary: opts.Dictionary,
	}
}

// Health godoc
// @Summary      Liveness probe
// @Description  Reports that the server is running
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string  "{ status: ok, message: string }"
// @Router       / [get]
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
}

// upload is one validated PDF from the form.
type upload struct {
	Name string
	Data []byte
}

func (h *APIHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("File too large")
		}
		return apperr.Validation("Invalid multipart form")
	}
	return nil
}

// formPDF returns the PDF uploaded under field.
func formPDF(r *http.Request, field string) (*upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, apperr.Validation("No file provided")
	}
	defer file.Close()
	return readPDF(file, header)
}

func readPDF(file multipart.File, header *multipart.FileHeader) (*upload, error) {
	if header.Filename == "" {
		return nil, apperr.Validation("No selected file")
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return nil, apperr.Validation("File must be a PDF")
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperr.Validation("Failed to read file")
	}
	if !mimetype.Detect(data).Is("application/pdf") {
		return nil, apperr.Validation("Uploaded file is not a valid PDF")
	}
	name := utils.SanitizeFilename(header.Filename)
	if name == "" {
		name = "document.pdf"
	}
	return &upload{Name: name, Data: data}, nil
}

func formValue(r *http.Request, key, def string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return def
}

func formFloat(r *http.Request, key string, def float64) (float64, error) {
	v := formValue(r, key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf("Invalid %s", key))
	}
	return f, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := formValue(r, key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf("Invalid %s", key))
	}
	return n, nil
}

func (h *APIHandler) acquire(op string) (*workspace.Scratch, error) {
	s, err := h.workspace.Acquire(op)
	if err != nil {
		return nil, apperr.Resource("Failed to allocate temporary storage", err)
	}
	metrics.SetScratchActive(h.workspace.Active())
	return s, nil
}

// release never fails the request; cleanup errors are only logged.
func (h *APIHandler) release(r *http.Request, s *workspace.Scratch) {
	if err := s.Release(); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("dir", s.Dir).Msg("failed to remove scratch directory")
	}
	metrics.SetScratchActive(h.workspace.Active())
}

func writePDF(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	ev := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		ev = hlog.FromRequest(r).Error()
	}
	ev.Err(err).Str("kind", apperr.KindOf(err).String()).Int("status", status).Msg("request failed")
	writeJSON(w, status, map[string]string{"error": apperr.Message(err)})
}
