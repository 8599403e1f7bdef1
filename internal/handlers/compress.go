package handlers

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"go-pdftools/internal/apperr"
	"go-pdftools/internal/compress"
	"go-pdftools/internal/metrics"
	"go-pdftools/internal/utils"
)

// CompressPDF godoc
// @Summary      Compress a PDF
// @Description  Rewrites the PDF with Ghostscript at the requested quality, stepping down to stricter tiers until the target size is met
// @Tags         pdf
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file          formData  file    true   "PDF file"
// @Param        targetSizeMB  formData  number  false  "Target size in MB"
// @Param        quality       formData  string  false  "high, medium or low"  default(high)
// @Success      200  {file}    binary
// @Header       200  {string}  X-Original-Size       "Input size, e.g. 3.20 MB"
// @Header       200  {string}  X-Compressed-Size     "Output size"
// @Header       200  {string}  X-Compression-Ratio   "Size reduction, e.g. 41.3%"
// @Header       200  {string}  X-Quality-Used        "Tier that produced the output"
// @Header       200  {string}  X-Compression-Method  "Ghostscript or pdfcpu"
// @Header       200  {string}  X-Target-Size         "Requested target, when given"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /compress [post]
func (h *APIHandler) CompressPDF(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := formPDF(r, "file")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var target float64
	if v := formValue(r, "targetSizeMB", ""); v != "" {
		target, err = strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, r, apperr.Validation("Invalid target size format"))
			return
		}
		if target <= 0 {
			writeError(w, r, apperr.Validation("Target size must be greater than 0"))
			return
		}
	}
	req := compress.Request{Tier: compress.ParseTier(r.FormValue("quality")), TargetSizeMB: target}

	scratch, err := h.acquire("compress")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer h.release(r, scratch)

	inPath, err := scratch.WriteFile("input.pdf", doc.Data)
	if err != nil {
		writeError(w, r, apperr.Resource("Failed to store upload", err))
		return
	}
	outPath := scratch.Path("output.pdf")

	outcome, err := h.compressor.Compress(r.Context(), inPath, outPath, req)
	if err != nil {
		writeError(w, r, apperr.Processing("Compression failed", err))
		return
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		writeError(w, r, apperr.Processing("Compression failed", err))
		return
	}

	originalMB := utils.BytesToMB(int64(len(doc.Data)))
	compressedMB := utils.BytesToMB(int64(len(out)))
	ratio := (originalMB - compressedMB) / originalMB * 100
	metrics.ObserveCompression(outcome.Method, string(outcome.Tier), outcome.TargetMissed, ratio)

	hlog.FromRequest(r).Info().
		Str("method", outcome.Method).
		Str("tier", string(outcome.Tier)).
		Float64("ratio", ratio).
		Bool("target_missed", outcome.TargetMissed).
		Msg(outcome.Message)

	w.Header().Set("X-Original-Size", utils.FormatMB(originalMB))
	w.Header().Set("X-Compressed-Size", utils.FormatMB(compressedMB))
	w.Header().Set("X-Compression-Ratio", strconv.FormatFloat(ratio, 'f', 1, 64)+"%")
	w.Header().Set("X-Quality-Used", string(outcome.Tier))
	w.Header().Set("X-Compression-Method", outcome.Method)
	if target > 0 {
		w.Header().Set("X-Target-Size", formatTarget(target))
	}
	writePDF(w, "compressed_"+doc.Name, out)
}

// formatTarget echoes the requested target, always with a decimal part
// ("2.0 MB", "1.5 MB").
func formatTarget(mb float64) string {
	s := strconv.FormatFloat(mb, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " MB"
}
