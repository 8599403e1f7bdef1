package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"go-pdftools/internal/apperr"
	"go-pdftools/internal/metrics"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/utils"
)

// ProtectPDF godoc
// @Summary      Password-protect a PDF
// @Description  Encrypts the PDF with AES-256 using the password as user and owner password
// @Tags         pdf
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file      formData  file    true  "PDF file"
// @Param        password  formData  string  true  "Password"
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /protect-pdf [post]
func (h *APIHandler) ProtectPDF(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := formPDF(r, "file")
	if err != nil {
		writeError(w, r, err)
		return
	}
	password := r.FormValue("password")
	if password == "" {
		writeError(w, r, apperr.Validation("No password provided"))
		return
	}

	out, err := h.engine.Encrypt(doc.Data, password)
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to protect PDF", err))
		return
	}
	writePDF(w, "protected_"+doc.Name, out)
}

// UnlockPDF godoc
// @Summary      Remove a PDF password
// @Description  Decrypts the PDF with the given password. Without one, a dictionary of common passwords is tried in order.
// @Tags         pdf
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file      formData  file    true   "PDF file"
// @Param        password  formData  string  false  "Password"
// @Param        fileName  formData  string  false  "Download name without extension"  default(unlocked_pdf)
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /unlock-pdf [post]
func (h *APIHandler) UnlockPDF(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := formPDF(r, "file")
	if err != nil {
		writeError(w, r, err)
		return
	}
	password := r.FormValue("password")
	name := utils.BaseName(formValue(r, "fileName", "unlocked_pdf"))
	if name == "" {
		name = "unlocked_pdf"
	}

	encrypted, err := h.engine.IsEncrypted(doc.Data)
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to read PDF", err))
		return
	}
	if !encrypted {
		hlog.FromRequest(r).Info().Msg("PDF is not encrypted, returning a clean copy")
	}

	dictionary := h.dictionary
	if dictionary == nil {
		dictionary = []string{""}
	}

	out, used, err := h.engine.Unlock(doc.Data, password, dictionary)
	if err != nil {
		switch {
		case errors.Is(err, pdf.ErrWrongPassword) && password != "":
			writeError(w, r, apperr.Password("Incorrect password provided", err))
		case errors.Is(err, pdf.ErrWrongPassword):
			metrics.ObserveUnlockAttempts(len(dictionary))
			writeError(w, r, apperr.Password("Could not decrypt PDF. Please provide the correct password.", err))
		default:
			writeError(w, r, apperr.Processing("Failed to unlock PDF", err))
		}
		return
	}

	if password == "" && encrypted {
		attempts := indexOf(dictionary, used) + 1
		metrics.ObserveUnlockAttempts(attempts)
		if used != "" {
			hlog.FromRequest(r).Warn().Int("attempts", attempts).Msg("PDF unlocked with a dictionary password")
		}
	}
	writePDF(w, name+".pdf", out)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
