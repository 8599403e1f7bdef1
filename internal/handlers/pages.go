package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"go-pdftools/internal/apperr"
	"go-pdftools/internal/pages"
	"go-pdftools/internal/pdf"
)

// MergePDF godoc
// @Summary      Merge PDFs
// @Description  Concatenates the uploaded PDFs in upload order
// @Tags         pages
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        files  formData  file  true  "Two or more PDF files"
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /merge-pdf [post]
func (h *APIHandler) MergePDF(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) < 2 {
		writeError(w, r, apperr.Validation("At least two PDF files are required"))
		return
	}

	docs := make([]*upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, r, apperr.Validation("Failed to read file"))
			return
		}
		doc, err := readPDF(f, fh)
		f.Close()
		if err != nil {
			writeError(w, r, err)
			return
		}
		docs = append(docs, doc)
	}

	scratch, err := h.acquire("merge")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer h.release(r, scratch)

	paths := make([]string, len(docs))
	for i, doc := range docs {
		if paths[i], err = scratch.WriteFile(fmt.Sprintf("%03d-%s", i, doc.Name), doc.Data); err != nil {
			writeError(w, r, apperr.Resource("Failed to store upload", err))
			return
		}
	}
	outPath := scratch.Path("merged.pdf")
	if err := h.engine.Merge(paths, outPath); err != nil {
		writeError(w, r, apperr.Processing("Failed to merge PDFs", err))
		return
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to merge PDFs", err))
		return
	}
	writePDF(w, "merged.pdf", out)
}

// RotatePDF godoc
// @Summary      Rotate pages
// @Description  Rotates the selected pages clockwise
// @Tags         pages
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file           formData  file    true   "PDF file"
// @Param        rotation       formData  int     false  "Multiple of 90"  default(90)
// @Param        selectedPages  formData  string  false  "all or a range such as 1-3,5"  default(all)
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /rotate-pdf [post]
func (h *APIHandler) RotatePDF(w http.ResponseWriter, r *http.Request) {
	doc, selected, _, ok := h.pageRequest(w, r, false)
	if !ok {
		return
	}
	rotation, err := formInt(r, "rotation", 90)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.engine.Rotate(doc.Data, rotation, selected)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidRotation) {
			writeError(w, r, apperr.Validation("Rotation must be a multiple of 90"))
			return
		}
		writeError(w, r, apperr.Processing("Failed to rotate pages", err))
		return
	}
	writePDF(w, "rotated_"+doc.Name, out)
}

// RemovePages godoc
// @Summary      Remove pages
// @Description  Deletes the selected pages
// @Tags         pages
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file           formData  file    true  "PDF file"
// @Param        selectedPages  formData  string  true  "Range such as 1-3,5"
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /remove-pages [post]
func (h *APIHandler) RemovePages(w http.ResponseWriter, r *http.Request) {
	doc, selected, total, ok := h.pageRequest(w, r, true)
	if !ok {
		return
	}
	out, err := h.engine.RemovePages(doc.Data, selected, total)
	if err != nil {
		if errors.Is(err, pdf.ErrNoPagesLeft) {
			writeError(w, r, apperr.Validation("Cannot remove every page"))
			return
		}
		writeError(w, r, apperr.Processing("Failed to remove pages", err))
		return
	}
	writePDF(w, "trimmed_"+doc.Name, out)
}

// ExtractPages godoc
// @Summary      Extract pages
// @Description  Returns a PDF holding only the selected pages
// @Tags         pages
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file           formData  file    true  "PDF file"
// @Param        selectedPages  formData  string  true  "Range such as 1-3,5"
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /extract-pages [post]
func (h *APIHandler) ExtractPages(w http.ResponseWriter, r *http.Request) {
	doc, selected, _, ok := h.pageRequest(w, r, true)
	if !ok {
		return
	}
	out, err := h.engine.ExtractPages(doc.Data, selected)
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to extract pages", err))
		return
	}
	writePDF(w, "extracted_"+doc.Name, out)
}

// pageRequest reads the file and resolves selectedPages. It writes the
// error response itself and reports ok=false on failure.
func (h *APIHandler) pageRequest(w http.ResponseWriter, r *http.Request, required bool) (*upload, pages.Set, int, bool) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return nil, nil, 0, false
	}
	doc, err := formPDF(r, "file")
	if err != nil {
		writeError(w, r, err)
		return nil, nil, 0, false
	}
	spec := formValue(r, "selectedPages", "")
	if required && spec == "" {
		writeError(w, r, apperr.Validation("selectedPages is required"))
		return nil, nil, 0, false
	}

	total, err := h.engine.PageCount(doc.Data)
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to read PDF", err))
		return nil, nil, 0, false
	}
	selected, err := pages.Resolve(spec, total)
	if err != nil {
		writeError(w, r, apperr.ValidationErr(err))
		return nil, nil, 0, false
	}
	return doc, selected, total, true
}

// ReorderPages godoc
// @Summary      Reorder pages
// @Description  Rewrites the PDF with its pages in the given order. Every page must appear exactly once; a descending range such as 5-1 reverses pages.
// @Tags         pages
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file   formData  file    true  "PDF file"
// @Param        order  formData  string  true  "New order of 1-based pages, e.g. 3,1,2"
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /reorder-pages [post]
func (h *APIHandler) ReorderPages(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := formPDF(r, "file")
	if err != nil {
		writeError(w, r, err)
		return
	}
	spec := formValue(r, "order", "")
	if spec == "" {
		writeError(w, r, apperr.Validation("order is required"))
		return
	}
	total, err := h.engine.PageCount(doc.Data)
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to read PDF", err))
		return
	}
	order, err := pages.ParseOrder(spec, total)
	if err != nil {
		writeError(w, r, apperr.ValidationErr(err))
		return
	}

	out, err := h.engine.Reorder(doc.Data, order, total)
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to reorder pages", err))
		return
	}
	writePDF(w, "reordered_"+doc.Name, out)
}

// InsertBlankPage godoc
// @Summary      Insert blank pages
// @Description  Inserts one blank page before or after every selected page, sized like its neighbour
// @Tags         pages
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file           formData  file    true   "PDF file"
// @Param        selectedPages  formData  string  true   "Range such as 1-3,5"
// @Param        placement      formData  string  false  "before or after"  default(before)
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /insert-blank-page [post]
func (h *APIHandler) InsertBlankPage(w http.ResponseWriter, r *http.Request) {
	doc, selected, _, ok := h.pageRequest(w, r, true)
	if !ok {
		return
	}
	var before bool
	switch formValue(r, "placement", "before") {
	case "before":
		before = true
	case "after":
	default:
		writeError(w, r, apperr.Validation("placement must be before or after"))
		return
	}

	out, err := h.engine.InsertBlankPages(doc.Data, selected, before)
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to insert blank pages", err))
		return
	}
	writePDF(w, "blankpage_"+doc.Name, out)
}

// AddPageNumbers godoc
// @Summary      Add page numbers
// @Description  Stamps page numbers on the selected pages
// @Tags         pages
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file           formData  file    true   "PDF file"
// @Param        selectedPages  formData  string  false  "all or a range such as 1-3,5"  default(all)
// @Param        format         formData  string  false  "Text, %p is the page number and %P the page count"  default(%p)
// @Param        position       formData  string  false  "bottom-center, bottom-left, bottom-right, top-center, top-left, top-right"  default(bottom-center)
// @Param        fontSize       formData  int     false  "Font size in points"  default(12)
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /add-page-numbers [post]
func (h *APIHandler) AddPageNumbers(w http.ResponseWriter, r *http.Request) {
	doc, selected, _, ok := h.pageRequest(w, r, false)
	if !ok {
		return
	}
	pos, err := pdf.ParseNumberPosition(formValue(r, "position", ""))
	if err != nil {
		writeError(w, r, apperr.Validation("Invalid position"))
		return
	}
	fontSize, err := formInt(r, "fontSize", 12)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if fontSize <= 0 {
		writeError(w, r, apperr.Validation("Font size must be greater than 0"))
		return
	}

	out, err := h.engine.NumberPages(doc.Data, selected, pdf.Numbering{
		Format:   formValue(r, "format", "%p"),
		FontSize: fontSize,
		Position: pos,
	})
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to add page numbers", err))
		return
	}
	writePDF(w, "numbered_"+doc.Name, out)
}
