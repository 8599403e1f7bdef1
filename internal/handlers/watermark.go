package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/hlog"

	"go-pdftools/internal/apperr"
	"go-pdftools/internal/pages"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/watermark"
)

// WatermarkPDF godoc
// @Summary      Add a watermark
// @Description  Stamps a text or image watermark on the selected pages, above or below the page content
// @Tags         pdf
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file            formData  file    true   "PDF file"
// @Param        watermarkType   formData  string  false  "text or image"  default(text)
// @Param        watermarkText   formData  string  false  "Text, required for text watermarks"
// @Param        watermarkImage  formData  file    false  "PNG or JPEG, required for image watermarks"
// @Param        position        formData  string  false  "center, top-left, top-right, bottom-left, bottom-right"  default(center)
// @Param        transparency    formData  number  false  "Opacity between 0 and 1"  default(0.3)
// @Param        rotation        formData  number  false  "Degrees"  default(45)
// @Param        layer           formData  string  false  "above or below"  default(above)
// @Param        selectedPages   formData  string  false  "all or a range such as 1-3,5"  default(all)
// @Param        fontSize        formData  int     false  "Font size in points"  default(50)
// @Param        imageSize       formData  int     false  "Image scale in percent"  default(100)
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /watermark-pdf [post]
func (h *APIHandler) WatermarkPDF(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := formPDF(r, "file")
	if err != nil {
		writeError(w, r, err)
		return
	}
	spec, err := watermarkSpec(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	layer, err := pdf.ParseLayer(formValue(r, "layer", string(pdf.LayerAbove)))
	if err != nil {
		writeError(w, r, apperr.Validation("Invalid layer"))
		return
	}

	total, err := h.engine.PageCount(doc.Data)
	if err != nil {
		writeError(w, r, apperr.Processing("Failed to read PDF", err))
		return
	}
	selected, err := pages.Resolve(formValue(r, "selectedPages", "all"), total)
	if err != nil {
		writeError(w, r, apperr.ValidationErr(err))
		return
	}

	scratch, err := h.acquire("watermark")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer h.release(r, scratch)

	out := doc.Data
	for i, group := range h.sizeGroups(r, doc.Data, selected) {
		overlay, err := h.composer.Render(spec, group.width, group.height)
		if err != nil {
			if errors.Is(err, watermark.ErrInvalidImage) || errors.Is(err, watermark.ErrUnsupportedKind) {
				writeError(w, r, apperr.ValidationErr(err))
				return
			}
			writeError(w, r, apperr.Processing("Failed to create watermark", err))
			return
		}
		overlayPath, err := scratch.WriteFile(fmt.Sprintf("watermark-%d.pdf", i), overlay.PDF)
		if err != nil {
			writeError(w, r, apperr.Resource("Failed to store watermark", err))
			return
		}
		if out, err = h.engine.ApplyOverlay(out, overlayPath, group.pages, layer); err != nil {
			writeError(w, r, apperr.Processing("Failed to apply watermark", err))
			return
		}
	}

	hlog.FromRequest(r).Info().
		Str("kind", string(spec.Kind)).
		Str("layer", string(layer)).
		Int("pages", len(selected)).
		Msg("watermark applied")
	writePDF(w, "watermarked_"+doc.Name, out)
}

func watermarkSpec(r *http.Request) (watermark.Spec, error) {
	var spec watermark.Spec

	switch kind := watermark.Kind(formValue(r, "watermarkType", string(watermark.KindText))); kind {
	case watermark.KindText:
		spec.Kind = kind
		spec.Text = r.FormValue("watermarkText")
		if strings.TrimSpace(spec.Text) == "" {
			return spec, apperr.Validation("Watermark text is required")
		}
	case watermark.KindImage:
		spec.Kind = kind
		img, err := formImage(r)
		if err != nil {
			return spec, err
		}
		spec.Image = img
	default:
		return spec, apperr.Validation("Invalid watermark type")
	}

	pos, err := watermark.ParsePosition(r.FormValue("position"))
	if err != nil {
		return spec, apperr.Validation("Invalid position")
	}
	spec.Position = pos

	if spec.Opacity, err = formFloat(r, "transparency", 0.3); err != nil {
		return spec, err
	}
	if spec.Opacity < 0 || spec.Opacity > 1 {
		return spec, apperr.Validation("Transparency must be between 0 and 1")
	}
	if spec.Rotation, err = formFloat(r, "rotation", 45); err != nil {
		return spec, err
	}

	fontSize, err := formInt(r, "fontSize", 50)
	if err != nil {
		return spec, err
	}
	if fontSize <= 0 {
		return spec, apperr.Validation("Font size must be greater than 0")
	}
	spec.FontSize = float64(fontSize)

	imageSize, err := formInt(r, "imageSize", 100)
	if err != nil {
		return spec, err
	}
	if imageSize <= 0 {
		return spec, apperr.Validation("Image size must be greater than 0")
	}
	spec.ScalePercent = float64(imageSize)
	return spec, nil
}

func formImage(r *http.Request) ([]byte, error) {
	file, header, err := r.FormFile("watermarkImage")
	if err != nil {
		return nil, apperr.Validation("No watermark image provided")
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, apperr.Validation("No selected watermark image")
	}
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".jpg", ".jpeg", ".png":
	default:
		return nil, apperr.Validation("Watermark image must be JPEG or PNG")
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperr.Validation("Failed to read watermark image")
	}
	if mt := mimetype.Detect(data); !mt.Is("image/png") && !mt.Is("image/jpeg") {
		return nil, apperr.Validation("Watermark image must be JPEG or PNG")
	}
	return data, nil
}

// sizeGroup is a set of selected pages sharing one page size.
type sizeGroup struct {
	width, height float64
	pages         pages.Set
}

// sizeGroups splits selected by page size so every overlay is laid out for
// the pages it is stamped on. Groups are ordered by their first page. When
// sizes cannot be read, all pages form one group with a zero (Letter) size.
func (h *APIHandler) sizeGroups(r *http.Request, data []byte, selected pages.Set) []sizeGroup {
	if len(selected) == 0 {
		return nil
	}
	dims, err := h.engine.PageDims(data)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("page size unavailable, using Letter")
		return []sizeGroup{{pages: selected}}
	}

	var groups []sizeGroup
	index := make(map[[2]float64]int)
	for _, p := range selected.Sorted() {
		if p >= len(dims) {
			return []sizeGroup{{pages: selected}}
		}
		key := [2]float64{dims[p].Width, dims[p].Height}
		g, ok := index[key]
		if !ok {
			g = len(groups)
			index[key] = g
			groups = append(groups, sizeGroup{width: key[0], height: key[1], pages: make(pages.Set)})
		}
		groups[g].pages[p] = struct{}{}
	}
	return groups
}
