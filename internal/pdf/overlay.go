package pdf

import (
	"fmt"
	"io"
	"os"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"go-pdftools/internal/pages"
)

type Layer string

const (
	LayerAbove Layer = "above"
	LayerBelow Layer = "below"
)

func ParseLayer(s string) (Layer, error) {
	switch Layer(s) {
	case LayerAbove, "":
		return LayerAbove, nil
	case LayerBelow:
		return LayerBelow, nil
	default:
		return "", fmt.Errorf("invalid layer %q", s)
	}
}

// The overlay page is laid 1:1 onto the target page, anchored at its
// lower-left corner, so the geometry computed for the overlay holds.
const overlayDesc = "scale:1 abs, pos:bl, off:0 0, rot:0, op:1"

// ApplyOverlay composites the single-page PDF at overlayPath onto every
// selected page of in. Pages keep their order and count; unselected pages
// are untouched. LayerAbove draws the overlay over the content, LayerBelow
// draws the content over the overlay.
func (e *Engine) ApplyOverlay(in []byte, overlayPath string, selected pages.Set, layer Layer) ([]byte, error) {
	overlay, err := os.ReadFile(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageMerge, err)
	}
	n, err := e.PageCount(overlay)
	if err != nil {
		return nil, fmt.Errorf("%w: overlay: %v", ErrPageMerge, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: overlay has no pages", ErrPageMerge)
	}

	total, err := e.PageCount(in)
	if err != nil {
		return nil, err
	}
	for _, i := range selected.Sorted() {
		if i < 0 || i >= total {
			return nil, fmt.Errorf("%w: page index %d out of bounds (%d pages)", ErrPageMerge, i, total)
		}
	}
	if len(selected) == 0 {
		return in, nil
	}

	onTop := layer != LayerBelow
	wm, err := pdfapi.PDFWatermark(overlayPath, overlayDesc, onTop, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageMerge, err)
	}

	out, err := run(in, "apply overlay", func(rs io.ReadSeeker, w io.Writer) error {
		return pdfapi.AddWatermarks(rs, w, selected.Selection(), wm, e.config())
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageMerge, err)
	}
	return out, nil
}
