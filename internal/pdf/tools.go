package pdf

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"go-pdftools/internal/pages"
)

var (
	ErrInvalidRotation = errors.New("rotation must be a multiple of 90")
	ErrNoPagesLeft     = errors.New("cannot remove every page")
	ErrTooFewInputs    = errors.New("at least two PDF files are required")
	ErrInvalidOrder    = errors.New("order must name every page exactly once")
)

// Merge concatenates files into outPath in the given order. Bookmarks of the
// inputs are dropped from the result.
func (e *Engine) Merge(files []string, outPath string) error {
	if len(files) < 2 {
		return ErrTooFewInputs
	}
	if err := pdfapi.MergeCreateFile(files, outPath, false, e.config()); err != nil {
		return fmt.Errorf("failed to merge PDFs: %w", err)
	}
	// Documents without an outline make pdfcpu complain; the merge itself is done.
	_ = pdfapi.RemoveBookmarksFile(outPath, outPath, e.config())
	return nil
}

// Rotate turns the selected pages clockwise by degrees.
func (e *Engine) Rotate(in []byte, degrees int, selected pages.Set) ([]byte, error) {
	if degrees%90 != 0 {
		return nil, ErrInvalidRotation
	}
	if degrees%360 == 0 || len(selected) == 0 {
		return in, nil
	}
	return run(in, "rotate pages", func(rs io.ReadSeeker, w io.Writer) error {
		return pdfapi.Rotate(rs, w, degrees, selected.Selection(), e.config())
	})
}

// RemovePages deletes the selected pages. total is the page count of in.
func (e *Engine) RemovePages(in []byte, selected pages.Set, total int) ([]byte, error) {
	if len(selected) >= total {
		return nil, ErrNoPagesLeft
	}
	if len(selected) == 0 {
		return in, nil
	}
	return run(in, "remove pages", func(rs io.ReadSeeker, w io.Writer) error {
		return pdfapi.RemovePages(rs, w, selected.Selection(), e.config())
	})
}

// ExtractPages keeps only the selected pages, in document order.
func (e *Engine) ExtractPages(in []byte, selected pages.Set) ([]byte, error) {
	if len(selected) == 0 {
		return nil, fmt.Errorf("no pages selected")
	}
	return run(in, "extract pages", func(rs io.ReadSeeker, w io.Writer) error {
		return pdfapi.Trim(rs, w, selected.Selection(), e.config())
	})
}

// Reorder rewrites in with its pages in order, a permutation of the
// zero-based page indices.
func (e *Engine) Reorder(in []byte, order []int, total int) ([]byte, error) {
	if len(order) != total {
		return nil, ErrInvalidOrder
	}
	seen := make([]bool, total)
	sel := make([]string, len(order))
	for i, p := range order {
		if p < 0 || p >= total || seen[p] {
			return nil, ErrInvalidOrder
		}
		seen[p] = true
		sel[i] = strconv.Itoa(p + 1)
	}
	return run(in, "reorder pages", func(rs io.ReadSeeker, w io.Writer) error {
		return pdfapi.Collect(rs, w, sel, e.config())
	})
}

// InsertBlankPages adds one blank page before (or after) every selected
// page. A blank page takes the size of the page it is inserted next to.
func (e *Engine) InsertBlankPages(in []byte, selected pages.Set, before bool) ([]byte, error) {
	if len(selected) == 0 {
		return in, nil
	}
	return run(in, "insert blank pages", func(rs io.ReadSeeker, w io.Writer) error {
		return pdfapi.InsertPages(rs, w, selected.Selection(), before, nil, e.config())
	})
}

// NumberPosition is the anchor of a page number on the page.
type NumberPosition string

const (
	NumberBottomCenter NumberPosition = "bottom-center"
	NumberBottomLeft   NumberPosition = "bottom-left"
	NumberBottomRight  NumberPosition = "bottom-right"
	NumberTopCenter    NumberPosition = "top-center"
	NumberTopLeft      NumberPosition = "top-left"
	NumberTopRight     NumberPosition = "top-right"
)

// pdfcpu anchor and offset, in points, for each position.
var numberAnchors = map[NumberPosition]struct{ pos, off string }{
	NumberBottomCenter: {"bc", "0 10"},
	NumberBottomLeft:   {"bl", "10 10"},
	NumberBottomRight:  {"br", "-10 10"},
	NumberTopCenter:    {"tc", "0 -10"},
	NumberTopLeft:      {"tl", "10 -10"},
	NumberTopRight:     {"tr", "-10 -10"},
}

func ParseNumberPosition(s string) (NumberPosition, error) {
	if s == "" {
		return NumberBottomCenter, nil
	}
	p := NumberPosition(s)
	if _, ok := numberAnchors[p]; !ok {
		return "", fmt.Errorf("invalid page number position %q", s)
	}
	return p, nil
}

// Numbering configures NumberPages. In Format, %p is replaced by the page
// number and %P by the page count.
type Numbering struct {
	Format   string
	FontSize int
	Position NumberPosition
}

// NumberPages stamps a page number in black Helvetica on every selected page.
func (e *Engine) NumberPages(in []byte, selected pages.Set, n Numbering) ([]byte, error) {
	if n.Format == "" {
		n.Format = "%p"
	}
	if n.FontSize <= 0 {
		n.FontSize = 12
	}
	anchor, ok := numberAnchors[n.Position]
	if !ok {
		anchor = numberAnchors[NumberBottomCenter]
	}
	if len(selected) == 0 {
		return in, nil
	}

	desc := fmt.Sprintf("fontname:Helvetica, points:%d, position:%s, offset:%s, scalefactor:1 abs, rotation:0, opacity:1, fillcolor:#000000",
		n.FontSize, anchor.pos, anchor.off)
	wm, err := pdfapi.TextWatermark(n.Format, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("invalid page number format: %w", err)
	}
	return run(in, "number pages", func(rs io.ReadSeeker, w io.Writer) error {
		return pdfapi.AddWatermarks(rs, w, selected.Selection(), wm, e.config())
	})
}
