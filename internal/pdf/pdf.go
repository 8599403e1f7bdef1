// Package pdf wraps pdfcpu for the operations the HTTP handlers need.
//
// Functions:
//   - PageCount / PageDims: inspect a document.
//   - ApplyOverlay: stamp a single-page overlay onto selected pages, above or below content.
//   - Encrypt / Decrypt / Unlock: password protection and removal.
//   - Optimize: re-serialise a document, the compression fallback.
//   - Merge / Rotate / RemovePages / ExtractPages: page tools.
//
// Inputs and outputs are in-memory byte slices; only the overlay is read
// from disk because pdfcpu loads PDF watermarks by file name.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var ErrPageMerge = errors.New("page merge failed")

// Engine runs pdfcpu operations with a relaxed validation configuration.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func (e *Engine) PageCount(in []byte) (int, error) {
	n, err := pdfapi.PageCount(bytes.NewReader(in), e.config())
	if err != nil {
		return 0, fmt.Errorf("failed to read page count: %w", err)
	}
	return n, nil
}

// PageDims returns the media box size of every page, in points.
func (e *Engine) PageDims(in []byte) ([]types.Dim, error) {
	dims, err := pdfapi.PageDims(bytes.NewReader(in), e.config())
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	return dims, nil
}

// Optimize re-serialises the document without re-encoding images.
func (e *Engine) Optimize(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdfapi.Optimize(bytes.NewReader(in), &buf, e.config()); err != nil {
		return nil, fmt.Errorf("failed to optimize PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// OptimizeFile is Optimize for documents already on disk.
func (e *Engine) OptimizeFile(inPath, outPath string) error {
	in, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	out, err := e.Optimize(in)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, out, 0o600)
}

// run executes a pdfcpu api call that reads from rs and writes to w.
func run(in []byte, op string, fn func(rs io.ReadSeeker, w io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(bytes.NewReader(in), &buf); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return buf.Bytes(), nil
}
