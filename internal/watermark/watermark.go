// Package watermark computes where a watermark goes on a page and renders
// it as a single-page overlay PDF.
package watermark

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

var (
	ErrUnsupportedKind = errors.New("unsupported watermark kind")
	ErrInvalidImage    = errors.New("invalid watermark image")
)

// Margin is the distance, in points, kept from the page edge for corner positions.
const Margin = 50.0

type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

type Position string

const (
	PositionCenter      Position = "center"
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

func ParsePosition(s string) (Position, error) {
	switch p := Position(strings.ToLower(strings.TrimSpace(s))); p {
	case PositionCenter, PositionTopLeft, PositionTopRight, PositionBottomLeft, PositionBottomRight:
		return p, nil
	case "":
		return PositionCenter, nil
	default:
		return "", fmt.Errorf("invalid position %q", s)
	}
}

// Spec describes a text or image watermark.
type Spec struct {
	Kind     Kind
	Position Position
	Opacity  float64
	Rotation float64

	// text
	Text     string
	FontSize float64

	// image
	Image        []byte
	ScalePercent float64
}

// Geometry is the placement of the watermark content on a page, in points
// with the origin at the bottom-left corner. Rotation is applied about the
// centre of the (X, Y, Width, Height) box.
type Geometry struct {
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
}

// Center returns the rotation origin.
func (g Geometry) Center() (float64, float64) {
	return g.X + g.Width/2, g.Y + g.Height/2
}

// TextMeasurer reports the rendered size of a string at a font size.
type TextMeasurer interface {
	MeasureText(content string, fontSize float64) (w, h float64)
}

// Place maps a position to the bottom-left corner of a w×h box on a page.
func Place(pos Position, w, h, pageWidth, pageHeight float64) (x, y float64) {
	switch pos {
	case PositionTopLeft:
		return Margin, pageHeight - Margin - h
	case PositionTopRight:
		return pageWidth - Margin - w, pageHeight - Margin - h
	case PositionBottomLeft:
		return Margin, Margin
	case PositionBottomRight:
		return pageWidth - Margin - w, Margin
	default:
		return (pageWidth - w) / 2, (pageHeight - h) / 2
	}
}

// ComputeGeometry sizes the watermark content and places it on a page of
// the given dimensions.
func ComputeGeometry(spec Spec, pageWidth, pageHeight float64, m TextMeasurer) (Geometry, error) {
	var w, h float64
	switch spec.Kind {
	case KindText:
		w, h = m.MeasureText(spec.Text, spec.FontSize)
	case KindImage:
		iw, ih, err := imageSize(spec.Image)
		if err != nil {
			return Geometry{}, err
		}
		scale := spec.ScalePercent / 100
		w, h = float64(iw)*scale, float64(ih)*scale
	default:
		return Geometry{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, spec.Kind)
	}

	x, y := Place(spec.Position, w, h, pageWidth, pageHeight)
	return Geometry{X: x, Y: y, Width: w, Height: h, Rotation: spec.Rotation}, nil
}

func imageSize(data []byte) (int, int, error) {
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return cfg.Width, cfg.Height, nil
}
