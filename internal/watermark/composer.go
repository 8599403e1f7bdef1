package watermark

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"
	fontStyle  = "B"
	textGray   = 128
	imageName  = "watermark"
)

// LetterWidth and LetterHeight are used when the target page size is unknown.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Composer renders overlays with go-pdf/fpdf core fonts.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// fpdfMeasurer measures strings with the Helvetica Bold core font metrics.
// Height is approximated by the font size.
type fpdfMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (m fpdfMeasurer) MeasureText(content string, fontSize float64) (float64, float64) {
	m.pdf.SetFont(fontFamily, fontStyle, fontSize)
	return m.pdf.GetStringWidth(m.tr(content)), fontSize
}

// Overlay is a rendered single-page watermark PDF.
type Overlay struct {
	PDF      []byte
	Geometry Geometry
}

// Render draws spec on a blank page of pageWidth×pageHeight points and
// returns the page as PDF bytes. The input spec is not modified.
func (c *Composer) Render(spec Spec, pageWidth, pageHeight float64) (*Overlay, error) {
	if pageWidth <= 0 || pageHeight <= 0 {
		pageWidth, pageHeight = LetterWidth, LetterHeight
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	switch spec.Kind {
	case KindText:
		geo, err := ComputeGeometry(spec, pageWidth, pageHeight, fpdfMeasurer{pdf: pdf, tr: tr})
		if err != nil {
			return nil, err
		}
		drawText(pdf, tr(spec.Text), spec, geo, pageHeight)
		return finish(pdf, geo)

	case KindImage:
		normalized, err := normalizeImage(spec.Image)
		if err != nil {
			return nil, err
		}
		spec.Image = normalized
		geo, err := ComputeGeometry(spec, pageWidth, pageHeight, nil)
		if err != nil {
			return nil, err
		}
		drawImage(pdf, normalized, spec, geo, pageHeight)
		return finish(pdf, geo)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, spec.Kind)
	}
}

// fpdf uses a top-left origin, Geometry a bottom-left one. Text is drawn
// with its baseline at Geometry.Y before rotation.
func drawText(pdf *fpdf.Fpdf, text string, spec Spec, geo Geometry, pageHeight float64) {
	pdf.SetFont(fontFamily, fontStyle, spec.FontSize)
	pdf.SetTextColor(textGray, textGray, textGray)
	pdf.SetAlpha(spec.Opacity, "Normal")

	cx, cy := geo.Center()
	pdf.TransformBegin()
	pdf.TransformRotate(geo.Rotation, cx, pageHeight-cy)
	pdf.Text(geo.X, pageHeight-geo.Y, text)
	pdf.TransformEnd()
}

func drawImage(pdf *fpdf.Fpdf, data []byte, spec Spec, geo Geometry, pageHeight float64) {
	opts := fpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}
	pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(data))
	pdf.SetAlpha(spec.Opacity, "Normal")

	cx, cy := geo.Center()
	pdf.TransformBegin()
	pdf.TransformRotate(geo.Rotation, cx, pageHeight-cy)
	pdf.ImageOptions(imageName, geo.X, pageHeight-geo.Y-geo.Height, geo.Width, geo.Height, false, opts, 0, "")
	pdf.TransformEnd()
}

func finish(pdf *fpdf.Fpdf, geo Geometry) (*Overlay, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render overlay: %w", err)
	}
	return &Overlay{PDF: buf.Bytes(), Geometry: geo}, nil
}

// normalizeImage applies EXIF orientation and re-encodes the image as an
// 8-bit PNG, which fpdf can embed with its alpha channel.
func normalizeImage(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Clone(img), imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return buf.Bytes(), nil
}
