package watermark

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedMeasurer struct{ w, h float64 }

func (m fixedMeasurer) MeasureText(string, float64) (float64, float64) { return m.w, m.h }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestComputeGeometry_TextCenter(t *testing.T) {
	spec := Spec{Kind: KindText, Text: "X", FontSize: 50, Position: PositionCenter, Rotation: 45}
	geo, err := ComputeGeometry(spec, 612, 792, fixedMeasurer{w: 20, h: 50})
	require.NoError(t, err)
	assert.Equal(t, 296.0, geo.X)
	assert.Equal(t, 371.0, geo.Y)
	assert.Equal(t, 20.0, geo.Width)
	assert.Equal(t, 50.0, geo.Height)
	assert.Equal(t, 45.0, geo.Rotation)

	cx, cy := geo.Center()
	assert.Equal(t, 306.0, cx)
	assert.Equal(t, 396.0, cy)
}

func TestPlace_Corners(t *testing.T) {
	tests := []struct {
		pos  Position
		x, y float64
	}{
		{PositionTopLeft, 50, 692},
		{PositionTopRight, 542, 692},
		{PositionBottomLeft, 50, 50},
		{PositionBottomRight, 542, 50},
		{PositionCenter, 296, 371},
	}
	for _, tc := range tests {
		t.Run(string(tc.pos), func(t *testing.T) {
			x, y := Place(tc.pos, 20, 50, 612, 792)
			assert.Equal(t, tc.x, x)
			assert.Equal(t, tc.y, y)
		})
	}
}

func TestComputeGeometry_ImageScale(t *testing.T) {
	spec := Spec{Kind: KindImage, Image: pngBytes(t, 200, 100), ScalePercent: 50, Position: PositionBottomLeft}
	geo, err := ComputeGeometry(spec, 612, 792, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, geo.Width)
	assert.Equal(t, 50.0, geo.Height)
	assert.Equal(t, 50.0, geo.X)
	assert.Equal(t, 50.0, geo.Y)
}

func TestComputeGeometry_Errors(t *testing.T) {
	_, err := ComputeGeometry(Spec{Kind: "svg"}, 612, 792, nil)
	assert.True(t, errors.Is(err, ErrUnsupportedKind))

	_, err = ComputeGeometry(Spec{Kind: KindImage, Image: []byte("not an image"), ScalePercent: 100}, 612, 792, nil)
	assert.True(t, errors.Is(err, ErrInvalidImage))

	_, err = ComputeGeometry(Spec{Kind: KindImage, ScalePercent: 100}, 612, 792, nil)
	assert.True(t, errors.Is(err, ErrInvalidImage))
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition("Top-Right")
	require.NoError(t, err)
	assert.Equal(t, PositionTopRight, p)

	p, err = ParsePosition("")
	require.NoError(t, err)
	assert.Equal(t, PositionCenter, p)

	_, err = ParsePosition("middle")
	assert.Error(t, err)
}

func TestComposer_RenderText(t *testing.T) {
	c := NewComposer()
	spec := Spec{Kind: KindText, Text: "CONFIDENTIAL", FontSize: 50, Opacity: 0.3, Rotation: 45, Position: PositionCenter}
	ov, err := c.Render(spec, 612, 792)
	require.NoError(t, err)

	n, err := api.PageCount(bytes.NewReader(ov.PDF), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Greater(t, ov.Geometry.Width, 0.0)
	assert.Equal(t, 50.0, ov.Geometry.Height)
	assert.InDelta(t, (612-ov.Geometry.Width)/2, ov.Geometry.X, 1e-9)
	assert.Equal(t, 371.0, ov.Geometry.Y)
}

func TestComposer_RenderTextWidthGrowsWithFontSize(t *testing.T) {
	c := NewComposer()
	small, err := c.Render(Spec{Kind: KindText, Text: "DRAFT", FontSize: 20, Opacity: 1}, 612, 792)
	require.NoError(t, err)
	large, err := c.Render(Spec{Kind: KindText, Text: "DRAFT", FontSize: 40, Opacity: 1}, 612, 792)
	require.NoError(t, err)
	assert.InDelta(t, small.Geometry.Width*2, large.Geometry.Width, 1e-6)
}

func TestComposer_RenderImage(t *testing.T) {
	c := NewComposer()
	spec := Spec{Kind: KindImage, Image: pngBytes(t, 120, 80), ScalePercent: 100, Opacity: 0.5, Position: PositionTopRight}
	ov, err := c.Render(spec, 595, 842)
	require.NoError(t, err)
	assert.Equal(t, 120.0, ov.Geometry.Width)
	assert.Equal(t, 80.0, ov.Geometry.Height)
	assert.Equal(t, 595.0-50-120, ov.Geometry.X)
	assert.Equal(t, 842.0-50-80, ov.Geometry.Y)

	dims, err := api.PageDims(bytes.NewReader(ov.PDF), nil)
	require.NoError(t, err)
	require.Len(t, dims, 1)
	assert.InDelta(t, 595.0, dims[0].Width, 0.01)
	assert.InDelta(t, 842.0, dims[0].Height, 0.01)
}

func TestComposer_RenderDefaultsToLetter(t *testing.T) {
	ov, err := NewComposer().Render(Spec{Kind: KindText, Text: "A", FontSize: 10, Opacity: 1}, 0, 0)
	require.NoError(t, err)
	dims, err := api.PageDims(bytes.NewReader(ov.PDF), nil)
	require.NoError(t, err)
	assert.InDelta(t, LetterWidth, dims[0].Width, 0.01)
	assert.InDelta(t, LetterHeight, dims[0].Height, 0.01)
}

func TestComposer_RenderErrors(t *testing.T) {
	c := NewComposer()
	_, err := c.Render(Spec{Kind: "svg"}, 612, 792)
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = c.Render(Spec{Kind: KindImage, Image: []byte("garbage"), ScalePercent: 100}, 612, 792)
	assert.ErrorIs(t, err, ErrInvalidImage)
}
