// Package compress shrinks PDFs with Ghostscript, stepping down through
// quality tiers until a target size is met, and falls back to pdfcpu
// re-serialisation when Ghostscript is missing or fails.
package compress

import (
	"fmt"
	"strings"
)

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// tiers is ordered from best quality to smallest output.
var tiers = []Tier{TierHigh, TierMedium, TierLow}

// ParseTier maps a request value to a tier. Unknown values fall back to
// high, as the service always has.
func ParseTier(s string) Tier {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierHigh, TierMedium, TierLow:
		return t
	default:
		return TierHigh
	}
}

// from returns t and every stricter tier after it.
func from(t Tier) []Tier {
	for i, candidate := range tiers {
		if candidate == t {
			return tiers[i:]
		}
	}
	return tiers
}

// Preset holds the Ghostscript pdfwrite parameters of one tier.
type Preset struct {
	Setting        string
	ColorImageDPI  int
	GrayImageDPI   int
	MonoImageDPI   int
	CompatLevel    string
	DownsampleType string
}

var presets = map[Tier]Preset{
	TierHigh:   {Setting: "/printer", ColorImageDPI: 300, GrayImageDPI: 300, MonoImageDPI: 1200},
	TierMedium: {Setting: "/ebook", ColorImageDPI: 200, GrayImageDPI: 200, MonoImageDPI: 600},
	TierLow:    {Setting: "/screen", ColorImageDPI: 150, GrayImageDPI: 150, MonoImageDPI: 300},
}

func PresetFor(t Tier) Preset {
	p, ok := presets[t]
	if !ok {
		p = presets[TierHigh]
	}
	p.CompatLevel = "1.4"
	p.DownsampleType = "/Bicubic"
	return p
}

// Args builds the Ghostscript command line for in → out.
func (p Preset) Args(in, out string) []string {
	return []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=" + p.CompatLevel,
		"-dPDFSETTINGS=" + p.Setting,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-dDownsampleColorImages=true",
		"-dDownsampleGrayImages=true",
		"-dDownsampleMonoImages=true",
		"-dColorImageDownsampleType=" + p.DownsampleType,
		"-dGrayImageDownsampleType=" + p.DownsampleType,
		"-dMonoImageDownsampleType=" + p.DownsampleType,
		fmt.Sprintf("-dColorImageResolution=%d", p.ColorImageDPI),
		fmt.Sprintf("-dGrayImageResolution=%d", p.GrayImageDPI),
		fmt.Sprintf("-dMonoImageResolution=%d", p.MonoImageDPI),
		"-dOptimize=true",
		"-dCompressFonts=true",
		"-dSubsetFonts=true",
		"-sOutputFile=" + out,
		in,
	}
}
