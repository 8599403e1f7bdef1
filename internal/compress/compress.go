package compress

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

var ErrCompressionTool = errors.New("compression failed")

const (
	MethodGhostscript = "Ghostscript"
	MethodPdfcpu      = "pdfcpu"
)

const bytesPerMB = 1024 * 1024

// Fallback re-serialises a PDF without re-encoding its images.
type Fallback interface {
	OptimizeFile(inPath, outPath string) error
}

// Request asks for a tier and, optionally, a size ceiling in MB. A zero
// TargetSizeMB means no ceiling.
type Request struct {
	Tier         Tier
	TargetSizeMB float64
}

type Outcome struct {
	Success        bool
	ProducedSizeMB float64
	Method         string
	Message        string
	// Tier is the tier that produced the output.
	Tier         Tier
	TargetMissed bool
}

type Compressor struct {
	raster   Rasterizer
	fallback Fallback
}

func NewCompressor(raster Rasterizer, fallback Fallback) *Compressor {
	return &Compressor{raster: raster, fallback: fallback}
}

// Compress writes a compressed copy of inPath to outPath. Starting at
// req.Tier it walks towards TierLow and stops at the first tier whose
// output fits the target. Missing the target at TierLow is still a
// success. When the rasterizer is unavailable or fails, the fallback
// output is returned as is.
func (c *Compressor) Compress(ctx context.Context, inPath, outPath string, req Request) (*Outcome, error) {
	if req.Tier == "" {
		req.Tier = TierHigh
	}
	if c.raster == nil || !c.raster.Available(ctx) {
		log.Info().Msg("ghostscript unavailable, using pdfcpu fallback")
		return c.runFallback(inPath, outPath, req, nil)
	}

	var size float64
	var tier Tier
	for _, tier = range from(req.Tier) {
		if err := c.raster.Run(ctx, PresetFor(tier), inPath, outPath); err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrCompressionTool, err)
			}
			log.Warn().Err(err).Str("tier", string(tier)).Msg("ghostscript failed, using pdfcpu fallback")
			return c.runFallback(inPath, outPath, req, err)
		}

		var err error
		size, err = sizeMB(outPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompressionTool, err)
		}
		if req.TargetSizeMB <= 0 || size <= req.TargetSizeMB {
			return &Outcome{
				Success:        true,
				ProducedSizeMB: size,
				Method:         MethodGhostscript,
				Message:        "Compression successful",
				Tier:           tier,
			}, nil
		}
		log.Debug().
			Str("tier", string(tier)).
			Float64("size_mb", size).
			Float64("target_mb", req.TargetSizeMB).
			Msg("output over target, trying a stricter tier")
	}

	return &Outcome{
		Success:        true,
		ProducedSizeMB: size,
		Method:         MethodGhostscript,
		Message:        fmt.Sprintf("Compressed to %.2fMB (target: %gMB)", size, req.TargetSizeMB),
		Tier:           tier,
		TargetMissed:   true,
	}, nil
}

func (c *Compressor) runFallback(inPath, outPath string, req Request, toolErr error) (*Outcome, error) {
	if c.fallback == nil {
		return nil, fmt.Errorf("%w: no fallback configured: %v", ErrCompressionTool, toolErr)
	}
	if err := c.fallback.OptimizeFile(inPath, outPath); err != nil {
		if toolErr != nil {
			return nil, fmt.Errorf("%w: %v; fallback: %v", ErrCompressionTool, toolErr, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCompressionTool, err)
	}
	size, err := sizeMB(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionTool, err)
	}
	return &Outcome{
		Success:        true,
		ProducedSizeMB: size,
		Method:         MethodPdfcpu,
		Message:        "Compression successful (using pdfcpu fallback)",
		Tier:           req.Tier,
		TargetMissed:   req.TargetSizeMB > 0 && size > req.TargetSizeMB,
	}, nil
}

func sizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return float64(info.Size()) / bytesPerMB, nil
}
