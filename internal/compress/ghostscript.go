package compress

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Rasterizer rewrites a PDF with the given preset.
type Rasterizer interface {
	Available(ctx context.Context) bool
	Run(ctx context.Context, preset Preset, inPath, outPath string) error
}

// Ghostscript runs the gs binary. A zero Timeout leaves the run bounded
// only by ctx.
type Ghostscript struct {
	Binary  string
	Timeout time.Duration
}

func NewGhostscript(binary string, timeout time.Duration) *Ghostscript {
	if binary == "" {
		binary = "gs"
	}
	return &Ghostscript{Binary: binary, Timeout: timeout}
}

// Available checks that the binary is on PATH and answers --version.
func (g *Ghostscript) Available(ctx context.Context) bool {
	path, err := exec.LookPath(g.Binary)
	if err != nil {
		log.Debug().Str("binary", g.Binary).Msg("ghostscript not found in PATH")
		return false
	}
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		log.Warn().Err(err).Str("binary", path).Msg("ghostscript version probe failed")
		return false
	}
	log.Debug().Str("version", strings.TrimSpace(string(out))).Msg("ghostscript found")
	return true
}

func (g *Ghostscript) Run(ctx context.Context, preset Preset, inPath, outPath string) error {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.Binary, preset.Args(inPath, outPath)...)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if ctx.Err() != nil {
			return fmt.Errorf("ghostscript %s: %w", preset.Setting, ctx.Err())
		}
		if msg != "" {
			return fmt.Errorf("ghostscript %s: %w: %s", preset.Setting, err, msg)
		}
		return fmt.Errorf("ghostscript %s: %w", preset.Setting, err)
	}
	log.Debug().Str("setting", preset.Setting).Dur("duration", time.Since(start)).Msg("ghostscript finished")
	return nil
}
