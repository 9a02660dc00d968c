package main

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/creativelab/compositor/pkg/compositor"
	"github.com/creativelab/compositor/pkg/executor"
	"github.com/creativelab/compositor/pkg/fonts"
	"github.com/creativelab/compositor/pkg/schemas"
)

// textStamper wraps a static compositor and draws the configured text block
// onto each finished static output. Video outputs pass through untouched.
type textStamper struct {
	inner executor.Compositor
	text  *compositor.Text
	lines []compositor.TextLine
	opts  compositor.TextOptions
}

// newTextStamper resolves the configured font family and builds the stamper.
func newTextStamper(inner executor.Compositor, cfg TextConfig, fontsDir string) (*textStamper, error) {
	families, err := fonts.ScanFamilies(fontsDir)
	if err != nil {
		return nil, err
	}

	family, ok := families[cfg.Family]
	if !ok {
		return nil, fmt.Errorf("font family %q not found in %s", cfg.Family, fontsDir)
	}

	col, err := parseHexColor(cfg.Color)
	if err != nil {
		return nil, err
	}

	lines := make([]compositor.TextLine, 0, len(cfg.Lines))
	for _, l := range cfg.Lines {
		lines = append(lines, compositor.TextLine{
			Text:  l.Text,
			Size:  l.Size,
			Style: fonts.Style(l.Style),
		})
	}

	return &textStamper{
		inner: inner,
		text:  compositor.NewText(family),
		lines: lines,
		opts: compositor.TextOptions{
			X:           cfg.X,
			Y:           cfg.Y,
			Align:       compositor.Alignment(cfg.Align),
			LineSpacing: cfg.LineSpacing,
			Color:       col,
		},
	}, nil
}

func (t *textStamper) Composite(ctx context.Context, job *schemas.RenderJob) error {
	if err := t.inner.Composite(ctx, job); err != nil {
		return err
	}
	if job.Kind != schemas.KindStatic {
		return nil
	}

	img, err := imaging.Open(job.OutputPath)
	if err != nil {
		return fmt.Errorf("reopen output for text: %w", err)
	}

	stamped, err := t.text.Draw(img, t.lines, t.opts)
	if err != nil {
		return err
	}
	return imaging.Save(stamped, job.OutputPath)
}

// parseHexColor parses "#rrggbb" (or "rrggbb"); empty means white.
func parseHexColor(s string) (color.Color, error) {
	if s == "" {
		return color.White, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid color %q, want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
