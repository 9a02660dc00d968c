package compositor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/creativelab/compositor/pkg/fonts"
)

// TextLine is one line of a text block. Each line carries its own size and
// style so a block can mix a large bold headline with smaller body lines.
type TextLine struct {
	Text  string
	Size  float64
	Style fonts.Style
}

// Alignment of a text block relative to its anchor point.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// TextOptions positions and styles a text block.
type TextOptions struct {
	X           int
	Y           int
	Align       Alignment
	LineSpacing float64
	Color       color.Color
}

// Text renders text blocks onto images using a discovered font family.
type Text struct {
	family fonts.Family
}

// NewText creates a text compositor for the given family.
func NewText(family fonts.Family) *Text {
	return &Text{family: family}
}

// Draw renders lines onto a copy of img. The anchor (X, Y) is the top of the
// block; Align moves each line horizontally relative to it. Empty lines are
// skipped but still advance the vertical position.
func (t *Text) Draw(img image.Image, lines []TextLine, opts TextOptions) (image.Image, error) {
	if opts.Color == nil {
		opts.Color = color.White
	}
	if opts.LineSpacing <= 0 {
		opts.LineSpacing = 1.0
	}
	if opts.Align == "" {
		opts.Align = AlignLeft
	}

	canvas := imaging.Clone(img)
	y := fixed.I(opts.Y)

	for _, line := range lines {
		face, err := t.family.Face(line.Style, line.Size)
		if err != nil {
			return nil, fmt.Errorf("load face for %q: %w", line.Text, err)
		}

		metrics := face.Metrics()
		baseline := y + metrics.Ascent

		if line.Text != "" {
			drawer := &font.Drawer{
				Dst:  canvas,
				Src:  image.NewUniform(opts.Color),
				Face: face,
			}

			x := fixed.I(opts.X)
			switch opts.Align {
			case AlignCenter:
				x -= drawer.MeasureString(line.Text) / 2
			case AlignRight:
				x -= drawer.MeasureString(line.Text)
			}

			drawer.Dot = fixed.Point26_6{X: x, Y: baseline}
			drawer.DrawString(line.Text)
		}

		y += fixed.Int26_6(float64(metrics.Height) * opts.LineSpacing)
	}

	return canvas, nil
}
