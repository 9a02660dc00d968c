package compositor

import (
	"context"
	"image"
	"image/draw"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/creativelab/compositor/pkg/schemas"
)

// Static composites one static overlay image onto one hero image.
type Static struct{}

// NewStatic creates a static image compositor.
func NewStatic() *Static {
	return &Static{}
}

// Composite renders job and writes a lossless PNG of hero dimensions. The
// overlay is resampled with a Lanczos filter when the position scale is not
// 1.0 and blended with its own alpha channel; placement past any hero edge
// (including negative offsets) is clipped silently.
func (s *Static) Composite(ctx context.Context, job *schemas.RenderJob) error {
	if err := ctx.Err(); err != nil {
		return newError(schemas.FailureWrite, "composite static", err)
	}

	hero, err := imaging.Open(job.HeroPath)
	if err != nil {
		return newError(schemas.FailureDecode, "decode hero", err)
	}

	overlay, err := imaging.Open(job.OverlayPath)
	if err != nil {
		return newError(schemas.FailureDecode, "decode overlay", err)
	}

	pos := job.Position.Normalized()
	overlay = scaleOverlay(overlay, pos.Scale)

	canvas := imaging.Clone(hero)
	bounds := overlay.Bounds().Sub(overlay.Bounds().Min).Add(image.Pt(pos.X, pos.Y))
	draw.Draw(canvas, bounds, overlay, overlay.Bounds().Min, draw.Over)

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0755); err != nil {
		return newError(schemas.FailureWrite, "create output directory", err)
	}
	if err := imaging.Save(canvas, job.OutputPath); err != nil {
		return newError(schemas.FailureWrite, "write output", err)
	}

	return nil
}

// scaleOverlay resamples img by factor with a Lanczos filter. A nearest
// neighbor filter would alias visibly on scaled-down overlays.
func scaleOverlay(img image.Image, factor float64) image.Image {
	if factor == 1.0 {
		return img
	}

	w := int(math.Round(float64(img.Bounds().Dx()) * factor))
	h := int(math.Round(float64(img.Bounds().Dy()) * factor))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	return imaging.Resize(img, w, h, imaging.Lanczos)
}
