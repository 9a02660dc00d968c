package compositor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/creativelab/compositor/pkg/prober"
)

// ErrNoFrame reports that no frame could be extracted from a video. All
// Preview failures wrap it so callers can fall back to a placeholder with a
// single errors.Is check.
var ErrNoFrame = errors.New("no frame extracted")

// Preview extracts single frames from overlay videos for positioning UIs.
type Preview struct {
	ffmpegPath string
	prober     *prober.Prober
}

// PreviewOption is a functional option for Preview.
type PreviewOption func(*Preview)

// WithPreviewFFmpegPath sets a custom ffmpeg binary path.
func WithPreviewFFmpegPath(path string) PreviewOption {
	return func(p *Preview) {
		p.ffmpegPath = path
	}
}

// WithPreviewProber sets the metadata prober used to resolve seek offsets.
func WithPreviewProber(pr *prober.Prober) PreviewOption {
	return func(p *Preview) {
		p.prober = pr
	}
}

// NewPreview creates a frame extractor.
func NewPreview(opts ...PreviewOption) *Preview {
	p := &Preview{
		ffmpegPath: findFFmpeg(),
		prober:     prober.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract decodes one frame of the video at path. fraction selects the
// position within the clip and is clamped to [0, 1]; zero selects the first
// frame without a seek, which also works for clips whose duration cannot be
// probed.
func (p *Preview) Extract(ctx context.Context, path string, fraction float64) (image.Image, error) {
	if p.ffmpegPath == "" {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", ErrNoFrame)
	}

	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	var seek time.Duration
	if fraction > 0 {
		duration, err := p.prober.Duration(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%w: probe %s: %v", ErrNoFrame, path, err)
		}
		seek = time.Duration(float64(duration) * fraction)
	}

	tmp, err := os.CreateTemp("", "preview-*.png")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %v", ErrNoFrame, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := []string{"-y"}
	if seek > 0 {
		args = append(args, "-ss", formatSeconds(seek))
	}
	args = append(args,
		"-i", path,
		"-vframes", "1",
		tmpPath,
	)

	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: extract frame from %s: %v: %s",
			ErrNoFrame, path, err, lastLine(stderr.String()))
	}

	frame, err := imaging.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("%w: decode extracted frame: %v", ErrNoFrame, err)
	}

	return frame, nil
}

// lastLine returns the final non-empty line of s, the line where ffmpeg puts
// its actual error message.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
