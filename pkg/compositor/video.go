package compositor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/creativelab/compositor/pkg/prober"
	"github.com/creativelab/compositor/pkg/schemas"
)

// stderrTailLines bounds the diagnostic text kept from a failed encode.
const stderrTailLines = 20

// Video composites an alpha-channel video overlay onto a static hero image
// with ffmpeg. The hero is held as a still frame for the whole output; the
// overlay is looped, scaled and pinned at a fixed offset.
type Video struct {
	ffmpegPath string
	prober     *prober.Prober
	logger     *slog.Logger
	onProgress func(EncodeProgress)
}

// VideoOption is a functional option for Video.
type VideoOption func(*Video)

// WithFFmpegPath sets a custom ffmpeg binary path.
func WithFFmpegPath(path string) VideoOption {
	return func(v *Video) {
		v.ffmpegPath = path
	}
}

// WithProber sets the metadata prober used to determine overlay duration.
func WithProber(p *prober.Prober) VideoOption {
	return func(v *Video) {
		v.prober = p
	}
}

// WithLogger sets the logger for encode diagnostics.
func WithLogger(l *slog.Logger) VideoOption {
	return func(v *Video) {
		v.logger = l
	}
}

// WithEncodeProgress registers a callback for ffmpeg encode progress lines.
func WithEncodeProgress(fn func(EncodeProgress)) VideoOption {
	return func(v *Video) {
		v.onProgress = fn
	}
}

// NewVideo creates a video compositor, locating ffmpeg in the usual places.
func NewVideo(opts ...VideoOption) *Video {
	v := &Video{
		ffmpegPath: findFFmpeg(),
		prober:     prober.New(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Composite renders job: the overlay's intrinsic duration is probed, the
// output duration is intrinsic * loop count, and a single ffmpeg invocation
// produces a fast-start H.264 MP4 with no audio track. The call blocks until
// ffmpeg exits.
func (v *Video) Composite(ctx context.Context, job *schemas.RenderJob) error {
	if v.ffmpegPath == "" {
		return newError(schemas.FailureEncode, "locate ffmpeg", errors.New("ffmpeg not found in PATH"))
	}

	pos := job.Position.Normalized()

	info, err := v.prober.Probe(ctx, job.OverlayPath)
	if err != nil {
		return newError(schemas.FailureProbe, "probe overlay", err)
	}
	intrinsic := info.Duration()
	if intrinsic <= 0 {
		return newError(schemas.FailureProbe, "probe overlay",
			fmt.Errorf("no duration reported for %s", job.OverlayPath))
	}
	if !info.HasAlpha() {
		v.logger.Warn("overlay has no alpha channel, it will cover the hero",
			"overlay", job.OverlayPath)
	}
	final := time.Duration(float64(intrinsic) * float64(pos.LoopCount))

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0755); err != nil {
		return newError(schemas.FailureWrite, "create output directory", err)
	}

	args := buildEncodeArgs(job.HeroPath, job.OverlayPath, job.OutputPath, pos, final)
	v.logger.Debug("encoding video overlay",
		"output", job.OutputPath,
		"duration", final,
		"loops", pos.LoopCount)

	cmd := exec.CommandContext(ctx, v.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return newError(schemas.FailureEncode, "create stderr pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return newError(schemas.FailureEncode, "start ffmpeg", err)
	}

	tail := v.streamStderr(stderr)

	if err := cmd.Wait(); err != nil {
		return newError(schemas.FailureEncode, "encode",
			fmt.Errorf("%w: %s", err, strings.Join(tail, "\n")))
	}

	return nil
}

// streamStderr scans ffmpeg stderr, forwarding progress lines and keeping a
// bounded tail for failure diagnostics.
func (v *Video) streamStderr(r io.Reader) []string {
	parser := newProgressParser()
	var tail []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if progress := parser.parseLine(line); progress != nil {
			if v.onProgress != nil {
				v.onProgress(*progress)
			}
			continue
		}

		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
	}

	return tail
}

// buildEncodeArgs assembles the ffmpeg argument list for one video overlay
// job. The hero image is looped as a still source; the overlay input is
// repeated loopCount-1 extra times so it plays loopCount times in total, and
// the explicit -t cap makes the final duration authoritative.
func buildEncodeArgs(heroPath, overlayPath, outputPath string, pos schemas.Position, final time.Duration) []string {
	scaleFilter := "null"
	if pos.Scale != 1.0 {
		scaleFilter = fmt.Sprintf("scale=iw*%g:ih*%g:flags=lanczos", pos.Scale, pos.Scale)
	}
	filter := fmt.Sprintf("[1:v]%s,format=rgba[ovr];[0:v][ovr]overlay=%d:%d:shortest=1",
		scaleFilter, pos.X, pos.Y)

	args := []string{
		"-y",
		"-loop", "1",
		"-i", heroPath,
	}
	if pos.LoopCount > 1 {
		args = append(args, "-stream_loop", strconv.Itoa(pos.LoopCount-1))
	}
	args = append(args,
		"-i", overlayPath,
		"-filter_complex", filter,
		"-t", formatSeconds(final),
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-an",
		outputPath,
	)

	return args
}

// formatSeconds renders a duration as ffmpeg expects it, e.g. "4.500".
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// findFFmpeg locates ffmpeg in PATH or the usual install locations.
func findFFmpeg() string {
	candidates := []string{
		"ffmpeg",
		"/usr/local/bin/ffmpeg",
		"/opt/homebrew/bin/ffmpeg",
		"/usr/bin/ffmpeg",
	}

	for _, path := range candidates {
		if _, err := exec.LookPath(path); err == nil {
			return path
		}
	}

	return ""
}
