// Package prober probes media files using ffprobe.
package prober

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/creativelab/compositor/pkg/schemas"
)

// Prober wraps the ffprobe binary. The zero cost of a probe is one external
// process per call; callers on hot paths should cache results themselves.
type Prober struct {
	ffprobePath string
}

// Option is a functional option for Prober.
type Option func(*Prober)

// WithFFprobePath sets a custom ffprobe binary path.
func WithFFprobePath(path string) Option {
	return func(p *Prober) {
		p.ffprobePath = path
	}
}

// New creates a Prober, locating ffprobe in the usual places.
func New(opts ...Option) *Prober {
	p := &Prober{
		ffprobePath: findFFprobe(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe inspects a media file and returns its container and stream
// properties.
func (p *Prober) Probe(ctx context.Context, path string) (*schemas.MediaInfo, error) {
	if p.ffprobePath == "" {
		return nil, fmt.Errorf("ffprobe not found in PATH")
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("ffprobe execution error: %w", err)
	}

	return parseOutput(output)
}

// Duration returns the intrinsic duration of a media file. This is the probe
// shared by the video compositor and the preview extractor.
func (p *Prober) Duration(ctx context.Context, path string) (time.Duration, error) {
	info, err := p.Probe(ctx, path)
	if err != nil {
		return 0, err
	}

	d := info.Duration()
	if d <= 0 {
		return 0, fmt.Errorf("no duration reported for %s", path)
	}
	return d, nil
}

// findFFprobe locates ffprobe in PATH or the usual install locations.
func findFFprobe() string {
	candidates := []string{
		"ffprobe",
		"/usr/local/bin/ffprobe",
		"/opt/homebrew/bin/ffprobe",
		"/usr/bin/ffprobe",
	}

	for _, path := range candidates {
		if _, err := exec.LookPath(path); err == nil {
			return path
		}
	}

	return ""
}

// probeOutput mirrors the raw ffprobe JSON shape.
type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	StartTime  string `json:"start_time"`
}

type probeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`

	// Video fields
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	RFrameRate  string `json:"r_frame_rate"`
	PixelFormat string `json:"pix_fmt"`

	// Audio fields
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`

	// Common fields
	BitRate  string `json:"bit_rate"`
	Duration string `json:"duration"`
}

// parseOutput parses ffprobe JSON output into MediaInfo.
func parseOutput(data []byte) (*schemas.MediaInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &schemas.MediaInfo{
		Format: schemas.FormatInfo{
			Filename:  out.Format.Filename,
			Format:    out.Format.FormatName,
			Duration:  parseSeconds(out.Format.Duration),
			Size:      parseInt64(out.Format.Size),
			BitRate:   parseInt64(out.Format.BitRate),
			StartTime: parseSeconds(out.Format.StartTime),
		},
	}

	for _, stream := range out.Streams {
		switch stream.CodecType {
		case "video":
			info.VideoStreams = append(info.VideoStreams, schemas.VideoStream{
				Index:       stream.Index,
				Codec:       stream.CodecName,
				Width:       stream.Width,
				Height:      stream.Height,
				FrameRate:   parseFrameRate(stream.RFrameRate),
				PixelFormat: stream.PixelFormat,
				BitRate:     parseInt64(stream.BitRate),
				Duration:    parseSeconds(stream.Duration),
			})
		case "audio":
			info.AudioStreams = append(info.AudioStreams, schemas.AudioStream{
				Index:      stream.Index,
				Codec:      stream.CodecName,
				SampleRate: parseInt(stream.SampleRate),
				Channels:   stream.Channels,
				BitRate:    parseInt64(stream.BitRate),
				Duration:   parseSeconds(stream.Duration),
			})
		}
	}

	return info, nil
}

// parseSeconds parses an ffprobe duration field (seconds as a float string).
func parseSeconds(s string) time.Duration {
	if s == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// parseFrameRate parses the ffprobe rational form, e.g. "30/1" or
// "30000/1001".
func parseFrameRate(s string) float64 {
	if s == "" {
		return 0
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		rate, _ := strconv.ParseFloat(s, 64)
		return rate
	}

	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}

	return num / den
}
