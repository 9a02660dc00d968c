package schemas

import (
	"strings"
	"time"
)

// MediaInfo contains detected media properties.
type MediaInfo struct {
	Format       FormatInfo    `json:"format"`
	VideoStreams []VideoStream `json:"video_streams,omitempty"`
	AudioStreams []AudioStream `json:"audio_streams,omitempty"`
}

// FormatInfo contains container-level information.
type FormatInfo struct {
	Filename  string        `json:"filename,omitempty"`
	Format    string        `json:"format,omitempty"`
	Duration  time.Duration `json:"duration"`
	Size      int64         `json:"size"`
	BitRate   int64         `json:"bit_rate,omitempty"`
	StartTime time.Duration `json:"start_time,omitempty"`
}

// VideoStream represents a video stream.
type VideoStream struct {
	Index       int           `json:"index"`
	Codec       string        `json:"codec"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	FrameRate   float64       `json:"frame_rate"`
	PixelFormat string        `json:"pixel_format,omitempty"`
	BitRate     int64         `json:"bit_rate,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
}

// AudioStream represents an audio stream.
type AudioStream struct {
	Index      int           `json:"index"`
	Codec      string        `json:"codec"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	BitRate    int64         `json:"bit_rate,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// alphaPixelFormats are the ffmpeg pixel format prefixes that carry an alpha
// plane. Matching by prefix covers the bit-depth variants (yuva420p10le etc).
var alphaPixelFormats = []string{
	"yuva", "rgba", "argb", "abgr", "bgra", "gbrap", "ya8", "ya16", "pal8",
}

// HasAlpha reports whether any video stream uses an alpha-capable pixel
// format.
func (m *MediaInfo) HasAlpha() bool {
	for _, vs := range m.VideoStreams {
		for _, prefix := range alphaPixelFormats {
			if strings.HasPrefix(vs.PixelFormat, prefix) {
				return true
			}
		}
	}
	return false
}

// Duration returns the container duration, falling back to the longest video
// stream when the container does not report one.
func (m *MediaInfo) Duration() time.Duration {
	if m.Format.Duration > 0 {
		return m.Format.Duration
	}
	var longest time.Duration
	for _, vs := range m.VideoStreams {
		if vs.Duration > longest {
			longest = vs.Duration
		}
	}
	return longest
}
