package compositor

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EncodeProgress is one parsed ffmpeg status line.
type EncodeProgress struct {
	Frame int
	FPS   float64
	Time  time.Duration
	Speed float64
}

// progressParser extracts encode progress from ffmpeg stderr status lines.
type progressParser struct {
	frameRegex *regexp.Regexp
	fpsRegex   *regexp.Regexp
	timeRegex  *regexp.Regexp
	speedRegex *regexp.Regexp
}

func newProgressParser() *progressParser {
	return &progressParser{
		frameRegex: regexp.MustCompile(`frame=\s*(\d+)`),
		fpsRegex:   regexp.MustCompile(`fps=\s*([\d.]+)`),
		timeRegex:  regexp.MustCompile(`time=(\d{2}):(\d{2}):(\d{2})\.(\d{2})`),
		speedRegex: regexp.MustCompile(`speed=\s*([\d.]+)x`),
	}
}

// parseLine parses a single line of ffmpeg stderr. Non-status lines return
// nil so the caller can keep them for diagnostics instead.
func (pp *progressParser) parseLine(line string) *EncodeProgress {
	if !strings.Contains(line, "frame=") {
		return nil
	}

	progress := &EncodeProgress{}

	if matches := pp.frameRegex.FindStringSubmatch(line); len(matches) > 1 {
		progress.Frame, _ = strconv.Atoi(matches[1])
	}

	if matches := pp.fpsRegex.FindStringSubmatch(line); len(matches) > 1 {
		progress.FPS, _ = strconv.ParseFloat(matches[1], 64)
	}

	if matches := pp.timeRegex.FindStringSubmatch(line); len(matches) > 4 {
		hours, _ := strconv.Atoi(matches[1])
		minutes, _ := strconv.Atoi(matches[2])
		seconds, _ := strconv.Atoi(matches[3])
		centiseconds, _ := strconv.Atoi(matches[4])

		progress.Time = time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute +
			time.Duration(seconds)*time.Second +
			time.Duration(centiseconds)*10*time.Millisecond
	}

	if matches := pp.speedRegex.FindStringSubmatch(line); len(matches) > 1 {
		progress.Speed, _ = strconv.ParseFloat(matches[1], 64)
	}

	return progress
}
