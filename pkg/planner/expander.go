// Package planner expands input inventories into ordered render job lists.
package planner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/creativelab/compositor/pkg/schemas"
)

// PositionSource resolves the saved overlay position for a (format, kind)
// pair. The position store satisfies this.
type PositionSource interface {
	Get(format schemas.Format, kind schemas.OverlayKind) schemas.Position
}

// Inputs is the per-format inventory of hero and overlay files to combine.
type Inputs struct {
	Heroes         map[schemas.Format][]string
	StaticOverlays map[schemas.Format][]string
	VideoOverlays  map[schemas.Format][]string
}

// Options controls output placement for an expansion.
type Options struct {
	// OutputRoot is the directory under which per-format output folders
	// are created.
	OutputRoot string

	// Subfolder, when set, groups outputs one level below the format
	// folder. It must be a single path element.
	Subfolder string
}

// Expander builds the full cross product of heroes and overlays.
type Expander struct {
	positions PositionSource
}

// NewExpander creates an expander that resolves positions from source.
func NewExpander(source PositionSource) *Expander {
	return &Expander{positions: source}
}

// Expand returns one job per (hero, overlay) pair within each format bucket.
// Buckets never cross: a 1x1 hero is only paired with 1x1 overlays. The
// result is deterministic: formats in declaration order, heroes in sorted
// order, and for each hero all static overlays before all video overlays,
// each group sorted by filename. An empty bucket on either side contributes
// no jobs.
func (e *Expander) Expand(inputs Inputs, opts Options) ([]*schemas.RenderJob, error) {
	if err := validateSubfolder(opts.Subfolder); err != nil {
		return nil, err
	}

	var jobs []*schemas.RenderJob

	for _, format := range schemas.Formats {
		heroes := sortedCopy(inputs.Heroes[format])
		statics := sortedCopy(inputs.StaticOverlays[format])
		videos := sortedCopy(inputs.VideoOverlays[format])

		staticPos := e.positions.Get(format, schemas.KindStatic)
		videoPos := e.positions.Get(format, schemas.KindVideo)

		for _, hero := range heroes {
			for _, overlay := range statics {
				jobs = append(jobs, &schemas.RenderJob{
					Kind:        schemas.KindStatic,
					Format:      format,
					HeroPath:    hero,
					OverlayPath: overlay,
					OutputPath:  outputPath(opts, format, hero, overlay, "png"),
					Position:    staticPos,
				})
			}
			for _, overlay := range videos {
				jobs = append(jobs, &schemas.RenderJob{
					Kind:        schemas.KindVideo,
					Format:      format,
					HeroPath:    hero,
					OverlayPath: overlay,
					OutputPath:  outputPath(opts, format, hero, overlay, "mp4"),
					Position:    videoPos,
				})
			}
		}
	}

	return jobs, nil
}

// outputPath builds outputs/{format}/[{subfolder}/]{hero}_{overlay}.{ext}.
func outputPath(opts Options, format schemas.Format, hero, overlay, ext string) string {
	name := fmt.Sprintf("%s_%s.%s", stem(hero), stem(overlay), ext)

	parts := []string{opts.OutputRoot, string(format)}
	if opts.Subfolder != "" {
		parts = append(parts, opts.Subfolder)
	}
	parts = append(parts, name)

	return filepath.Join(parts...)
}

// stem returns the filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// validateSubfolder rejects labels that would escape or nest beyond the
// format folder.
func validateSubfolder(label string) error {
	if label == "" {
		return nil
	}
	if label == "." || label == ".." {
		return fmt.Errorf("invalid subfolder %q", label)
	}
	if strings.ContainsAny(label, `/\`) {
		return fmt.Errorf("subfolder %q must be a single path element", label)
	}
	return nil
}

func sortedCopy(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}
