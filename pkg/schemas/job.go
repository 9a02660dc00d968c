package schemas

import "path/filepath"

// RenderJob is one unit of work: a single overlay composited onto a single
// hero. Jobs are created by the planner and consumed exactly once by the
// executor; they are never persisted.
type RenderJob struct {
	Kind        OverlayKind `json:"kind"`
	Format      Format      `json:"format"`
	HeroPath    string      `json:"hero_path"`
	OverlayPath string      `json:"overlay_path"`
	OutputPath  string      `json:"output_path"`
	Position    Position    `json:"position"`
}

// Description returns a short human-readable label for progress reporting.
func (j *RenderJob) Description() string {
	return filepath.Base(j.OutputPath)
}
