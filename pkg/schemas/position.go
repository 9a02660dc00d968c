package schemas

// Position is the saved placement transform applied to all overlays of a
// given (format, kind) pair. X and Y may be negative to place an overlay
// partially off-canvas; the compositors clip silently.
type Position struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Scale     float64 `json:"scale"`
	LoopCount int     `json:"loop_count"`
}

// DefaultPosition is the record returned for a (format, kind) pair that has
// never been saved.
func DefaultPosition() Position {
	return Position{X: 0, Y: 0, Scale: 1.0, LoopCount: 1}
}

// Normalized fills zero-valued fields left behind by records written before
// scale and loop count existed. LoopCount is meaningful only for video
// overlays but is kept at 1 for static records so the math stays uniform.
func (p Position) Normalized() Position {
	if p.Scale == 0 {
		p.Scale = 1.0
	}
	if p.LoopCount < 1 {
		p.LoopCount = 1
	}
	return p
}
