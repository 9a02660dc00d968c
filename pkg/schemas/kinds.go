// Package schemas defines the shared value types of the render pipeline.
package schemas

import "fmt"

// Format identifies an output aspect-ratio bucket. Heroes and overlays are
// bucketed per format and never cross-matched.
type Format string

const (
	FormatSquare   Format = "1x1"
	FormatVertical Format = "9x16"
)

// Formats lists the supported formats in render order.
var Formats = []Format{FormatSquare, FormatVertical}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f == FormatSquare || f == FormatVertical
}

// ParseFormat parses a format label such as "1x1" or "9x16".
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown format %q", s)
	}
	return f, nil
}

// OverlayKind distinguishes static image overlays from alpha-channel video
// overlays.
type OverlayKind string

const (
	KindStatic OverlayKind = "static"
	KindVideo  OverlayKind = "video"
)

// Kinds lists the supported overlay kinds in render order.
var Kinds = []OverlayKind{KindStatic, KindVideo}

// Valid reports whether k is a supported overlay kind.
func (k OverlayKind) Valid() bool {
	return k == KindStatic || k == KindVideo
}

// ParseOverlayKind parses an overlay kind label.
func ParseOverlayKind(s string) (OverlayKind, error) {
	k := OverlayKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown overlay kind %q", s)
	}
	return k, nil
}

// PositionKey identifies the saved position record for a (format, kind) pair.
type PositionKey struct {
	Format Format
	Kind   OverlayKind
}

// String renders the on-disk key, e.g. "1x1_static".
func (k PositionKey) String() string {
	return fmt.Sprintf("%s_%s", k.Format, k.Kind)
}

// ParsePositionKey parses an on-disk key of the form "{format}_{kind}".
func ParsePositionKey(s string) (PositionKey, error) {
	for _, f := range Formats {
		for _, k := range Kinds {
			key := PositionKey{Format: f, Kind: k}
			if key.String() == s {
				return key, nil
			}
		}
	}
	return PositionKey{}, fmt.Errorf("unknown position key %q", s)
}
