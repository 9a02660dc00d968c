// Package fonts discovers font families on disk and loads faces for text
// rendering. Style variants are inferred from filename suffixes, e.g.
// "Roboto-BoldItalic.ttf" registers the "Bold Italic" style of the "Roboto"
// family.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Style identifies a variant within a font family.
type Style string

const (
	StyleRegular    Style = "Regular"
	StyleBold       Style = "Bold"
	StyleItalic     Style = "Italic"
	StyleBoldItalic Style = "Bold Italic"
)

// Family maps styles to font file paths.
type Family map[Style]string

// Face loads the face for style at the given point size. Missing styles fall
// back to Regular so a family with a single file still renders every style.
func (f Family) Face(style Style, size float64) (font.Face, error) {
	path, ok := f[style]
	if !ok {
		path, ok = f[StyleRegular]
	}
	if !ok {
		return nil, fmt.Errorf("family has no file for style %q and no regular fallback", style)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", filepath.Base(path), err)
	}

	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Styles returns the styles present in the family.
func (f Family) Styles() []Style {
	var styles []Style
	for _, s := range []Style{StyleRegular, StyleBold, StyleItalic, StyleBoldItalic} {
		if _, ok := f[s]; ok {
			styles = append(styles, s)
		}
	}
	return styles
}

// ScanFamilies walks dir for .ttf and .otf files and groups them into
// families by filename. A missing directory yields an empty map, matching
// the treatment of missing input directories elsewhere.
func ScanFamilies(dir string) (map[string]Family, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Family{}, nil
		}
		return nil, fmt.Errorf("read fonts directory: %w", err)
	}

	families := make(map[string]Family)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}

		name, style := splitStyle(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		if families[name] == nil {
			families[name] = make(Family)
		}
		families[name][style] = filepath.Join(dir, entry.Name())
	}

	return families, nil
}

// splitStyle separates a style suffix from a font file stem. Unrecognized
// suffixes are kept as part of the family name with the Regular style.
func splitStyle(stem string) (string, Style) {
	idx := strings.LastIndexAny(stem, "-_ ")
	if idx < 0 {
		return stem, StyleRegular
	}

	switch strings.ToLower(stem[idx+1:]) {
	case "bolditalic", "boldoblique":
		return stem[:idx], StyleBoldItalic
	case "bold":
		return stem[:idx], StyleBold
	case "italic", "oblique":
		return stem[:idx], StyleItalic
	case "regular", "book":
		return stem[:idx], StyleRegular
	}

	return stem, StyleRegular
}
