// Package scanner discovers hero and overlay files under the conventional
// input tree:
//
//	inputs/heroes/{1x1,9x16}/
//	inputs/overlays/static/{1x1,9x16}/
//	inputs/overlays/video/{1x1,9x16}/
//
// Each directory may contain one level of subfolders for grouping assets by
// campaign.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/creativelab/compositor/pkg/planner"
	"github.com/creativelab/compositor/pkg/schemas"
)

// SubfolderAll selects every file of a listing regardless of subfolder.
const SubfolderAll = "all"

var (
	heroExts         = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	staticExts       = map[string]bool{".png": true}
	videoOverlayExts = map[string]bool{".mov": true, ".mp4": true}
)

// Listing holds the files found in one input directory, split into files at
// the directory root and files grouped by subfolder.
type Listing struct {
	Root       []string
	Subfolders map[string][]string
}

// Flatten returns every file of the listing, root files first.
func (l Listing) Flatten() []string {
	files := append([]string(nil), l.Root...)
	for _, name := range sortedKeys(l.Subfolders) {
		files = append(files, l.Subfolders[name]...)
	}
	return files
}

// SubfolderNames returns the subfolder labels in sorted order, always led by
// the "all" pseudo-label.
func (l Listing) SubfolderNames() []string {
	return append([]string{SubfolderAll}, sortedKeys(l.Subfolders)...)
}

// Filter returns the files selected by a subfolder label.
func (l Listing) Filter(subfolder string) []string {
	if subfolder == SubfolderAll || subfolder == "" {
		return l.Flatten()
	}
	return l.Subfolders[subfolder]
}

// Tree is the full scanned inventory, keyed by format.
type Tree struct {
	Heroes         map[schemas.Format]Listing
	StaticOverlays map[schemas.Format]Listing
	VideoOverlays  map[schemas.Format]Listing
}

// Scan walks the input tree under baseDir. Missing directories yield empty
// listings, not errors.
func Scan(baseDir string) (*Tree, error) {
	tree := &Tree{
		Heroes:         make(map[schemas.Format]Listing),
		StaticOverlays: make(map[schemas.Format]Listing),
		VideoOverlays:  make(map[schemas.Format]Listing),
	}

	for _, format := range schemas.Formats {
		var err error

		tree.Heroes[format], err = scanDir(
			filepath.Join(baseDir, "inputs", "heroes", string(format)), heroExts)
		if err != nil {
			return nil, err
		}

		tree.StaticOverlays[format], err = scanDir(
			filepath.Join(baseDir, "inputs", "overlays", "static", string(format)), staticExts)
		if err != nil {
			return nil, err
		}

		tree.VideoOverlays[format], err = scanDir(
			filepath.Join(baseDir, "inputs", "overlays", "video", string(format)), videoOverlayExts)
		if err != nil {
			return nil, err
		}
	}

	return tree, nil
}

// Inputs selects files for expansion. heroSubfolder filters heroes and
// overlaySubfolder filters both overlay kinds; pass SubfolderAll (or "") to
// take everything.
func (t *Tree) Inputs(heroSubfolder, overlaySubfolder string) *planner.Inputs {
	inputs := &planner.Inputs{
		Heroes:         make(map[schemas.Format][]string),
		StaticOverlays: make(map[schemas.Format][]string),
		VideoOverlays:  make(map[schemas.Format][]string),
	}

	for _, format := range schemas.Formats {
		inputs.Heroes[format] = t.Heroes[format].Filter(heroSubfolder)
		inputs.StaticOverlays[format] = t.StaticOverlays[format].Filter(overlaySubfolder)
		inputs.VideoOverlays[format] = t.VideoOverlays[format].Filter(overlaySubfolder)
	}

	return inputs
}

// SubfolderNames returns every subfolder label present anywhere in the tree,
// led by the "all" pseudo-label.
func (t *Tree) SubfolderNames() []string {
	seen := make(map[string]bool)
	for _, byFormat := range []map[schemas.Format]Listing{t.Heroes, t.StaticOverlays, t.VideoOverlays} {
		for _, listing := range byFormat {
			for name := range listing.Subfolders {
				seen[name] = true
			}
		}
	}
	return append([]string{SubfolderAll}, sortedKeys(seen)...)
}

// scanDir lists matching files in dir and one level of subdirectories.
func scanDir(dir string, exts map[string]bool) (Listing, error) {
	listing := Listing{Subfolders: make(map[string][]string)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return listing, nil
		}
		return listing, fmt.Errorf("read input directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			files, err := scanFlat(filepath.Join(dir, entry.Name()), exts)
			if err != nil {
				return listing, err
			}
			if len(files) > 0 {
				listing.Subfolders[entry.Name()] = files
			}
			continue
		}
		if matchesExt(entry.Name(), exts) {
			listing.Root = append(listing.Root, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(listing.Root)
	return listing, nil
}

func scanFlat(dir string, exts map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read subfolder %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && matchesExt(entry.Name(), exts) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

func matchesExt(name string, exts map[string]bool) bool {
	return exts[strings.ToLower(filepath.Ext(name))]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
