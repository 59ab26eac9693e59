// Package fontset loads the TrueType/OpenType fonts a generation run renders
// with, and tracks per-font capability flags (whether the font can render
// digits for number and date labels).
package fontset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"codeberg.org/kakha/kaglyph/internal"
)

// numericExclusions names fonts that must never receive number or date
// labels. These decorative Georgian faces ship without Latin digit glyphs.
var numericExclusions = map[string]bool{
	"bpg-nino-mkhedruli":  true,
	"bpg-dedaena":         true,
	"bpg-ingiri":          true,
	"gl-tatishvili-kento": true,
}

// Font is a parsed font resource ready for face construction.
type Font struct {
	Name string // file stem, used in output filenames and metadata
	Path string

	// Numeric reports whether number/date labels may be rendered with this
	// font.
	Numeric bool

	parsed *sfnt.Font
}

// NewFace builds a sized face for rendering. Faces are cheap relative to
// parsing; build one per sample and close it after drawing.
func (f *Font) NewFace(size float64) (font.Face, error) {
	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %gpt face for font %s: %w", size, f.Name, err)
	}
	return face, nil
}

// Load parses a single font file and determines its capability flags.
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", filepath.Base(path), err)
	}

	// Font names end up in image file names, so strip anything unsafe.
	name := internal.SanitizeFilename(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	f := &Font{
		Name:    name,
		Path:    path,
		Numeric: !numericExclusions[strings.ToLower(name)],
		parsed:  parsed,
	}

	// Even outside the exclusion list, a font missing the '0' glyph cannot
	// render numeric labels.
	if f.Numeric && !hasGlyph(parsed, '0') {
		f.Numeric = false
	}

	return f, nil
}

// LoadDir loads every .ttf/.otf in dir, sorted by name. Files that fail to
// parse are skipped with a warning; the run continues with the remaining
// fonts. An empty usable set is an error.
func LoadDir(dir string) ([]*Font, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read font directory: %w", err)
	}

	var fonts []*Font
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}

		f, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping font %s: %v\n", entry.Name(), err)
			continue
		}
		fonts = append(fonts, f)
	}

	if len(fonts) == 0 {
		return nil, fmt.Errorf("no usable fonts found in %s", dir)
	}

	sort.Slice(fonts, func(i, j int) bool { return fonts[i].Name < fonts[j].Name })
	return fonts, nil
}

// hasGlyph reports whether the font maps r to a real glyph.
func hasGlyph(f *sfnt.Font, r rune) bool {
	var buf sfnt.Buffer
	idx, err := f.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}
