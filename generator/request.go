package generator

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/satishbabariya/iconfont-go/codepoint"
	"github.com/satishbabariya/iconfont-go/font/sfnt"
	"github.com/satishbabariya/iconfont-go/font/svgfont"
	"github.com/satishbabariya/iconfont-go/format"
	"github.com/satishbabariya/iconfont-go/generator/css"
)

var (
	// ErrNoFontName is returned for requests without a font name.
	ErrNoFontName = errors.New("font name is required")
	// ErrNoIcons is returned for requests without icons.
	ErrNoIcons = errors.New("no icons to generate from")
	// ErrUnknownFormat is returned for formats outside the known set.
	ErrUnknownFormat = format.ErrUnknownFormat
)

// Format is an output font format.
type Format = format.Format

// The output formats.
const (
	WOFF2 = format.WOFF2
	WOFF  = format.WOFF
	TTF   = format.TTF
	SVG   = format.SVG
)

// IconSource is one input SVG file.
type IconSource struct {
	// Path of the SVG file.
	Path string
	// Name is the file name without extension.
	Name string
}

// NewIconSource derives the icon name from path.
func NewIconSource(path string) IconSource {
	base := filepath.Base(path)
	return IconSource{
		Path: path,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

// Request is the configuration of one generation run.
type Request struct {
	// FontName names the font and every output file.
	FontName string
	// Dest is the output directory, created when missing.
	Dest string
	// Icons are assembled in order.
	Icons []IconSource
	// Formats to write; the stylesheet is always written. Empty means
	// format.Default.
	Formats []Format
	// StartCodepoint is the cursor auto-assigned codepoints start after.
	StartCodepoint rune
	// Codepoints pins names to codepoints.
	Codepoints map[string]rune
	// Rename maps icon names to display names.
	Rename map[string]string

	// Font tunes glyph layout in the SVG font.
	Font svgfont.Options
	// TTF carries the metadata written into binary fonts.
	TTF sfnt.Options
	// Metadata is an XML document stored in WOFF and WOFF2 files.
	Metadata string
	// CSS controls the stylesheet.
	CSS css.Options

	// Manifest also writes <FontName>.json with the codepoint table.
	Manifest bool
}

// WithDefaults returns a copy of r with every unset option defaulted.
func (r Request) WithDefaults() Request {
	if len(r.Formats) == 0 {
		r.Formats = append([]Format(nil), format.Default...)
	} else {
		r.Formats = format.Normalize(r.Formats)
	}
	if r.Dest == "" {
		r.Dest = "."
	}
	if r.StartCodepoint == 0 {
		r.StartCodepoint = codepoint.DefaultStart
	}
	if r.Font.FontName == "" {
		r.Font.FontName = r.FontName
	}
	r.CSS = r.CSS.WithDefaults()
	return r
}

// Validate checks the request before anything is written.
func (r Request) Validate() error {
	if r.FontName == "" {
		return ErrNoFontName
	}
	if len(r.Icons) == 0 {
		return ErrNoIcons
	}
	for _, f := range r.Formats {
		if f < WOFF2 || f > SVG {
			return fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
		}
	}
	return nil
}

// names returns the icon names in request order.
func (r Request) names() []string {
	names := make([]string, len(r.Icons))
	for i, icon := range r.Icons {
		names[i] = icon.Name
	}
	return names
}
