package svgfont

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/satishbabariya/iconfont-go/font/svgpath"
	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// DefaultRound is the default coordinate rounding factor: coordinates are
// rounded to multiples of 1/DefaultRound.
const DefaultRound = 10e12

// ErrNoGlyphs is returned when Assemble is called without glyphs.
var ErrNoGlyphs = errors.New("no glyphs to assemble")

// Options tune how icons are scaled and placed in the font.
type Options struct {
	// FontName is used as the font id and font-family.
	FontName string
	// FontHeight is the em size. Zero means the height of the tallest icon.
	FontHeight float64
	// Normalize scales every icon to FontHeight. Otherwise icons keep their
	// relative sizes and the tallest one fits FontHeight.
	Normalize bool
	// CenterHorizontally centers each outline in its advance width.
	CenterHorizontally bool
	// FixedWidth gives every glyph the advance width of the widest one.
	FixedWidth bool
	// Round is the coordinate rounding factor; zero means DefaultRound.
	Round float64
	// Ascent defaults to FontHeight - Descent.
	Ascent float64
	// Descent is the distance below the baseline, as a positive number.
	Descent float64
	// Metadata is copied into the document's metadata element.
	Metadata string
}

// Glyph is one record submitted to the assembler.
type Glyph struct {
	Name      string
	Codepoint rune
	Source    io.Reader
}

// Document is the SVG font document.
type Document struct {
	XMLName  xml.Name `xml:"svg"`
	Metadata string   `xml:"metadata,omitempty"`
	Font     Font     `xml:"defs>font"`
}

// Font is the <font> element.
type Font struct {
	ID           string         `xml:"id,attr"`
	HorizAdvX    float64        `xml:"horiz-adv-x,attr"`
	Face         FontFace       `xml:"font-face"`
	MissingGlyph GlyphElement   `xml:"missing-glyph"`
	Glyphs       []GlyphElement `xml:"glyph"`
}

// FontFace is the <font-face> element.
type FontFace struct {
	FontFamily  string  `xml:"font-family,attr"`
	FontWeight  string  `xml:"font-weight,attr,omitempty"`
	FontStretch string  `xml:"font-stretch,attr,omitempty"`
	UnitsPerEm  float64 `xml:"units-per-em,attr"`
	Ascent      float64 `xml:"ascent,attr"`
	Descent     float64 `xml:"descent,attr"`
}

// GlyphElement is a <glyph> or <missing-glyph> element. Its outline is in
// font space, y axis pointing up.
type GlyphElement struct {
	Name      string  `xml:"glyph-name,attr,omitempty"`
	Unicode   string  `xml:"unicode,attr,omitempty"`
	HorizAdvX float64 `xml:"horiz-adv-x,attr"`
	D         string  `xml:"d,attr,omitempty"`
}

// Codepoint returns the first rune of the glyph's unicode attribute.
func (g GlyphElement) Codepoint() (rune, bool) {
	for _, r := range g.Unicode {
		return r, true
	}
	return 0, false
}

// ParseDocument decodes an SVG font document.
func ParseDocument(b []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse SVG font: %w", err)
	}
	if doc.Font.Face.UnitsPerEm <= 0 {
		return nil, fmt.Errorf("SVG font has no units-per-em")
	}
	return &doc, nil
}

const doctype = `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd" >` + "\n"

// Assemble reads every glyph's icon in order and returns the SVG font
// document. The first icon that fails to read aborts assembly.
func Assemble(ctx context.Context, glyphs []Glyph, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(ctx, &buf, glyphs, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write is Assemble writing to w.
func Write(ctx context.Context, w io.Writer, glyphs []Glyph, opts Options) error {
	if len(glyphs) == 0 {
		return ErrNoGlyphs
	}

	icons := make([]*Icon, len(glyphs))
	for i, g := range glyphs {
		if err := ctx.Err(); err != nil {
			return err
		}
		icon, err := ReadIcon(g.Name, g.Source)
		if err != nil {
			return err
		}
		icons[i] = icon
		debug.Debug("Icon read", "icon", g.Name, "width", icon.Width, "height", icon.Height, "segments", len(icon.Path))
	}

	doc := layout(glyphs, icons, opts)

	if _, err := io.WriteString(w, xml.Header+doctype); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode SVG font: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// layout scales every icon into font space and builds the document.
func layout(glyphs []Glyph, icons []*Icon, opts Options) *Document {
	var maxHeight, maxWidth float64
	for _, icon := range icons {
		maxHeight = math.Max(maxHeight, icon.Height)
	}

	fontHeight := opts.FontHeight
	if fontHeight <= 0 {
		fontHeight = maxHeight
	}
	round := opts.Round
	if round <= 0 {
		round = DefaultRound
	}
	ascent := opts.Ascent
	if ascent == 0 {
		ascent = fontHeight - opts.Descent
	}

	scales := make([]float64, len(icons))
	for i, icon := range icons {
		if opts.Normalize {
			scales[i] = fontHeight / icon.Height
		} else {
			scales[i] = fontHeight / maxHeight
		}
		maxWidth = math.Max(maxWidth, icon.Width*scales[i])
	}

	doc := &Document{
		XMLName:  xml.Name{Space: "http://www.w3.org/2000/svg", Local: "svg"},
		Metadata: opts.Metadata,
		Font: Font{
			ID:        opts.FontName,
			HorizAdvX: roundTo(maxWidth, round),
			Face: FontFace{
				FontFamily:  opts.FontName,
				FontWeight:  "400",
				FontStretch: "normal",
				UnitsPerEm:  fontHeight,
				Ascent:      roundTo(ascent, round),
				Descent:     roundTo(-opts.Descent, round),
			},
			MissingGlyph: GlyphElement{HorizAdvX: 0},
		},
	}

	for i, icon := range icons {
		scale := scales[i]
		width := icon.Width * scale
		if opts.FixedWidth {
			width = maxWidth
		}

		// flip into font space: the top of the icon box sits at
		// fontHeight - descent, the bottom at -descent
		m := svgpath.Translate(0, fontHeight-opts.Descent).Mul(svgpath.Scale(scale, -scale))
		outline := icon.Path.Transform(m)

		if b, ok := outline.Bounds(); ok && (opts.CenterHorizontally || opts.FixedWidth) {
			dx := (width-b.Width())/2 - b.MinX
			if !opts.CenterHorizontally {
				// fixed width without centering keeps the icon's own offset,
				// shifted by half the extra room
				dx = (width - icon.Width*scale) / 2
			}
			outline = outline.Transform(svgpath.Translate(dx, 0))
		}

		doc.Font.Glyphs = append(doc.Font.Glyphs, GlyphElement{
			Name:      glyphs[i].Name,
			Unicode:   string(glyphs[i].Codepoint),
			HorizAdvX: roundTo(width, round),
			D:         outline.Format(round),
		})
	}

	debug.Debug("SVG font laid out",
		"glyphs", len(doc.Font.Glyphs),
		"unitsPerEm", fontHeight,
		"advance", doc.Font.HorizAdvX)

	return doc
}

func roundTo(v, round float64) float64 {
	r := math.Round(v*round) / round
	if r == 0 {
		return 0
	}
	return r
}
