package sfnt

import (
	"bytes"
	"fmt"
	"math"
	"time"

	goversion "github.com/hashicorp/go-version"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/postscript/funit"
	gosfnt "seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/head"
	"seehuhn.de/go/sfnt/maxp"
	"seehuhn.de/go/sfnt/os2"

	"github.com/satishbabariya/iconfont-go/font/svgfont"
	"github.com/satishbabariya/iconfont-go/font/svgpath"
	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// DefaultVersion is written to the name and head tables when no version is set.
const DefaultVersion = "1.0"

// DefaultVendorID is the OS/2 vendor tag used when Options.VendorID is unset.
const DefaultVendorID = "ICGO"

// curveTolerance is the maximum distance, in font units, between a cubic
// curve and the quadratic curves replacing it.
const curveTolerance = 0.3

// urPrivateUse is the OS/2 ulUnicodeRange bit of the Private Use Area.
const urPrivateUse os2.UnicodeRangeBit = 60

// Options carries metadata written into the TrueType font.
type Options struct {
	Copyright   string
	Description string
	URL         string
	// Version is a dotted version such as "1.2"; see ParseVersion.
	Version string
	// Timestamp sets the creation and modification dates; zero means now.
	Timestamp time.Time
	// VendorID is the four character OS/2 vendor tag.
	VendorID string
}

// ParseVersion validates a font version string and returns its major and
// minor components.
func ParseVersion(s string) (major, minor int, err error) {
	if s == "" {
		s = DefaultVersion
	}
	v, err := goversion.NewVersion(s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid font version %q: %w", s, err)
	}
	seg := v.Segments()
	major = seg[0]
	if len(seg) > 1 {
		minor = seg[1]
	}
	if major > math.MaxInt16 || minor > 0xFFFF {
		return 0, 0, fmt.Errorf("font version %q out of range", s)
	}
	return major, minor, nil
}

// srcGlyph is one glyph of the font being built.
type srcGlyph struct {
	name      string
	codepoint rune
	hasCP     bool
	advance   float64
	contours  []glyf.Contour
}

// FromSVGFont transcodes an SVG font document into a TrueType font.
func FromSVGFont(svg []byte, opts Options) ([]byte, error) {
	doc, err := svgfont.ParseDocument(svg)
	if err != nil {
		return nil, err
	}
	major, minor, err := ParseVersion(opts.Version)
	if err != nil {
		return nil, err
	}

	glyphs := make([]srcGlyph, 0, len(doc.Font.Glyphs)+1)
	glyphs = append(glyphs, srcGlyph{
		name:    ".notdef",
		advance: doc.Font.MissingGlyph.HorizAdvX,
	})
	for _, el := range doc.Font.Glyphs {
		path, err := svgpath.Parse(el.D)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", el.Name, err)
		}
		cp, ok := el.Codepoint()
		advance := el.HorizAdvX
		if advance == 0 {
			advance = doc.Font.HorizAdvX
		}
		glyphs = append(glyphs, srcGlyph{
			name:      el.Name,
			codepoint: cp,
			hasCP:     ok,
			advance:   advance,
			contours:  contours(path.ToQuadratic(curveTolerance)),
		})
	}

	family := doc.Font.Face.FontFamily
	if family == "" {
		family = doc.Font.ID
	}
	b := &builder{
		doc:    doc,
		opts:   opts,
		glyphs: glyphs,
		family: family,
		major:  major,
		minor:  minor,
	}

	buf := &bytes.Buffer{}
	if _, err := b.font().Write(buf); err != nil {
		return nil, fmt.Errorf("writing TrueType font: %w", err)
	}
	flavor, tables, err := ReadTables(buf.Bytes())
	if err != nil {
		return nil, err
	}
	for i := range tables {
		switch tables[i].Tag {
		case "OS/2":
			data, err := b.patchOS2(tables[i].Data)
			if err != nil {
				return nil, fmt.Errorf("OS/2 table: %w", err)
			}
			tables[i].Data = data
		case "name":
			tables[i].Data = b.nameTable()
		}
	}

	out := WriteFont(flavor, tables)
	debug.Debug("TrueType font built", "glyphs", len(glyphs), "bytes", len(out))
	return out, nil
}

type builder struct {
	doc    *svgfont.Document
	opts   Options
	glyphs []srcGlyph
	family string
	major  int
	minor  int
}

func (b *builder) unitsPerEm() uint16 {
	return uint16(max(16, min(16384, math.Round(b.doc.Font.Face.UnitsPerEm))))
}

// revision is the head.fontRevision value. The minor component is read as
// thousandths, so 1.5 becomes 1.005.
func (b *builder) revision() head.Version {
	return head.Version(uint32(b.major)<<16 | uint32(math.Round(float64(b.minor)/1000*65536))&0xFFFF)
}

// font describes the glyphs and metrics for the library writer, which
// derives head, hhea, hmtx, maxp, post, OS/2 and name from it.
func (b *builder) font() *gosfnt.Font {
	face := b.doc.Font.Face
	upem := b.unitsPerEm()
	descent := -math.Abs(face.Descent)

	outlines := &glyf.Outlines{
		Glyphs: make(glyf.Glyphs, len(b.glyphs)),
		Widths: make([]funit.Uint16, len(b.glyphs)),
		Names:  make([]string, len(b.glyphs)),
		Maxp:   &maxp.TTFInfo{MaxZones: 2},
	}
	var entries []cmapEntry
	for gid, g := range b.glyphs {
		outlines.Glyphs[gid] = simpleGlyph(g.contours)
		outlines.Widths[gid] = funit.Uint16(max(0, min(0xFFFF, math.Round(g.advance))))
		if gid == 0 {
			outlines.Names[gid] = g.name
		} else {
			outlines.Names[gid] = postName(g.name)
		}
		outlines.Maxp.MaxPoints = max(outlines.Maxp.MaxPoints, uint16(numPoints(g.contours)))
		outlines.Maxp.MaxContours = max(outlines.Maxp.MaxContours, uint16(len(g.contours)))
		if g.hasCP {
			entries = append(entries, cmapEntry{codepoint: g.codepoint, glyph: glyph.ID(gid)})
		}
	}

	ts := b.opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	var codePages os2.CodePageRange
	codePages.Set(os2.CP1252)

	q := 1 / float64(upem)
	return &gosfnt.Font{
		FamilyName:    b.family,
		Width:         os2.WidthNormal,
		Weight:        os2.WeightNormal,
		IsRegular:     true,
		CodePageRange: codePages,

		Version:          b.revision(),
		CreationTime:     ts,
		ModificationTime: ts,
		Description:      b.opts.Description,
		Copyright:        b.opts.Copyright,

		UnitsPerEm:         upem,
		Ascent:             funit.Int16(math.Round(face.Ascent)),
		Descent:            funit.Int16(math.Round(descent)),
		UnderlinePosition:  funit.Float64(math.Round(descent / 2)),
		UnderlineThickness: funit.Float64(max(1, float64(upem/20))),
		FontMatrix:         matrix.Scale(q, q),

		Outlines:  outlines,
		CMapTable: buildCmap(entries),
	}
}

// patchOS2 fills in the OS/2 fields the library leaves at zero: the vendor
// tag, the Private Use Area range bit and the script and strikeout metrics.
func (b *builder) patchOS2(data []byte) ([]byte, error) {
	info, err := os2.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	info.Vendor = DefaultVendorID
	if len(b.opts.VendorID) == 4 {
		info.Vendor = b.opts.VendorID
	}
	for _, g := range b.glyphs {
		if g.hasCP && g.codepoint >= 0xE000 && g.codepoint <= 0xF8FF {
			info.UnicodeRange.Set(urPrivateUse)
			break
		}
	}

	upem := float64(b.unitsPerEm())
	scaled := func(f float64) funit.Int16 { return funit.Int16(math.Round(upem * f)) }
	info.SubscriptXSize = scaled(0.65)
	info.SubscriptYSize = scaled(0.6)
	info.SubscriptYOffset = scaled(0.075)
	info.SuperscriptXSize = scaled(0.65)
	info.SuperscriptYSize = scaled(0.6)
	info.SuperscriptYOffset = scaled(0.35)
	info.StrikeoutSize = scaled(0.05)
	info.StrikeoutPosition = scaled(0.25)
	return info.Encode(), nil
}

// postName restricts a glyph name to the characters allowed in PostScript
// glyph names.
func postName(s string) string {
	const maxLen = 63
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s) && len(buf) < maxLen; i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
			buf = append(buf, c)
		default:
			buf = append(buf, '_')
		}
	}
	if len(buf) == 0 {
		return "glyph"
	}
	return string(buf)
}
