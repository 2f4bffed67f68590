package sfnt

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/head"
	"seehuhn.de/go/sfnt/name"
	"seehuhn.de/go/sfnt/os2"

	"github.com/satishbabariya/iconfont-go/font/svgfont"
	"github.com/satishbabariya/iconfont-go/font/svgpath"
)

const (
	squareIcon = `<svg viewBox="0 0 100 100"><path d="M10 10 H90 V90 H10 Z"/></svg>`
	circleIcon = `<svg viewBox="0 0 100 100"><circle cx="50" cy="50" r="40"/></svg>`
)

func svgFont(t *testing.T) []byte {
	t.Helper()
	out, err := svgfont.Assemble(context.Background(), []svgfont.Glyph{
		{Name: "square", Codepoint: 0xf102, Source: strings.NewReader(squareIcon)},
		{Name: "circle", Codepoint: 0xf103, Source: strings.NewReader(circleIcon)},
	}, svgfont.Options{FontName: "icons", FontHeight: 1000, Normalize: true})
	require.NoError(t, err)
	return out
}

func TestFromSVGFont(t *testing.T) {
	ttf, err := FromSVGFont(svgFont(t), Options{Version: "1.2"})
	require.NoError(t, err)

	f, err := xsfnt.Parse(ttf)
	require.NoError(t, err)

	var buf xsfnt.Buffer
	assert.Equal(t, 3, f.NumGlyphs())
	assert.Equal(t, xsfnt.Units(1000), f.UnitsPerEm())

	idx, err := f.GlyphIndex(&buf, 0xf102)
	require.NoError(t, err)
	assert.Equal(t, xsfnt.GlyphIndex(1), idx)

	idx, err = f.GlyphIndex(&buf, 0xf103)
	require.NoError(t, err)
	assert.Equal(t, xsfnt.GlyphIndex(2), idx)

	glyphName, err := f.GlyphName(&buf, 1)
	require.NoError(t, err)
	assert.Equal(t, "square", glyphName)

	glyphName, err = f.GlyphName(&buf, 2)
	require.NoError(t, err)
	assert.Equal(t, "circle", glyphName)

	segs, err := f.LoadGlyph(&buf, 1, fixed.I(1000), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, segs)

	segs, err = f.LoadGlyph(&buf, 2, fixed.I(1000), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, segs)

	family, err := f.Name(&buf, xsfnt.NameIDFamily)
	require.NoError(t, err)
	assert.Equal(t, "icons", family)

	version, err := f.Name(&buf, xsfnt.NameIDVersion)
	require.NoError(t, err)
	assert.Equal(t, "Version 1.2", version)
}

func TestFromSVGFontHead(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ttf, err := FromSVGFont(svgFont(t), Options{Version: "1.5", Timestamp: ts})
	require.NoError(t, err)

	assert.Equal(t, checksumMagic, Checksum(ttf))

	_, tables, err := ReadTables(ttf)
	require.NoError(t, err)
	info, err := head.Read(bytes.NewReader(findTable(t, tables, "head")))
	require.NoError(t, err)
	assert.Equal(t, head.Version(1<<16|328), info.FontRevision)
	assert.Equal(t, uint16(1000), info.UnitsPerEm)
	assert.True(t, info.Created.Equal(ts))
	assert.True(t, info.Modified.Equal(ts))

	data := findTable(t, tables, "OS/2")
	assert.Equal(t, "ICGO", string(data[58:62]))
	assert.Equal(t, uint16(0xf102), binary.BigEndian.Uint16(data[64:]))
	assert.Equal(t, uint16(0xf103), binary.BigEndian.Uint16(data[66:]))
	// ulUnicodeRange2 bit 28 is range bit 60, the Private Use Area
	assert.NotZero(t, binary.BigEndian.Uint32(data[46:])&(1<<28))

	metrics, err := os2.Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, funit.Int16(650), metrics.SubscriptXSize)
	assert.Equal(t, funit.Int16(250), metrics.StrikeoutPosition)
}

func TestFromSVGFontVendor(t *testing.T) {
	ttf, err := FromSVGFont(svgFont(t), Options{VendorID: "ACME"})
	require.NoError(t, err)

	_, tables, err := ReadTables(ttf)
	require.NoError(t, err)
	assert.Equal(t, "ACME", string(findTable(t, tables, "OS/2")[58:62]))
}

func TestFromSVGFontNames(t *testing.T) {
	ttf, err := FromSVGFont(svgFont(t), Options{
		Copyright:   "(c) ACME",
		Description: "demo icons",
		URL:         "https://example.com",
		Version:     "2.3",
	})
	require.NoError(t, err)

	_, tables, err := ReadTables(ttf)
	require.NoError(t, err)
	info, err := name.Decode(findTable(t, tables, "name"))
	require.NoError(t, err)
	tbl := info.Windows["en-US"]
	require.NotNil(t, tbl)
	assert.Equal(t, "icons", tbl.Family)
	assert.Equal(t, "Version 2.3", tbl.Version)
	assert.Equal(t, "(c) ACME", tbl.Copyright)
	assert.Equal(t, "demo icons", tbl.Description)
	assert.Equal(t, "https://example.com", tbl.VendorURL)
}

func TestFromSVGFontSupplementaryOnly(t *testing.T) {
	svg, err := svgfont.Assemble(context.Background(), []svgfont.Glyph{
		{Name: "smile", Codepoint: 0x1F600, Source: strings.NewReader(squareIcon)},
	}, svgfont.Options{FontName: "icons", FontHeight: 1000})
	require.NoError(t, err)

	ttf, err := FromSVGFont(svg, Options{})
	require.NoError(t, err)

	_, tables, err := ReadTables(ttf)
	require.NoError(t, err)
	data := findTable(t, tables, "OS/2")
	// usFirstCharIndex and usLastCharIndex saturate at 0xFFFF
	assert.Equal(t, uint16(0xFFFF), binary.BigEndian.Uint16(data[64:]))
	assert.Equal(t, uint16(0xFFFF), binary.BigEndian.Uint16(data[66:]))
	assert.Zero(t, binary.BigEndian.Uint32(data[46:])&(1<<28))

	f, err := xsfnt.Parse(ttf)
	require.NoError(t, err)
	var buf xsfnt.Buffer
	idx, err := f.GlyphIndex(&buf, 0x1F600)
	require.NoError(t, err)
	assert.Equal(t, xsfnt.GlyphIndex(1), idx)
}

func TestFromSVGFontErrors(t *testing.T) {
	_, err := FromSVGFont([]byte("<svg/>"), Options{})
	assert.Error(t, err)

	_, err = FromSVGFont(svgFont(t), Options{Version: "not a version"})
	assert.Error(t, err)

	bad := `<svg><defs><font id="f" horiz-adv-x="10"><font-face units-per-em="10" ascent="10" descent="0"/>` +
		`<glyph glyph-name="x" unicode="a" d="L 1 1"/></font></defs></svg>`
	_, err = FromSVGFont([]byte(bad), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in           string
		major, minor int
		wantErr      bool
	}{
		{in: "", major: 1, minor: 0},
		{in: "1.2", major: 1, minor: 2},
		{in: "3", major: 3, minor: 0},
		{in: "2.10.7", major: 2, minor: 10},
		{in: "v1.1", major: 1, minor: 1},
		{in: "x.y", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor, err := ParseVersion(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.minor, minor)
		})
	}
}

func TestPostName(t *testing.T) {
	assert.Equal(t, "arrow-left", postName("arrow-left"))
	assert.Equal(t, "a_b", postName("a b"))
	assert.Equal(t, "glyph", postName(""))
	assert.Len(t, postName(strings.Repeat("x", 100)), 63)
}

func TestBuildCmap(t *testing.T) {
	table := buildCmap([]cmapEntry{
		{codepoint: 0x1F600, glyph: 1},
		{codepoint: 0x41, glyph: 2},
		{codepoint: 0x41, glyph: 3},
		{codepoint: 0xFFFF, glyph: 4},
	})
	require.Len(t, table, 4)

	bmp, err := table.Get(cmap.Key{PlatformID: 3, EncodingID: 1})
	require.NoError(t, err)
	assert.Equal(t, glyph.ID(2), bmp.Lookup(0x41))
	assert.Equal(t, glyph.ID(0), bmp.Lookup(0xFFFF))

	full, err := table.Get(cmap.Key{PlatformID: 3, EncodingID: 10})
	require.NoError(t, err)
	assert.Equal(t, glyph.ID(1), full.Lookup(0x1F600))
	assert.Equal(t, glyph.ID(2), full.Lookup(0x41))
	assert.Equal(t, glyph.ID(4), full.Lookup(0xFFFF))

	low, high := full.CodeRange()
	assert.Equal(t, rune(0x41), low)
	assert.Equal(t, rune(0x1F600), high)
}

func TestWriteAndReadTables(t *testing.T) {
	tables := []Table{
		{Tag: "zzzz", Data: []byte{1, 2, 3}},
		{Tag: "aaaa", Data: []byte{4, 5, 6, 7, 8}},
	}
	font := WriteFont(TrueTypeFlavor, tables)

	flavor, got, err := ReadTables(font)
	require.NoError(t, err)
	assert.Equal(t, TrueTypeFlavor, flavor)
	require.Len(t, got, 2)
	assert.Equal(t, "aaaa", got[0].Tag)
	assert.Equal(t, []byte{4, 5, 6, 7, 8}, got[0].Data)
	assert.Equal(t, "zzzz", got[1].Tag)
	assert.Equal(t, []byte{1, 2, 3}, got[1].Data)
	assert.Zero(t, len(font)%4)
}

func TestReadTablesTruncated(t *testing.T) {
	_, _, err := ReadTables([]byte{0, 1})
	assert.Error(t, err)

	font := WriteFont(TrueTypeFlavor, []Table{{Tag: "abcd", Data: make([]byte, 40)}})
	_, _, err = ReadTables(font[:len(font)-8])
	assert.Error(t, err)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, uint32(0x01020304), Checksum([]byte{1, 2, 3, 4}))
	assert.Equal(t, uint32(0x01020304+0x05000000), Checksum([]byte{1, 2, 3, 4, 5}))
}

func TestContours(t *testing.T) {
	assert.Nil(t, simpleGlyph(nil))

	path, err := svgpath.Parse("M0 0 L300 0 Q300 -5 0 0 Z M5 5 L5 5 Z")
	require.NoError(t, err)
	cc := contours(path)
	require.Len(t, cc, 1)
	assert.Equal(t, glyf.Contour{
		{X: 0, Y: 0, OnCurve: true},
		{X: 300, Y: 0, OnCurve: true},
		{X: 300, Y: -5, OnCurve: false},
	}, cc[0])
	assert.Equal(t, 3, numPoints(cc))

	g := simpleGlyph(cc)
	require.NotNil(t, g)
	assert.Equal(t, funit.Rect16{LLx: 0, LLy: -5, URx: 300, URy: 0}, g.Rect16)
}

func findTable(t *testing.T, tables []Table, tag string) []byte {
	t.Helper()
	for _, tb := range tables {
		if tb.Tag == tag {
			return tb.Data
		}
	}
	t.Fatalf("table %q not found", tag)
	return nil
}
