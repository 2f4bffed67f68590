package sfnt

import (
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// cmapEntry maps a codepoint to a glyph index.
type cmapEntry struct {
	codepoint rune
	glyph     glyph.ID
}

// buildCmap returns a cmap with a format 4 subtable for the BMP and a format
// 12 subtable covering every codepoint. The first entry for a codepoint
// wins.
func buildCmap(entries []cmapEntry) cmap.Table {
	bmp := cmap.Format4{}
	full := cmap.Format12{}
	for _, e := range entries {
		if _, dup := full[uint32(e.codepoint)]; dup {
			continue
		}
		full[uint32(e.codepoint)] = e.glyph
		// 0xFFFF is reserved for the final format 4 segment
		if e.codepoint < 0xFFFF {
			bmp[uint16(e.codepoint)] = e.glyph
		}
	}

	f4, f12 := bmp.Encode(0), full.Encode(0)
	return cmap.Table{
		{PlatformID: 0, EncodingID: 3}:  f4, // Unicode BMP
		{PlatformID: 0, EncodingID: 4}:  f12,
		{PlatformID: 3, EncodingID: 1}:  f4, // Windows BMP
		{PlatformID: 3, EncodingID: 10}: f12,
	}
}
