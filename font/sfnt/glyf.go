package sfnt

import (
	"math"

	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyf"

	"github.com/satishbabariya/iconfont-go/font/svgpath"
)

// contours converts a quadratic-only path into TrueType contours on the
// integer grid.
func contours(p svgpath.Path) []glyf.Contour {
	var out []glyf.Contour
	var cur glyf.Contour

	flush := func() {
		// drop the closing point when it repeats the start
		if len(cur) > 1 && cur[0] == cur[len(cur)-1] {
			cur = cur[:len(cur)-1]
		}
		if len(cur) >= 2 {
			out = append(out, cur)
		}
		cur = nil
	}
	add := func(pt svgpath.Point, on bool) {
		gp := glyf.Point{X: toFUnit(pt.X), Y: toFUnit(pt.Y), OnCurve: on}
		// skip zero-length steps between on-curve points
		if on && len(cur) > 0 && cur[len(cur)-1] == gp {
			return
		}
		cur = append(cur, gp)
	}

	for _, s := range p {
		switch s.Op {
		case svgpath.MoveTo:
			flush()
			add(s.Pts[0], true)
		case svgpath.LineTo:
			add(s.Pts[0], true)
		case svgpath.QuadTo:
			add(s.Pts[0], false)
			add(s.Pts[1], true)
		case svgpath.Close:
			flush()
		}
	}
	flush()
	return out
}

// simpleGlyph returns the glyf entry for cc, or nil for a blank glyph.
func simpleGlyph(cc []glyf.Contour) *glyf.Glyph {
	if len(cc) == 0 {
		return nil
	}
	g := (&glyf.SimpleUnpacked{Contours: cc}).AsGlyph()
	return &g
}

func numPoints(cc []glyf.Contour) int {
	n := 0
	for _, c := range cc {
		n += len(c)
	}
	return n
}

func toFUnit(v float64) funit.Int16 {
	return funit.Int16(max(math.MinInt16, min(math.MaxInt16, math.Round(v))))
}
