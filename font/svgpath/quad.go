package svgpath

import "math"

// maxCubicSplits bounds the recursion depth of cubic approximation.
const maxCubicSplits = 8

// ToQuadratic returns a copy of p in which every cubic segment is replaced
// by quadratic segments deviating from it by at most tolerance.
func (p Path) ToQuadratic(tolerance float64) Path {
	out := make(Path, 0, len(p))
	var cur, start Point
	for _, s := range p {
		switch s.Op {
		case MoveTo:
			cur, start = s.Pts[0], s.Pts[0]
		case Close:
			cur = start
		case CubicTo:
			out = appendCubicAsQuads(out, cur, s.Pts[0], s.Pts[1], s.Pts[2], tolerance, 0)
			cur = s.Pts[2]
			continue
		default:
			cur = s.End()
		}
		out = append(out, s)
	}
	return out
}

func appendCubicAsQuads(out Path, p0, p1, p2, p3 Point, tolerance float64, depth int) Path {
	// the single quadratic that best matches the cubic shares its end points
	// and has its control point at (3(p1+p2) - (p0+p3)) / 4
	ctrl := p1.Add(p2).Mul(3).Sub(p0.Add(p3)).Mul(0.25)

	// the distance between the cubic and that quadratic is bounded by
	// sqrt(3)/36 * |p3 - 3p2 + 3p1 - p0|
	d := p3.Sub(p2.Mul(3)).Add(p1.Mul(3)).Sub(p0)
	errBound := math.Sqrt(3) / 36 * math.Hypot(d.X, d.Y)

	if errBound <= tolerance || depth >= maxCubicSplits {
		return append(out, Segment{Op: QuadTo, Pts: [3]Point{ctrl, p3}})
	}

	// de Casteljau split at t=0.5
	p01, p12, p23 := p0.Lerp(p1, 0.5), p1.Lerp(p2, 0.5), p2.Lerp(p3, 0.5)
	p012, p123 := p01.Lerp(p12, 0.5), p12.Lerp(p23, 0.5)
	mid := p012.Lerp(p123, 0.5)

	out = appendCubicAsQuads(out, p0, p01, p012, mid, tolerance, depth+1)
	return appendCubicAsQuads(out, mid, p123, p23, p3, tolerance, depth+1)
}
