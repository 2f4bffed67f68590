// Package svgpath parses SVG path data into absolute outline segments and
// provides the geometry helpers the font encoders need: affine transforms,
// bounds, serialisation and cubic-to-quadratic conversion.
package svgpath

import (
	"math"
	"strconv"
	"strings"
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by f.
func (p Point) Mul(f float64) Point { return Point{p.X * f, p.Y * f} }

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Op identifies a segment kind.
type Op uint8

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubicTo
	Close
)

// String returns the absolute SVG command letter for the op.
func (op Op) String() string {
	switch op {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	case CubicTo:
		return "C"
	case Close:
		return "Z"
	}
	return "?"
}

// points returns how many points of Pts the op uses.
func (op Op) points() int {
	switch op {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	case CubicTo:
		return 3
	}
	return 0
}

// Segment is one absolute drawing command. Control points come first and the
// end point is last; Close carries no points.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// End returns the segment's end point.
func (s Segment) End() Point {
	n := s.Op.points()
	if n == 0 {
		return Point{}
	}
	return s.Pts[n-1]
}

// Points returns the used points of the segment.
func (s Segment) Points() []Point {
	return s.Pts[:s.Op.points()]
}

// Path is a sequence of absolute segments using only M, L, Q, C and Z.
type Path []Segment

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool {
	for _, s := range p {
		if s.Op != MoveTo && s.Op != Close {
			return false
		}
	}
	return true
}

// Transform returns a copy of p with m applied to every point.
func (p Path) Transform(m Matrix) Path {
	out := make(Path, len(p))
	for i, s := range p {
		out[i] = s
		for j := 0; j < s.Op.points(); j++ {
			out[i].Pts[j] = m.Apply(s.Pts[j])
		}
	}
	return out
}

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Union returns the smallest rectangle containing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

func (b *Bounds) extend(p Point) {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// Bounds returns the tight bounding box of the outline, including curve
// extrema. ok is false for a path without drawing segments.
func (p Path) Bounds() (b Bounds, ok bool) {
	b = Bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	var cur, start Point
	for _, s := range p {
		switch s.Op {
		case MoveTo:
			cur, start = s.Pts[0], s.Pts[0]
			continue
		case Close:
			cur = start
			continue
		}
		ok = true
		b.extend(cur)
		b.extend(s.End())
		switch s.Op {
		case QuadTo:
			for _, t := range quadExtrema(cur, s.Pts[0], s.Pts[1]) {
				b.extend(quadAt(cur, s.Pts[0], s.Pts[1], t))
			}
		case CubicTo:
			for _, t := range cubicExtrema(cur, s.Pts[0], s.Pts[1], s.Pts[2]) {
				b.extend(cubicAt(cur, s.Pts[0], s.Pts[1], s.Pts[2], t))
			}
		}
		cur = s.End()
	}
	if !ok {
		return Bounds{}, false
	}
	return b, true
}

// String serialises the path with full precision.
func (p Path) String() string {
	return p.Format(0)
}

// Format serialises the path as absolute SVG path data. When round is
// positive every coordinate is rounded to a multiple of 1/round.
func (p Path) Format(round float64) string {
	var sb strings.Builder
	for i, s := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Op.String())
		for _, pt := range s.Points() {
			sb.WriteByte(' ')
			sb.WriteString(formatNumber(pt.X, round))
			sb.WriteByte(' ')
			sb.WriteString(formatNumber(pt.Y, round))
		}
	}
	return sb.String()
}

func formatNumber(v, round float64) string {
	if round > 0 {
		v = math.Round(v*round) / round
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	mt := 1 - t
	return p0.Mul(mt * mt).Add(p1.Mul(2 * mt * t)).Add(p2.Mul(t * t))
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	return p0.Mul(mt * mt * mt).
		Add(p1.Mul(3 * mt * mt * t)).
		Add(p2.Mul(3 * mt * t * t)).
		Add(p3.Mul(t * t * t))
}

func quadExtrema(p0, p1, p2 Point) []float64 {
	var ts []float64
	for _, c := range [][3]float64{{p0.X, p1.X, p2.X}, {p0.Y, p1.Y, p2.Y}} {
		d := c[0] - 2*c[1] + c[2]
		if d == 0 {
			continue
		}
		if t := (c[0] - c[1]) / d; t > 0 && t < 1 {
			ts = append(ts, t)
		}
	}
	return ts
}

func cubicExtrema(p0, p1, p2, p3 Point) []float64 {
	var ts []float64
	for _, c := range [][4]float64{{p0.X, p1.X, p2.X, p3.X}, {p0.Y, p1.Y, p2.Y, p3.Y}} {
		// derivative coefficients of the cubic: a*t^2 + b*t + k
		a := 3 * (-c[0] + 3*c[1] - 3*c[2] + c[3])
		b := 6 * (c[0] - 2*c[1] + c[2])
		k := 3 * (c[1] - c[0])
		for _, t := range solveQuadratic(a, b, k) {
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	return ts
}

func solveQuadratic(a, b, c float64) []float64 {
	const eps = 1e-12
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}
