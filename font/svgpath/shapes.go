package svgpath

import "math"

// kappa places cubic control points so four segments approximate an ellipse.
const kappa = 0.5522847498307936

// Rect returns the outline of a rectangle with optional rounded corners.
// rx and ry follow the SVG rules: a missing radius copies the other one and
// both are clamped to half the side length.
func Rect(x, y, w, h, rx, ry float64) Path {
	if w <= 0 || h <= 0 {
		return nil
	}
	if rx < 0 {
		rx = 0
	}
	if ry < 0 {
		ry = 0
	}
	if rx == 0 {
		rx = ry
	}
	if ry == 0 {
		ry = rx
	}
	rx = math.Min(rx, w/2)
	ry = math.Min(ry, h/2)

	if rx == 0 || ry == 0 {
		return Path{
			{Op: MoveTo, Pts: [3]Point{{x, y}}},
			{Op: LineTo, Pts: [3]Point{{x + w, y}}},
			{Op: LineTo, Pts: [3]Point{{x + w, y + h}}},
			{Op: LineTo, Pts: [3]Point{{x, y + h}}},
			{Op: Close},
		}
	}

	kx, ky := rx*kappa, ry*kappa
	return Path{
		{Op: MoveTo, Pts: [3]Point{{x + rx, y}}},
		{Op: LineTo, Pts: [3]Point{{x + w - rx, y}}},
		{Op: CubicTo, Pts: [3]Point{{x + w - rx + kx, y}, {x + w, y + ry - ky}, {x + w, y + ry}}},
		{Op: LineTo, Pts: [3]Point{{x + w, y + h - ry}}},
		{Op: CubicTo, Pts: [3]Point{{x + w, y + h - ry + ky}, {x + w - rx + kx, y + h}, {x + w - rx, y + h}}},
		{Op: LineTo, Pts: [3]Point{{x + rx, y + h}}},
		{Op: CubicTo, Pts: [3]Point{{x + rx - kx, y + h}, {x, y + h - ry + ky}, {x, y + h - ry}}},
		{Op: LineTo, Pts: [3]Point{{x, y + ry}}},
		{Op: CubicTo, Pts: [3]Point{{x, y + ry - ky}, {x + rx - kx, y}, {x + rx, y}}},
		{Op: Close},
	}
}

// Ellipse returns the outline of an ellipse centred on (cx, cy).
func Ellipse(cx, cy, rx, ry float64) Path {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	kx, ky := rx*kappa, ry*kappa
	return Path{
		{Op: MoveTo, Pts: [3]Point{{cx + rx, cy}}},
		{Op: CubicTo, Pts: [3]Point{{cx + rx, cy + ky}, {cx + kx, cy + ry}, {cx, cy + ry}}},
		{Op: CubicTo, Pts: [3]Point{{cx - kx, cy + ry}, {cx - rx, cy + ky}, {cx - rx, cy}}},
		{Op: CubicTo, Pts: [3]Point{{cx - rx, cy - ky}, {cx - kx, cy - ry}, {cx, cy - ry}}},
		{Op: CubicTo, Pts: [3]Point{{cx + kx, cy - ry}, {cx + rx, cy - ky}, {cx + rx, cy}}},
		{Op: Close},
	}
}

// Poly returns a polyline through pts, closed when closed is true.
func Poly(pts []Point, closed bool) Path {
	if len(pts) < 2 {
		return nil
	}
	p := make(Path, 0, len(pts)+1)
	p = append(p, Segment{Op: MoveTo, Pts: [3]Point{pts[0]}})
	for _, pt := range pts[1:] {
		p = append(p, Segment{Op: LineTo, Pts: [3]Point{pt}})
	}
	if closed {
		p = append(p, Segment{Op: Close})
	}
	return p
}
