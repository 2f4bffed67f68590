package svgpath

import "math"

// arcToCubics converts an SVG elliptical arc from p0 to p1 into cubic
// segments of at most a quarter turn each.
// See https://www.w3.org/TR/SVG11/implnote.html#ArcImplementationNotes.
func arcToCubics(p0 Point, rx, ry, xAxisRotation float64, largeArc, sweep bool, p1 Point) []Segment {
	if p0 == p1 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []Segment{{Op: LineTo, Pts: [3]Point{p1}}}
	}

	phi := xAxisRotation * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	// step 1: compute (x1', y1')
	dx, dy := (p0.X-p1.X)/2, (p0.Y-p1.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	// correct out-of-range radii
	lambda := (x1*x1)/(rx*rx) + (y1*y1)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	// step 2: compute (cx', cy')
	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1 / ry
	cyp := -coef * ry * x1 / rx

	// step 3: compute (cx, cy)
	cx := cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2

	// step 4: start angle and sweep
	theta1 := vectorAngle(1, 0, (x1-cxp)/rx, (y1-cyp)/ry)
	delta := vectorAngle((x1-cxp)/rx, (y1-cyp)/ry, (-x1-cxp)/rx, (-y1-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta)/(math.Pi/2) - 1e-9))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	point := func(theta float64) (Point, Point) {
		sinT, cosT := math.Sincos(theta)
		pos := Point{
			X: cx + rx*cosT*cosPhi - ry*sinT*sinPhi,
			Y: cy + rx*cosT*sinPhi + ry*sinT*cosPhi,
		}
		deriv := Point{
			X: -rx*sinT*cosPhi - ry*cosT*sinPhi,
			Y: -rx*sinT*sinPhi + ry*cosT*cosPhi,
		}
		return pos, deriv
	}

	segs := make([]Segment, 0, n)
	theta := theta1
	from, dFrom := point(theta)
	for i := 0; i < n; i++ {
		theta += step
		to, dTo := point(theta)
		if i == n-1 {
			to = p1
		}
		segs = append(segs, Segment{Op: CubicTo, Pts: [3]Point{
			from.Add(dFrom.Mul(k)),
			to.Sub(dTo.Mul(k)),
			to,
		}})
		from, dFrom = to, dTo
	}
	return segs
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
