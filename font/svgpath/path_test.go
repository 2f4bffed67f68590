package svgpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAbsolute(t *testing.T) {
	p, err := Parse("M0 0 L10 0 L10 10 Z")
	require.NoError(t, err)

	assert.Equal(t, "M 0 0 L 10 0 L 10 10 Z", p.String())
}

func TestParseRelativeAndImplicit(t *testing.T) {
	p, err := Parse("m1,1 2,0 0,2 h-2 v-2 z")
	require.NoError(t, err)

	assert.Equal(t, "M 1 1 L 3 1 L 3 3 L 1 3 L 1 1 Z", p.String())
}

func TestParseCompactNumbers(t *testing.T) {
	p, err := Parse("M.5.5L-1-2l1.5.5")
	require.NoError(t, err)

	assert.Equal(t, "M 0.5 0.5 L -1 -2 L 0.5 -1.5", p.String())
}

func TestParseExponent(t *testing.T) {
	p, err := Parse("M1e1 2E-1")
	require.NoError(t, err)

	assert.Equal(t, "M 10 0.2", p.String())
}

func TestParseSmoothCurves(t *testing.T) {
	p, err := Parse("M0 0 C0 10 10 10 10 0 S20 -10 20 0")
	require.NoError(t, err)
	require.Len(t, p, 3)

	assert.Equal(t, CubicTo, p[2].Op)
	assert.Equal(t, Point{10, -10}, p[2].Pts[0])

	q, err := Parse("M0 0 Q5 10 10 0 T20 0")
	require.NoError(t, err)
	require.Len(t, q, 3)
	assert.Equal(t, QuadTo, q[2].Op)
	assert.Equal(t, Point{15, -10}, q[2].Pts[0])
}

func TestParseSmoothWithoutPrevious(t *testing.T) {
	p, err := Parse("M0 0 S10 10 20 0")
	require.NoError(t, err)
	require.Len(t, p, 2)

	assert.Equal(t, Point{0, 0}, p[1].Pts[0])
}

func TestParseArc(t *testing.T) {
	p, err := Parse("M0 10 A10 10 0 0 1 10 0")
	require.NoError(t, err)
	require.Len(t, p, 2)
	require.Equal(t, CubicTo, p[1].Op)
	assert.Equal(t, Point{10, 0}, p[1].End())

	b, ok := p.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 0, b.MinX, 1e-9)
	assert.InDelta(t, 10, b.MaxX, 1e-9)
}

func TestParseFullCircleArcs(t *testing.T) {
	p, err := Parse("M0 0 a5 5 0 1 0 10 0 a5 5 0 1 0 -10 0")
	require.NoError(t, err)

	b, ok := p.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 10, b.Width(), 1e-3)
	assert.InDelta(t, 10, b.Height(), 1e-2)
}

func TestParseArcZeroRadius(t *testing.T) {
	p, err := Parse("M0 0 A0 5 0 0 1 10 0")
	require.NoError(t, err)
	require.Len(t, p, 2)

	assert.Equal(t, LineTo, p[1].Op)
}

func TestParsePackedArcFlags(t *testing.T) {
	tests := []struct {
		packed, spaced string
		end            Point
	}{
		{packed: "M0 0a1 1 0 011 1", spaced: "M0 0 a1 1 0 0 1 1 1", end: Point{1, 1}},
		{packed: "M2 2a1 1 0 101-1z", spaced: "M2 2 a1 1 0 1 0 1 -1 z", end: Point{3, 1}},
		{packed: "M0 0A5 5 0 1010 0", spaced: "M0 0 A5 5 0 1 0 10 0", end: Point{10, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.packed, func(t *testing.T) {
			p, err := Parse(tt.packed)
			require.NoError(t, err)
			want, err := Parse(tt.spaced)
			require.NoError(t, err)

			assert.Equal(t, want, p)
			var last Segment
			for _, s := range p {
				if s.Op != Close {
					last = s
				}
			}
			assert.InDelta(t, tt.end.X, last.End().X, 1e-9)
			assert.InDelta(t, tt.end.Y, last.End().Y, 1e-9)
		})
	}
}

func TestParseArcBadFlag(t *testing.T) {
	_, err := Parse("M0 0 a1 1 0 2 1 1 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arc flag")
}

func TestParseAfterClose(t *testing.T) {
	p, err := Parse("M0 0L10 0L10 10ZL5 5")
	require.NoError(t, err)
	assert.Equal(t, "M 0 0 L 10 0 L 10 10 Z M 0 0 L 5 5", p.String())

	p, err = Parse("M1 1h2v2zl1 1")
	require.NoError(t, err)
	assert.Equal(t, "M 1 1 L 3 1 L 3 3 Z M 1 1 L 2 2", p.String())

	p, err = Parse("M0 0L1 0ZM5 5L6 5")
	require.NoError(t, err)
	assert.Equal(t, "M 0 0 L 1 0 Z M 5 5 L 6 5", p.String())
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"L10 10",
		"M0",
		"M0 0 L1",
		"M0 0 Z 5",
		"M0 0 X 1",
	}
	for _, d := range tests {
		t.Run(d, func(t *testing.T) {
			_, err := Parse(d)
			assert.Error(t, err)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	p, err := Parse("   ")
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

func TestFormatRound(t *testing.T) {
	p := Path{{Op: MoveTo, Pts: [3]Point{{1.23456, -0.0000001}}}}

	assert.Equal(t, "M 1.23 0", p.Format(100))
}

func TestTransform(t *testing.T) {
	p := MustParse("M0 0 L10 0")
	moved := p.Transform(Translate(5, 5).Mul(Scale(2, 2)))

	assert.Equal(t, "M 5 5 L 25 5", moved.String())
	assert.Equal(t, "M 0 0 L 10 0", p.String())
}

func TestBoundsCurveExtrema(t *testing.T) {
	p := MustParse("M0 0 Q5 10 10 0")
	b, ok := p.Bounds()
	require.True(t, ok)

	assert.InDelta(t, 5, b.MaxY, 1e-9)
	assert.InDelta(t, 0, b.MinY, 1e-9)

	_, ok = MustParse("M3 3").Bounds()
	assert.False(t, ok)
}

func TestToQuadratic(t *testing.T) {
	p := MustParse("M0 0 C0 100 100 100 100 0 Z")
	q := p.ToQuadratic(0.5)

	for _, s := range q {
		assert.NotEqual(t, CubicTo, s.Op)
	}
	assert.Greater(t, len(q), 3)
	assert.Equal(t, Point{100, 0}, q[len(q)-2].End())

	pb, _ := p.Bounds()
	qb, _ := q.Bounds()
	assert.InDelta(t, pb.MaxY, qb.MaxY, 0.5)
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in   string
		pt   Point
		want Point
	}{
		{in: "translate(10 20)", pt: Point{1, 1}, want: Point{11, 21}},
		{in: "translate(10)", pt: Point{1, 1}, want: Point{11, 1}},
		{in: "scale(2)", pt: Point{1, 3}, want: Point{2, 6}},
		{in: "scale(2,-1)", pt: Point{1, 3}, want: Point{2, -3}},
		{in: "rotate(90)", pt: Point{1, 0}, want: Point{0, 1}},
		{in: "rotate(180 5 5)", pt: Point{0, 0}, want: Point{10, 10}},
		{in: "matrix(1 0 0 1 3 4)", pt: Point{0, 0}, want: Point{3, 4}},
		{in: "translate(10,0) scale(2)", pt: Point{1, 1}, want: Point{12, 2}},
		{in: "skewX(45)", pt: Point{0, 1}, want: Point{1, 1}},
		{in: "", pt: Point{7, 7}, want: Point{7, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseTransform(tt.in)
			require.NoError(t, err)
			got := m.Apply(tt.pt)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestParseTransformErrors(t *testing.T) {
	for _, in := range []string{"shear(1)", "matrix(1 2)", "translate(", "rotate(1 2)"} {
		_, err := ParseTransform(in)
		assert.Error(t, err, in)
	}
}

func TestShapes(t *testing.T) {
	b, ok := Rect(1, 2, 10, 20, 0, 0).Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{1, 2, 11, 22}, b)

	rounded := Rect(0, 0, 10, 10, 2, 0)
	assert.Len(t, rounded, 10)
	rb, _ := rounded.Bounds()
	assert.InDelta(t, 10, rb.Width(), 1e-9)

	eb, ok := Ellipse(5, 5, 5, 3).Bounds()
	require.True(t, ok)
	assert.InDelta(t, 0, eb.MinX, 1e-9)
	assert.InDelta(t, 2, eb.MinY, 1e-9)
	assert.InDelta(t, 8, eb.MaxY, 1e-9)

	assert.Nil(t, Rect(0, 0, 0, 10, 0, 0))
	assert.Nil(t, Ellipse(0, 0, 0, 1))
	assert.Nil(t, Poly([]Point{{0, 0}}, true))
	assert.Equal(t, "M 0 0 L 1 0 L 1 1 Z", Poly([]Point{{0, 0}, {1, 0}, {1, 1}}, true).String())
}

func TestRotateIsRigid(t *testing.T) {
	p := Rotate(30).Apply(Point{3, 4})
	assert.InDelta(t, 5, math.Hypot(p.X, p.Y), 1e-9)
}
