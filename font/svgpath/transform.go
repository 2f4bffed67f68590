package svgpath

import (
	"fmt"
	"math"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Matrix is an affine transform in SVG order:
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform.
var Identity = Matrix{A: 1, D: 1}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }

// Scale returns a scaling matrix.
func Scale(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

// Rotate returns a rotation by deg degrees around the origin.
func Rotate(deg float64) Matrix {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Matrix{A: c, B: s, C: -s, D: c}
}

// Apply transforms p.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Mul returns m×n: n is applied first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// TransformLexer tokenises SVG transform lists.
var TransformLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z]+`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Whitespace", Pattern: `[\s,]+`},
})

type rawTransformList struct {
	Ops []*rawTransformOp `parser:"@@*"`
}

type rawTransformOp struct {
	Pos  lexer.Position
	Name string    `parser:"@Ident \"(\""`
	Args []float64 `parser:"@Number* \")\""`
}

var transformParser = participle.MustBuild[rawTransformList](
	participle.Lexer(TransformLexer),
	participle.Elide("Whitespace"),
)

// ParseTransform parses the value of an SVG transform attribute.
func ParseTransform(s string) (Matrix, error) {
	if strings.TrimSpace(s) == "" {
		return Identity, nil
	}
	raw, err := transformParser.ParseString("", s)
	if err != nil {
		return Identity, fmt.Errorf("failed to parse transform %q: %w", s, err)
	}

	m := Identity
	for _, op := range raw.Ops {
		t, err := op.matrix()
		if err != nil {
			return Identity, err
		}
		m = m.Mul(t)
	}
	return m, nil
}

func (op *rawTransformOp) matrix() (Matrix, error) {
	a := op.Args
	bad := func() (Matrix, error) {
		return Identity, fmt.Errorf("%s() at %s: unexpected argument count %d", op.Name, op.Pos, len(a))
	}

	switch op.Name {
	case "matrix":
		if len(a) != 6 {
			return bad()
		}
		return Matrix{a[0], a[1], a[2], a[3], a[4], a[5]}, nil
	case "translate":
		switch len(a) {
		case 1:
			return Translate(a[0], 0), nil
		case 2:
			return Translate(a[0], a[1]), nil
		}
		return bad()
	case "scale":
		switch len(a) {
		case 1:
			return Scale(a[0], a[0]), nil
		case 2:
			return Scale(a[0], a[1]), nil
		}
		return bad()
	case "rotate":
		switch len(a) {
		case 1:
			return Rotate(a[0]), nil
		case 3:
			return Translate(a[1], a[2]).Mul(Rotate(a[0])).Mul(Translate(-a[1], -a[2])), nil
		}
		return bad()
	case "skewX":
		if len(a) != 1 {
			return bad()
		}
		return Matrix{A: 1, C: math.Tan(a[0] * math.Pi / 180), D: 1}, nil
	case "skewY":
		if len(a) != 1 {
			return bad()
		}
		return Matrix{A: 1, B: math.Tan(a[0] * math.Pi / 180), D: 1}, nil
	}
	return Identity, fmt.Errorf("unknown transform %q at %s", op.Name, op.Pos)
}
