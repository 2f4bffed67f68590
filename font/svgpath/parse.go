package svgpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// PathLexer tokenises SVG path data. Numbers may be packed without
// separators ("1.5.5", "-1-2"); commas count as whitespace. Packed arc
// flags ("011") lex as one number and are split by arguments.
var PathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Command", Pattern: `[MmLlHhVvCcSsQqTtAaZz]`},
	{Name: "Whitespace", Pattern: `[\s,]+`},
})

type rawPath struct {
	Commands []*rawCommand `parser:"@@*"`
}

type rawCommand struct {
	Pos  lexer.Position
	Op   string   `parser:"@Command"`
	Args []string `parser:"@Number*"`
}

var pathParser = participle.MustBuild[rawPath](
	participle.Lexer(PathLexer),
	participle.Elide("Whitespace"),
)

// argCount is the number of arguments one repetition of each command takes.
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// Parse converts SVG path data into an absolute Path. Relative commands,
// implicit repetitions, H/V, smooth curves and elliptical arcs are all
// normalised to M, L, Q, C and Z.
func Parse(d string) (Path, error) {
	if strings.TrimSpace(d) == "" {
		return nil, nil
	}
	raw, err := pathParser.ParseString("", d)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path data: %w", err)
	}

	var (
		path      Path
		cur       Point
		start     Point
		lastCtrl  Point
		lastOp    byte
		haveStart bool
		closed    bool
	)

	for _, cmd := range raw.Commands {
		letter := cmd.Op[0]
		upper := letter &^ 0x20
		relative := letter != upper
		n := argCount[upper]

		if !haveStart && upper != 'M' {
			return nil, fmt.Errorf("path data must begin with a moveto at %s", cmd.Pos)
		}
		args, err := arguments(cmd, upper)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			if len(args) > 0 {
				return nil, fmt.Errorf("unexpected arguments after %q at %s", cmd.Op, cmd.Pos)
			}
			path = append(path, Segment{Op: Close})
			cur = start
			lastOp = 'Z'
			closed = true
			continue
		}
		if len(args) == 0 || len(args)%n != 0 {
			return nil, fmt.Errorf("command %q at %s expects a multiple of %d arguments, got %d", cmd.Op, cmd.Pos, n, len(args))
		}

		for i := 0; i < len(args); i += n {
			a := args[i : i+n]
			op := upper
			// subsequent pairs after a moveto are implicit linetos
			if upper == 'M' && i > 0 {
				op = 'L'
			}
			// drawing on after a closepath starts a new subpath at the
			// start of the closed one
			if closed && op != 'M' {
				path = append(path, Segment{Op: MoveTo, Pts: [3]Point{start}})
			}
			closed = false
			abs := func(x, y float64) Point {
				if relative {
					return Point{cur.X + x, cur.Y + y}
				}
				return Point{x, y}
			}

			switch op {
			case 'M':
				cur = abs(a[0], a[1])
				start = cur
				haveStart = true
				path = append(path, Segment{Op: MoveTo, Pts: [3]Point{cur}})
			case 'L':
				cur = abs(a[0], a[1])
				path = append(path, Segment{Op: LineTo, Pts: [3]Point{cur}})
			case 'H':
				x := a[0]
				if relative {
					x += cur.X
				}
				cur = Point{x, cur.Y}
				path = append(path, Segment{Op: LineTo, Pts: [3]Point{cur}})
			case 'V':
				y := a[0]
				if relative {
					y += cur.Y
				}
				cur = Point{cur.X, y}
				path = append(path, Segment{Op: LineTo, Pts: [3]Point{cur}})
			case 'C':
				c1, c2, end := abs(a[0], a[1]), abs(a[2], a[3]), abs(a[4], a[5])
				path = append(path, Segment{Op: CubicTo, Pts: [3]Point{c1, c2, end}})
				lastCtrl, cur = c2, end
			case 'S':
				c1 := cur
				if lastOp == 'C' || lastOp == 'S' {
					c1 = cur.Mul(2).Sub(lastCtrl)
				}
				c2, end := abs(a[0], a[1]), abs(a[2], a[3])
				path = append(path, Segment{Op: CubicTo, Pts: [3]Point{c1, c2, end}})
				lastCtrl, cur = c2, end
			case 'Q':
				c, end := abs(a[0], a[1]), abs(a[2], a[3])
				path = append(path, Segment{Op: QuadTo, Pts: [3]Point{c, end}})
				lastCtrl, cur = c, end
			case 'T':
				c := cur
				if lastOp == 'Q' || lastOp == 'T' {
					c = cur.Mul(2).Sub(lastCtrl)
				}
				end := abs(a[0], a[1])
				path = append(path, Segment{Op: QuadTo, Pts: [3]Point{c, end}})
				lastCtrl, cur = c, end
			case 'A':
				end := abs(a[5], a[6])
				path = append(path, arcToCubics(cur, a[0], a[1], a[2], a[3] != 0, a[4] != 0, end)...)
				cur = end
			}
			lastOp = op
		}
	}
	return path, nil
}

// arguments converts the number tokens of cmd. Arc flags are a single
// character each, so a token such as "011" in a flag position yields both
// flags and the number after them.
func arguments(cmd *rawCommand, upper byte) ([]float64, error) {
	args := make([]float64, 0, len(cmd.Args))
	for _, tok := range cmd.Args {
		for tok != "" {
			if pos := len(args) % 7; upper == 'A' && (pos == 3 || pos == 4) {
				if tok[0] != '0' && tok[0] != '1' {
					return nil, fmt.Errorf("invalid arc flag %q at %s", tok, cmd.Pos)
				}
				args = append(args, float64(tok[0]-'0'))
				tok = tok[1:]
				continue
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at %s", tok, cmd.Pos)
			}
			args = append(args, v)
			tok = ""
		}
	}
	return args, nil
}

// MustParse is like Parse but panics on error.
func MustParse(d string) Path {
	p, err := Parse(d)
	if err != nil {
		panic(err)
	}
	return p
}
