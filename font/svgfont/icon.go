// Package svgfont reads SVG icons and assembles them into an SVG font
// document, the intermediate format every binary font is transcoded from.
package svgfont

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/satishbabariya/iconfont-go/font/svgpath"
	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// ErrNoSize is returned for icons whose dimensions cannot be determined
// from a viewBox, width/height attributes or the outline itself.
var ErrNoSize = errors.New("icon has no viewBox, no size and no outline")

// Icon is one SVG icon reduced to a single outline in icon space
// (y axis pointing down, origin at the top-left of the viewBox).
type Icon struct {
	Name   string
	Width  float64
	Height float64
	Path   svgpath.Path
}

// skipped elements never contribute to the outline, nor do their children.
var skipped = map[string]bool{
	"defs":     true,
	"clipPath": true,
	"mask":     true,
	"symbol":   true,
	"title":    true,
	"desc":     true,
	"style":    true,
	"metadata": true,
	"pattern":  true,
	"marker":   true,
	"script":   true,
	"text":     true,
}

type state struct {
	m        svgpath.Matrix
	fillNone bool
	stroked  bool
	skip     bool
}

// ReadIcon parses an SVG document into an Icon.
func ReadIcon(name string, r io.Reader) (*Icon, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	icon := &Icon{Name: name}
	stack := []state{{m: svgpath.Identity}}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("icon %q: failed to parse SVG: %w", name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := stack[len(stack)-1]
			st := parent
			attrs := attrMap(t.Attr)

			if !sawRoot {
				if t.Name.Local != "svg" {
					return nil, fmt.Errorf("icon %q: root element is <%s>, want <svg>", name, t.Name.Local)
				}
				sawRoot = true
				m, err := icon.readRoot(attrs)
				if err != nil {
					return nil, err
				}
				st.m = m
				stack = append(stack, st)
				continue
			}

			if skipped[t.Name.Local] || attrs.hidden() {
				st.skip = true
			}
			if fill, ok := attrs.paint("fill"); ok {
				st.fillNone = fill == "none"
			}
			if stroke, ok := attrs.paint("stroke"); ok {
				st.stroked = stroke != "" && stroke != "none"
			}
			if tr := attrs["transform"]; tr != "" && !st.skip {
				m, err := svgpath.ParseTransform(tr)
				if err != nil {
					return nil, fmt.Errorf("icon %q: %w", name, err)
				}
				st.m = st.m.Mul(m)
			}
			stack = append(stack, st)

			// unfilled shapes only draw when they carry a stroke
			if st.skip || (st.fillNone && !st.stroked) {
				continue
			}
			p, err := shapePath(t.Name.Local, attrs)
			if err != nil {
				return nil, fmt.Errorf("icon %q: <%s>: %w", name, t.Name.Local, err)
			}
			if len(p) > 0 {
				icon.Path = append(icon.Path, p.Transform(st.m)...)
			}

		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("icon %q: no <svg> element found", name)
	}

	if icon.Width <= 0 || icon.Height <= 0 {
		b, ok := icon.Path.Bounds()
		if !ok {
			return nil, fmt.Errorf("icon %q: %w", name, ErrNoSize)
		}
		if icon.Width <= 0 {
			icon.Width = b.MaxX
		}
		if icon.Height <= 0 {
			icon.Height = b.MaxY
		}
	}
	if icon.Width <= 0 || icon.Height <= 0 {
		return nil, fmt.Errorf("icon %q: %w", name, ErrNoSize)
	}
	if icon.Path.Empty() {
		debug.Warn("Icon has no drawable outline", "icon", name)
	}

	return icon, nil
}

// readRoot sets the icon size from the root element and returns the
// transform mapping the viewBox origin to (0, 0).
func (icon *Icon) readRoot(attrs attributes) (svgpath.Matrix, error) {
	icon.Width = attrs.length("width")
	icon.Height = attrs.length("height")

	vb := strings.TrimSpace(attrs["viewBox"])
	if vb == "" {
		return svgpath.Identity, nil
	}
	fields := strings.FieldsFunc(vb, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
	if len(fields) != 4 {
		return svgpath.Identity, fmt.Errorf("icon %q: invalid viewBox %q", icon.Name, vb)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return svgpath.Identity, fmt.Errorf("icon %q: invalid viewBox %q: %w", icon.Name, vb, err)
		}
		v[i] = n
	}
	icon.Width, icon.Height = v[2], v[3]
	return svgpath.Translate(-v[0], -v[1]), nil
}

// shapePath converts a basic shape element to a path in its own user space.
func shapePath(element string, a attributes) (svgpath.Path, error) {
	switch element {
	case "path":
		return svgpath.Parse(a["d"])
	case "rect":
		rx, hasRx := a.number("rx")
		ry, hasRy := a.number("ry")
		if !hasRx && hasRy {
			rx = ry
		}
		return svgpath.Rect(a.float("x"), a.float("y"), a.float("width"), a.float("height"), rx, ry), nil
	case "circle":
		r := a.float("r")
		return svgpath.Ellipse(a.float("cx"), a.float("cy"), r, r), nil
	case "ellipse":
		return svgpath.Ellipse(a.float("cx"), a.float("cy"), a.float("rx"), a.float("ry")), nil
	case "line":
		return svgpath.Poly([]svgpath.Point{
			{X: a.float("x1"), Y: a.float("y1")},
			{X: a.float("x2"), Y: a.float("y2")},
		}, false), nil
	case "polyline", "polygon":
		pts, err := parsePoints(a["points"])
		if err != nil {
			return nil, err
		}
		return svgpath.Poly(pts, element == "polygon"), nil
	}
	return nil, nil
}

func parsePoints(s string) ([]svgpath.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("odd number of coordinates in points %q", s)
	}
	pts := make([]svgpath.Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid points %q: %w", s, err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid points %q: %w", s, err)
		}
		pts = append(pts, svgpath.Point{X: x, Y: y})
	}
	return pts, nil
}

type attributes map[string]string

func attrMap(attrs []xml.Attr) attributes {
	m := make(attributes, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	for k, v := range parseStyle(m["style"]) {
		m[k] = v
	}
	return m
}

// parseStyle extracts declarations from an inline style attribute.
func parseStyle(style string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

func (a attributes) hidden() bool {
	return a["display"] == "none" || a["visibility"] == "hidden"
}

// paint returns the fill or stroke paint set on the element itself.
func (a attributes) paint(key string) (string, bool) {
	v, ok := a[key]
	return strings.TrimSpace(v), ok
}

// number parses a numeric attribute, ignoring a trailing px unit.
func (a attributes) number(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (a attributes) float(key string) float64 {
	n, _ := a.number(key)
	return n
}

// length is float for width/height, ignoring percentages.
func (a attributes) length(key string) float64 {
	if strings.HasSuffix(strings.TrimSpace(a[key]), "%") {
		return 0
	}
	return a.float(key)
}
