// Package format enumerates the font formats iconfont can produce.
package format

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownFormat is returned when a format identifier is not recognized.
var ErrUnknownFormat = errors.New("unknown font format")

// Format is an output font format. Values sort in stylesheet preference
// order, best compression first.
type Format int

const (
	WOFF2 Format = iota
	WOFF
	TTF
	SVG
)

// All lists every format in preference order.
var All = []Format{WOFF2, WOFF, TTF, SVG}

// Default is the format set used when none is requested.
var Default = []Format{WOFF2, WOFF}

var formats = [...]struct {
	ext     string
	keyword string
}{
	WOFF2: {ext: "woff2", keyword: "woff2"},
	WOFF:  {ext: "woff", keyword: "woff"},
	TTF:   {ext: "ttf", keyword: "truetype"},
	SVG:   {ext: "svg", keyword: "svg"},
}

// Ext returns the file extension, without the dot.
func (f Format) Ext() string { return formats[f].ext }

// CSSKeyword returns the keyword used in a @font-face format() hint.
func (f Format) CSSKeyword() string { return formats[f].keyword }

func (f Format) String() string { return f.Ext() }

// Parse returns the format with the given identifier, ignoring case and a
// leading dot.
func Parse(s string) (Format, error) {
	id := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	for _, f := range All {
		if f.Ext() == id {
			return f, nil
		}
	}
	if id == "truetype" {
		return TTF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParseList parses identifiers, each of which may itself be a comma
// separated list, and returns the distinct formats in preference order.
func ParseList(ids []string) ([]Format, error) {
	var out []Format
	for _, id := range ids {
		for _, part := range strings.Split(id, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			f, err := Parse(part)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	return Normalize(out), nil
}

// Normalize returns the distinct formats of fs in preference order.
func Normalize(fs []Format) []Format {
	seen := make(map[Format]bool, len(fs))
	out := make([]Format, 0, len(fs))
	for _, f := range fs {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Contains reports whether f is in fs.
func Contains(fs []Format, f Format) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}
