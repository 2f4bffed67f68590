package css

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/iconfont-go/codepoint"
	"github.com/satishbabariya/iconfont-go/format"
)

var srcEntry = regexp.MustCompile(`url\("([^"]+)"\) format\("([^"]+)"\)`)

func table() *codepoint.Table {
	return codepoint.Allocate([]string{"a", "b"}, nil, nil, codepoint.DefaultStart)
}

func TestRenderDefaultFormats(t *testing.T) {
	out := Render("icon", format.Default, Options{}, table())

	matches := srcEntry.FindAllStringSubmatch(out, -1)
	require.Len(t, matches, 2)
	assert.Equal(t, "icon.woff2", matches[0][1])
	assert.Equal(t, "woff2", matches[0][2])
	assert.Equal(t, "icon.woff", matches[1][1])
	assert.Equal(t, "woff", matches[1][2])
	assert.NotContains(t, out, "truetype")
}

func TestRenderFormatOrder(t *testing.T) {
	out := Render("f", []format.Format{format.SVG, format.TTF, format.WOFF, format.WOFF2}, Options{FontURL: "../fonts/"}, table())

	matches := srcEntry.FindAllStringSubmatch(out, -1)
	require.Len(t, matches, 4)
	var keywords []string
	for _, m := range matches {
		keywords = append(keywords, m[2])
	}
	assert.Equal(t, []string{"woff2", "woff", "truetype", "svg"}, keywords)
	assert.Equal(t, "../fonts/f.ttf", matches[2][1])
	assert.Equal(t, "../fonts/f.svg#f", matches[3][1])
}

func TestRenderHash(t *testing.T) {
	out := Render("f", []format.Format{format.SVG, format.WOFF}, Options{Hash: "abc123"}, table())

	matches := srcEntry.FindAllStringSubmatch(out, -1)
	require.Len(t, matches, 2)
	assert.Equal(t, "f.woff?abc123", matches[0][1])
	assert.Equal(t, "f.svg?abc123#f", matches[1][1])
}

func TestRenderNoFormats(t *testing.T) {
	out := Render("icon", nil, Options{}, table())

	assert.Contains(t, out, "@font-face {")
	assert.Contains(t, out, "  src: ;\n")
	assert.Empty(t, srcEntry.FindAllString(out, -1))
}

func TestRenderRules(t *testing.T) {
	out := Render("icon", format.Default, Options{}, table())

	assert.Contains(t, out, ".icon {\n  display: inline-block;\n  font-family: \"icon\";\n")
	assert.Contains(t, out, `.icon.icon-a:before { content: "\f102"; }`)
	assert.Contains(t, out, `.icon.icon-b:before { content: "\f103"; }`)
	assert.Less(t, strings.Index(out, "icon-a:before"), strings.Index(out, "icon-b:before"))
}

func TestRenderCustomSelector(t *testing.T) {
	tbl := codepoint.NewTable()
	tbl.Set("zed", 0x41)
	tbl.Set("alpha", 0x1f600)

	out := Render("glyphs", format.Default, Options{BaseSelector: "i.g", ClassPrefix: "g-"}, tbl)

	assert.Contains(t, out, "i.g {\n")
	assert.Contains(t, out, `i.g.g-zed:before { content: "\41"; }`)
	assert.Contains(t, out, `i.g.g-alpha:before { content: "\1f600"; }`)
	// insertion order, not name order
	assert.Less(t, strings.Index(out, "g-zed"), strings.Index(out, "g-alpha"))
}

func TestRenderDeterministic(t *testing.T) {
	a := Render("icon", format.All, Options{}, table())
	b := Render("icon", format.All, Options{}, table())
	assert.Equal(t, a, b)
}
