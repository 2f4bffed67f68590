// Package css renders the stylesheet that maps icon class names to the
// codepoints of a generated font.
package css

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/iconfont-go/codepoint"
	"github.com/satishbabariya/iconfont-go/format"
)

const (
	// DefaultSelector is the base selector every icon rule hangs off.
	DefaultSelector = ".icon"
	// DefaultPrefix is prepended to icon names to form class names.
	DefaultPrefix = "icon-"
)

// Options controls the generated stylesheet.
type Options struct {
	// BaseSelector defaults to DefaultSelector.
	BaseSelector string
	// ClassPrefix defaults to DefaultPrefix.
	ClassPrefix string
	// FontURL is prepended to font file names in @font-face urls, e.g. "../fonts/".
	FontURL string
	// Hash, when set, is appended to every font url as a cache-busting query.
	Hash string
}

// WithDefaults fills empty options with their defaults.
func (o Options) WithDefaults() Options {
	if o.BaseSelector == "" {
		o.BaseSelector = DefaultSelector
	}
	if o.ClassPrefix == "" {
		o.ClassPrefix = DefaultPrefix
	}
	return o
}

// Render returns the stylesheet for a font: the @font-face rule listing the
// requested formats, the base rule, and one rule per table entry in table
// order.
func Render(fontName string, formats []format.Format, opts Options, table *codepoint.Table) string {
	opts = opts.WithDefaults()
	var b strings.Builder

	writeFontFace(&b, fontName, formats, opts)
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s {\n", opts.BaseSelector)
	b.WriteString("  display: inline-block;\n")
	fmt.Fprintf(&b, "  font-family: %q;\n", fontName)
	b.WriteString(`  font-style: normal;
  font-weight: normal;
  font-variant: normal;
  text-transform: none;
  line-height: 1;
  vertical-align: middle;
  speak: never;
  -webkit-user-select: none;
  user-select: none;
  -webkit-font-smoothing: antialiased;
  -moz-osx-font-smoothing: grayscale;
}
`)

	if table != nil && table.Len() > 0 {
		b.WriteString("\n")
		for _, e := range table.Entries() {
			fmt.Fprintf(&b, "%s.%s%s:before { content: \"\\%s\"; }\n",
				opts.BaseSelector, opts.ClassPrefix, e.Name, codepoint.Hex(e.Codepoint))
		}
	}
	return b.String()
}

func writeFontFace(b *strings.Builder, fontName string, formats []format.Format, opts Options) {
	var srcs []string
	for _, f := range format.Normalize(formats) {
		url := opts.FontURL + fontName + "." + f.Ext()
		if opts.Hash != "" {
			url += "?" + opts.Hash
		}
		if f == format.SVG {
			url += "#" + fontName
		}
		srcs = append(srcs, fmt.Sprintf("url(%q) format(%q)", url, f.CSSKeyword()))
	}

	b.WriteString("@font-face {\n")
	fmt.Fprintf(b, "  font-family: %q;\n", fontName)
	fmt.Fprintf(b, "  src: %s;\n", strings.Join(srcs, ",\n       "))
	b.WriteString("  font-weight: normal;\n")
	b.WriteString("  font-style: normal;\n")
	b.WriteString("  font-display: block;\n")
	b.WriteString("}\n")
}
