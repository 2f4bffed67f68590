package commands

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/image/font"
	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/satishbabariya/iconfont-go/cli/internal/config"
	"github.com/satishbabariya/iconfont-go/cli/internal/ui"
	"github.com/satishbabariya/iconfont-go/codepoint"
	"github.com/satishbabariya/iconfont-go/font/sfnt"
	"github.com/satishbabariya/iconfont-go/font/woff"
	"github.com/satishbabariya/iconfont-go/font/woff2"
)

// errCompressedFont is returned for WOFF and WOFF2 input.
var errCompressedFont = errors.New("WOFF and WOFF2 fonts cannot be inspected, pass the .ttf")

var inspectCmd = &cobra.Command{
	Use:   "inspect <font.ttf>",
	Short: "Show the glyphs and tables of a TrueType font",
	Long: `Show the names, codepoints and advance widths of the glyphs of a TrueType
font, followed by its table directory. Only Basic Multilingual Plane
codepoints are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := afero.ReadFile(config.AppFs, args[0])
		if err != nil {
			return err
		}
		report, err := inspectFont(data)
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", args[0], err)
		}
		return ui.PrintMarkdown(report)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// inspectFont renders a markdown report of a TrueType font.
func inspectFont(data []byte) (string, error) {
	if len(data) >= 4 {
		switch binary.BigEndian.Uint32(data) {
		case woff.Signature, woff2.Signature:
			return "", errCompressedFont
		}
	}

	f, err := xsfnt.Parse(data)
	if err != nil {
		return "", err
	}
	_, tables, err := sfnt.ReadTables(data)
	if err != nil {
		return "", err
	}

	var buf xsfnt.Buffer
	family, _ := f.Name(&buf, xsfnt.NameIDFamily)
	ver, _ := f.Name(&buf, xsfnt.NameIDVersion)

	// First codepoint of every mapped glyph.
	cps := make(map[xsfnt.GlyphIndex]rune)
	for r := rune(0); r < 0x10000; r++ {
		gid, err := f.GlyphIndex(&buf, r)
		if err != nil || gid == 0 {
			continue
		}
		if _, ok := cps[gid]; !ok {
			cps[gid] = r
		}
	}

	upem := f.UnitsPerEm()
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDash(family))
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Version | %s |\n", orDash(ver))
	fmt.Fprintf(&b, "| Units per em | %d |\n", upem)
	fmt.Fprintf(&b, "| Glyphs | %d |\n", f.NumGlyphs())
	fmt.Fprintf(&b, "| Mapped codepoints | %d |\n\n", len(cps))

	b.WriteString("## Glyphs\n\n")
	b.WriteString("| Index | Name | Codepoint | Advance |\n|---|---|---|---|\n")
	for i := 0; i < f.NumGlyphs(); i++ {
		gid := xsfnt.GlyphIndex(i)
		name, _ := f.GlyphName(&buf, gid)
		cp := "-"
		if r, ok := cps[gid]; ok {
			cp = "U+" + strings.ToUpper(codepoint.Hex(r))
		}
		// A ppem equal to unitsPerEm leaves the advance in font units.
		adv, err := f.GlyphAdvance(&buf, gid, fixed.Int26_6(upem), font.HintingNone)
		if err != nil {
			return "", fmt.Errorf("glyph %d: %w", i, err)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d |\n", i, orDash(name), cp, int(adv))
	}

	b.WriteString("\n## Tables\n\n")
	b.WriteString("| Tag | Length | Checksum |\n|---|---|---|\n")
	for _, t := range tables {
		fmt.Fprintf(&b, "| `%s` | %d | %08x |\n", t.Tag, len(t.Data), sfnt.Checksum(t.Data))
	}
	return b.String(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
