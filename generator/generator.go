// Package generator turns a set of SVG icons into an icon font and its
// stylesheet.
package generator

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/satishbabariya/iconfont-go/codepoint"
	"github.com/satishbabariya/iconfont-go/font/sfnt"
	"github.com/satishbabariya/iconfont-go/font/svgfont"
	"github.com/satishbabariya/iconfont-go/font/woff"
	"github.com/satishbabariya/iconfont-go/font/woff2"
	"github.com/satishbabariya/iconfont-go/format"
	"github.com/satishbabariya/iconfont-go/generator/css"
	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// Result describes a finished run.
type Result struct {
	// Files are the paths written, stylesheet first.
	Files []string
	// Codepoints is the table the font and stylesheet were built from.
	Codepoints *codepoint.Table
}

// Generator runs one generation request.
type Generator struct {
	fs  afero.Fs
	req Request
}

// NewGenerator creates a generator writing through fs.
func NewGenerator(fs afero.Fs, req Request) *Generator {
	req = req.WithDefaults()
	debug.Debug("Creating new generator", "font", req.FontName, "dest", req.Dest, "formats", req.Formats)
	return &Generator{fs: fs, req: req}
}

// Generate runs req against fs. See Generator.Generate.
func Generate(ctx context.Context, fs afero.Fs, req Request) (*Result, error) {
	return NewGenerator(fs, req).Generate(ctx)
}

// Generate writes the stylesheet and every requested font format. It stops
// at the first error and leaves files written so far in place.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	req := g.req
	debug.Debug("Starting font generation", "font", req.FontName, "icons", len(req.Icons))

	if err := req.Validate(); err != nil {
		debug.Error("Request validation failed", "error", err)
		return nil, err
	}

	w := NewWriter(g.fs, req.Dest, req.FontName)
	if err := w.Prepare(); err != nil {
		debug.Error("Output directory unavailable", "error", err)
		return nil, err
	}

	table := codepoint.Allocate(req.names(), req.Codepoints, req.Rename, req.StartCodepoint)

	svg, err := g.assemble(ctx, table)
	if err != nil {
		debug.Error("Font assembly failed", "error", err)
		return nil, fmt.Errorf("failed to assemble font: %w", err)
	}

	fonts, err := g.transcode(ctx, svg)
	if err != nil {
		debug.Error("Transcoding failed", "error", err)
		return nil, err
	}

	done := debug.Stage("css")
	artifacts := []Artifact{{Ext: "css", Data: []byte(css.Render(req.FontName, req.Formats, req.CSS, table))}}
	done()

	for _, f := range req.Formats {
		artifacts = append(artifacts, Artifact{Ext: f.Ext(), Data: fonts[f]})
	}
	if req.Manifest {
		data, err := manifestData(table)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{Ext: ManifestExt, Data: data})
	}

	done = debug.Stage("write", "artifacts", len(artifacts))
	files, err := w.Write(ctx, artifacts)
	done()
	if err != nil {
		debug.Error("Writing artifacts failed", "error", err)
		return nil, err
	}

	debug.Info("Font generation completed", "font", req.FontName, "dest", req.Dest, "glyphs", table.Len())
	return &Result{Files: files, Codepoints: table}, nil
}

// assemble reads every icon and builds the SVG font. Icons sharing a name
// after renaming contribute one glyph, taken from the last of them, at the
// position of the first.
func (g *Generator) assemble(ctx context.Context, table *codepoint.Table) ([]byte, error) {
	defer debug.Stage("assemble", "icons", len(g.req.Icons))()

	sources := make(map[string]IconSource, len(g.req.Icons))
	for _, icon := range g.req.Icons {
		sources[codepoint.Resolve(icon.Name, g.req.Rename)] = icon
	}

	glyphs := make([]svgfont.Glyph, 0, len(sources))
	for _, e := range table.Entries() {
		icon, ok := sources[e.Name]
		if !ok {
			// pinned codepoint without an icon
			continue
		}
		data, err := afero.ReadFile(g.fs, icon.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read icon %s: %w", icon.Path, err)
		}
		glyphs = append(glyphs, svgfont.Glyph{
			Name:      e.Name,
			Codepoint: e.Codepoint,
			Source:    bytes.NewReader(data),
		})
	}

	return svgfont.Assemble(ctx, glyphs, g.req.Font)
}

// transcode produces the bytes of every requested format. The TrueType font
// is built at most once; WOFF and WOFF2 are derived from it concurrently.
func (g *Generator) transcode(ctx context.Context, svg []byte) (map[Format][]byte, error) {
	formats := g.req.Formats
	out := make(map[Format][]byte, len(formats))
	if format.Contains(formats, SVG) {
		out[SVG] = svg
	}

	needTTF := format.Contains(formats, TTF) || format.Contains(formats, WOFF) || format.Contains(formats, WOFF2)
	if !needTTF {
		return out, nil
	}

	done := debug.Stage("transcode", "format", TTF)
	ttf, err := sfnt.FromSVGFont(svg, g.req.TTF)
	done()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s font: %w", TTF, err)
	}
	if format.Contains(formats, TTF) {
		out[TTF] = ttf
	}

	var woffData, woff2Data []byte
	eg, _ := errgroup.WithContext(ctx)
	if format.Contains(formats, WOFF) {
		eg.Go(func() error {
			defer debug.Stage("transcode", "format", WOFF)()
			data, err := woff.Encode(ttf, woff.Options{Metadata: g.req.Metadata})
			if err != nil {
				return fmt.Errorf("failed to build %s font: %w", WOFF, err)
			}
			woffData = data
			return nil
		})
	}
	if format.Contains(formats, WOFF2) {
		eg.Go(func() error {
			defer debug.Stage("transcode", "format", WOFF2)()
			data, err := woff2.Encode(ttf, woff2.Options{Metadata: g.req.Metadata})
			if err != nil {
				return fmt.Errorf("failed to build %s font: %w", WOFF2, err)
			}
			woff2Data = data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if woffData != nil {
		out[WOFF] = woffData
	}
	if woff2Data != nil {
		out[WOFF2] = woff2Data
	}
	return out, nil
}
