package generator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// Artifact is one generated file, named by its extension.
type Artifact struct {
	Ext  string
	Data []byte
}

// Writer persists artifacts as <dir>/<name>.<ext>.
type Writer struct {
	fs   afero.Fs
	dir  string
	name string
}

// NewWriter returns a writer for fontName's files under dir.
func NewWriter(fs afero.Fs, dir, fontName string) *Writer {
	return &Writer{fs: fs, dir: dir, name: fontName}
}

// Prepare creates the output directory. An existing directory is fine.
func (w *Writer) Prepare() error {
	debug.Debug("Ensuring output directory", "dir", w.dir)
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", w.dir, err)
	}
	return nil
}

// Path returns the file an artifact with ext is written to.
func (w *Writer) Path(ext string) string {
	return filepath.Join(w.dir, w.name+"."+ext)
}

// Write writes every artifact concurrently and returns the paths written,
// in artifact order. The first failure is returned; files already written
// are left in place.
func (w *Writer) Write(ctx context.Context, artifacts []Artifact) ([]string, error) {
	paths := make([]string, len(artifacts))
	g, ctx := errgroup.WithContext(ctx)
	for i, a := range artifacts {
		path := w.Path(a.Ext)
		paths[i] = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := afero.WriteFile(w.fs, path, a.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			debug.Debug("Artifact written", "path", path, "bytes", len(a.Data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
