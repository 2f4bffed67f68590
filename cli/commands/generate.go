package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/iconfont-go/cli/internal/config"
	"github.com/satishbabariya/iconfont-go/cli/internal/ui"
	"github.com/satishbabariya/iconfont-go/cli/internal/watch"
	"github.com/satishbabariya/iconfont-go/codepoint"
	"github.com/satishbabariya/iconfont-go/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate [icons...]",
	Short: "Generate an icon font and stylesheet",
	Long: `Generate an icon font from SVG icons.

Icons are files, directories (every *.svg inside) or glob patterns. When none
are given, the icons listed in the config file are used.

This command will:
- Assign a codepoint to every icon
- Assemble the icons into an SVG font
- Transcode the font into the requested formats
- Write the fonts and a stylesheet to the destination directory`,
	RunE: runGenerate,
}

var generateWatch bool

func init() {
	f := generateCmd.Flags()
	f.StringP("name", "n", "", "Font name, also the base name of every output file")
	f.StringP("dest", "o", "", "Output directory")
	f.StringSliceP("types", "t", nil, "Font formats to write: woff2, woff, ttf, svg")
	f.String("start", "", "Codepoint auto-assignment starts after (e.g. 0xf101)")
	f.String("selector", "", "Base CSS selector")
	f.String("prefix", "", "CSS class name prefix")
	f.String("font-url", "", "URL prefix for fonts in @font-face")
	f.String("hash", "", "Cache-busting query appended to font URLs")
	f.Float64("font-height", 0, "Em size of the font (default: tallest icon)")
	f.Bool("normalize", false, "Scale every icon to the font height")
	f.Bool("center", false, "Center icons horizontally")
	f.Bool("fixed-width", false, "Give every glyph the width of the widest")
	f.Float64("round", 0, "Coordinate rounding factor")
	f.Float64("ascent", 0, "Font ascent")
	f.Float64("descent", 0, "Font descent")
	f.String("copyright", "", "Copyright notice stored in the font")
	f.String("description", "", "Description stored in the font")
	f.String("url", "", "Vendor URL stored in the font")
	f.String("font-version", "", "Font version, e.g. 1.2")
	f.String("vendor", "", "Four character OS/2 vendor ID")
	f.Bool("manifest", false, "Write <name>.json and reuse its codepoints on the next run")
	f.BoolVarP(&generateWatch, "watch", "w", false, "Regenerate when icons change")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	if generateWatch {
		return runGenerateWatch(cmd, args, cfg)
	}

	ui.PrintHeader("iconfont", "Generate Font")

	spinner, _ := ui.PrintSpinner("Generating font...")
	res, err := generateFont(cmd.Context(), cfg)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("font generation failed: %w", err)
	}

	info := pterm.Info.WithPrefix(pterm.Prefix{
		Text:  "INFO",
		Style: pterm.NewStyle(pterm.FgBlue),
	}).WithWriter(ui.Out)
	info.Println(fmt.Sprintf("Font: %s", cfg.Name))
	info.Println(fmt.Sprintf("Glyphs: %d", res.Codepoints.Len()))
	fmt.Fprintln(ui.Out)

	absPath, _ := filepath.Abs(cfg.Dest)
	ui.PrintSuccess("Generated %s at %s", cfg.Name, absPath)
	fmt.Fprintln(ui.Out)

	ui.PrintSection("Generated Files")
	ui.PrintList(res.Files)
	return nil
}

// generateFont runs one generation for cfg. With the manifest enabled,
// codepoints recorded by the previous run are pinned for icons that still
// exist, unless the config pins them itself.
func generateFont(ctx context.Context, cfg *config.Config) (*generator.Result, error) {
	req, err := cfg.Request(config.AppFs)
	if err != nil {
		return nil, err
	}

	if req.Manifest {
		path := generator.NewWriter(config.AppFs, req.Dest, req.FontName).Path(generator.ManifestExt)
		pinned, err := generator.LoadManifest(config.AppFs, path)
		if err != nil {
			return nil, err
		}
		if req.Codepoints == nil {
			req.Codepoints = map[string]rune{}
		}
		present := map[string]bool{}
		for _, icon := range req.Icons {
			present[codepoint.Resolve(icon.Name, req.Rename)] = true
		}
		for name, cp := range pinned {
			if _, ok := req.Codepoints[name]; !ok && present[name] {
				req.Codepoints[name] = cp
			}
		}
	}

	return generator.Generate(ctx, config.AppFs, req)
}

// watchPaths returns the directories and files to watch for cfg.
func watchPaths(cfg *config.Config) []string {
	var paths []string
	for _, p := range cfg.Icons {
		if strings.ContainsAny(p, "*?[") {
			p = filepath.Dir(p)
		}
		paths = append(paths, p)
	}
	if cfgFile != "" {
		paths = append(paths, cfgFile)
	}
	return paths
}

// watchCallback returns the regeneration run on every change. The config
// is resolved again on each run so edits to the config file apply.
func watchCallback(cmd *cobra.Command, args []string) func() error {
	colors := ui.GetColorPrinters()
	run := 0
	return func() error {
		run++
		ui.ColorPrint(colors["info"], "[%s] ", time.Now().Format("15:04:05"))
		ui.PrintInfo("Run %d: generating font...", run)
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			ui.PrintError("%v", err)
			return err
		}
		res, err := generateFont(cmd.Context(), cfg)
		if err != nil {
			ui.PrintError("%v", err)
			return err
		}
		ui.PrintSuccess("Generated %d glyphs into %s", res.Codepoints.Len(), cfg.Dest)
		return nil
	}
}

func runGenerateWatch(cmd *cobra.Command, args []string, cfg *config.Config) error {
	ui.PrintHeader("iconfont", "Watch Mode")

	watcher, err := watch.NewWatcher(watchPaths(cfg), watchCallback(cmd, args))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	ui.PrintSuccess("Watching %s for changes... (Press Ctrl+C to stop)", strings.Join(cfg.Icons, ", "))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	select {
	case <-sigChan:
	case <-cmd.Context().Done():
	}

	ui.PrintInfo("Stopping watch mode...")
	return nil
}
