package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/iconfont-go/cli/internal/config"
	"github.com/satishbabariya/iconfont-go/cli/internal/ui"
	"github.com/satishbabariya/iconfont-go/codepoint"
	"github.com/satishbabariya/iconfont-go/font/svgfont"
)

var validateCmd = &cobra.Command{
	Use:   "validate [icons...]",
	Short: "Check icons and show their codepoints",
	Long: `Parse every icon without writing any output.

Each icon is read the way generate reads it, and the codepoint it would be
assigned is listed next to its size and source file.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("start", "", "Codepoint auto-assignment starts after (e.g. 0xf101)")
	rootCmd.AddCommand(validateCmd)
}

type iconInfo struct {
	file string
	size string
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	req, err := cfg.Request(config.AppFs)
	if err != nil {
		return err
	}

	ui.PrintHeader("iconfont", "Validate Icons")

	ui.PrintStep(1, 2, "Reading icons")
	bar, _ := ui.PrintProgressBar("Reading icons", len(req.Icons))
	names := make([]string, len(req.Icons))
	infos := make(map[string]iconInfo, len(req.Icons))
	for i, src := range req.Icons {
		if bar != nil {
			bar.UpdateTitle(src.Name)
		}
		icon, err := readIcon(src.Name, src.Path)
		if err != nil {
			if bar != nil {
				_, _ = bar.Stop()
			}
			return fmt.Errorf("icon %s: %w", src.Path, err)
		}
		names[i] = src.Name
		infos[codepoint.Resolve(src.Name, req.Rename)] = iconInfo{
			file: src.Path,
			size: fmt.Sprintf("%gx%g", icon.Width, icon.Height),
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		_, _ = bar.Stop()
	}

	ui.PrintStep(2, 2, "Assigning codepoints")
	table := codepoint.Allocate(names, req.Codepoints, req.Rename, req.StartCodepoint)
	rows := make([][]string, 0, table.Len())
	for _, e := range table.Entries() {
		info, ok := infos[e.Name]
		if !ok {
			info = iconInfo{file: "-", size: "-"}
		}
		rows = append(rows, []string{e.Name, "U+" + codepoint.Hex(e.Codepoint), info.size, info.file})
	}

	if err := ui.PrintTable([]string{"Name", "Codepoint", "Size", "File"}, rows); err != nil {
		return err
	}
	fmt.Fprintln(ui.Out)
	ui.PrintSuccess("%d icons are valid", len(req.Icons))
	if orphans := table.Len() - len(infos); orphans > 0 {
		ui.PrintWarning("%d pinned codepoints have no icon", orphans)
	}
	return nil
}

func readIcon(name, path string) (*svgfont.Icon, error) {
	f, err := config.AppFs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return svgfont.ReadIcon(name, f)
}
