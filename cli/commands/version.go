package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/iconfont-go/cli/internal/ui"
	"github.com/satishbabariya/iconfont-go/cli/internal/version"
)

var versionFull bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if versionFull {
			return ui.PrintMarkdown(info.Markdown())
		}
		fmt.Fprintln(ui.Out, info.String())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "Show build details")
	rootCmd.AddCommand(versionCmd)
}
