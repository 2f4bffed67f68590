// Package commands implements the iconfont command line.
package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/satishbabariya/iconfont-go/cli/internal/config"
	"github.com/satishbabariya/iconfont-go/cli/internal/ui"
	"github.com/satishbabariya/iconfont-go/cli/internal/version"
	"github.com/satishbabariya/iconfont-go/internal/debug"
)

var (
	cfgFile   string
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:   "iconfont",
	Short: "Generate icon fonts from SVG icons",
	Long: `iconfont turns a directory of SVG icons into an icon font and a stylesheet.

Every icon gets a codepoint, the icons are assembled into an SVG font, and the
font is transcoded into TrueType, WOFF and WOFF2. The stylesheet maps one CSS
class per icon to its codepoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.Init(debugMode)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is .iconfont.yaml in . or $HOME)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

// Execute is the main entry point for the CLI
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI with ctx.
func ExecuteContext(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

// loadConfig reads the config file and environment, with the changed flags
// of cmd taking precedence. Flag names map to config keys with dashes
// replaced by underscores.
func loadConfig(cmd *cobra.Command, icons []string) (*config.Config, error) {
	v := viper.New()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "debug" || f.Name == "help" {
			return
		}
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}
	if len(icons) > 0 {
		v.Set(config.KeyIcons, icons)
	}

	cfg, err := config.LoadConfig(v, cfgFile)
	if err != nil {
		return nil, err
	}
	if err := version.Require(cfg.Requires); err != nil {
		return nil, err
	}
	debug.Debug("Configuration resolved", "name", cfg.Name, "dest", cfg.Dest, "icons", cfg.Icons, "types", cfg.Types)
	return cfg, nil
}
