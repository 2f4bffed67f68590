package commands

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/iconfont-go/cli/internal/config"
	"github.com/satishbabariya/iconfont-go/cli/internal/ui"
	"github.com/satishbabariya/iconfont-go/format"
)

var (
	initYes   bool
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create an iconfont config file",
	Long: `Create an .iconfont.yaml config file.

In a terminal the font name, icon directory, output directory and formats are
asked for. Use --yes to write the defaults without asking.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Write the defaults without prompting")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.FileName + ".yaml"
	if len(args) > 0 {
		path = args[0]
	}

	exists, err := afero.Exists(config.AppFs, path)
	if err != nil {
		return err
	}
	if exists && !initForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	ui.PrintHeader("iconfont", "Initialize Project")

	cfg := config.Defaults()
	if ui.IsInteractive() && !initYes {
		if err := askConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}

	data, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return err
	}
	ui.PrintSuccess("Created %s", path)
	fmt.Fprintln(ui.Out)
	ui.PrintCodeBlock(strings.TrimRight(string(data), "\n"), "yaml")
	fmt.Fprintln(ui.Out)
	ui.PrintInfo("Run 'iconfont generate' to build the font")
	return nil
}

func askConfig(cfg *config.Config) error {
	var formats []string
	for _, f := range format.All {
		formats = append(formats, f.Ext())
	}

	qs := []*survey.Question{
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Font name:", Default: cfg.Name},
			Validate: survey.Required,
		},
		{
			Name:   "icons",
			Prompt: &survey.Input{Message: "Icon directory:", Default: cfg.Icons[0]},
		},
		{
			Name:   "dest",
			Prompt: &survey.Input{Message: "Output directory:", Default: cfg.Dest},
		},
		{
			Name: "types",
			Prompt: &survey.MultiSelect{
				Message: "Font formats:",
				Options: formats,
				Default: cfg.Types,
			},
			Validate: survey.MinItems(1),
		},
		{
			Name: "manifest",
			Prompt: &survey.Confirm{
				Message: "Keep codepoints stable across runs with a manifest?",
				Default: true,
			},
		},
	}

	answers := struct {
		Name     string
		Icons    string
		Dest     string
		Types    []string
		Manifest bool
	}{}
	if err := survey.Ask(qs, &answers); err != nil {
		return err
	}

	cfg.Name = answers.Name
	cfg.Icons = []string{answers.Icons}
	cfg.Dest = answers.Dest
	cfg.Types = answers.Types
	cfg.Manifest = answers.Manifest
	return nil
}
