package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protplot/protplot/internal/gff"
	"github.com/protplot/protplot/internal/palette"
	"github.com/protplot/protplot/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui <file>",
	Short: "Pick proteins, domains, and shape interactively in the terminal",
	Long: `Interactively select what to draw from a feature file.

The flow walks through three pickers: proteins (space toggles, order
of toggling sets lane order), domains, and shape. The figure is then
written as SVG.

Examples:
  protplot tui annotations.gff                  # Write annotations.svg
  protplot tui annotations.gff -o figure.svg    # Write figure.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

var tuiOutput string

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVarP(&tuiOutput, "output", "o", "", "Output path for the SVG (default: input path with .svg extension)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]
	result, err := gff.ParseFile(path)
	if err != nil {
		return err
	}

	policy, err := palette.ParsePolicy(cfg.Render.Palette)
	if err != nil {
		return err
	}

	outPath := tuiOutput
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".svg"
	}

	return tui.Run(tui.Options{
		FileName: filepath.Base(path),
		Result:   result,
		Colors:   palette.NewAssignment(policy),
		Width:    cfg.Render.FigureWidth,
		OutPath:  outPath,
	})
}
