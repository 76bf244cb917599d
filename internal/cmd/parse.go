package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protplot/protplot/internal/gff"
	"github.com/protplot/protplot/internal/output"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a feature file and list its proteins and domains",
	Long: `Parse a GFF feature file and list the proteins and domain hits it
contains, with per-protein and per-domain hit counts.

Lines starting with "##" are ignored. Tab-delimited lines with fewer
than nine fields are skipped. A non-integer start or end coordinate is
a hard error and names the offending line.

Examples:
  protplot parse annotations.gff                # YAML listing
  protplot parse annotations.gff --format json  # JSON listing
  protplot parse annotations.gff --format tsv | cut -f2`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

var parseFormat string

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "Output format: yaml, json, or tsv (default: from config)")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	formatName := parseFormat
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	path := args[0]
	result, err := gff.ParseFile(path)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "parsed %s: %d records, %d proteins\n",
			path, len(result.Records), len(result.Proteins))
	}

	summary := output.Summarize(path, result)
	return summary.Write(os.Stdout, format)
}
