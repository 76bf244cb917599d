package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protplot/protplot/internal/gff"
	"github.com/protplot/protplot/internal/palette"
	"github.com/protplot/protplot/internal/track"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render selected proteins and domains as an SVG track figure",
	Long: `Render an SVG track figure from a GFF feature file.

Each selected protein gets one horizontal lane, in the order given on
the command line. Each domain hit on that protein whose domain is
selected is drawn as a translucent shape spanning its start and end
coordinates, and every selected domain appears once in the legend.

Domain colors come from the configured palette policy; --color
overrides the color for individual domains.

Examples:
  protplot render annotations.gff --proteins ProtA,ProtB
  protplot render annotations.gff --proteins ProtA --domains Kinase,SH2
  protplot render annotations.gff --proteins ProtA --shape oval -o fig.svg
  protplot render annotations.gff --proteins ProtA --color Kinase=#ff0000
  protplot render annotations.gff --proteins ProtA -o - > fig.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderProteins []string
	renderDomains  []string
	renderShape    string
	renderPalette  string
	renderColors   []string
	renderWidth    int
	renderOutput   string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringSliceVar(&renderProteins, "proteins", nil, "Protein ids to draw, in lane order (required)")
	renderCmd.Flags().StringSliceVar(&renderDomains, "domains", nil, "Domain names to draw (default: all domains in the file)")
	renderCmd.Flags().StringVar(&renderShape, "shape", "", "Shape kind: rect, round, or oval (default: from config)")
	renderCmd.Flags().StringVar(&renderPalette, "palette", "", "Palette policy: fixed or random (default: from config)")
	renderCmd.Flags().StringArrayVar(&renderColors, "color", nil, "Domain color override as Domain=#rrggbb (repeatable)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Figure width in pixels (default: from config)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output path, or - for stdout (default: input path with .svg extension)")

	renderCmd.MarkFlagRequired("proteins")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]
	result, err := gff.ParseFile(path)
	if err != nil {
		return err
	}

	shapeName := renderShape
	if shapeName == "" {
		shapeName = cfg.Render.Shape
	}
	shape, err := track.ParseShape(shapeName)
	if err != nil {
		return err
	}

	policyName := renderPalette
	if policyName == "" {
		policyName = cfg.Render.Palette
	}
	policy, err := palette.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	width := renderWidth
	if width <= 0 {
		width = cfg.Render.FigureWidth
	}

	domains := renderDomains
	if len(domains) == 0 {
		domains = result.DomainList()
	}

	colors := palette.NewAssignment(policy)
	colors.Ensure(domains)
	for _, spec := range renderColors {
		domain, color, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid --color %q (expected Domain=#rrggbb)", spec)
		}
		if err := colors.Set(domain, color); err != nil {
			return err
		}
	}

	svg, err := track.Render(track.Request{
		Records:  result.Records,
		Proteins: renderProteins,
		Domains:  domains,
		Shape:    shape,
		Colors:   colors,
	}, &track.Options{Width: width, Title: "Protein domain tracks"})
	if errors.Is(err, track.ErrNoData) {
		fmt.Fprintln(os.Stderr, "No domain data found for the selected proteins and domains.")
		return nil
	}
	if err != nil {
		return err
	}

	outPath := renderOutput
	if outPath == "-" {
		_, err := os.Stdout.WriteString(svg)
		return err
	}
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".svg"
	}

	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d proteins, %d domains)\n", outPath, len(renderProteins), len(domains))
	return nil
}
