package track

import (
	"fmt"
	"math"
	"strings"
)

// Options configures SVG figure generation.
type Options struct {
	Width int    // Total figure width in pixels (default: 960)
	Title string // Figure title (default: "Protein domain tracks")
}

// DefaultOptions returns sensible defaults for SVG generation.
func DefaultOptions() *Options {
	return &Options{
		Width: 960,
		Title: "Protein domain tracks",
	}
}

// Fixed figure margins and vertical scale, in pixels.
const (
	marginLeft   = 110
	marginRight  = 180
	marginTop    = 45
	marginBottom = 55
	pxPerUnitY   = 48
)

// Render draws the request as a complete SVG document.
//
// Returns ErrNoData when no record survives the protein/domain filter.
// Every selected domain must already have a color in the assignment;
// a missing entry is a caller bug and fails the render.
func Render(req Request, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultOptions().Width
	}

	filtered := Filter(req.Records, req.Proteins, req.Domains)
	if len(filtered) == 0 {
		return "", ErrNoData
	}

	for _, domain := range req.Domains {
		if _, ok := req.Colors.Get(domain); !ok {
			return "", fmt.Errorf("no color assigned for domain %q", domain)
		}
	}

	lanes := len(req.Proteins)
	laneIndex := make(map[string]int, lanes)
	for i, p := range req.Proteins {
		laneIndex[p] = i
	}

	// Data-space bounds, matching the figure's axis contract.
	xMax := float64(maxEnd(filtered) + AxisPad)
	yMin := -LaneGap
	yMax := float64(lanes) * (LaneHeight + LaneGap)

	plotW := float64(width - marginLeft - marginRight)
	plotH := (yMax - yMin) * pxPerUnitY
	height := int(math.Ceil(plotH)) + marginTop + marginBottom

	// Data coordinates to pixels. The y axis flips: lane 0 sits at the
	// bottom of the plot.
	sx := func(x float64) float64 {
		return marginLeft + x/xMax*plotW
	}
	sy := func(y float64) float64 {
		return marginTop + (yMax-y)/(yMax-yMin)*plotH
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		width, height, width, height))
	sb.WriteString(fmt.Sprintf(`  <rect width="%d" height="%d" fill="white"/>`+"\n", width, height))

	// Title
	sb.WriteString(fmt.Sprintf(
		`  <text x="%s" y="28" text-anchor="middle" font-size="16" font-weight="bold">%s</text>`+"\n",
		f(marginLeft+plotW/2), escapeXML(opts.Title)))

	// Vertical grid lines and x tick labels
	step := tickStep(xMax)
	sb.WriteString("  <g stroke=\"#dddddd\" stroke-width=\"1\">\n")
	for x := 0.0; x <= xMax; x += step {
		sb.WriteString(fmt.Sprintf(`    <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
			f(sx(x)), f(sy(yMax)), f(sx(x)), f(sy(yMin))))
	}
	sb.WriteString("  </g>\n")
	sb.WriteString("  <g font-size=\"11\" text-anchor=\"middle\" fill=\"#333333\">\n")
	for x := 0.0; x <= xMax; x += step {
		sb.WriteString(fmt.Sprintf(`    <text x="%s" y="%s">%d</text>`+"\n",
			f(sx(x)), f(sy(yMin)+16), int(x)))
	}
	sb.WriteString("  </g>\n")

	// Axis frame
	sb.WriteString(fmt.Sprintf(
		`  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333333"/>`+"\n",
		f(sx(0)), f(sy(yMin)), f(sx(xMax)), f(sy(yMin))))
	sb.WriteString(fmt.Sprintf(
		`  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333333"/>`+"\n",
		f(sx(0)), f(sy(yMax)), f(sx(0)), f(sy(yMin))))

	// X axis label
	sb.WriteString(fmt.Sprintf(
		`  <text x="%s" y="%d" text-anchor="middle" font-size="13">Position on protein sequence</text>`+"\n",
		f(marginLeft+plotW/2), height-12))

	// Y tick labels: protein ids at lane centers
	sb.WriteString("  <g font-size=\"12\" text-anchor=\"end\" fill=\"#111111\">\n")
	for i, protein := range req.Proteins {
		sb.WriteString(fmt.Sprintf(`    <text x="%d" y="%s">%s</text>`+"\n",
			marginLeft-8, f(sy(LaneCenter(i))+4), escapeXML(protein)))
	}
	sb.WriteString("  </g>\n")

	// One shape per filtered record
	style := GetShapeStyle(req.Shape)
	sb.WriteString("  <g>\n")
	for _, rec := range filtered {
		lane, ok := laneIndex[rec.Protein]
		if !ok {
			continue
		}
		color, _ := req.Colors.Get(rec.Domain)
		bottom := LaneBottom(lane)

		x := sx(float64(rec.Start))
		y := sy(bottom + LaneHeight)
		w := sx(float64(rec.End)) - x
		h := sy(bottom) - y

		switch req.Shape {
		case ShapeOval:
			sb.WriteString(fmt.Sprintf(
				`    <ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" fill-opacity="%.1f"/>`+"\n",
				f(x+w/2), f(y+h/2), f(w/2), f(h/2), color, FillOpacity))
		case ShapeRounded:
			sb.WriteString(fmt.Sprintf(
				`    <rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" fill-opacity="%.1f"/>`+"\n",
				f(x), f(y), f(w), f(h), f(style.CornerRadius), color, FillOpacity))
		default:
			sb.WriteString(fmt.Sprintf(
				`    <rect x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%.1f"/>`+"\n",
				f(x), f(y), f(w), f(h), color, FillOpacity))
		}
	}
	sb.WriteString("  </g>\n")

	writeLegend(&sb, req, width)

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// writeLegend draws one swatch and label per selected domain, in
// selection order, in the right margin.
func writeLegend(sb *strings.Builder, req Request, width int) {
	legendX := width - marginRight + 24

	sb.WriteString(fmt.Sprintf(
		`  <text x="%d" y="%d" font-size="13" font-weight="bold">Domains</text>`+"\n",
		legendX, marginTop))

	for i, domain := range req.Domains {
		color, _ := req.Colors.Get(domain)
		y := marginTop + 14 + i*22
		sb.WriteString(fmt.Sprintf(
			`  <rect x="%d" y="%d" width="14" height="14" fill="%s" fill-opacity="%.1f"/>`+"\n",
			legendX, y, color, FillOpacity))
		sb.WriteString(fmt.Sprintf(
			`  <text x="%d" y="%d" font-size="12">%s</text>`+"\n",
			legendX+20, y+11, escapeXML(domain)))
	}
}

// tickStep picks a 1/2/5-series grid step yielding roughly six ticks.
func tickStep(xMax float64) float64 {
	if xMax <= 0 {
		return 1
	}
	raw := xMax / 6
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*magnitude >= raw {
			return m * magnitude
		}
	}
	return 10 * magnitude
}

// f formats a pixel coordinate with stable precision for deterministic output.
func f(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
