package track

import (
	"errors"
	"strings"
	"testing"

	"github.com/protplot/protplot/internal/gff"
	"github.com/protplot/protplot/internal/palette"
)

func testRequest(shape Shape) Request {
	colors := palette.NewAssignment(palette.FixedPolicy{})
	colors.Ensure([]string{"Kinase", "SH2"})
	return Request{
		Records:  testRecords(),
		Proteins: []string{"ProtA", "ProtB"},
		Domains:  []string{"Kinase", "SH2"},
		Shape:    shape,
		Colors:   colors,
	}
}

func TestRender_EmptySelectionReturnsErrNoData(t *testing.T) {
	req := testRequest(ShapeRectangle)
	req.Proteins = []string{"ProtX"}

	svg, err := Render(req, nil)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if svg != "" {
		t.Errorf("expected no figure for empty selection, got %d bytes", len(svg))
	}
}

func TestRender_OneShapePerMatchingRecord(t *testing.T) {
	// 3 matching records: ProtA Kinase, ProtA SH2, ProtB Kinase.
	// Legend adds one rect per selected domain, plus the background and
	// legend title swatches are accounted for explicitly.
	svg, err := Render(testRequest(ShapeRectangle), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	shapes := strings.Count(svg, `fill-opacity="0.6"`)
	// 3 record shapes + 2 legend swatches
	if shapes != 5 {
		t.Errorf("expected 5 translucent elements (3 shapes + 2 swatches), got %d", shapes)
	}
}

func TestRender_ShapeKinds(t *testing.T) {
	rectSVG, err := Render(testRequest(ShapeRectangle), nil)
	if err != nil {
		t.Fatalf("Render rect failed: %v", err)
	}
	if strings.Contains(rectSVG, "<ellipse") {
		t.Error("rectangle render should not contain ellipses")
	}
	if strings.Contains(rectSVG, `rx="6.00"`) {
		t.Error("rectangle render should not have rounded corners")
	}

	roundSVG, err := Render(testRequest(ShapeRounded), nil)
	if err != nil {
		t.Fatalf("Render round failed: %v", err)
	}
	if !strings.Contains(roundSVG, `rx="6.00"`) {
		t.Error("rounded render should carry the corner radius")
	}

	ovalSVG, err := Render(testRequest(ShapeOval), nil)
	if err != nil {
		t.Fatalf("Render oval failed: %v", err)
	}
	if strings.Count(ovalSVG, "<ellipse") != 3 {
		t.Errorf("expected 3 ellipses, got %d", strings.Count(ovalSVG, "<ellipse"))
	}
}

func TestRender_LegendPerSelectedDomain(t *testing.T) {
	req := testRequest(ShapeRectangle)
	svg, err := Render(req, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, domain := range req.Domains {
		if !strings.Contains(svg, ">"+domain+"</text>") {
			t.Errorf("expected legend entry for %q", domain)
		}
		color, _ := req.Colors.Get(domain)
		if !strings.Contains(svg, color) {
			t.Errorf("expected legend color %s for %q", color, domain)
		}
	}
}

func TestRender_ProteinLabels(t *testing.T) {
	svg, err := Render(testRequest(ShapeRectangle), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, protein := range []string{"ProtA", "ProtB"} {
		if !strings.Contains(svg, ">"+protein+"</text>") {
			t.Errorf("expected y label for %q", protein)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	a, err := Render(testRequest(ShapeRounded), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b, err := Render(testRequest(ShapeRounded), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if a != b {
		t.Error("identical requests produced different SVG")
	}
}

func TestRender_MissingColorIsError(t *testing.T) {
	req := testRequest(ShapeRectangle)
	req.Colors = palette.NewAssignment(palette.FixedPolicy{})

	_, err := Render(req, nil)
	if err == nil || errors.Is(err, ErrNoData) {
		t.Fatalf("expected missing-color error, got %v", err)
	}
}

func TestRender_EscapesIdentifiers(t *testing.T) {
	colors := palette.NewAssignment(palette.FixedPolicy{})
	colors.Ensure([]string{"A<B"})
	req := Request{
		Records:  []gff.Record{{Protein: "P&Q", Start: 1, End: 20, Domain: "A<B"}},
		Proteins: []string{"P&Q"},
		Domains:  []string{"A<B"},
		Shape:    ShapeRectangle,
		Colors:   colors,
	}

	svg, err := Render(req, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(svg, "P&Q") || strings.Contains(svg, "A<B") {
		t.Error("identifiers must be XML-escaped")
	}
	if !strings.Contains(svg, "P&amp;Q") || !strings.Contains(svg, "A&lt;B") {
		t.Error("expected escaped identifiers in output")
	}
}

func TestTickStep(t *testing.T) {
	tests := []struct {
		xMax float64
		want float64
	}{
		{10, 2},
		{60, 10},
		{210, 50},
		{1000, 200},
	}
	for _, tt := range tests {
		if got := tickStep(tt.xMax); got != tt.want {
			t.Errorf("tickStep(%f) = %f, want %f", tt.xMax, got, tt.want)
		}
	}
}
