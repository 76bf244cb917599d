// Package track renders domain hits as horizontal track diagrams.
//
// Each selected protein gets one lane, in selection order. Each record
// that survives the protein/domain filter becomes one translucent shape
// in its protein's lane, colored by domain. The figure carries an x axis
// in sequence positions, protein ids as y tick labels, and a legend with
// one entry per selected domain.
package track

import (
	"errors"

	"github.com/protplot/protplot/internal/gff"
	"github.com/protplot/protplot/internal/palette"
)

// Vertical geometry in data units, and the shared shape translucency.
const (
	LaneHeight  = 0.4
	LaneGap     = 1.0
	FillOpacity = 0.6
)

// AxisPad is the horizontal headroom past the rightmost hit, in
// sequence positions.
const AxisPad = 10

// ErrNoData signals that the filtered record set is empty. It is an
// informational state, not a failure: there is simply nothing to draw.
var ErrNoData = errors.New("no domain data for the selected proteins and domains")

// Request bundles one render call: the records to consider, the user's
// ordered protein selection and domain selection, the shape kind, and
// the session color assignment.
type Request struct {
	Records  []gff.Record
	Proteins []string
	Domains  []string
	Shape    Shape
	Colors   *palette.Assignment
}

// Filter returns the records whose protein is in proteins and whose
// domain is in domains, preserving input order.
func Filter(records []gff.Record, proteins, domains []string) []gff.Record {
	proteinSet := make(map[string]bool, len(proteins))
	for _, p := range proteins {
		proteinSet[p] = true
	}
	domainSet := make(map[string]bool, len(domains))
	for _, d := range domains {
		domainSet[d] = true
	}

	var out []gff.Record
	for _, rec := range records {
		if proteinSet[rec.Protein] && domainSet[rec.Domain] {
			out = append(out, rec)
		}
	}
	return out
}

// LaneBottom returns the bottom y of lane i in data units.
func LaneBottom(i int) float64 {
	return float64(i) * (LaneHeight + LaneGap)
}

// LaneCenter returns the vertical center of lane i in data units,
// where the protein's y tick label sits.
func LaneCenter(i int) float64 {
	return LaneBottom(i) + LaneHeight/2
}

// maxEnd returns the largest end coordinate across records.
func maxEnd(records []gff.Record) int {
	max := 0
	for _, rec := range records {
		if rec.End > max {
			max = rec.End
		}
	}
	return max
}
