package output

import "github.com/protplot/protplot/internal/gff"

// Summarize shapes a parse result into a Summary for the given file.
func Summarize(file string, result *gff.Result) *Summary {
	summary := &Summary{
		File:    file,
		Records: len(result.Records),
	}

	perProtein := make(map[string]int)
	for _, rec := range result.Records {
		perProtein[rec.Protein]++
	}
	for _, id := range result.ProteinList() {
		summary.Proteins = append(summary.Proteins, ProteinSummary{ID: id, Hits: perProtein[id]})
	}

	counts := result.DomainCounts()
	for _, name := range result.DomainList() {
		summary.Domains = append(summary.Domains, DomainSummary{Name: name, Hits: counts[name]})
	}

	return summary
}
