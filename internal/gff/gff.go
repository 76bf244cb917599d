// Package gff reads GFF3-style tab-delimited feature files and extracts
// the two feature types protplot cares about: polypeptide lines, which
// declare whole proteins, and protein_match lines, which declare domain
// hits within a protein.
package gff

import "sort"

// GFF3 column indices.
const (
	FieldSeqID = iota
	FieldSource
	FieldType
	FieldStart
	FieldEnd
	FieldScore
	FieldStrand
	FieldPhase
	FieldAttributes
)

// Feature type values with meaning to protplot.
const (
	TypePolypeptide  = "polypeptide"
	TypeProteinMatch = "protein_match"
)

// UnknownDomain is used when a protein_match line carries no Name attribute.
const UnknownDomain = "Unknown"

// minFields is the minimum column count for a well-formed feature line.
const minFields = 9

// Record is one domain hit: a named range within a protein.
// Coordinates are 1-based and inclusive, as in the source format.
type Record struct {
	Protein string
	Start   int
	End     int
	Domain  string
}

// Result holds everything extracted from one file: domain records in
// input order and the set of protein identifiers seen on polypeptide lines.
type Result struct {
	Records  []Record
	Proteins map[string]bool
}

// ProteinList returns the protein identifiers sorted alphabetically.
func (r *Result) ProteinList() []string {
	ids := make([]string, 0, len(r.Proteins))
	for id := range r.Proteins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DomainList returns the distinct domain names across all records,
// sorted alphabetically.
func (r *Result) DomainList() []string {
	seen := make(map[string]bool)
	for _, rec := range r.Records {
		seen[rec.Domain] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DomainCounts returns the number of records per domain name.
func (r *Result) DomainCounts() map[string]int {
	counts := make(map[string]int)
	for _, rec := range r.Records {
		counts[rec.Domain]++
	}
	return counts
}

// RecordsFor returns the records for a single protein, in input order.
func (r *Result) RecordsFor(protein string) []Record {
	var out []Record
	for _, rec := range r.Records {
		if rec.Protein == protein {
			out = append(out, rec)
		}
	}
	return out
}
