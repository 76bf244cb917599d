// Package output provides the output formats for protplot listings.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type.
type Format string

const (
	// FormatYAML is the default self-documenting YAML output
	FormatYAML Format = "yaml"

	// FormatJSON is the JSON output format
	FormatJSON Format = "json"

	// FormatTSV is tab-separated output for shell pipelines
	FormatTSV Format = "tsv"
)

// DefaultFormat is the output format when none is specified.
const DefaultFormat = FormatYAML

// ParseFormat parses a format string into a Format value.
// Accepts: "yaml", "json", "tsv" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "tsv":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected yaml, json, or tsv)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// ValidateFormat checks if a format value is valid.
func ValidateFormat(f Format) bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTSV:
		return true
	default:
		return false
	}
}

// ProteinSummary is one protein in a parse listing.
type ProteinSummary struct {
	ID   string `json:"id" yaml:"id"`
	Hits int    `json:"hits" yaml:"hits"`
}

// DomainSummary is one domain in a parse listing.
type DomainSummary struct {
	Name string `json:"name" yaml:"name"`
	Hits int    `json:"hits" yaml:"hits"`
}

// Summary is the result of parsing one feature file, shaped for output.
type Summary struct {
	File     string           `json:"file" yaml:"file"`
	Records  int              `json:"records" yaml:"records"`
	Proteins []ProteinSummary `json:"proteins" yaml:"proteins"`
	Domains  []DomainSummary  `json:"domains" yaml:"domains"`
}

// Write encodes the summary to w in the given format.
func (s *Summary) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatTSV:
		return s.writeTSV(w)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(s)
	default:
		return fmt.Errorf("invalid format: %q", format)
	}
}

// writeTSV writes one line per protein and per domain, tagged by kind,
// so the output pipes cleanly into cut/awk.
func (s *Summary) writeTSV(w io.Writer) error {
	for _, p := range s.Proteins {
		if _, err := fmt.Fprintf(w, "protein\t%s\t%d\n", p.ID, p.Hits); err != nil {
			return err
		}
	}
	for _, d := range s.Domains {
		if _, err := fmt.Fprintf(w, "domain\t%s\t%d\n", d.Name, d.Hits); err != nil {
			return err
		}
	}
	return nil
}
