package gff

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// maxLineBytes bounds a single feature line. Attribute columns can get
// long but GFF lines are nowhere near this.
const maxLineBytes = 1024 * 1024

// Parse reads a feature file and returns its domain records and protein
// identifiers.
//
// Lines starting with "##" are comments. Lines with fewer than nine
// tab-separated fields are skipped silently. A non-integer start or end
// coordinate fails the whole file: no partial result is returned.
func Parse(r io.Reader) (*Result, error) {
	result := &Result{
		Proteins: make(map[string]bool),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "##") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < minFields {
			continue
		}

		protein := fields[FieldSeqID]
		featureType := fields[FieldType]

		start, err := strconv.Atoi(fields[FieldStart])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: start coordinate %q", lineNo, fields[FieldStart])
		}
		end, err := strconv.Atoi(fields[FieldEnd])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: end coordinate %q", lineNo, fields[FieldEnd])
		}

		switch featureType {
		case TypePolypeptide:
			result.Proteins[protein] = true
		case TypeProteinMatch:
			attrs := parseAttributes(fields[FieldAttributes])
			domain := attrs["Name"]
			if domain == "" {
				domain = UnknownDomain
			}
			result.Records = append(result.Records, Record{
				Protein: protein,
				Start:   start,
				End:     end,
				Domain:  domain,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading feature file")
	}

	return result, nil
}

// ParseFile opens and parses a feature file from disk.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return result, nil
}

// parseAttributes parses the semicolon-separated key=value attribute
// column. Entries without an "=" are dropped silently. A value may
// itself contain "=": only the first one splits key from value.
func parseAttributes(field string) map[string]string {
	attrs := make(map[string]string)
	for _, item := range strings.Split(field, ";") {
		if !strings.Contains(item, "=") {
			continue
		}
		kv := strings.SplitN(item, "=", 2)
		attrs[kv[0]] = kv[1]
	}
	return attrs
}
