package gff

import (
	"strings"
	"testing"
)

const sampleGFF = "##gff-version 3\n" +
	"ProtA\tInterProScan\tpolypeptide\t1\t400\t.\t.\t.\tID=ProtA\n" +
	"ProtA\tInterProScan\tprotein_match\t10\t50\t.\t+\t.\tName=Kinase;ID=match1\n" +
	"ProtA\tInterProScan\tprotein_match\t120\t200\t.\t+\t.\tName=SH2\n" +
	"ProtB\tInterProScan\tpolypeptide\t1\t250\t.\t.\t.\tID=ProtB\n" +
	"ProtB\tInterProScan\tprotein_match\t30\t90\t.\t-\t.\tName=Kinase\n"

func TestParse(t *testing.T) {
	result, err := Parse(strings.NewReader(sampleGFF))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}

	want := Record{Protein: "ProtA", Start: 10, End: 50, Domain: "Kinase"}
	if result.Records[0] != want {
		t.Errorf("expected first record %+v, got %+v", want, result.Records[0])
	}

	if len(result.Proteins) != 2 {
		t.Errorf("expected 2 proteins, got %d", len(result.Proteins))
	}
	if !result.Proteins["ProtA"] || !result.Proteins["ProtB"] {
		t.Errorf("expected ProtA and ProtB in protein set, got %v", result.Proteins)
	}
}

func TestParse_CommentLinesIgnored(t *testing.T) {
	input := "##gff-version 3\n##sequence-region ProtA 1 400\n"
	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Records) != 0 {
		t.Errorf("expected 0 records from comments, got %d", len(result.Records))
	}
	if len(result.Proteins) != 0 {
		t.Errorf("expected 0 proteins from comments, got %d", len(result.Proteins))
	}
}

func TestParse_MalformedLinesSkipped(t *testing.T) {
	input := "ProtA\tonly\tthree\n" +
		"ProtA\tsrc\tprotein_match\t10\t50\t.\t.\t.\tName=Kinase\n" +
		"short line without tabs\n"
	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Errorf("expected 1 record, got %d", len(result.Records))
	}
}

func TestParse_MissingNameDefaultsToUnknown(t *testing.T) {
	input := "ProtA\tsrc\tprotein_match\t10\t50\t.\t.\t.\tID=match1\n"
	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].Domain != UnknownDomain {
		t.Errorf("expected domain %q, got %q", UnknownDomain, result.Records[0].Domain)
	}
}

func TestParse_NonIntegerCoordinateIsFatal(t *testing.T) {
	input := "ProtA\tsrc\tprotein_match\t10\t50\t.\t.\t.\tName=Kinase\n" +
		"ProtB\tsrc\tprotein_match\tabc\t50\t.\t.\t.\tName=SH2\n"
	result, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for non-integer start coordinate")
	}
	if result != nil {
		t.Errorf("expected no partial result, got %+v", result)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected error to name line 2, got %q", err.Error())
	}
}

func TestParse_DuplicatePolypeptidesCollapse(t *testing.T) {
	input := "ProtA\tsrc\tpolypeptide\t1\t400\t.\t.\t.\tID=a\n" +
		"ProtA\tsrc\tpolypeptide\t1\t400\t.\t.\t.\tID=b\n"
	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Proteins) != 1 {
		t.Errorf("expected duplicate ids to collapse to 1, got %d", len(result.Proteins))
	}
}

func TestParse_RecordOrderPreserved(t *testing.T) {
	input := "P\tsrc\tprotein_match\t1\t10\t.\t.\t.\tName=C\n" +
		"P\tsrc\tprotein_match\t20\t30\t.\t.\t.\tName=A\n" +
		"P\tsrc\tprotein_match\t40\t50\t.\t.\t.\tName=B\n"
	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got := []string{result.Records[0].Domain, result.Records[1].Domain, result.Records[2].Domain}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected record order %v, got %v", want, got)
		}
	}
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name  string
		field string
		key   string
		want  string
	}{
		{"simple", "Name=Kinase;ID=m1", "Name", "Kinase"},
		{"value with equals", "Note=a=b;Name=SH2", "Note", "a=b"},
		{"entry without equals dropped", "garbage;Name=PH", "garbage", ""},
		{"missing key", "ID=m1", "Name", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := parseAttributes(tt.field)
			if attrs[tt.key] != tt.want {
				t.Errorf("parseAttributes(%q)[%q] = %q, want %q", tt.field, tt.key, attrs[tt.key], tt.want)
			}
		})
	}
}

func TestResult_Lists(t *testing.T) {
	result, err := Parse(strings.NewReader(sampleGFF))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	proteins := result.ProteinList()
	if len(proteins) != 2 || proteins[0] != "ProtA" || proteins[1] != "ProtB" {
		t.Errorf("expected sorted [ProtA ProtB], got %v", proteins)
	}

	domains := result.DomainList()
	if len(domains) != 2 || domains[0] != "Kinase" || domains[1] != "SH2" {
		t.Errorf("expected sorted [Kinase SH2], got %v", domains)
	}

	counts := result.DomainCounts()
	if counts["Kinase"] != 2 || counts["SH2"] != 1 {
		t.Errorf("expected Kinase=2 SH2=1, got %v", counts)
	}

	forA := result.RecordsFor("ProtA")
	if len(forA) != 2 {
		t.Errorf("expected 2 records for ProtA, got %d", len(forA))
	}
}
