package services

import (
	"errors"
	"strings"
	"testing"

	"hampuff/hampuff/internal/models/dtos"
)

func sampleRecord() *dtos.PropagationRecord {
	return &dtos.PropagationRecord{
		Updated:   "29 Aug 2026 1310 GMT",
		SolarFlux: "142",
		AIndex:    "5",
		KIndex:    "2",
		Sunspots:  "97",
		MUF:       "14.25",
		XRay:      "B5.9",
		SolarWind: "352.4",
	}
}

func TestFormatSolarReport_FullRecord(t *testing.T) {
	r := newResolver(t)
	loc, _ := r.Resolve("EST")

	got, err := FormatSolarReport(sampleRecord(), "EST", loc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 1310 UTC on 29 Aug is 0910 EDT.
	if !strings.HasPrefix(got, "[Hampuff - EST] Updated: Sat 29 Aug 09:10") {
		t.Errorf("Unexpected header: %q", strings.SplitN(got, "\n", 2)[0])
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 8 {
		t.Fatalf("Expected header plus 7 field lines, got %d lines", len(lines))
	}

	checks := map[string]string{
		"Solar Flux":  "142",
		"A Index":     "5",
		"K Index":     "2",
		"Sunspot #":   "97",
		"MUF":         "14.25",
		"XRay":        "B5.9",
		"Solar Winds": "352.4",
	}
	for label, value := range checks {
		found := false
		for _, line := range lines[1:] {
			if strings.Contains(line, label) && strings.HasSuffix(line, "= "+value) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected line for %s = %s in:\n%s", label, value, got)
		}
	}
}

func TestFormatSolarReport_PacificConversion(t *testing.T) {
	r := newResolver(t)
	loc, _ := r.Resolve("PST")

	got, err := FormatSolarReport(sampleRecord(), "PST", loc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(got, "[Hampuff - PST] Updated: Sat 29 Aug 06:10") {
		t.Errorf("Unexpected header: %q", strings.SplitN(got, "\n", 2)[0])
	}
}

func TestFormatSolarReport_MissingFieldsDegrade(t *testing.T) {
	r := newResolver(t)
	loc, _ := r.Resolve("UTC")

	record := &dtos.PropagationRecord{Updated: "29 Aug 2026 1310 GMT"}
	got, err := FormatSolarReport(record, "UTC", loc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Count(got, "= N/A") != 7 {
		t.Errorf("Expected all 7 fields to degrade to N/A:\n%s", got)
	}
}

func TestFormatSolarReport_MissingTimestamp(t *testing.T) {
	r := newResolver(t)
	loc, _ := r.Resolve("UTC")

	record := sampleRecord()
	record.Updated = ""
	if _, err := FormatSolarReport(record, "UTC", loc); !errors.Is(err, ErrIncompleteSourceData) {
		t.Errorf("Expected ErrIncompleteSourceData for missing timestamp, got %v", err)
	}

	record.Updated = "not a timestamp"
	if _, err := FormatSolarReport(record, "UTC", loc); !errors.Is(err, ErrIncompleteSourceData) {
		t.Errorf("Expected ErrIncompleteSourceData for unparsable timestamp, got %v", err)
	}
}
