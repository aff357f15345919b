package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedTimezone is returned for zone codes outside the fixed vocabulary.
var ErrUnsupportedTimezone = errors.New("unsupported timezone")

// zoneEntry binds a zone code to its IANA rule. Standard and daylight codes
// deliberately share one rule: the rule computes the true offset from the
// instant being converted, the code is only a hint.
type zoneEntry struct {
	code string
	iana string
}

// zoneTable is the fixed vocabulary, in help-text order. ChST (Chamorro time,
// Guam) is the one mixed-case code.
var zoneTable = []zoneEntry{
	{"EST", "America/New_York"},
	{"EDT", "America/New_York"},
	{"CST", "America/Chicago"},
	{"CDT", "America/Chicago"},
	{"MST", "America/Denver"},
	{"MDT", "America/Denver"},
	{"PST", "America/Los_Angeles"},
	{"PDT", "America/Los_Angeles"},
	{"AKST", "America/Anchorage"},
	{"AKDT", "America/Anchorage"},
	{"HST", "Pacific/Honolulu"},
	{"AST", "America/Puerto_Rico"},
	{"ChST", "Pacific/Guam"},
	{"UTC", "UTC"},
	{"GMT", "UTC"},
}

// TimezoneResolver maps the supported zone codes to time.Location rules.
type TimezoneResolver struct {
	locations map[string]*time.Location
}

// NewTimezoneResolver loads every rule in the vocabulary up front so a
// missing tzdata entry fails at startup, not mid-request.
func NewTimezoneResolver() (*TimezoneResolver, error) {
	locations := make(map[string]*time.Location, len(zoneTable))
	for _, z := range zoneTable {
		loc, err := time.LoadLocation(z.iana)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone rule %s for %s: %w", z.iana, z.code, err)
		}
		locations[z.code] = loc
	}
	return &TimezoneResolver{locations: locations}, nil
}

// Resolve returns the rule for a zone code. Exact-case match wins; a
// case-folded pass runs second so lookups stay deterministic for codes that
// differ only in case.
func (r *TimezoneResolver) Resolve(code string) (*time.Location, error) {
	if loc, ok := r.locations[code]; ok {
		return loc, nil
	}
	for _, z := range zoneTable {
		if strings.EqualFold(z.code, code) {
			return r.locations[z.code], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedTimezone, code)
}

// Canonical returns the vocabulary's own spelling of a zone code, so "chst"
// comes back as "ChST" for display.
func (r *TimezoneResolver) Canonical(code string) (string, bool) {
	if _, ok := r.locations[code]; ok {
		return code, true
	}
	for _, z := range zoneTable {
		if strings.EqualFold(z.code, code) {
			return z.code, true
		}
	}
	return "", false
}

// IsSupported reports whether the code is in the vocabulary, ignoring case.
func (r *TimezoneResolver) IsSupported(code string) bool {
	_, ok := r.Canonical(code)
	return ok
}

// SupportedZones lists the vocabulary for help and error texts.
func (r *TimezoneResolver) SupportedZones() string {
	codes := make([]string, len(zoneTable))
	for i, z := range zoneTable {
		codes[i] = z.code
	}
	return strings.Join(codes, ", ")
}
