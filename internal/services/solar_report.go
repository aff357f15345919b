package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hampuff/hampuff/internal/models/dtos"
)

// ErrIncompleteSourceData is returned when the feed's update timestamp is
// missing or unparsable. Every other field degrades to a placeholder; the
// timestamp cannot, because the header requires it.
var ErrIncompleteSourceData = errors.New("solar data is missing its update timestamp")

// feedTimeLayout matches the hamqsl updated element, e.g. "29 Aug 2026 1310 GMT".
// The feed always reports in UTC.
const feedTimeLayout = "2 Jan 2006 1504 MST"

const reportTimeLayout = "Mon 02 Jan 15:04"

const fieldPlaceholder = "N/A"

type reportField struct {
	label string
	value func(*dtos.PropagationRecord) string
}

var reportFields = []reportField{
	{"Solar Flux ", func(r *dtos.PropagationRecord) string { return r.SolarFlux }},
	{"A Index    ", func(r *dtos.PropagationRecord) string { return r.AIndex }},
	{"K Index    ", func(r *dtos.PropagationRecord) string { return r.KIndex }},
	{"Sunspot #  ", func(r *dtos.PropagationRecord) string { return r.Sunspots }},
	{"MUF        ", func(r *dtos.PropagationRecord) string { return r.MUF }},
	{"XRay       ", func(r *dtos.PropagationRecord) string { return r.XRay }},
	{"Solar Winds", func(r *dtos.PropagationRecord) string { return r.SolarWind }},
}

// FormatSolarReport renders a propagation snapshot as the fixed text block,
// with the update instant converted into the requested zone.
func FormatSolarReport(record *dtos.PropagationRecord, zoneCode string, loc *time.Location) (string, error) {
	if record.Updated == "" {
		return "", ErrIncompleteSourceData
	}

	updated, err := time.ParseInLocation(feedTimeLayout, record.Updated, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIncompleteSourceData, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[Hampuff - %s] Updated: %s", zoneCode, updated.In(loc).Format(reportTimeLayout))
	for _, f := range reportFields {
		value := f.value(record)
		if value == "" {
			value = fieldPlaceholder
		}
		fmt.Fprintf(&b, "\n\t%s = %s", f.label, value)
	}

	return b.String(), nil
}
