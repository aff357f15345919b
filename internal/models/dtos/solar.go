package dtos

import "encoding/xml"

// SolarFeedResponse mirrors the hamqsl solarxml document. Only the fields the
// report renders are decoded; the feed carries many more.
type SolarFeedResponse struct {
	XMLName xml.Name      `xml:"solar"`
	Data    SolarFeedData `xml:"solardata"`
}

type SolarFeedData struct {
	Updated   string `xml:"updated"`
	SolarFlux string `xml:"solarflux"`
	AIndex    string `xml:"aindex"`
	KIndex    string `xml:"kindex"`
	Sunspots  string `xml:"sunspots"`
	MUF       string `xml:"muf"`
	XRay      string `xml:"xray"`
	SolarWind string `xml:"solarwind"`
}

// PropagationRecord is a per-request snapshot of the feed. Values are kept as
// the feed's verbatim text; an empty string means the field was absent. The
// record has no identity beyond the instant of the fetch and is never stored.
type PropagationRecord struct {
	Updated   string
	SolarFlux string
	AIndex    string
	KIndex    string
	Sunspots  string
	MUF       string
	XRay      string
	SolarWind string
}
