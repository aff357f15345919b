package constants

// Solar Provider Error Codes
// These constants define specific error scenarios for the solar data feed

const (
	ErrCodeSourceUnavailable    = "SOURCE_UNAVAILABLE"
	ErrCodeSourceMalformed      = "SOURCE_MALFORMED"
	ErrCodeIncompleteSourceData = "INCOMPLETE_SOURCE_DATA"
)

var SolarErrorMessages = map[string]string{
	ErrCodeSourceUnavailable:    "Unable to reach the solar data feed",
	ErrCodeSourceMalformed:      "The solar data feed returned an unparsable payload",
	ErrCodeIncompleteSourceData: "The solar data feed is missing its update timestamp",
}

// GetSolarErrorMessage returns the human-readable message for an error code
func GetSolarErrorMessage(code string) string {
	if msg, exists := SolarErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
