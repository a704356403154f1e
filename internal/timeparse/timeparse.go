package timeparse

import "time"

// layouts are tried in order; the first that parses wins. There is no
// ambiguity resolution beyond try-order.
var layouts = []string{
	"2006-01-02T15:04:05.999999999Z", // ISO-8601, fractional seconds, trailing Z
	"2006-01-02 15:04:05.999999999",  // space-separated date-time
	"2006-01-02T15:04:05.999999999",  // ISO without Z
}

// Parse converts a source-native timestamp string into a comparable ordinal.
// Empty or unparseable input returns the zero time, which sorts before every
// parseable value. Parse never fails.
func Parse(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
