package catalog

import (
	"strings"
	"time"
)

// NowISO returns the current time as an ISO-8601 (RFC 3339) UTC string.
// All stored timestamps (created_at, updated_at, checked_out_date) use this
// format.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NormalizeTimestamp normalizes a stored timestamp string to UTC RFC 3339.
// Blank input yields the empty string. Text that does not parse as RFC 3339
// is passed through unchanged; published_date and friends are free text.
func NormalizeTimestamp(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}

	parsed, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return text
	}
	return parsed.UTC().Format(time.RFC3339)
}
