package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// EpochTimestamp is the lower bound used for a since-fetch before any datapoint was seen.
const EpochTimestamp = "1970-01-01T00:00:00Z"

// RawDatapoint is one sample exactly as the backend returns it. The payload is decoded later.
type RawDatapoint struct {
	ID        int64           `json:"id"`
	Timestamp string          `json:"datetime"`
	Payload   json.RawMessage `json:"data_blob"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseTimestamp accepts the ISO-8601-like variants the backend has produced over time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CompareTimestamps orders two timestamps, falling back to lexical order when either does not parse.
func CompareTimestamps(a, b string) int {
	ta, okA := ParseTimestamp(a)
	tb, okB := ParseTimestamp(b)
	if okA && okB {
		return ta.Compare(tb)
	}
	return strings.Compare(a, b)
}

// MaxTimestamp returns the latest timestamp in the batch, or "" for an empty batch.
func MaxTimestamp(points []RawDatapoint) string {
	var max string
	for _, p := range points {
		if max == "" || CompareTimestamps(p.Timestamp, max) > 0 {
			max = p.Timestamp
		}
	}
	return max
}
