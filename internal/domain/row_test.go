package domain

import (
	"encoding/json"
	"testing"
)

func TestCompareTimestampsParsesMixedLayouts(t *testing.T) {
	if got := CompareTimestamps("2025-03-01T10:00:00.5", "2025-03-01 10:00:00"); got <= 0 {
		t.Fatalf("expected fractional second to sort later, got %d", got)
	}
	if got := CompareTimestamps("2025-03-01T10:00:00Z", "2025-03-01T11:00:00+01:00"); got != 0 {
		t.Fatalf("expected equal instants across zones, got %d", got)
	}
	if got := CompareTimestamps("b", "a"); got <= 0 {
		t.Fatalf("expected lexical fallback, got %d", got)
	}
}

func TestMaxTimestamp(t *testing.T) {
	points := []RawDatapoint{
		{ID: 1, Timestamp: "2025-03-01T10:00:02"},
		{ID: 2, Timestamp: "2025-03-01T10:00:09"},
		{ID: 3, Timestamp: "2025-03-01T10:00:05"},
	}
	if got := MaxTimestamp(points); got != "2025-03-01T10:00:09" {
		t.Fatalf("unexpected max timestamp %q", got)
	}
	if got := MaxTimestamp(nil); got != "" {
		t.Fatalf("expected empty max for empty batch, got %q", got)
	}
}

func TestRawDatapointWireShape(t *testing.T) {
	var p RawDatapoint
	body := `{"id":7,"datetime":"2025-03-01T10:00:00","data_blob":"1,2,3"}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != 7 || p.Timestamp != "2025-03-01T10:00:00" || string(p.Payload) != `"1,2,3"` {
		t.Fatalf("unexpected datapoint %+v", p)
	}
}

func TestRowCSVRecordMatchesHeader(t *testing.T) {
	r := Row{SequenceIndex: 3, Timestamp: "ts", AccelX: 1.5, DAC4: 0.25}
	rec := r.CSVRecord()
	if len(rec) != len(CSVHeader()) {
		t.Fatalf("record has %d fields, header %d", len(rec), len(CSVHeader()))
	}
	if rec[0] != "3" || rec[1] != "ts" || rec[5] != "1.5" || rec[14] != "0.25" {
		t.Fatalf("unexpected record %v", rec)
	}
	if r.Format(ColAccelX) != "1.500000" {
		t.Fatalf("unexpected formatted accel %q", r.Format(ColAccelX))
	}
}

func TestCursorSinceDefaultsToEpoch(t *testing.T) {
	var c Cursor
	if c.Initialized() || c.Since() != EpochTimestamp {
		t.Fatalf("expected uninitialised cursor to fall back to epoch, got %+v", c)
	}
	c.LastSeen = "2025-01-01T00:00:00"
	if !c.Initialized() || c.Since() != c.LastSeen {
		t.Fatalf("expected cursor since to be last seen, got %q", c.Since())
	}
}
