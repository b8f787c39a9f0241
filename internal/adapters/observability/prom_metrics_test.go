package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestPromObsMetrics(t *testing.T) {
	origReg := prometheus.DefaultRegisterer
	origGatherer := prometheus.DefaultGatherer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origReg
		prometheus.DefaultGatherer = origGatherer
	})

	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg

	obs := NewPromObs()

	obs.IncCounter("datadisplay_fetch_total", 5)
	if got := testutil.ToFloat64(obs.counters["datadisplay_fetch_total"]); got != 5 {
		t.Fatalf("expected fetch counter 5, got %f", got)
	}

	obs.IncCounter("datadisplay_fetch_stale_total", 2)
	if got := testutil.ToFloat64(obs.counters["datadisplay_fetch_stale_total"]); got != 2 {
		t.Fatalf("expected stale counter 2, got %f", got)
	}

	obs.SetGauge("datadisplay_display_rows", 42)
	if got := testutil.ToFloat64(obs.gauges["datadisplay_display_rows"]); got != 42 {
		t.Fatalf("expected rows gauge 42, got %f", got)
	}

	obs.ObserveLatency("datadisplay_fetch_latency_seconds", 0.5)
	hCollector := obs.histos["datadisplay_fetch_latency_seconds"].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected latency histogram to record 1 sample, got %d", samples)
	}

	obs.IncCounter("unknown_metric", 1)
	obs.SetGauge("unknown_metric", 1)

	if n, err := testutil.GatherAndCount(reg, "datadisplay_decode_failed_total"); err != nil || n != 1 {
		t.Fatalf("expected decode counter registered, got %d %v", n, err)
	}
}

func TestDecodeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	obs := NewPromObsWith(prometheus.NewRegistry(), zerolog.New(&buf))

	obs.RecordDecodeFailure("12", domain.RawDatapoint{ID: 9, Timestamp: "2025-03-01T10:00:00"}, errors.New("bad blob"))
	if got := testutil.ToFloat64(obs.counters["datadisplay_decode_failed_total"]); got != 1 {
		t.Fatalf("expected decode counter 1, got %f", got)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["message"] != "decode_failed" || line["session"] != "12" || line["datapoint"] != float64(9) {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestLogFields(t *testing.T) {
	var buf bytes.Buffer
	obs := NewPromObsWith(prometheus.NewRegistry(), zerolog.New(&buf))

	obs.LogError("fetch_failed", errors.New("boom"), ports.Field{Key: "session", Value: "3"})
	out := buf.String()
	if !strings.Contains(out, `"error":"boom"`) || !strings.Contains(out, `"session":"3"`) {
		t.Fatalf("missing fields in %q", out)
	}
}
