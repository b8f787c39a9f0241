package observability

import (
	"os"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type PromObs struct {
	log      zerolog.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers on the default registry and logs JSON to stderr.
func NewPromObs() *PromObs {
	return NewPromObsWith(prometheus.DefaultRegisterer, zerolog.New(os.Stderr).With().Timestamp().Logger())
}

func NewPromObsWith(reg prometheus.Registerer, logger zerolog.Logger) *PromObs {
	fetches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datadisplay_fetch_total",
		Help: "Datapoint fetches that completed successfully.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datadisplay_fetch_failed_total",
		Help: "Datapoint fetches that returned an error or a non-success status.",
	})
	stale := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datadisplay_fetch_stale_total",
		Help: "Fetch results discarded because the session changed while in flight.",
	})
	formatted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datadisplay_rows_formatted_total",
		Help: "Raw datapoints turned into display rows.",
	})
	decodeFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datadisplay_decode_failed_total",
		Help: "Datapoints skipped because their data_blob could not be decoded.",
	})
	exported := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datadisplay_rows_exported_total",
		Help: "Rows written to an export sink.",
	})
	rows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datadisplay_display_rows",
		Help: "Rows in the display buffer of the selected session.",
	})
	queueLen := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datadisplay_result_queue_length",
		Help: "Fetch results waiting to be applied.",
	})
	failures := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datadisplay_consecutive_failures",
		Help: "Consecutive failed fetches for the selected session.",
	})
	journalSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datadisplay_journal_size_bytes",
		Help: "Size of the datapoint journal on disk.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "datadisplay_fetch_latency_seconds",
		Help:    "Round trip time of datapoint fetches.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	reg.MustRegister(fetches, failed, stale, formatted, decodeFailed, exported,
		rows, queueLen, failures, journalSize, latency)

	return &PromObs{
		log: logger,
		counters: map[string]prometheus.Counter{
			"datadisplay_fetch_total":          fetches,
			"datadisplay_fetch_failed_total":   failed,
			"datadisplay_fetch_stale_total":    stale,
			"datadisplay_rows_formatted_total": formatted,
			"datadisplay_decode_failed_total":  decodeFailed,
			"datadisplay_rows_exported_total":  exported,
		},
		gauges: map[string]prometheus.Gauge{
			"datadisplay_display_rows":         rows,
			"datadisplay_result_queue_length":  queueLen,
			"datadisplay_consecutive_failures": failures,
			"datadisplay_journal_size_bytes":   journalSize,
		},
		histos: map[string]prometheus.Observer{
			"datadisplay_fetch_latency_seconds": latency,
		},
	}
}

func withFields(ev *zerolog.Event, fields []ports.Field) *zerolog.Event {
	for _, f := range fields {
		ev = ev.Interface(f.Key, f.Value)
	}
	return ev
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	withFields(p.log.Info(), fields).Msg(msg)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	withFields(p.log.Error().Err(err), fields).Msg(msg)
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	withFields(p.log.WithLevel(zerolog.FatalLevel).Err(err), fields).Msg(msg)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordDecodeFailure(sessionID string, dp domain.RawDatapoint, err error) {
	p.IncCounter("datadisplay_decode_failed_total", 1)
	p.log.Warn().Err(err).
		Str("session", sessionID).
		Int64("datapoint", dp.ID).
		Str("datetime", dp.Timestamp).
		Msg("decode_failed")
}
