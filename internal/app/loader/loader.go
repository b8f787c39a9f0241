package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

// Decision is what a call to Poll did.
type Decision int

const (
	NoSession Decision = iota
	Skipped
	BackingOff
	FetchAll
	FetchSince
)

func (d Decision) String() string {
	switch d {
	case NoSession:
		return "no_session"
	case Skipped:
		return "skipped"
	case BackingOff:
		return "backing_off"
	case FetchAll:
		return "fetch_all"
	case FetchSince:
		return "fetch_since"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// ConnState summarises recent fetch outcomes for the device panel.
type ConnState int

const (
	Connecting ConnState = iota
	Online
	Offline
	Degraded
)

func (c ConnState) String() string {
	switch c {
	case Online:
		return "ONLINE"
	case Offline:
		return "OFFLINE"
	case Degraded:
		return "DEGRADED"
	}
	return "CONNECTING"
}

// Loader owns the raw datapoint buffer of the selected session and decides when to fetch.
// Poll and Apply must be called from the same goroutine; fetches run on their own
// goroutines and only ever talk back through the result queue.
type Loader struct {
	gw     ports.Gateway
	queue  ports.ResultQueue
	obs    ports.Observability
	policy ports.Policy

	cursor     domain.Cursor
	generation uint64
	epoch      uint64
	raw        []domain.RawDatapoint
	seen       map[int64]struct{}
	dirty      bool

	needFirst     bool
	firstInFlight bool
	primed        bool
	lastPoll      time.Time

	failures    int
	nextAllowed time.Time
	lastErr     error
	lastSuccess time.Time

	wg sync.WaitGroup
}

func New(gw ports.Gateway, q ports.ResultQueue, pol ports.Policy, obs ports.Observability) *Loader {
	return &Loader{
		gw:     gw,
		queue:  q,
		obs:    obs,
		policy: pol.WithDefaults(),
		seen:   make(map[int64]struct{}),
	}
}

// Poll resets state on a session change and fires a fetch when one is due.
// It never blocks on the network.
func (l *Loader) Poll(ctx context.Context, sessionID string, now time.Time) Decision {
	if sessionID != l.cursor.SessionID {
		l.reset(sessionID)
	}
	if sessionID == "" {
		return NoSession
	}
	if l.firstInFlight {
		return Skipped
	}
	if now.Before(l.nextAllowed) {
		return BackingOff
	}
	if !l.needFirst && l.primed && now.Sub(l.lastPoll) < l.policy.RefreshInterval {
		return Skipped
	}

	l.lastPoll = now
	req := request{sessionID: sessionID, generation: l.generation}
	if l.needFirst {
		l.needFirst = false
		l.firstInFlight = true
		req.first = true
	} else {
		req.since = l.cursor.Since()
	}

	l.wg.Add(1)
	go l.fetch(ctx, req)

	if req.first {
		return FetchAll
	}
	return FetchSince
}

// Apply folds a fetch result into the buffer. Results for another session or an older
// generation are discarded. It returns the datapoints that were new to the buffer.
func (l *Loader) Apply(now time.Time, r ports.FetchResult) ([]domain.RawDatapoint, bool) {
	if r.SessionID != l.cursor.SessionID || r.Generation != l.generation {
		l.obs.IncCounter("datadisplay_fetch_stale_total", 1)
		l.obs.LogInfo("fetch_result_discarded",
			ports.Field{Key: "session", Value: r.SessionID},
			ports.Field{Key: "current_session", Value: l.cursor.SessionID})
		return nil, false
	}
	if r.First {
		l.firstInFlight = false
	}

	if r.Err != nil {
		l.failures++
		l.lastErr = r.Err
		if r.First {
			l.needFirst = true
		}
		l.nextAllowed = now.Add(l.backoff())
		l.obs.IncCounter("datadisplay_fetch_failed_total", 1)
		l.obs.SetGauge("datadisplay_consecutive_failures", float64(l.failures))
		l.obs.LogError("fetch_failed", r.Err,
			ports.Field{Key: "session", Value: r.SessionID},
			ports.Field{Key: "first", Value: r.First},
			ports.Field{Key: "failures", Value: l.failures})
		return nil, true
	}

	l.failures = 0
	l.lastErr = nil
	l.nextAllowed = time.Time{}
	l.lastSuccess = now
	l.primed = true
	l.obs.SetGauge("datadisplay_consecutive_failures", 0)
	l.obs.IncCounter("datadisplay_fetch_total", 1)
	l.obs.ObserveLatency("datadisplay_fetch_latency_seconds", r.Latency.Seconds())

	if r.First {
		l.raw = nil
		l.seen = make(map[int64]struct{}, len(r.Points))
		l.epoch++
		l.dirty = true
	}

	accepted := make([]domain.RawDatapoint, 0, len(r.Points))
	for _, p := range r.Points {
		if _, dup := l.seen[p.ID]; dup {
			continue
		}
		l.seen[p.ID] = struct{}{}
		l.raw = append(l.raw, p)
		accepted = append(accepted, p)
	}

	if len(accepted) > 0 {
		l.dirty = true
		if max := domain.MaxTimestamp(accepted); l.cursor.LastSeen == "" || domain.CompareTimestamps(max, l.cursor.LastSeen) > 0 {
			l.cursor.LastSeen = max
		}
	}
	l.cursor.RawCount = len(l.raw)
	return accepted, true
}

// Drain applies every queued result and returns the accepted datapoints in arrival order.
func (l *Loader) Drain(now time.Time) []domain.RawDatapoint {
	var accepted []domain.RawDatapoint
	batch := l.queue.DequeueBatch(0)
	l.obs.SetGauge("datadisplay_result_queue_length", float64(len(batch)))
	for _, r := range batch {
		pts, _ := l.Apply(now, r)
		accepted = append(accepted, pts...)
	}
	return accepted
}

// Wait blocks until every in-flight fetch has delivered its result.
func (l *Loader) Wait() { l.wg.Wait() }

func (l *Loader) Raw() []domain.RawDatapoint { return l.raw }

func (l *Loader) Cursor() domain.Cursor { return l.cursor }

// Epoch changes whenever the buffer is replaced rather than extended.
func (l *Loader) Epoch() uint64 { return l.epoch }

func (l *Loader) Dirty() bool { return l.dirty }

func (l *Loader) MarkClean() { l.dirty = false }

func (l *Loader) Failures() int { return l.failures }

func (l *Loader) LastError() error { return l.lastErr }

// Degraded is set once FailureThreshold consecutive fetches have failed.
func (l *Loader) Degraded() bool { return l.failures >= l.policy.FailureThreshold }

func (l *Loader) State() ConnState {
	switch {
	case l.Degraded():
		return Degraded
	case l.failures > 0:
		return Offline
	case !l.lastSuccess.IsZero():
		return Online
	}
	return Connecting
}

// Reset drops the buffer and cursor as if no session were selected. Results of
// fetches still in flight are discarded when they arrive.
func (l *Loader) Reset() { l.reset("") }

func (l *Loader) reset(sessionID string) {
	l.generation++
	l.epoch++
	l.cursor = domain.Cursor{SessionID: sessionID}
	l.raw = nil
	l.seen = make(map[int64]struct{})
	l.dirty = true
	l.needFirst = sessionID != ""
	l.firstInFlight = false
	l.primed = false
	l.lastPoll = time.Time{}
	l.failures = 0
	l.lastErr = nil
	l.nextAllowed = time.Time{}
	l.lastSuccess = time.Time{}
}

func (l *Loader) backoff() time.Duration {
	d := l.policy.BackoffInitial
	for i := 1; i < l.failures && d < l.policy.BackoffMax; i++ {
		d *= 2
	}
	if d > l.policy.BackoffMax {
		d = l.policy.BackoffMax
	}
	return d
}
