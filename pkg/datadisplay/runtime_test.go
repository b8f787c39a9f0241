package datadisplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type stubGateway struct {
	mu     sync.Mutex
	points []RawDatapoint
	logins int
}

func (g *stubGateway) FetchAll(context.Context, string) ([]RawDatapoint, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]RawDatapoint(nil), g.points...), nil
}

func (g *stubGateway) FetchSince(context.Context, string, string) ([]RawDatapoint, error) {
	return nil, nil
}

func (g *stubGateway) ListSessions(_ context.Context, user string) ([]Session, error) {
	return []Session{{ID: 2, Username: user}, {ID: 5, Username: user}}, nil
}

func (g *stubGateway) CreateSession(context.Context, string) error { return nil }

func (g *stubGateway) CreateUser(context.Context, string, string) error { return nil }

func (g *stubGateway) Login(context.Context, string, string) error {
	g.mu.Lock()
	g.logins++
	g.mu.Unlock()
	return nil
}

func (g *stubGateway) Logout(context.Context) error { return nil }

type stubQueue struct{}

func (s *stubQueue) Enqueue(FetchResult) bool { return true }
func (s *stubQueue) DequeueBatch(int) []FetchResult { return nil }
func (s *stubQueue) Len() int { return 0 }

type stubJournal struct{}

func (s *stubJournal) Append(string, []RawDatapoint) (JournalEntryID, error) { return 0, nil }
func (s *stubJournal) Iterate(string, JournalEntryID, func(JournalEntryID, RawDatapoint) error) error {
	return nil
}
func (s *stubJournal) Sessions() ([]string, error) { return nil, nil }
func (s *stubJournal) Stats() JournalStats { return JournalStats{} }

type stubObservability struct{}

func (s *stubObservability) LogInfo(string, ...Field) {}
func (s *stubObservability) LogError(string, error, ...Field) {}
func (s *stubObservability) LogCritical(string, error, ...Field) {}
func (s *stubObservability) IncCounter(string, float64) {}
func (s *stubObservability) ObserveLatency(string, float64) {}
func (s *stubObservability) SetGauge(string, float64) {}
func (s *stubObservability) RecordDecodeFailure(string, RawDatapoint, error) {}

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.API.Username = "alice"
	cfg.API.Password = "pw"
	cfg.Metrics.Addr = ":0"
	cfg.Journal.Dir = t.TempDir()
	return cfg
}

func points(n int) []RawDatapoint {
	out := make([]RawDatapoint, 0, n)
	for i := 1; i <= n; i++ {
		blob, _ := json.Marshal([]float64{float64(i), 0, 0, 1, 2, 3, 0, 0, 0, 0, 0, 0, 0})
		out = append(out, RawDatapoint{ID: int64(i), Timestamp: fmt.Sprintf("2025-03-01T10:00:%02d", i), Payload: blob})
	}
	return out
}

func TestNewRuntimeWithCustomAdapters(t *testing.T) {
	gw := &stubGateway{}
	q := &stubQueue{}
	j := &stubJournal{}
	obs := &stubObservability{}

	rt, err := NewRuntime(testConfig(t),
		WithGateway(gw),
		WithResultQueue(q),
		WithJournal(j),
		WithObservability(obs),
		WithoutMetricsServer(),
	)
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}

	if rt.gw != gw {
		t.Fatalf("expected custom gateway to be used")
	}
	if rt.queue != q {
		t.Fatalf("expected custom queue to be used")
	}
	if rt.journal != j {
		t.Fatalf("expected custom journal to be used")
	}
	if rt.ownJournal != nil {
		t.Fatalf("expected no file journal when a custom one is provided")
	}
	if rt.obs != obs {
		t.Fatalf("expected custom observability to be used")
	}
}

func TestNewRuntimeOpensConfiguredJournal(t *testing.T) {
	rt, err := NewRuntime(testConfig(t), WithGateway(&stubGateway{}), WithObservability(&stubObservability{}))
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}
	if rt.ownJournal == nil || rt.journal == nil {
		t.Fatalf("expected file journal from journal.dir")
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestRuntimeStartSelectsLatestSession(t *testing.T) {
	gw := &stubGateway{points: points(3)}
	var frames []Frame
	rt, err := NewRuntime(testConfig(t),
		WithGateway(gw),
		WithObservability(&stubObservability{}),
		WithSession(LatestSession),
		WithDisplay(NewCallbackDisplay("collect", func(f Frame) error {
			frames = append(frames, f)
			return nil
		})),
		WithoutMetricsServer(),
	)
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}
	ctx := context.Background()
	if err := rt.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer rt.Shutdown(ctx)

	if gw.logins != 1 {
		t.Fatalf("expected a login with configured credentials")
	}
	if got := rt.Dashboard().Store().Session(); got != "5" {
		t.Fatalf("expected latest session 5, got %q", got)
	}

	now := time.Now()
	rt.Frame(ctx, now)
	rt.Dashboard().Wait()
	f := rt.Frame(ctx, now.Add(10*time.Millisecond))

	if len(frames) != 2 {
		t.Fatalf("expected 2 frames delivered, got %d", len(frames))
	}
	if f.Data == nil || f.Data.Total != 3 {
		t.Fatalf("expected 3 rows in the data panel, got %+v", f.Data)
	}
	stats := rt.ownJournal.Stats()
	if stats.LatestAppended != 3 {
		t.Fatalf("expected received datapoints journaled, got %+v", stats)
	}
}

func TestRuntimeRejectsBadSession(t *testing.T) {
	rt, err := NewRuntime(testConfig(t),
		WithGateway(&stubGateway{}),
		WithObservability(&stubObservability{}),
		WithSession("abc"),
		WithoutMetricsServer(),
	)
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}
	defer rt.Shutdown(context.Background())
	if err := rt.Start(context.Background()); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
