package datadisplay

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfFromConfigAndStreamBuilder(t *testing.T) {
	cfg := testConfig(t)

	flow, err := ConfFromConfig(cfg)
	if err != nil {
		t.Fatalf("ConfFromConfig returned error: %v", err)
	}
	if flow.Config() != cfg {
		t.Fatalf("expected Config to be returned verbatim")
	}

	gw := &stubGateway{}
	j := &stubJournal{}
	display, _, closeFn := NewChannelDisplay("chan", 1)
	defer closeFn()

	rt, err := flow.
		In(
			InGateway(gw),
			InJournal(j),
			InSession("7"),
			InObservability(&stubObservability{}),
		).
		Out(
			OutDisplay(display),
			OutObservability(&stubObservability{}),
		)
	if err != nil {
		t.Fatalf("Out returned error: %v", err)
	}
	if rt.gw != gw {
		t.Fatalf("expected custom gateway to be wired")
	}
	if rt.journal != j {
		t.Fatalf("expected custom journal to be wired")
	}
	if rt.session != "7" {
		t.Fatalf("expected session 7, got %q", rt.session)
	}
	if len(rt.displays) != 1 || rt.displays[0] != display {
		t.Fatalf("expected display to be wired")
	}
}

func TestFlowRunUsesOutOptions(t *testing.T) {
	flow, err := ConfFromConfig(testConfig(t), WithFlowOptions(WithoutMetricsServer()))
	if err != nil {
		t.Fatalf("ConfFromConfig returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	// Stop immediately; Run still logs in and draws one frame.
	cancel()

	var frames int
	gw := &stubGateway{}
	if err := flow.In(
		InGateway(gw),
		InObservability(&stubObservability{}),
	).Run(ctx,
		OutCallback("count", func(Frame) error { frames++; return nil }),
	); err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if frames != 1 || gw.logins != 1 {
		t.Fatalf("expected one frame after login, got frames=%d logins=%d", frames, gw.logins)
	}
}

func TestConfFromNilConfig(t *testing.T) {
	if _, err := ConfFromConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestOutViewOptionsShapeFrames(t *testing.T) {
	flow, err := ConfFromConfig(testConfig(t), WithFlowOptions(WithoutMetricsServer()))
	if err != nil {
		t.Fatalf("ConfFromConfig returned error: %v", err)
	}

	rt, err := flow.
		In(InGateway(&stubGateway{points: points(3)}), InSession("7"), InObservability(&stubObservability{})).
		Out(OutView("accel", "graph"), OutTheme(LightMode), OutNewestFirst())
	if err != nil {
		t.Fatalf("Out returned error: %v", err)
	}
	defer rt.Shutdown(context.Background())

	ctx := context.Background()
	if err := rt.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	rt.Frame(ctx, time.Now())
	rt.Dashboard().Wait()
	f := rt.Frame(ctx, time.Now())
	if f.Data == nil {
		t.Fatalf("expected a data panel")
	}
	if f.Data.Selection != AccelData || f.Data.Display != DisplayGraph || f.Data.Theme != LightMode {
		t.Fatalf("unexpected view %s/%s/%s", f.Data.Selection, f.Data.Display, f.Data.Theme)
	}
	if f.Data.Ascending || len(f.Data.Series) == 0 || f.Data.Panes.Table {
		t.Fatalf("expected newest-first graph only, got %+v", f.Data.Panes)
	}
	if len(f.Data.Rows) != 3 || f.Data.Rows[0].SequenceIndex != 2 {
		t.Fatalf("expected newest row first, got %+v", f.Data.Rows)
	}
}

func TestOutRejectsBadViewAndSession(t *testing.T) {
	flow, err := ConfFromConfig(testConfig(t))
	if err != nil {
		t.Fatalf("ConfFromConfig returned error: %v", err)
	}
	_, err = flow.In(InSession("seven")).Out(OutView("gps", "table"))
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), `unknown selection "gps"`) {
		t.Fatalf("expected the selection error to be reported too, got %v", err)
	}
}

func TestInReplayRequiresJournal(t *testing.T) {
	flow, err := ConfFromConfig(testConfig(t))
	if err != nil {
		t.Fatalf("ConfFromConfig returned error: %v", err)
	}
	if _, err := flow.In(InReplay(nil)).Out(); err == nil {
		t.Fatalf("expected error for replay without a journal")
	}

	flow, _ = ConfFromConfig(testConfig(t))
	rt, err := flow.In(InReplay(&stubJournal{}), InObservability(&stubObservability{})).Out()
	if err != nil {
		t.Fatalf("Out returned error: %v", err)
	}
	if !rt.noMetrics {
		t.Fatalf("replay must not start the metrics listener")
	}
	if err := rt.gw.Login(context.Background(), "replay", "x"); err != nil {
		t.Fatalf("replay gateway login: %v", err)
	}
}
