package datadisplay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/gateway"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/journal"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/observability"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/queue"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/dashboard"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/loader"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/window"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

// LatestSession selects the newest session of the user at start.
const LatestSession = "latest"

// ErrInvalidSession is returned for a session that is neither numeric nor LatestSession.
var ErrInvalidSession = errors.New("datadisplay: invalid session id")

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	gateway       Gateway
	queue         ResultQueue
	journal       Journal
	observability Observability
	displays      []FrameDisplay
	session       string
	noMetrics     bool
	view          []func(*window.DataWindow)
}

// WithGateway injects a custom backend gateway (replay, fakes, other transports).
func WithGateway(gw Gateway) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.gateway = gw
	}
}

// WithResultQueue injects a custom result queue implementation.
func WithResultQueue(q ResultQueue) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.queue = q
	}
}

// WithJournal records received datapoints into j instead of the configured directory.
func WithJournal(j Journal) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.journal = j
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithDisplay adds a frame display.
func WithDisplay(d FrameDisplay) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.displays = append(o.displays, d)
	}
}

// WithSession selects a session once logged in. LatestSession picks the newest one.
func WithSession(id string) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.session = id
	}
}

// WithSelection picks the column group of the data panel.
func WithSelection(s Selection) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.view = append(o.view, func(w *window.DataWindow) { w.SetSelection(s) })
	}
}

// WithDisplayType picks which of the table, graph and map are drawn.
func WithDisplayType(d DisplayType) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.view = append(o.view, func(w *window.DataWindow) { w.SetDisplay(d) })
	}
}

// WithTheme sets the color theme reported in every frame.
func WithTheme(t Theme) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.view = append(o.view, func(w *window.DataWindow) { w.SetTheme(t) })
	}
}

// WithAscending orders rows oldest first when true and newest first otherwise.
func WithAscending(ascending bool) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.view = append(o.view, func(w *window.DataWindow) { w.SetAscending(ascending) })
	}
}

// WithoutMetricsServer skips the /metrics and /healthz listener.
func WithoutMetricsServer() RuntimeOption {
	return func(o *runtimeOverrides) {
		o.noMetrics = true
	}
}

// Runtime drives the dashboard: it logs in, ticks one frame per FrameInterval and
// hands every frame to the displays.
type Runtime struct {
	cfg        *Config
	policy     ports.Policy
	obs        ports.Observability
	gw         ports.Gateway
	queue      ports.ResultQueue
	journal    ports.Journal
	ownJournal *journal.FileJournal
	dash       *dashboard.Dashboard
	displays   []FrameDisplay
	session    string
	noMetrics  bool
	metricsSrv *http.Server
	connState  atomic.Int32
}

// NewRuntime bootstraps the default adapters (HTTP gateway, in-memory result queue,
// file journal when journal.dir is set, Prometheus observability). Any of them can be
// replaced with a RuntimeOption.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	pol := cfg.Policy.WithDefaults()

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	gw := overrides.gateway
	if gw == nil {
		gw = gateway.NewHTTPGateway(cfg.API.BaseURL, cfg.API.Timeout)
	}

	q := overrides.queue
	if q == nil {
		q = queue.NewMemQueue(pol.ResultQueueLen)
	}

	rt := &Runtime{
		cfg:       cfg,
		policy:    pol,
		obs:       obs,
		gw:        gw,
		queue:     q,
		displays:  overrides.displays,
		session:   overrides.session,
		noMetrics: overrides.noMetrics,
	}

	switch {
	case overrides.journal != nil:
		rt.journal = overrides.journal
	case cfg.Journal.Dir != "":
		fj, err := journal.NewFileJournal(cfg.Journal.Dir)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		rt.ownJournal = fj
		rt.journal = fj
	}

	rt.dash = dashboard.New(gw, q, pol, obs, rt.journal)
	for _, apply := range overrides.view {
		apply(rt.dash.Data())
	}
	return rt, nil
}

// Dashboard exposes the panels for interactive callers.
func (r *Runtime) Dashboard() *dashboard.Dashboard { return r.dash }

// Start logs in with the configured credentials, selects the requested session and
// launches the metrics server. It returns immediately; call Run to block on a context.
func (r *Runtime) Start(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	if r.cfg.API.Username != "" {
		if err := r.dash.Login().Login(ctx, r.cfg.API.Username, r.cfg.API.Password); err != nil {
			return err
		}
	}
	if err := r.selectSession(ctx); err != nil {
		return err
	}
	if !r.noMetrics {
		r.startMetrics()
	}
	return nil
}

func (r *Runtime) selectSession(ctx context.Context) error {
	if r.session == "" {
		return nil
	}
	panel := r.dash.Sessions()
	if r.session != LatestSession {
		id, err := strconv.ParseInt(r.session, 10, 64)
		if err != nil {
			return fmt.Errorf("session %q: %w", r.session, ErrInvalidSession)
		}
		panel.View(id)
		return nil
	}
	if err := panel.Refresh(ctx); err != nil {
		return err
	}
	latest, ok := panel.Latest()
	if !ok {
		return fmt.Errorf("user %s has no sessions", r.dash.Store().Username())
	}
	panel.View(latest.ID)
	return nil
}

// Run starts the runtime and draws frames until the provided context is cancelled.
// Upon cancellation it attempts a graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(r.policy.FrameInterval)
	defer ticker.Stop()

	r.Frame(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return r.Shutdown(shutdownCtx)
		case now := <-ticker.C:
			r.Frame(ctx, now)
		}
	}
}

// Frame draws one frame and hands it to every display.
func (r *Runtime) Frame(ctx context.Context, now time.Time) Frame {
	f := r.dash.Update(ctx, now)
	r.connState.Store(int32(f.Device.State))
	for _, d := range r.displays {
		if err := d.Show(f); err != nil {
			r.obs.LogError("display_failed", err, ports.Field{Key: "display", Value: d.Name()})
		}
	}
	return f
}

// Shutdown stops the metrics server, waits for in-flight fetches and closes the journal.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	r.dash.Close()

	if r.ownJournal != nil {
		if err := r.ownJournal.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if loader.ConnState(r.connState.Load()) == loader.Degraded {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("degraded"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.obs.LogError("metrics_server_exited", err, ports.Field{Key: "addr", Value: r.cfg.Metrics.Addr})
		}
	}()
}
