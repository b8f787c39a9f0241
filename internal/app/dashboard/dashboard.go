package dashboard

import (
	"context"
	"time"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/account"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/loader"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/sessions"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/state"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/window"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

// Device is the connection panel.
type Device struct {
	State     loader.ConnState
	Failures  int
	LastError string
	Cursor    domain.Cursor
}

// Frame is everything drawn in one update. Panels that are not visible are left zero.
type Frame struct {
	At     time.Time
	Layout state.Panel

	Account       account.Info
	Sessions      []domain.Session
	SessionsError string
	Selected      string
	Device        Device
	Data          *window.Snapshot
	Decision      loader.Decision
}

// Dashboard owns the shared store, the panels and the data window.
type Dashboard struct {
	store    *state.Store
	login    *account.LoginPanel
	sessions *sessions.Panel
	data     *window.DataWindow
	obs      ports.Observability

	events <-chan state.Event
	cancel func()
}

func New(gw ports.Gateway, q ports.ResultQueue, pol ports.Policy, obs ports.Observability, journal ports.Journal) *Dashboard {
	store := state.NewStore()
	events, cancel := store.Subscribe(32)
	return &Dashboard{
		store:    store,
		login:    account.NewLoginPanel(gw, store, obs),
		sessions: sessions.NewPanel(gw, store, obs),
		data:     window.New(gw, q, pol, obs, journal),
		obs:      obs,
		events:   events,
		cancel:   cancel,
	}
}

func (d *Dashboard) Store() *state.Store { return d.store }
func (d *Dashboard) Login() *account.LoginPanel { return d.login }
func (d *Dashboard) Sessions() *sessions.Panel { return d.sessions }
func (d *Dashboard) Data() *window.DataWindow { return d.data }

// Update draws one frame. Only visible panels are updated, so a logged-out
// dashboard never reaches the backend.
func (d *Dashboard) Update(ctx context.Context, now time.Time) Frame {
	d.drainEvents()

	snap := d.store.Snapshot()
	f := Frame{At: now, Layout: state.LayoutFor(snap)}

	if f.Layout.Has(state.PanelLogin) || f.Layout.Has(state.PanelAccount) {
		f.Account = d.login.Info()
	}
	if f.Layout.Has(state.PanelSessions) {
		if err := d.sessions.EnsureLoaded(ctx); err != nil {
			f.SessionsError = err.Error()
		}
		f.Sessions = d.sessions.Sessions()
		f.Selected = snap.Session
	}
	if f.Layout.Has(state.PanelData) {
		f.Decision = d.data.Tick(ctx, snap.Session, now)
		if snap.Session != "" {
			s := d.data.Snapshot()
			f.Data = &s
		}
	}
	if f.Layout.Has(state.PanelDevice) {
		f.Device = d.device()
	}
	return f
}

// Wait blocks until in-flight fetches have queued their results.
func (d *Dashboard) Wait() { d.data.Wait() }

// Close stops listening to the store and waits for outstanding fetches.
func (d *Dashboard) Close() {
	d.cancel()
	d.data.Wait()
}

func (d *Dashboard) device() Device {
	s := d.data.Snapshot()
	return Device{State: s.State, Failures: s.Failures, LastError: s.LastError, Cursor: s.Cursor}
}

func (d *Dashboard) drainEvents() {
	for {
		select {
		case ev, ok := <-d.events:
			if !ok {
				return
			}
			d.handle(ev)
		default:
			return
		}
	}
}

func (d *Dashboard) handle(ev state.Event) {
	switch ev.Kind {
	case state.EventLogin:
		d.sessions.Invalidate()
	case state.EventLogout:
		// the data panel is hidden from now on, so nothing else would clear it
		d.sessions.Invalidate()
		d.data.Reset()
	case state.EventSessionChanged:
		d.data.FirstPage()
	}
	d.obs.LogInfo("state_changed",
		ports.Field{Key: "event", Value: ev.Kind.String()},
		ports.Field{Key: "username", Value: ev.Username},
		ports.Field{Key: "session", Value: ev.Session})
}
