package sessions

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/account"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/state"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

// Panel lists the user's recording sessions and starts new ones.
type Panel struct {
	gw       ports.Gateway
	store    *state.Store
	obs      ports.Observability
	sessions []domain.Session
	loaded   bool
}

func NewPanel(gw ports.Gateway, store *state.Store, obs ports.Observability) *Panel {
	return &Panel{gw: gw, store: store, obs: obs}
}

// Refresh reloads the session list of the logged-in user. On failure the previous
// list is kept.
func (p *Panel) Refresh(ctx context.Context) error {
	user := p.store.Username()
	if user == "" {
		return account.ErrNotLoggedIn
	}
	list, err := p.gw.ListSessions(ctx, user)
	if err != nil {
		p.obs.LogError("session_fetch_failed", err, ports.Field{Key: "username", Value: user})
		return fmt.Errorf("list sessions: %w", err)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	p.sessions = list
	p.loaded = true
	p.obs.LogInfo("sessions_loaded", ports.Field{Key: "count", Value: len(list)})
	return nil
}

// EnsureLoaded refreshes once after login or after Invalidate.
func (p *Panel) EnsureLoaded(ctx context.Context) error {
	if p.loaded {
		return nil
	}
	return p.Refresh(ctx)
}

// Invalidate drops the cached list so the next EnsureLoaded refetches it.
func (p *Panel) Invalidate() {
	p.loaded = false
	p.sessions = nil
}

// Create starts a new recording session and reloads the list.
func (p *Panel) Create(ctx context.Context) error {
	user := p.store.Username()
	if user == "" {
		return account.ErrNotLoggedIn
	}
	if err := p.gw.CreateSession(ctx, user); err != nil {
		p.obs.LogError("new_session_failed", err, ports.Field{Key: "username", Value: user})
		return fmt.Errorf("create session: %w", err)
	}
	p.obs.LogInfo("new_session", ports.Field{Key: "username", Value: user})
	p.loaded = false
	return p.Refresh(ctx)
}

// View selects a session for the data window.
func (p *Panel) View(id int64) {
	p.store.SelectSession(strconv.FormatInt(id, 10))
}

// Latest returns the newest session, if any.
func (p *Panel) Latest() (domain.Session, bool) {
	if len(p.sessions) == 0 {
		return domain.Session{}, false
	}
	return p.sessions[len(p.sessions)-1], true
}

func (p *Panel) Sessions() []domain.Session {
	return append([]domain.Session(nil), p.sessions...)
}
