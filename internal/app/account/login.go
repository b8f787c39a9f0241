package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/state"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// LoginPanel authenticates against the backend and records the user in the store.
type LoginPanel struct {
	gw     ports.Gateway
	store  *state.Store
	obs    ports.Observability
	failed int
}

func NewLoginPanel(gw ports.Gateway, store *state.Store, obs ports.Observability) *LoginPanel {
	return &LoginPanel{gw: gw, store: store, obs: obs}
}

func (p *LoginPanel) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	if err := p.gw.Login(ctx, username, password); err != nil {
		p.failed++
		p.obs.LogError("login_failed", err,
			ports.Field{Key: "username", Value: username},
			ports.Field{Key: "failed_attempts", Value: p.failed})
		return fmt.Errorf("login %s: %w", username, err)
	}
	p.failed = 0
	p.store.Login(username)
	p.obs.LogInfo("login", ports.Field{Key: "username", Value: username})
	return nil
}

// Register creates the account and logs in with it.
func (p *LoginPanel) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	if err := p.gw.CreateUser(ctx, username, password); err != nil {
		p.obs.LogError("create_user_failed", err, ports.Field{Key: "username", Value: username})
		return fmt.Errorf("create user %s: %w", username, err)
	}
	p.obs.LogInfo("user_created", ports.Field{Key: "username", Value: username})
	return p.Login(ctx, username, password)
}

// Logout ends the backend session and clears the user. A failed backend call is
// logged; the local state is cleared regardless.
func (p *LoginPanel) Logout(ctx context.Context) error {
	if !p.store.LoggedIn() {
		return ErrNotLoggedIn
	}
	user := p.store.Username()
	if err := p.gw.Logout(ctx); err != nil {
		p.obs.LogError("logout_failed", err, ports.Field{Key: "username", Value: user})
	}
	p.store.Logout()
	p.obs.LogInfo("logout", ports.Field{Key: "username", Value: user})
	return nil
}

// FailedAttempts counts failed logins since the last success.
func (p *LoginPanel) FailedAttempts() int { return p.failed }

// Info is what the account panel shows.
type Info struct {
	LoggedIn       bool
	Username       string
	FailedAttempts int
}

func (p *LoginPanel) Info() Info {
	snap := p.store.Snapshot()
	return Info{LoggedIn: snap.LoggedIn, Username: snap.Username, FailedAttempts: p.failed}
}
