package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestBackend() *Backend {
	b := NewBackend()
	b.cost = bcrypt.MinCost
	return b
}

func TestBackendSessionsAndDatapoints(t *testing.T) {
	b := newTestBackend()
	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	if err := b.Register("alice", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := b.Register("alice", "pw"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := b.Authenticate("alice", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	token, err := b.Authenticate("alice", "pw")
	if err != nil || token == "" {
		t.Fatalf("authenticate: %v", err)
	}
	if u, ok := b.TokenUser(token); !ok || u != "alice" {
		t.Fatalf("token should resolve to alice, got %q", u)
	}

	s, err := b.CreateSession("alice")
	if err != nil || s.ID != 1 {
		t.Fatalf("create session: %v %+v", err, s)
	}
	if _, err := b.CreateSession("bob"); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}

	g := NewGenerator(b, time.Millisecond, 1)
	for i := 0; i < 3; i++ {
		if _, err := b.Record(s.ID, g.Sample()); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	all, _ := b.Datapoints(s.ID, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 datapoints, got %d", len(all))
	}
	since, _ := b.Datapoints(s.ID, all[0].Timestamp)
	if len(since) != 2 || since[0].ID != all[1].ID {
		t.Fatalf("unexpected since result %+v", since)
	}
	if _, err := b.Datapoints(99, ""); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}

	var blob map[string]float64
	if err := json.Unmarshal(all[0].Payload, &blob); err != nil || len(blob) != 13 {
		t.Fatalf("unexpected blob %s: %v", all[0].Payload, err)
	}
}

func TestGeneratorRanges(t *testing.T) {
	g := NewGenerator(newTestBackend(), 0, 7)
	for i := 0; i < 100; i++ {
		v := g.Sample()
		if v[0] < -90 || v[0] > 90 || v[2] < 100 || v[2] > 1000 || v[9] < 0 || v[9] > 5 {
			t.Fatalf("sample out of range: %v", v)
		}
	}
}

func TestGeneratorRunStopsAtLimit(t *testing.T) {
	b := newTestBackend()
	b.Register("alice", "pw")
	s, _ := b.CreateSession("alice")

	if err := NewGenerator(b, time.Millisecond, 1).Run(context.Background(), s.ID, 4); err != nil {
		t.Fatalf("run: %v", err)
	}
	pts, _ := b.Datapoints(s.ID, "")
	if len(pts) != 4 {
		t.Fatalf("expected 4 generated datapoints, got %d", len(pts))
	}
	if err := NewGenerator(b, time.Millisecond, 1).Run(context.Background(), 42, 1); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
}

func TestRouterRequiresToken(t *testing.T) {
	b := newTestBackend()
	b.Register("alice", "pw")
	srv := httptest.NewServer(NewRouter(b))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/users/alice/sessions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}

	resp, err = http.Post(srv.URL+"/users", "application/json", strings.NewReader(`{"username":"alice","password":"pw"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate user, got %d", resp.StatusCode)
	}
}

func authorized(t *testing.T, method, url, token, body string) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestRouterRejectsOtherUsersToken(t *testing.T) {
	b := newTestBackend()
	b.Register("alice", "pw")
	b.Register("bob", "pw")
	s, err := b.CreateSession("alice")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	bobToken, err := b.Authenticate("bob", "pw")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	srv := httptest.NewServer(NewRouter(b))
	defer srv.Close()

	if got := authorized(t, http.MethodGet, srv.URL+"/users/alice/sessions", bobToken, ""); got != http.StatusForbidden {
		t.Fatalf("listing another user's sessions: expected 403, got %d", got)
	}
	if got := authorized(t, http.MethodPost, srv.URL+"/sessions", bobToken, `{"username":"alice"}`); got != http.StatusForbidden {
		t.Fatalf("creating a session for another user: expected 403, got %d", got)
	}
	if got := authorized(t, http.MethodGet, srv.URL+"/sessions/"+strconv.FormatInt(s.ID, 10)+"/datapoints", bobToken, ""); got != http.StatusForbidden {
		t.Fatalf("reading another user's datapoints: expected 403, got %d", got)
	}
	if got := authorized(t, http.MethodGet, srv.URL+"/users/bob/sessions", bobToken, ""); got != http.StatusOK {
		t.Fatalf("listing own sessions: expected 200, got %d", got)
	}
	if n := len(b.Sessions("alice")); n != 1 {
		t.Fatalf("alice should still have one session, got %d", n)
	}
}

func TestRouterLogoutRevokesToken(t *testing.T) {
	b := newTestBackend()
	b.Register("alice", "pw")
	token, err := b.Authenticate("alice", "pw")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	srv := httptest.NewServer(NewRouter(b))
	defer srv.Close()

	if got := authorized(t, http.MethodPost, srv.URL+"/auth/logout", token, ""); got != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", got)
	}
	if _, ok := b.TokenUser(token); ok {
		t.Fatalf("token still valid after logout")
	}
	if got := authorized(t, http.MethodGet, srv.URL+"/users/alice/sessions", token, ""); got != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a revoked token, got %d", got)
	}
}
