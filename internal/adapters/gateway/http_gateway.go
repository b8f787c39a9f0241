package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type datapointsResponse struct {
	Datapoints []domain.RawDatapoint `json:"datapoints"`
}

type sessionsResponse struct {
	Sessions []domain.Session `json:"sessions"`
}

type createSessionRequest struct {
	Username string `json:"username"`
}

// HTTPGateway talks to the backend API over HTTP. A successful Login stores a
// bearer token that is sent with every later request.
type HTTPGateway struct {
	base   string
	client *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) FetchAll(ctx context.Context, sessionID string) ([]domain.RawDatapoint, error) {
	return g.fetchDatapoints(ctx, "fetch all", sessionID, nil)
}

func (g *HTTPGateway) FetchSince(ctx context.Context, sessionID, since string) ([]domain.RawDatapoint, error) {
	params := url.Values{}
	params.Set("since", since)
	return g.fetchDatapoints(ctx, "fetch since", sessionID, params)
}

func (g *HTTPGateway) fetchDatapoints(ctx context.Context, op, sessionID string, params url.Values) ([]domain.RawDatapoint, error) {
	path := "/sessions/" + url.PathEscape(sessionID) + "/datapoints"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var out datapointsResponse
	if err := g.do(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Datapoints, nil
}

func (g *HTTPGateway) ListSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	var out sessionsResponse
	if err := g.do(ctx, "list sessions", http.MethodGet, "/users/"+url.PathEscape(userID)+"/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

func (g *HTTPGateway) CreateSession(ctx context.Context, userID string) error {
	return g.do(ctx, "create session", http.MethodPost, "/sessions", createSessionRequest{Username: userID}, nil)
}

func (g *HTTPGateway) CreateUser(ctx context.Context, username, password string) error {
	return g.do(ctx, "create user", http.MethodPost, "/users", credentials{Username: username, Password: password}, nil)
}

func (g *HTTPGateway) Login(ctx context.Context, username, password string) error {
	var out loginResponse
	if err := g.do(ctx, "login", http.MethodPost, "/auth/login", credentials{Username: username, Password: password}, &out); err != nil {
		return err
	}
	g.mu.Lock()
	g.token = out.Token
	g.mu.Unlock()
	return nil
}

// Logout revokes the bearer token on the backend and forgets it. The token is
// dropped even when the backend call fails.
func (g *HTTPGateway) Logout(ctx context.Context) error {
	g.mu.RLock()
	loggedIn := g.token != ""
	g.mu.RUnlock()
	if !loggedIn {
		return nil
	}

	err := g.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()
	return err
}

func (g *HTTPGateway) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.base+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	g.mu.RLock()
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	g.mu.RUnlock()

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &ports.StatusError{Op: op, Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

var _ ports.Gateway = (*HTTPGateway)(nil)
