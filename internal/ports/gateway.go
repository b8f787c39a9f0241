package ports

import (
	"context"
	"fmt"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
)

// Gateway is the backend API the dashboard talks to.
type Gateway interface {
	FetchAll(ctx context.Context, sessionID string) ([]domain.RawDatapoint, error)
	FetchSince(ctx context.Context, sessionID, since string) ([]domain.RawDatapoint, error)
	ListSessions(ctx context.Context, userID string) ([]domain.Session, error)
	CreateSession(ctx context.Context, userID string) error
	CreateUser(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	// Logout ends the backend session. Later calls are unauthenticated.
	Logout(ctx context.Context) error
}

// StatusError is returned when the backend answers with a non-success status.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}
