package journal

import (
	"context"
	"errors"
	"strconv"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

var ErrReadOnly = errors.New("journal replay is read-only")

// ReplayGateway serves recorded sessions out of a journal, so the dashboard can be
// driven without a backend. Any credentials are accepted.
type ReplayGateway struct {
	journal ports.Journal
}

func NewReplayGateway(j ports.Journal) *ReplayGateway {
	return &ReplayGateway{journal: j}
}

func (g *ReplayGateway) FetchAll(ctx context.Context, sessionID string) ([]domain.RawDatapoint, error) {
	return g.collect(ctx, sessionID, func(domain.RawDatapoint) bool { return true })
}

func (g *ReplayGateway) FetchSince(ctx context.Context, sessionID, since string) ([]domain.RawDatapoint, error) {
	return g.collect(ctx, sessionID, func(p domain.RawDatapoint) bool {
		return domain.CompareTimestamps(p.Timestamp, since) > 0
	})
}

func (g *ReplayGateway) collect(ctx context.Context, sessionID string, keep func(domain.RawDatapoint) bool) ([]domain.RawDatapoint, error) {
	out := []domain.RawDatapoint{}
	err := g.journal.Iterate(sessionID, 0, func(_ ports.JournalEntryID, p domain.RawDatapoint) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if keep(p) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListSessions returns every journaled session with a numeric id, attributed to userID.
func (g *ReplayGateway) ListSessions(_ context.Context, userID string) ([]domain.Session, error) {
	ids, err := g.journal.Sessions()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Session, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, domain.Session{ID: n, Username: userID})
	}
	return out, nil
}

// Logout has nothing to end; replay never holds a backend session.
func (g *ReplayGateway) Logout(context.Context) error { return nil }

func (g *ReplayGateway) CreateSession(context.Context, string) error { return ErrReadOnly }

func (g *ReplayGateway) CreateUser(context.Context, string, string) error { return ErrReadOnly }

func (g *ReplayGateway) Login(context.Context, string, string) error { return nil }

var _ ports.Gateway = (*ReplayGateway)(nil)
