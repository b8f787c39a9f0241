package datadisplay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/journal"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/mockapi"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/sink"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/format"
)

// ErrEmptySession is returned by ExportSession when the session has no datapoints.
var ErrEmptySession = errors.New("datadisplay: session has no datapoints")

// ExportSession fetches every datapoint of a session, formats it and writes the rows
// to s in ascending order. Datapoints that do not decode are skipped.
func ExportSession(ctx context.Context, gw Gateway, sessionID string, s RowSink, obs Observability) (int, error) {
	raw, err := gw.FetchAll(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("fetch session %s: %w", sessionID, err)
	}
	if len(raw) == 0 {
		return 0, ErrEmptySession
	}

	fm := format.NewFormatter(obs)
	fm.Format(sessionID, raw)
	rows := fm.AscendingRows()
	if err := s.WriteBatch(sessionID, rows); err != nil {
		return 0, fmt.Errorf("export to %s: %w", s.Name(), err)
	}
	obs.IncCounter("datadisplay_rows_exported_total", float64(len(rows)))
	obs.LogInfo("session_exported",
		Field{Key: "session", Value: sessionID},
		Field{Key: "sink", Value: s.Name()},
		Field{Key: "rows", Value: len(rows)})
	return len(rows), nil
}

// NewCSVSink writes exported rows as CSV with a header line.
func NewCSVSink(w io.Writer) RowSink {
	return sink.NewCSVSink(w)
}

// OpenPostgresSink connects to Postgres and makes sure the export table exists.
// The returned close function releases the connection pool.
func OpenPostgresSink(cfg ExportConfig) (RowSink, func() error, error) {
	if cfg.ConnString == "" {
		return nil, nil, fmt.Errorf("export.conn_string is required")
	}
	db, err := sql.Open("postgres", cfg.ConnString)
	if err != nil {
		return nil, nil, err
	}
	ps := sink.NewPostgresSink(db, cfg.Table)
	if err := ps.EnsureTable(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create export table: %w", err)
	}
	return ps, db.Close, nil
}

// OpenJournal opens (or creates) a datapoint journal directory.
func OpenJournal(dir string) (*journal.FileJournal, error) {
	return journal.NewFileJournal(dir)
}

// NewReplayGateway serves recorded sessions out of a journal.
func NewReplayGateway(j Journal) Gateway {
	return journal.NewReplayGateway(j)
}

// ErrReadOnly is returned by replay gateways for write calls.
var ErrReadOnly = journal.ErrReadOnly

// MockBackend is the in-memory development backend.
type MockBackend = mockapi.Backend

// NewMockBackend returns an empty development backend.
func NewMockBackend() *MockBackend {
	return mockapi.NewBackend()
}

// NewMockGenerator returns a generator appending random samples to backend sessions.
func NewMockGenerator(b *MockBackend, interval time.Duration, seed int64) *mockapi.Generator {
	return mockapi.NewGenerator(b, interval, seed)
}

// MockHandler exposes the development backend over HTTP.
func MockHandler(b *MockBackend) http.Handler {
	return mockapi.NewRouter(b)
}
