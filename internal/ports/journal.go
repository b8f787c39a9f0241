package ports

import "github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"

type JournalEntryID uint64

// Journal keeps an append-only record of every datapoint received per session.
type Journal interface {
	Append(sessionID string, points []domain.RawDatapoint) (JournalEntryID, error)
	Iterate(sessionID string, from JournalEntryID, fn func(id JournalEntryID, p domain.RawDatapoint) error) error
	Sessions() ([]string, error)
	Stats() JournalStats
}

type JournalStats struct {
	Sessions       int
	LatestAppended JournalEntryID
	SizeBytes      int64
}
