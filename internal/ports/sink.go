package ports

import "github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"

type RowSink interface {
	WriteBatch(sessionID string, rows []domain.Row) error
	Name() string
}
