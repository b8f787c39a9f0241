package ports

import (
	"time"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
)

// FetchResult is what a fetch goroutine hands back to the UI tick.
// SessionID and Generation identify the request so stale results can be dropped.
type FetchResult struct {
	SessionID  string
	Generation uint64
	First      bool
	Points     []domain.RawDatapoint
	Err        error
	Latency    time.Duration
}

type ResultQueue interface {
	Enqueue(r FetchResult) bool
	DequeueBatch(max int) []FetchResult
	Len() int
}
