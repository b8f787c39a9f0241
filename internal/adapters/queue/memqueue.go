package queue

import (
	"sync"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

// MemQueue is a bounded in-memory queue of fetch results that preserves FIFO ordering.
type MemQueue struct {
	mu   sync.Mutex
	data []ports.FetchResult
	cap  int
}

func NewMemQueue(capacity int) *MemQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemQueue{
		data: make([]ports.FetchResult, 0, capacity),
		cap:  capacity,
	}
}

func (q *MemQueue) Enqueue(r ports.FetchResult) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) >= q.cap {
		return false
	}
	q.data = append(q.data, r)
	return true
}

// DequeueBatch removes up to max results; max <= 0 drains the queue.
func (q *MemQueue) DequeueBatch(max int) []ports.FetchResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil
	}
	if max <= 0 || max > len(q.data) {
		max = len(q.data)
	}
	out := make([]ports.FetchResult, max)
	copy(out, q.data[:max])
	q.data = append(q.data[:0], q.data[max:]...)
	return out
}

func (q *MemQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}

var _ ports.ResultQueue = (*MemQueue)(nil)
