package queue

import (
	"testing"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

func TestMemQueueEnqueueDequeueOrder(t *testing.T) {
	q := NewMemQueue(4)

	r1 := ports.FetchResult{SessionID: "s1", Generation: 1}
	r2 := ports.FetchResult{SessionID: "s2", Generation: 2}

	if !q.Enqueue(r1) || !q.Enqueue(r2) {
		t.Fatalf("expected successful enqueue")
	}

	batch := q.DequeueBatch(1)
	if len(batch) != 1 || batch[0].SessionID != "s1" {
		t.Fatalf("unexpected first batch: %+v", batch)
	}

	remaining := q.DequeueBatch(10)
	if len(remaining) != 1 || remaining[0].Generation != 2 {
		t.Fatalf("unexpected second batch: %+v", remaining)
	}

	if q.Len() != 0 {
		t.Fatalf("queue should be empty, got %d", q.Len())
	}
}

func TestMemQueueCapacity(t *testing.T) {
	q := NewMemQueue(2)

	r := ports.FetchResult{SessionID: "cap"}

	if !q.Enqueue(r) || !q.Enqueue(r) {
		t.Fatalf("expected enqueue within capacity")
	}
	if q.Enqueue(r) {
		t.Fatalf("enqueue should fail when capacity exceeded")
	}

	q.DequeueBatch(1)
	if !q.Enqueue(r) {
		t.Fatalf("expected enqueue to succeed after dequeue")
	}
}

func TestMemQueueDrainAll(t *testing.T) {
	q := NewMemQueue(3)
	for i := 0; i < 3; i++ {
		q.Enqueue(ports.FetchResult{Generation: uint64(i)})
	}
	if got := q.DequeueBatch(0); len(got) != 3 {
		t.Fatalf("expected drain of 3 results, got %d", len(got))
	}
	if q.DequeueBatch(0) != nil {
		t.Fatalf("expected nil batch from empty queue")
	}
}
