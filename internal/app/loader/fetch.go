package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

type request struct {
	sessionID  string
	generation uint64
	first      bool
	since      string
}

func (l *Loader) fetch(ctx context.Context, req request) {
	defer l.wg.Done()

	fctx, cancel := context.WithTimeout(ctx, l.policy.FetchTimeout)
	defer cancel()

	start := time.Now()
	var (
		points []domain.RawDatapoint
		err    error
	)
	if req.first {
		points, err = l.gw.FetchAll(fctx, req.sessionID)
	} else {
		points, err = l.gw.FetchSince(fctx, req.sessionID, req.since)
	}

	res := ports.FetchResult{
		SessionID:  req.sessionID,
		Generation: req.generation,
		First:      req.first,
		Points:     points,
		Err:        err,
		Latency:    time.Since(start),
	}
	if !enqueueResult(ctx, l.queue, res, l.obs) {
		l.obs.IncCounter("datadisplay_fetch_stale_total", 1)
	}
}

// enqueueResult blocks until the UI side has room for the result or ctx ends.
func enqueueResult(ctx context.Context, q ports.ResultQueue, r ports.FetchResult, obs ports.Observability) bool {
	const sleep = 5 * time.Millisecond
	for {
		if q.Enqueue(r) {
			return true
		}
		select {
		case <-ctx.Done():
			obs.LogError("result_queue_full_drop", fmt.Errorf("session=%s generation=%d", r.SessionID, r.Generation))
			return false
		case <-time.After(sleep):
		}
	}
}
