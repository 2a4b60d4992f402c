package triage

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Handle tracks one dispatched card mutation.
type Handle struct {
	CardID string
	done   chan struct{}
	err    error
}

// Done reports whether the mutation has returned.
func (h *Handle) Done() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Err returns the mutation error once Done reports true.
func (h *Handle) Err() error {
	if !h.Done() {
		return nil
	}
	return h.err
}

// Tracker runs fire-and-forget mutations and keeps their handles.
//
// Dispatch, Prune, Len, WaitAtMost and Drain must be called from a single
// goroutine; workers only signal completion by closing their handle.
type Tracker struct {
	group        errgroup.Group
	handles      []*Handle
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewTracker creates a tracker that polls for completion every pollInterval.
func NewTracker(pollInterval time.Duration, logger *slog.Logger) *Tracker {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{pollInterval: pollInterval, logger: logger}
}

// Dispatch starts fn in the background and returns its handle. fn runs to
// completion even if ctx is cancelled later. Its error is logged and dropped.
func (t *Tracker) Dispatch(ctx context.Context, cardID string, fn func(context.Context) error) *Handle {
	h := &Handle{CardID: cardID, done: make(chan struct{})}
	workCtx := context.WithoutCancel(ctx)

	t.group.Go(func() error {
		defer close(h.done)
		if err := fn(workCtx); err != nil {
			h.err = err
			t.logger.Debug("mutation failed", slog.String("card_id", cardID), slog.String("error", err.Error()))
			return nil
		}
		t.logger.Debug("mutation applied", slog.String("card_id", cardID))
		return nil
	})

	t.handles = append(t.handles, h)
	return h
}

// Prune drops completed handles and returns how many remain.
func (t *Tracker) Prune() int {
	live := t.handles[:0]
	for _, h := range t.handles {
		if !h.Done() {
			live = append(live, h)
		}
	}
	clear(t.handles[len(live):])
	t.handles = live
	return len(t.handles)
}

// Len returns the number of handles kept since the last Prune.
func (t *Tracker) Len() int {
	return len(t.handles)
}

// WaitAtMost blocks until at most limit mutations are in flight. notify is
// called with the pending count before every poll.
func (t *Tracker) WaitAtMost(limit int, notify func(pending int)) {
	if limit < 0 {
		limit = 0
	}
	if t.Prune() <= limit {
		return
	}

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for t.Len() > limit {
		if notify != nil {
			notify(t.Len())
		}
		<-ticker.C
		t.Prune()
	}
}

// Drain blocks until every dispatched mutation has returned.
func (t *Tracker) Drain(notify func(pending int)) {
	t.WaitAtMost(0, notify)
	_ = t.group.Wait()
}
