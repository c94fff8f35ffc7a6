// Package lifecycle ensures only the newest submission of a form gets to
// apply its result.
package lifecycle

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is the cancellation cause of a request replaced by a newer
// submission of the same form.
var ErrSuperseded = errors.New("superseded by a newer submission")

type inflight struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

// Tracker hands out one live token per key. Beginning a new token cancels
// the previous holder's context with ErrSuperseded.
type Tracker struct {
	mu   sync.Mutex
	seq  uint64
	live map[string]inflight
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{live: map[string]inflight{}}
}

// Ticket identifies one submission.
type Ticket struct {
	t   *Tracker
	key string
	seq uint64
}

// Begin starts a submission for key and returns a context that is canceled
// when a newer submission for the same key begins.
func (t *Tracker) Begin(parent context.Context, key string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancelCause(parent)

	t.mu.Lock()
	t.seq++
	seq := t.seq
	prev, ok := t.live[key]
	t.live[key] = inflight{seq: seq, cancel: cancel}
	t.mu.Unlock()

	if ok {
		prev.cancel(ErrSuperseded)
	}
	return ctx, Ticket{t: t, key: key, seq: seq}
}

// Current reports whether this ticket is still the newest for its key.
func (tk Ticket) Current() bool {
	tk.t.mu.Lock()
	defer tk.t.mu.Unlock()
	cur, ok := tk.t.live[tk.key]
	return ok && cur.seq == tk.seq
}

// Done releases the ticket's context. It must be called once the result has
// been applied or discarded.
func (tk Ticket) Done() {
	tk.t.mu.Lock()
	cur, ok := tk.t.live[tk.key]
	if ok && cur.seq == tk.seq {
		delete(tk.t.live, tk.key)
	}
	tk.t.mu.Unlock()

	if ok && cur.seq == tk.seq {
		cur.cancel(context.Canceled)
	}
}

// InFlight returns the number of keys with a live submission.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}
