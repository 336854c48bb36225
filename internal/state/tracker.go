package state

import (
	"context"
	"sync"
)

// Tracker hands out sequence numbers for one stream of requests. Starting a
// new request cancels the previous one, and only the newest sequence is
// reported as current.
type Tracker struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin cancels any in-flight request and returns the sequence and context
// for a new one.
func (t *Tracker) Begin(parent context.Context) (uint64, context.Context) {
	if parent == nil {
		parent = context.Background()
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	t.seq++
	t.cancel = cancel
	return t.seq, ctx
}

// Current reports whether seq belongs to the newest request.
func (t *Tracker) Current(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq == t.seq
}

// Done releases the context of seq when it is still the newest request.
// It reports whether seq was current.
func (t *Tracker) Done(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq != t.seq {
		return false
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	return true
}

// Cancel aborts the in-flight request, if any, and invalidates its sequence.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.seq++
}

// InFlight reports whether a request has begun and not yet finished.
func (t *Tracker) InFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}
