package telloproto

import "sync"

// Broadcast is a reusable notify-all primitive: callers hold the
// associated mutex, mutate their protected state, then call Signal to
// wake every current waiter. Wait(lock-free) is provided via the
// returned channel so callers can select on it alongside a timeout.
// This is the generation-channel idiom used throughout the session
// package in place of a condition variable.
type Broadcast struct {
	mu  sync.Mutex
	gen chan struct{}
}

// NewBroadcast returns a ready-to-use Broadcast.
func NewBroadcast() *Broadcast {
	return &Broadcast{gen: make(chan struct{})}
}

// Chan returns the current generation channel. Callers must fetch it
// while still holding whatever lock guards the condition they're
// checking, so that a Signal cannot be missed between the check and
// the select.
func (b *Broadcast) Chan() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen
}

// Signal wakes every waiter currently selecting on Chan's result.
func (b *Broadcast) Signal() {
	b.mu.Lock()
	gen := b.gen
	b.gen = make(chan struct{})
	b.mu.Unlock()
	close(gen)
}
