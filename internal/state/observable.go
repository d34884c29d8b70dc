// Package state holds the client-side model of what the backend believes is
// happening. Each container is an explicit state struct guarded by a mutex,
// with an observer list notified after every mutation; the bound presentation
// layer re-renders from snapshots, never from live internals.
package state

import "sync"

// observable is the publish half of the observer pattern shared by every
// state container. Callbacks run outside the container's own lock.
type observable struct {
	mu   sync.Mutex
	subs []func()
}

// Subscribe registers a callback invoked after each mutation.
func (o *observable) Subscribe(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subs = append(o.subs, fn)
}

func (o *observable) publish() {
	o.mu.Lock()
	subs := make([]func(), len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
