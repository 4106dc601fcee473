package livequery

import "sync"

// View holds the current published state of one live query. Every Replace
// swaps the whole list; there is no merge-by-id with prior state, which
// keeps repeated delivery of the same snapshot idempotent.
type View[T any] struct {
	mu      sync.RWMutex
	items   []T
	version uint64
	publish func([]T)
}

// NewView creates a view. publish, if non-nil, is invoked with a copy of
// the list after every replacement.
func NewView[T any](publish func([]T)) *View[T] {
	return &View[T]{publish: publish}
}

// Replace installs items as the view's entire current state.
func (v *View[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)

	v.mu.Lock()
	v.items = cp
	v.version++
	publish := v.publish
	v.mu.Unlock()

	if publish != nil {
		publish(cp)
	}
}

// Current returns a copy of the view's state.
func (v *View[T]) Current() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	cp := make([]T, len(v.items))
	copy(cp, v.items)
	return cp
}

// Version counts replacements, starting at zero before the first snapshot.
func (v *View[T]) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}
