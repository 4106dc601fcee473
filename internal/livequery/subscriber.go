// Package livequery keeps local views consistent with remotely-mutated
// document sets. A subscription re-reads the entire current result set on
// every change signal and hands it to the view as a wholesale replacement,
// so delivery is at-least-once and re-rendering is idempotent.
package livequery

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Watcher provides a push signal that something in a watched collection
// changed. Implementations coalesce bursts; the subscriber re-reads the
// full result set per signal, it never consumes diffs.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// FetchFunc returns the entire current result set for the subscription's
// predicate, in the predicate's order.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Subscription is the handle for one standing live query. It stays open
// until cancelled.
type Subscription struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// Cancel releases the subscription's network resources. It is safe to call
// on every exit path, any number of times; teardown runs once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Done is closed once the subscription loop has fully stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe opens a standing subscription. The initial result set and every
// subsequent full snapshot are passed to deliver. If the watch cannot be
// established, deliver receives an empty result set and the error is
// returned to the caller as a recoverable condition.
func Subscribe[T any](ctx context.Context, w Watcher, fetch FetchFunc[T], deliver func([]T), log *zap.Logger) (*Subscription, error) {
	sctx, cancel := context.WithCancel(ctx)

	events, err := w.Watch(sctx)
	if err != nil {
		cancel()
		deliver([]T{})
		return nil, fmt.Errorf("establish subscription: %w", err)
	}

	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		if !redeliver(sctx, fetch, deliver, log) {
			return
		}
		for {
			select {
			case <-sctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				if !redeliver(sctx, fetch, deliver, log) {
					return
				}
			}
		}
	}()

	return sub, nil
}

// redeliver fetches the current snapshot and hands it to deliver. A fetch
// error keeps the previously published state; the next change signal will
// retry. Returns false once the subscription is cancelled.
func redeliver[T any](ctx context.Context, fetch FetchFunc[T], deliver func([]T), log *zap.Logger) bool {
	items, err := fetch(ctx)
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		log.Warn("snapshot fetch failed, keeping previous view", zap.Error(err))
		return true
	}
	deliver(items)
	return true
}
