package livequery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWatcher struct {
	ch  chan struct{}
	err error
}

func (f *fakeWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ch, nil
}

func recvSnapshot(t *testing.T, ch <-chan []int) []int {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeRedeliversFullSnapshots(t *testing.T) {
	w := &fakeWatcher{ch: make(chan struct{}, 1)}
	got := make(chan []int, 4)

	var mu sync.Mutex
	current := []int{1, 2}
	fetch := func(ctx context.Context) ([]int, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]int(nil), current...), nil
	}

	sub, err := Subscribe(context.Background(), w, fetch, func(s []int) { got <- s }, zap.NewNop())
	require.NoError(t, err)
	defer sub.Cancel()

	require.Equal(t, []int{1, 2}, recvSnapshot(t, got))

	mu.Lock()
	current = []int{3}
	mu.Unlock()
	w.ch <- struct{}{}

	require.Equal(t, []int{3}, recvSnapshot(t, got))
}

func TestSubscribeEstablishFailureFallsBackToEmpty(t *testing.T) {
	w := &fakeWatcher{err: errors.New("unsupported composite filter")}
	got := make(chan []int, 1)

	fetch := func(ctx context.Context) ([]int, error) { return []int{1}, nil }

	sub, err := Subscribe(context.Background(), w, fetch, func(s []int) { got <- s }, zap.NewNop())
	require.Error(t, err)
	require.Nil(t, sub)
	require.Empty(t, recvSnapshot(t, got))
}

func TestSubscribeFetchErrorKeepsPreviousView(t *testing.T) {
	w := &fakeWatcher{ch: make(chan struct{}, 1)}
	got := make(chan []int, 4)

	var mu sync.Mutex
	fetchErr := error(nil)
	current := []int{1}
	fetch := func(ctx context.Context) ([]int, error) {
		mu.Lock()
		defer mu.Unlock()
		if fetchErr != nil {
			return nil, fetchErr
		}
		return append([]int(nil), current...), nil
	}

	sub, err := Subscribe(context.Background(), w, fetch, func(s []int) { got <- s }, zap.NewNop())
	require.NoError(t, err)
	defer sub.Cancel()

	require.Equal(t, []int{1}, recvSnapshot(t, got))

	mu.Lock()
	fetchErr = errors.New("transient")
	mu.Unlock()
	w.ch <- struct{}{}

	// Failed refetch must not publish anything; the next good one does.
	mu.Lock()
	fetchErr = nil
	current = []int{2}
	mu.Unlock()
	w.ch <- struct{}{}

	require.Equal(t, []int{2}, recvSnapshot(t, got))
}

func TestCancelIsIdempotent(t *testing.T) {
	w := &fakeWatcher{ch: make(chan struct{})}
	fetch := func(ctx context.Context) ([]int, error) { return nil, nil }

	sub, err := Subscribe(context.Background(), w, fetch, func([]int) {}, zap.NewNop())
	require.NoError(t, err)

	require.NotPanics(t, func() {
		sub.Cancel()
		sub.Cancel()
	})

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription loop did not stop after cancel")
	}
}

func TestCancelBeforeFirstSnapshotDeliversNothing(t *testing.T) {
	w := &fakeWatcher{ch: make(chan struct{})}

	// The initial fetch blocks until the subscription is torn down.
	fetch := func(ctx context.Context) ([]int, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	var mu sync.Mutex
	deliveries := 0
	sub, err := Subscribe(context.Background(), w, fetch, func([]int) {
		mu.Lock()
		deliveries++
		mu.Unlock()
	}, zap.NewNop())
	require.NoError(t, err)

	sub.Cancel()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription loop did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, deliveries, "no callback may fire against an unmounted view")
}
