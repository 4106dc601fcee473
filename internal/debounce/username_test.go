package debounce

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQuiet = 30 * time.Millisecond

type transitions struct {
	mu   sync.Mutex
	list []Status
}

func (tr *transitions) record(_ string, s Status) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.list = append(tr.list, s)
}

func (tr *transitions) last() Status {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.list) == 0 {
		return ""
	}
	return tr.list[len(tr.list)-1]
}

func waitForStatus(t *testing.T, c *Checker, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Status() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("checker never reached status %q, stuck at %q", want, c.Status())
}

func TestValidUsernameFormat(t *testing.T) {
	assert.True(t, ValidUsernameFormat("ab_1"))
	assert.True(t, ValidUsernameFormat("ABC"))
	assert.False(t, ValidUsernameFormat("ab"))
	assert.False(t, ValidUsernameFormat("ab!1"))
	assert.False(t, ValidUsernameFormat(""))
}

func TestRapidTypingIssuesOneCheckForFinalValue(t *testing.T) {
	var calls atomic.Int32
	var checked atomic.Value

	c := NewChecker(testQuiet, func(ctx context.Context, v string) (bool, error) {
		calls.Add(1)
		checked.Store(v)
		return false, nil
	}, nil)
	defer c.Close()

	ctx := context.Background()
	c.Input(ctx, "a")
	time.Sleep(5 * time.Millisecond)
	c.Input(ctx, "ab")
	time.Sleep(5 * time.Millisecond)
	c.Input(ctx, "abc")

	waitForStatus(t, c, StatusAvailable)
	require.EqualValues(t, 1, calls.Load(), "exactly one remote check for the whole burst")
	require.Equal(t, "abc", checked.Load())
}

func TestInvalidFormatSkipsRemoteCheck(t *testing.T) {
	var calls atomic.Int32
	c := NewChecker(testQuiet, func(ctx context.Context, v string) (bool, error) {
		calls.Add(1)
		return false, nil
	}, nil)
	defer c.Close()

	c.Input(context.Background(), "ab!1")
	require.Equal(t, StatusInvalid, c.Status())

	time.Sleep(3 * testQuiet)
	assert.Zero(t, calls.Load(), "format failure must short-circuit the remote check")
}

func TestBelowMinimumLengthReturnsToIdle(t *testing.T) {
	c := NewChecker(testQuiet, func(ctx context.Context, v string) (bool, error) {
		return false, nil
	}, nil)
	defer c.Close()

	ctx := context.Background()
	c.Input(ctx, "abc")
	waitForStatus(t, c, StatusAvailable)

	c.Input(ctx, "ab")
	require.Equal(t, StatusIdle, c.Status())
}

func TestTakenUsername(t *testing.T) {
	c := NewChecker(testQuiet, func(ctx context.Context, v string) (bool, error) {
		return true, nil
	}, nil)
	defer c.Close()

	c.Input(context.Background(), "Taken_Name")
	waitForStatus(t, c, StatusTaken)
}

func TestLookupErrorReturnsToIdle(t *testing.T) {
	c := NewChecker(testQuiet, func(ctx context.Context, v string) (bool, error) {
		return false, errors.New("remote down")
	}, nil)
	defer c.Close()

	c.Input(context.Background(), "abc")
	waitForStatus(t, c, StatusChecking)
	waitForStatus(t, c, StatusIdle)
}

func TestInFlightResultDiscardedOnNewKeystroke(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 2)

	c := NewChecker(testQuiet, func(ctx context.Context, v string) (bool, error) {
		started <- v
		if v == "first" {
			<-release
			return true, nil // stale "taken" answer, must be discarded
		}
		return false, nil
	}, nil)
	defer c.Close()

	ctx := context.Background()
	c.Input(ctx, "first")
	require.Equal(t, "first", <-started)

	// A keystroke while the first check is still in flight supersedes it.
	c.Input(ctx, "second_name")
	close(release)

	require.Equal(t, "second_name", <-started)
	waitForStatus(t, c, StatusAvailable)

	// The stale result must never surface, even after it resolves.
	time.Sleep(2 * testQuiet)
	assert.Equal(t, StatusAvailable, c.Status())
}

func TestCloseCancelsPendingCheck(t *testing.T) {
	var calls atomic.Int32
	c := NewChecker(testQuiet, func(ctx context.Context, v string) (bool, error) {
		calls.Add(1)
		return false, nil
	}, nil)

	c.Input(context.Background(), "abc")
	c.Close()
	c.Close() // idempotent

	time.Sleep(3 * testQuiet)
	assert.Zero(t, calls.Load())
}

func TestNotifyObservesTransitions(t *testing.T) {
	tr := &transitions{}
	c := NewChecker(testQuiet, func(ctx context.Context, v string) (bool, error) {
		return false, nil
	}, tr.record)
	defer c.Close()

	c.Input(context.Background(), "good_name")
	waitForStatus(t, c, StatusAvailable)

	tr.mu.Lock()
	defer tr.mu.Unlock()
	require.Equal(t, []Status{StatusChecking, StatusAvailable}, tr.list)
}
