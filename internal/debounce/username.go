// Package debounce coalesces rapid input events into a single delayed
// remote lookup, cancelling stale ones.
package debounce

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultQuiet is the pause after the last keystroke before the remote
// availability lookup fires.
const DefaultQuiet = 500 * time.Millisecond

// minUsernameLen is the shortest username worth checking at all.
const minUsernameLen = 3

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidUsernameFormat reports whether a username passes the synchronous
// local check: length >= 3 and only letters, digits and underscores.
func ValidUsernameFormat(s string) bool {
	return len(s) >= minUsernameLen && usernameRE.MatchString(s)
}

// Status is the checker's user-visible state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusInvalid   Status = "invalid"
	StatusChecking  Status = "checking"
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
)

// ExistsFunc is the remote predicate: does this value already exist.
type ExistsFunc func(ctx context.Context, value string) (bool, error)

// Checker debounces keystrokes for a single username field. The local
// format check runs synchronously on every keystroke and short-circuits
// the remote lookup; a format-valid value schedules one lookup after the
// quiet period. Results of lookups that a newer keystroke has superseded
// are discarded regardless of response arrival order.
type Checker struct {
	quiet  time.Duration
	exists ExistsFunc
	notify func(value string, status Status)

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	status Status
}

// NewChecker creates a Checker. quiet <= 0 selects DefaultQuiet. notify, if
// non-nil, receives every state transition.
func NewChecker(quiet time.Duration, exists ExistsFunc, notify func(string, Status)) *Checker {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Checker{
		quiet:  quiet,
		exists: exists,
		notify: notify,
		status: StatusIdle,
	}
}

// Input feeds one keystroke's value into the checker.
func (c *Checker) Input(ctx context.Context, value string) {
	value = strings.ToLower(strings.TrimSpace(value))

	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.stopTimerLocked()

	if len(value) < minUsernameLen {
		c.setLocked(value, StatusIdle)
		return
	}
	if !usernameRE.MatchString(value) {
		c.setLocked(value, StatusInvalid)
		return
	}

	gen := c.gen
	c.timer = time.AfterFunc(c.quiet, func() {
		c.check(ctx, gen, value)
	})
}

// Status returns the checker's current state.
func (c *Checker) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Close cancels any pending lookup. Safe to call more than once.
func (c *Checker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.stopTimerLocked()
}

func (c *Checker) check(ctx context.Context, gen uint64, value string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.setLocked(value, StatusChecking)
	c.mu.Unlock()

	taken, err := c.exists(ctx, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return // superseded by a newer keystroke, last write wins
	}
	switch {
	case err != nil:
		c.setLocked(value, StatusIdle)
	case taken:
		c.setLocked(value, StatusTaken)
	default:
		c.setLocked(value, StatusAvailable)
	}
}

func (c *Checker) setLocked(value string, s Status) {
	c.status = s
	if c.notify != nil {
		c.notify(value, s)
	}
}

func (c *Checker) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
