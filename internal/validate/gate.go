// Package validate implements the debounced form-validity gate every
// create/edit dialog submits through. One gate instance belongs to one open
// dialog; it never validates on every keystroke and never lets a superseded
// validation run commit its result.
package validate

import (
	"context"
	"sync"
	"time"
)

// DebounceDelay is the quiet period between the last field change and the
// validation run.
const DebounceDelay = 200 * time.Millisecond

// State is the gate's externally visible condition. Submission is allowed
// only when Valid is true and Pending is false.
type State struct {
	Pending bool
	Valid   bool
}

// Gate debounces validation runs.
//
// Each Schedule cancels the previously armed timer before arming a new one,
// so of any burst of edits only the last one's run fires. A run that was
// already in flight when it was superseded is dropped at commit time via a
// generation check; stopping the timer handle alone cannot cover that case.
type Gate struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	valid   bool
	lastErr error
}

// NewGate returns a gate with the given debounce delay; zero or negative
// means DebounceDelay.
func NewGate(delay time.Duration) *Gate {
	if delay <= 0 {
		delay = DebounceDelay
	}
	return &Gate{delay: delay}
}

// Schedule cancels any not-yet-fired validation task and arms run to
// execute after the debounce delay. run reporting nil marks the gate valid,
// any error marks it invalid; either way pending clears. Only the most
// recently scheduled run may commit.
func (g *Gate) Schedule(run func() error) {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.gen++
	gen := g.gen
	g.pending = true
	g.timer = time.AfterFunc(g.delay, func() {
		err := run()

		g.mu.Lock()
		defer g.mu.Unlock()
		if gen != g.gen {
			// superseded or reset while running: dropped result
			return
		}
		g.pending = false
		g.valid = err == nil
		g.lastErr = err
	})
	g.mu.Unlock()
}

// PrimeValid runs the initial check of a dialog opened with a seed entity.
// It goes through the same debounce path as any edit instead of assuming
// validity, so stale or partial seed data is still caught.
func (g *Gate) PrimeValid(run func() error) {
	g.Schedule(run)
}

// Reset cancels any pending timer and returns the gate to its initial
// invalid state. Called when a dialog opens empty and whenever it closes.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.gen++
	g.pending = false
	g.valid = false
	g.lastErr = nil
}

// State reports the current {pending, valid} pair.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return State{Pending: g.pending, Valid: g.valid}
}

// Err returns the failure of the last committed validation run, nil when
// the draft passed or nothing has run yet.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// CanSubmit reports whether a submission may proceed right now. It only
// inspects the last committed result; it never re-runs validation.
func (g *Gate) CanSubmit() bool {
	st := g.State()
	return st.Valid && !st.Pending
}

// Wait blocks until the gate settles (no validation pending) or ctx ends,
// and returns the state seen last. The REPL uses it after the final field
// of a dialog; tests use it to avoid sleeps.
func (g *Gate) Wait(ctx context.Context) State {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		st := g.State()
		if !st.Pending {
			return st
		}
		select {
		case <-ctx.Done():
			return st
		case <-ticker.C:
		}
	}
}
