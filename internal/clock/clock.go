// Package clock tracks elapsed session time across pause and resume.
//
// Elapsed time is always derived from an accumulated carry plus the instant
// the clock last started running, so a suspended process or a missed UI tick
// never causes drift.
package clock

import (
	"time"
)

// State is the lifecycle position of a session clock
type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
	Ended   State = "ended"
)

// NowFunc returns the current wall-clock instant
type NowFunc func() time.Time

// Clock is the session stopwatch. It is not safe for concurrent mutation;
// a single owner drives it and readers only call Elapsed/State.
type Clock struct {
	now    NowFunc
	state  State
	carry  time.Duration
	anchor time.Time // valid only while running
}

// Snapshot is the persisted form of a clock
type Snapshot struct {
	State  State
	Carry  time.Duration
	Anchor *time.Time
}

// New returns an idle clock
func New(now NowFunc) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now, state: Idle}
}

// Restore rebuilds a clock from a snapshot. Unknown states restore as idle.
func Restore(now NowFunc, snap Snapshot) *Clock {
	c := New(now)
	switch snap.State {
	case Running:
		if snap.Anchor == nil {
			// nothing to measure from, treat as paused with what we have
			c.state = Paused
		} else {
			c.state = Running
			c.anchor = *snap.Anchor
		}
	case Paused, Ended:
		c.state = snap.State
	default:
		c.state = Idle
	}
	if c.state != Idle {
		c.carry = snap.Carry
	}
	return c
}

// State returns the current lifecycle state
func (c *Clock) State() State {
	return c.state
}

// Elapsed returns the total running time so far
func (c *Clock) Elapsed() time.Duration {
	if c.state == Running {
		return c.carry + c.sinceAnchor()
	}
	return c.carry
}

// Start moves an idle clock to running. Any other state is left untouched.
func (c *Clock) Start() bool {
	if c.state != Idle {
		return false
	}
	c.state = Running
	c.carry = 0
	c.anchor = c.now()
	return true
}

// Pause folds the current interval into the carry
func (c *Clock) Pause() bool {
	if c.state != Running {
		return false
	}
	c.carry += c.sinceAnchor()
	c.anchor = time.Time{}
	c.state = Paused
	return true
}

// Resume starts a new running interval from a paused clock
func (c *Clock) Resume() bool {
	if c.state != Paused {
		return false
	}
	c.anchor = c.now()
	c.state = Running
	return true
}

// End finalizes the clock. Ending an idle or already ended clock is a no-op.
func (c *Clock) End() bool {
	switch c.state {
	case Running:
		c.carry += c.sinceAnchor()
		c.anchor = time.Time{}
	case Paused:
	default:
		return false
	}
	c.state = Ended
	return true
}

// Reset returns the clock to idle with no accumulated time
func (c *Clock) Reset() {
	c.state = Idle
	c.carry = 0
	c.anchor = time.Time{}
}

// Snapshot captures the state needed to Restore the clock later
func (c *Clock) Snapshot() Snapshot {
	snap := Snapshot{State: c.state, Carry: c.carry}
	if c.state == Running {
		anchor := c.anchor
		snap.Anchor = &anchor
	}
	return snap
}

// sinceAnchor never reports negative time, even if the wall clock stepped back
func (c *Clock) sinceAnchor() time.Duration {
	d := c.now().Sub(c.anchor)
	if d < 0 {
		return 0
	}
	return d
}
