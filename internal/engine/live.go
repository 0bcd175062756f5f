package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/balkashynov/rangelog/internal/clock"
	"github.com/balkashynov/rangelog/internal/models"
)

// LiveSession is the one live-tracking flow: a session plus the clock that
// times it. Transitions that don't apply in the current state are no-ops.
type LiveSession struct {
	e         *Engine
	clock     *clock.Clock
	sessionID string
}

// Live returns the engine's live flow, bound to the open session if there is one
func (e *Engine) Live() *LiveSession {
	if e.live == nil {
		e.live = &LiveSession{e: e, clock: clock.New(e.now)}
		if s := e.OpenSession(); s != nil {
			e.live.bind(s)
		}
	}
	return e.live
}

func (l *LiveSession) bind(s *models.Session) {
	l.sessionID = s.ID
	l.clock = clock.Restore(l.e.now, clockSnapshot(s))
	if s.IsOpen() && (l.clock.State() == clock.Idle || l.clock.State() == clock.Ended) {
		// no usable clock data; time it from the session start
		started := s.StartedAt
		l.clock = clock.Restore(l.e.now, clock.Snapshot{State: clock.Running, Anchor: &started})
	}
}

// session returns the bound session. If it was deleted underneath the flow
// (e.g. by a firearm cascade) the flow falls back to idle.
func (l *LiveSession) session() *models.Session {
	if l.sessionID == "" {
		return nil
	}
	s := l.e.sessions[l.sessionID]
	if s == nil {
		l.sessionID = ""
		l.clock.Reset()
	}
	return s
}

// Session returns the session being tracked, or nil when idle
func (l *LiveSession) Session() *models.Session {
	return l.session()
}

// State returns the clock state of the flow
func (l *LiveSession) State() clock.State {
	l.session()
	return l.clock.State()
}

// Elapsed returns the running time of the session, excluding pauses
func (l *LiveSession) Elapsed() time.Duration {
	l.session()
	return l.clock.Elapsed()
}

// ActiveRun returns the open run of the tracked session, or nil
func (l *LiveSession) ActiveRun() *models.Run {
	if s := l.session(); s != nil {
		return l.e.active[s.ID]
	}
	return nil
}

// LastRun returns the most recently started run of the tracked session, or nil
func (l *LiveSession) LastRun() *models.Run {
	s := l.session()
	if s == nil || len(s.Runs) == 0 {
		return nil
	}
	return s.Runs[len(s.Runs)-1]
}

// Start opens a fresh session and starts the clock. Only valid when idle.
func (l *LiveSession) Start() *models.Session {
	if l.session() != nil || l.clock.State() != clock.Idle {
		return nil
	}
	now := l.e.now()
	s := &models.Session{
		ID:        l.e.newID(),
		CreatedAt: now,
		UpdatedAt: now,
		StartedAt: now,
	}
	l.e.sessions[s.ID] = s
	l.sessionID = s.ID
	l.clock.Start()
	l.e.queue.Enqueue(l.sync(s, now))
	return s
}

// Pause stops the clock without ending the session
func (l *LiveSession) Pause() {
	s := l.session()
	if s == nil || !l.clock.Pause() {
		return
	}
	l.e.queue.Enqueue(l.sync(s, l.e.now()))
}

// Resume restarts a paused clock
func (l *LiveSession) Resume() {
	s := l.session()
	if s == nil || !l.clock.Resume() {
		return
	}
	l.e.queue.Enqueue(l.sync(s, l.e.now()))
}

// End closes the open run, stamps the session's end time and freezes the
// clock, then flushes synchronously. A storage failure is returned so the
// caller can retry; the in-memory end stands either way. Calling End again
// on an ended session only retries the flush.
func (l *LiveSession) End(ctx context.Context) error {
	s := l.session()
	if s == nil {
		return nil
	}
	if l.clock.End() {
		now := l.e.now()
		ops := l.e.closeActiveRun(s, now)
		if s.EndedAt == nil {
			ended := now
			s.EndedAt = &ended
		}
		l.e.queue.Enqueue(append(ops, l.sync(s, now))...)
	}

	if err := l.e.queue.Flush(ctx); err != nil {
		return fmt.Errorf("failed to save ended session: %w", err)
	}
	return nil
}

// Reset returns the flow to idle. An open session with no runs is discarded;
// one with runs is ended.
func (l *LiveSession) Reset() {
	if s := l.session(); s != nil && s.IsOpen() {
		if len(s.Runs) == 0 {
			l.e.queue.Enqueue(l.e.removeSession(s)...)
		} else {
			l.e.queue.Enqueue(l.e.closeSession(s, l.e.now())...)
		}
	}
	l.sessionID = ""
	l.clock.Reset()
}

// StartRun opens a run with firearmID in the tracked session
func (l *LiveSession) StartRun(firearmID string) *models.Run {
	s := l.session()
	if s == nil {
		return nil
	}
	return l.e.StartNewRun(s.ID, firearmID)
}

// ContinueLast continues the most recent run of the tracked session
func (l *LiveSession) ContinueLast() *models.Run {
	last := l.LastRun()
	if last == nil {
		return nil
	}
	return l.e.ContinueRun(last.ID)
}

// EndActiveRun closes the tracked session's open run
func (l *LiveSession) EndActiveRun() {
	if s := l.session(); s != nil {
		l.e.EndActiveRun(s.ID)
	}
}

// sync copies the clock into the session's persisted fields
func (l *LiveSession) sync(s *models.Session, now time.Time) Op {
	applyClock(s, l.clock.Snapshot())
	s.UpdatedAt = now
	return upsert(s)
}

// closeSession ends a session outside the live clock, keeping the time it
// had accumulated so far
func (e *Engine) closeSession(s *models.Session, now time.Time) []Op {
	ops := e.closeActiveRun(s, now)
	c := clock.Restore(e.now, clockSnapshot(s))
	if c.State() == clock.Idle {
		started := s.StartedAt
		c = clock.Restore(e.now, clock.Snapshot{State: clock.Running, Anchor: &started})
	}
	c.End()
	applyClock(s, c.Snapshot())
	if s.EndedAt == nil {
		ended := now
		s.EndedAt = &ended
	}
	s.UpdatedAt = now
	return append(ops, upsert(s))
}

func clockSnapshot(s *models.Session) clock.Snapshot {
	return clock.Snapshot{
		State:  clock.State(s.ClockState),
		Carry:  time.Duration(s.CarryMillis) * time.Millisecond,
		Anchor: s.ResumedAt,
	}
}

func applyClock(s *models.Session, snap clock.Snapshot) {
	s.ClockState = string(snap.State)
	s.CarryMillis = snap.Carry.Milliseconds()
	s.ResumedAt = snap.Anchor
}

// SessionElapsed returns the clock time a session has accumulated. Ended
// sessions report their frozen total.
func (e *Engine) SessionElapsed(s *models.Session) time.Duration {
	if s == nil {
		return 0
	}
	if l := e.live; l != nil && l.sessionID == s.ID {
		return l.clock.Elapsed()
	}
	return clock.Restore(e.now, clockSnapshot(s)).Elapsed()
}
