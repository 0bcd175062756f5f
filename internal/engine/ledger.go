package engine

import (
	"math"
	"strings"
	"time"

	"github.com/balkashynov/rangelog/internal/models"
)

// StartNewRun opens a run for firearmID in the session, closing whatever run
// was open first. The firearm's smallest magazine is preselected. Returns nil
// when either id is unknown or the session has already ended.
func (e *Engine) StartNewRun(sessionID, firearmID string) *models.Run {
	s := e.sessions[sessionID]
	f := e.firearms[firearmID]
	if s == nil || f == nil || !s.IsOpen() {
		return nil
	}

	now := e.now()
	ops := e.closeActiveRun(s, now)
	r := e.newRun(s, f, now)
	if m := f.SmallestMagazine(); m != nil {
		id := m.ID
		r.MagazineID = &id
		r.Magazine = m
	}
	e.queue.Enqueue(append(ops, upsert(r))...)
	return r
}

// ContinueRun opens a new run carrying forward the prior run's firearm,
// magazine, ammo and default ammo. The prior run stays closed with its own
// counters.
func (e *Engine) ContinueRun(priorRunID string) *models.Run {
	prior := e.runs[priorRunID]
	if prior == nil {
		return nil
	}
	s := e.sessions[prior.SessionID]
	f := e.firearms[prior.FirearmID]
	if s == nil || f == nil || !s.IsOpen() {
		return nil
	}

	now := e.now()
	ops := e.closeActiveRun(s, now)
	r := e.newRun(s, f, now)
	r.MagazineID = copyID(prior.MagazineID)
	r.AmmoID = copyID(prior.AmmoID)
	r.DefaultAmmoID = copyID(prior.DefaultAmmoID)
	e.link(r)
	e.queue.Enqueue(append(ops, upsert(r))...)
	return r
}

// EndActiveRun closes the session's open run, if any
func (e *Engine) EndActiveRun(sessionID string) {
	s := e.sessions[sessionID]
	if s == nil {
		return
	}
	e.queue.Enqueue(e.closeActiveRun(s, e.now())...)
}

// AdjustRounds moves the run's round count by delta, clamping at zero and
// saturating at math.MaxInt. The firearm's lifetime counter follows by the
// same effective amount.
func (e *Engine) AdjustRounds(runID string, delta int) {
	r := e.runs[runID]
	if r == nil || delta == 0 {
		return
	}
	next := addCount(r.Rounds, delta)
	applied := next - r.Rounds
	if applied == 0 {
		return
	}

	now := e.now()
	r.Rounds = next
	r.UpdatedAt = now
	ops := []Op{upsert(r)}
	if f := e.firearms[r.FirearmID]; f != nil {
		f.RoundCount = addCount(f.RoundCount, applied)
		f.UpdatedAt = now
		ops = append(ops, upsert(f))
	}
	e.queue.Enqueue(ops...)
}

// SetRounds applies a typed total as a delta against the current count
func (e *Engine) SetRounds(runID string, total int) {
	r := e.runs[runID]
	if r == nil {
		return
	}
	e.AdjustRounds(runID, max(0, total)-r.Rounds)
}

// AdjustRoundsByMagazine adds (direction > 0) or removes (direction < 0) one
// full load of the run's selected magazine. No magazine, no change.
func (e *Engine) AdjustRoundsByMagazine(runID string, direction int) {
	r := e.runs[runID]
	if r == nil || r.Magazine == nil || direction == 0 {
		return
	}
	delta := r.Magazine.Capacity
	if direction < 0 {
		delta = -delta
	}
	e.AdjustRounds(runID, delta)
}

// AdjustMalfunction moves the tally for kind by delta, clamping at zero.
// The run total moves by the same applied amount so it always equals the
// sum of its tallies.
func (e *Engine) AdjustMalfunction(runID string, kind models.MalfunctionKind, delta int) {
	r := e.runs[runID]
	if r == nil || delta == 0 || !validKind(kind) {
		return
	}

	t := r.Tally(kind)
	if t == nil {
		if delta < 0 {
			return
		}
		t = &models.MalfunctionTally{ID: e.newID(), RunID: r.ID, Kind: kind}
		r.Malfunctions = append(r.Malfunctions, t)
	}
	if delta > 0 {
		// the run total bounds every tally
		delta = min(delta, math.MaxInt-r.MalfunctionTotal)
	}
	next := addCount(t.Count, delta)
	applied := next - t.Count
	if applied == 0 {
		return
	}
	t.Count = next
	r.MalfunctionTotal += applied
	r.UpdatedAt = e.now()
	e.queue.Enqueue(upsert(t), upsert(r))
}

// SetNotes replaces the run's note
func (e *Engine) SetNotes(runID, note string) {
	r := e.runs[runID]
	if r == nil {
		return
	}
	r.Note = note
	r.UpdatedAt = e.now()
	e.queue.Enqueue(upsert(r))
}

// SetAmmo sets the ammo used for the run. An empty id clears it; an unknown
// id is ignored.
func (e *Engine) SetAmmo(runID, ammoID string) {
	r := e.runs[runID]
	if r == nil {
		return
	}
	a, ok := e.resolveAmmo(ammoID)
	if !ok {
		return
	}
	r.Ammo = a
	r.AmmoID = idOf(a)
	r.UpdatedAt = e.now()
	e.queue.Enqueue(upsert(r))
}

// SetDefaultAmmo sets the ammo remembered for quick continue
func (e *Engine) SetDefaultAmmo(runID, ammoID string) {
	r := e.runs[runID]
	if r == nil {
		return
	}
	a, ok := e.resolveAmmo(ammoID)
	if !ok {
		return
	}
	r.DefaultAmmo = a
	r.DefaultAmmoID = idOf(a)
	r.UpdatedAt = e.now()
	e.queue.Enqueue(upsert(r))
}

// SetMagazine selects one of the run firearm's magazines. An empty id clears
// the selection; magazines of other firearms are ignored.
func (e *Engine) SetMagazine(runID, magazineID string) {
	r := e.runs[runID]
	if r == nil {
		return
	}
	var m *models.Magazine
	if magazineID != "" {
		if r.Firearm == nil {
			return
		}
		if m = findMagazine(r.Firearm, magazineID); m == nil {
			return
		}
	}
	r.Magazine = m
	r.MagazineID = nil
	if m != nil {
		id := m.ID
		r.MagazineID = &id
	}
	r.UpdatedAt = e.now()
	e.queue.Enqueue(upsert(r))
}

func (e *Engine) newRun(s *models.Session, f *models.Firearm, now time.Time) *models.Run {
	r := &models.Run{
		ID:        e.newID(),
		CreatedAt: now,
		UpdatedAt: now,
		SessionID: s.ID,
		FirearmID: f.ID,
		Firearm:   f,
		StartedAt: now,
	}
	s.Runs = append(s.Runs, r)
	e.runs[r.ID] = r
	e.active[s.ID] = r
	return r
}

// closeActiveRun ends the session's open run at now and returns the write for it
func (e *Engine) closeActiveRun(s *models.Session, now time.Time) []Op {
	r := e.active[s.ID]
	if r == nil {
		return nil
	}
	delete(e.active, s.ID)
	if r.EndedAt == nil {
		ended := now
		r.EndedAt = &ended
		r.UpdatedAt = now
	}
	return []Op{upsert(r)}
}

// resolveAmmo maps an id to a product; "" resolves to nil, unknown ids fail
func (e *Engine) resolveAmmo(id string) (*models.AmmoProduct, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, true
	}
	a := e.ammo[id]
	return a, a != nil
}

// addCount applies delta to a non-negative counter, clamping at zero and
// saturating at math.MaxInt
func addCount(n, delta int) int {
	if delta > 0 && n > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(0, n+delta)
}

func validKind(kind models.MalfunctionKind) bool {
	for _, k := range models.MalfunctionKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

func idOf(a *models.AmmoProduct) *string {
	if a == nil {
		return nil
	}
	id := a.ID
	return &id
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
