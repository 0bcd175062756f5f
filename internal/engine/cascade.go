package engine

import (
	"sort"

	"github.com/balkashynov/rangelog/internal/models"
)

// DeleteRun removes a run together with its photos and malfunction tallies
func (e *Engine) DeleteRun(runID string) {
	r := e.runs[runID]
	if r == nil {
		return
	}
	e.queue.Enqueue(e.removeRun(r)...)
}

// DeleteSession removes a session and every run it owns
func (e *Engine) DeleteSession(sessionID string) {
	s := e.sessions[sessionID]
	if s == nil {
		return
	}
	e.queue.Enqueue(e.removeSession(s)...)
}

// DeleteFirearm removes a firearm, its magazines and every run fired with it.
// Sessions left without runs by that are removed too. All writes are queued
// as one unit so they flush in a single transaction.
func (e *Engine) DeleteFirearm(firearmID string) {
	f := e.firearms[firearmID]
	if f == nil {
		return
	}

	var doomed []*models.Run
	affected := make(map[string]bool)
	for _, r := range e.runs {
		if r.FirearmID == f.ID {
			doomed = append(doomed, r)
			affected[r.SessionID] = true
		}
	}
	sort.Slice(doomed, func(i, j int) bool {
		if !doomed[i].StartedAt.Equal(doomed[j].StartedAt) {
			return doomed[i].StartedAt.Before(doomed[j].StartedAt)
		}
		return doomed[i].ID < doomed[j].ID
	})

	var ops []Op
	for _, r := range doomed {
		ops = append(ops, e.removeRun(r)...)
	}
	for _, s := range e.Sessions() {
		if affected[s.ID] && len(s.Runs) == 0 {
			ops = append(ops, e.removeSession(s)...)
		}
	}
	for _, m := range f.Magazines {
		ops = append(ops, remove(m))
	}
	delete(e.firearms, f.ID)
	ops = append(ops, remove(f))
	e.queue.Enqueue(ops...)
}

// DeleteAmmo removes an ammo product. Runs that used it, or remembered it as
// their default, keep their history and simply lose the reference.
func (e *Engine) DeleteAmmo(ammoID string) {
	a := e.ammo[ammoID]
	if a == nil {
		return
	}

	now := e.now()
	var touched []*models.Run
	for _, r := range e.runs {
		changed := false
		if r.AmmoID != nil && *r.AmmoID == a.ID {
			r.AmmoID = nil
			r.Ammo = nil
			changed = true
		}
		if r.DefaultAmmoID != nil && *r.DefaultAmmoID == a.ID {
			r.DefaultAmmoID = nil
			r.DefaultAmmo = nil
			changed = true
		}
		if changed {
			r.UpdatedAt = now
			touched = append(touched, r)
		}
	}
	sort.Slice(touched, func(i, j int) bool { return touched[i].ID < touched[j].ID })

	ops := make([]Op, 0, len(touched)+1)
	for _, r := range touched {
		ops = append(ops, upsert(r))
	}
	delete(e.ammo, a.ID)
	ops = append(ops, remove(a))
	e.queue.Enqueue(ops...)
}

// removeRun unlinks a run from memory and returns the deletes, children first
func (e *Engine) removeRun(r *models.Run) []Op {
	if s := e.sessions[r.SessionID]; s != nil {
		for i, candidate := range s.Runs {
			if candidate == r {
				s.Runs = append(s.Runs[:i], s.Runs[i+1:]...)
				break
			}
		}
	}
	if e.active[r.SessionID] == r {
		delete(e.active, r.SessionID)
	}
	delete(e.runs, r.ID)

	ops := make([]Op, 0, len(r.Photos)+len(r.Malfunctions)+1)
	for _, p := range r.Photos {
		ops = append(ops, remove(p))
	}
	for _, t := range r.Malfunctions {
		ops = append(ops, remove(t))
	}
	return append(ops, remove(r))
}

func (e *Engine) removeSession(s *models.Session) []Op {
	var ops []Op
	for _, r := range append([]*models.Run(nil), s.Runs...) {
		ops = append(ops, e.removeRun(r)...)
	}
	delete(e.sessions, s.ID)
	return append(ops, remove(s))
}
