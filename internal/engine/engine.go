// Package engine holds the live object graph of firearms, ammo, sessions and
// runs, and every rule that mutates it: the run ledger, cascading deletes and
// the live session flow. Mutations apply to memory synchronously and are
// persisted through a write-behind Queue.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lucsky/cuid"

	"github.com/balkashynov/rangelog/internal/blob"
	"github.com/balkashynov/rangelog/internal/clock"
	"github.com/balkashynov/rangelog/internal/entitlement"
	"github.com/balkashynov/rangelog/internal/models"
)

var (
	// ErrFeatureLocked means the entitlement checker refused a gated operation
	ErrFeatureLocked = errors.New("feature requires an upgrade")
	// ErrNoPhotoStore means photo operations were attempted without a blob store
	ErrNoPhotoStore = errors.New("no photo store configured")
	// ErrNoLiveSession means a live-session command ran with no open session
	ErrNoLiveSession = errors.New("no session in progress")
)

// Options configures an Engine. Zero values pick sensible defaults.
type Options struct {
	Now    clock.NowFunc
	Photos blob.Store
	Gate   entitlement.Checker
	NewID  func() string
}

// Engine owns the in-memory graph. It is driven by a single owner and is not
// safe for concurrent mutation.
type Engine struct {
	now    clock.NowFunc
	newID  func() string
	photos blob.Store
	gate   entitlement.Checker
	queue  *Queue

	firearms map[string]*models.Firearm
	ammo     map[string]*models.AmmoProduct
	sessions map[string]*models.Session
	runs     map[string]*models.Run
	active   map[string]*models.Run // session id -> its open run

	live *LiveSession
}

// New returns an empty engine persisting through store
func New(store Store, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = cuid.New
	}
	if opts.Gate == nil {
		opts.Gate = entitlement.NewStatic(false, nil)
	}
	return &Engine{
		now:      opts.Now,
		newID:    opts.NewID,
		photos:   opts.Photos,
		gate:     opts.Gate,
		queue:    NewQueue(store),
		firearms: make(map[string]*models.Firearm),
		ammo:     make(map[string]*models.AmmoProduct),
		sessions: make(map[string]*models.Session),
		runs:     make(map[string]*models.Run),
		active:   make(map[string]*models.Run),
	}
}

// Now returns the engine's current time
func (e *Engine) Now() time.Time {
	return e.now()
}

// Queue exposes the write-behind queue
func (e *Engine) Queue() *Queue {
	return e.queue
}

// Finalize synchronously flushes every pending write. Callers use it before
// leaving a screen whose edits must be durable.
func (e *Engine) Finalize(ctx context.Context) error {
	return e.queue.Flush(ctx)
}

// Load replaces the in-memory graph with what loader returns. Sessions with
// more than one open run are repaired so only the newest stays open.
func (e *Engine) Load(ctx context.Context, loader Loader) error {
	firearms, err := loader.LoadFirearms(ctx)
	if err != nil {
		return fmt.Errorf("failed to load firearms: %w", err)
	}
	ammo, err := loader.LoadAmmo(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ammo: %w", err)
	}
	sessions, err := loader.FindSessions(ctx, SessionQuery{})
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	e.firearms = make(map[string]*models.Firearm, len(firearms))
	e.ammo = make(map[string]*models.AmmoProduct, len(ammo))
	e.sessions = make(map[string]*models.Session, len(sessions))
	e.runs = make(map[string]*models.Run)
	e.active = make(map[string]*models.Run)
	e.live = nil

	for _, f := range firearms {
		e.firearms[f.ID] = f
	}
	for _, a := range ammo {
		e.ammo[a.ID] = a
	}

	var ops []Op
	for _, s := range sessions {
		e.sessions[s.ID] = s
		sort.SliceStable(s.Runs, func(i, j int) bool {
			return s.Runs[i].StartedAt.Before(s.Runs[j].StartedAt)
		})
		for _, r := range s.Runs {
			e.runs[r.ID] = r
			e.link(r)
			if !r.IsOpen() {
				continue
			}
			if prev := e.active[s.ID]; prev != nil {
				// runs are sorted, so prev started first
				closedAt := r.StartedAt
				prev.EndedAt = &closedAt
				ops = append(ops, upsert(prev))
			}
			e.active[s.ID] = r
		}
	}

	// one open session per live flow; older strays are closed
	newest := e.OpenSession()
	for _, s := range sessions {
		if s.IsOpen() && s != newest {
			ops = append(ops, e.closeSession(s, e.now())...)
		}
	}
	e.queue.Enqueue(ops...)
	return nil
}

// link points a run's relationship fields at the shared graph objects
func (e *Engine) link(r *models.Run) {
	r.Firearm = e.firearms[r.FirearmID]
	r.Magazine = nil
	if r.MagazineID != nil && r.Firearm != nil {
		r.Magazine = findMagazine(r.Firearm, *r.MagazineID)
	}
	r.Ammo = nil
	if r.AmmoID != nil {
		r.Ammo = e.ammo[*r.AmmoID]
	}
	r.DefaultAmmo = nil
	if r.DefaultAmmoID != nil {
		r.DefaultAmmo = e.ammo[*r.DefaultAmmoID]
	}
}

func findMagazine(f *models.Firearm, id string) *models.Magazine {
	for _, m := range f.Magazines {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Firearm returns the firearm with id, or nil
func (e *Engine) Firearm(id string) *models.Firearm {
	return e.firearms[id]
}

// Ammo returns the ammo product with id, or nil
func (e *Engine) Ammo(id string) *models.AmmoProduct {
	return e.ammo[id]
}

// Session returns the session with id, or nil
func (e *Engine) Session(id string) *models.Session {
	return e.sessions[id]
}

// Run returns the run with id, or nil
func (e *Engine) Run(id string) *models.Run {
	return e.runs[id]
}

// ActiveRun returns the open run of a session, or nil
func (e *Engine) ActiveRun(sessionID string) *models.Run {
	return e.active[sessionID]
}

// Firearms returns all firearms sorted by display name
func (e *Engine) Firearms() []*models.Firearm {
	out := make([]*models.Firearm, 0, len(e.firearms))
	for _, f := range e.firearms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].DisplayName()), strings.ToLower(out[j].DisplayName())
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AmmoProducts returns all ammo sorted by display name
func (e *Engine) AmmoProducts() []*models.AmmoProduct {
	out := make([]*models.AmmoProduct, 0, len(e.ammo))
	for _, a := range e.ammo {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].DisplayName()), strings.ToLower(out[j].DisplayName())
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Sessions returns all sessions sorted by start time, oldest first
func (e *Engine) Sessions() []*models.Session {
	out := make([]*models.Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// OpenSession returns the newest session without an end time, or nil
func (e *Engine) OpenSession() *models.Session {
	var newest *models.Session
	for _, s := range e.sessions {
		if !s.IsOpen() {
			continue
		}
		if newest == nil || s.StartedAt.After(newest.StartedAt) {
			newest = s
		}
	}
	return newest
}

// FirearmInput holds the data needed to add a firearm
type FirearmInput struct {
	Brand   string
	Model   string
	Caliber string
	Class   models.FirearmClass
}

// AddFirearm creates a firearm
func (e *Engine) AddFirearm(in FirearmInput) *models.Firearm {
	now := e.now()
	class := in.Class
	if class == "" {
		class = models.ClassOther
	}
	f := &models.Firearm{
		ID:        e.newID(),
		CreatedAt: now,
		UpdatedAt: now,
		Brand:     strings.TrimSpace(in.Brand),
		Model:     strings.TrimSpace(in.Model),
		Caliber:   strings.TrimSpace(in.Caliber),
		Class:     class,
	}
	e.firearms[f.ID] = f
	e.queue.Enqueue(upsert(f))
	return f
}

// AddMagazine attaches a magazine to a firearm. Non-positive capacities and
// unknown firearms are ignored.
func (e *Engine) AddMagazine(firearmID string, capacity int, label string) *models.Magazine {
	f := e.firearms[firearmID]
	if f == nil || capacity <= 0 {
		return nil
	}
	m := &models.Magazine{
		ID:        e.newID(),
		CreatedAt: e.now(),
		FirearmID: f.ID,
		Capacity:  capacity,
		Label:     strings.TrimSpace(label),
	}
	f.Magazines = append(f.Magazines, m)
	e.queue.Enqueue(upsert(m))
	return m
}

// AmmoInput holds the data needed to add an ammo product
type AmmoInput struct {
	Brand       string
	Caliber     string
	GrainWeight int
	BulletType  models.BulletType
	BoxQuantity *int
}

// AddAmmo creates an ammo product
func (e *Engine) AddAmmo(in AmmoInput) *models.AmmoProduct {
	now := e.now()
	bt := in.BulletType
	if bt == "" {
		bt = models.BulletOther
	}
	a := &models.AmmoProduct{
		ID:          e.newID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Brand:       strings.TrimSpace(in.Brand),
		Caliber:     strings.TrimSpace(in.Caliber),
		GrainWeight: in.GrainWeight,
		BulletType:  bt,
		BoxQuantity: in.BoxQuantity,
	}
	e.ammo[a.ID] = a
	e.queue.Enqueue(upsert(a))
	return a
}

// SetSessionNote replaces a session's free-text note
func (e *Engine) SetSessionNote(sessionID, note string) {
	s := e.sessions[sessionID]
	if s == nil {
		return
	}
	s.Note = note
	s.UpdatedAt = e.now()
	e.queue.Enqueue(upsert(s))
}
