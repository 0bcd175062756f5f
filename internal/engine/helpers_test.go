package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/balkashynov/rangelog/internal/entitlement"
	"github.com/balkashynov/rangelog/internal/models"
)

// fakeStore records the latest row per entity and can be told to fail
type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]any
	fail    error
	txCount int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]any)}
}

func (s *fakeStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	fail := s.fail
	s.mu.Unlock()
	if fail != nil {
		return fail
	}
	s.txCount++
	return fn(s)
}

func (s *fakeStore) Upsert(_ context.Context, entity any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[rowKey(entity)] = entity
	return nil
}

func (s *fakeStore) Delete(_ context.Context, entity any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, rowKey(entity))
	return nil
}

func (s *fakeStore) has(entity any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[rowKey(entity)]
	return ok
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func rowKey(entity any) string {
	switch v := entity.(type) {
	case *models.Session:
		return "session/" + v.ID
	case *models.Run:
		return "run/" + v.ID
	case *models.Firearm:
		return "firearm/" + v.ID
	case *models.Magazine:
		return "magazine/" + v.ID
	case *models.AmmoProduct:
		return "ammo/" + v.ID
	case *models.MalfunctionTally:
		return "tally/" + v.ID
	case *models.Photo:
		return "photo/" + v.ID
	default:
		return fmt.Sprintf("%T", entity)
	}
}

// staticLoader hands back a fixed graph
type staticLoader struct {
	firearms []*models.Firearm
	ammo     []*models.AmmoProduct
	sessions []*models.Session
}

func (l *staticLoader) LoadFirearms(context.Context) ([]*models.Firearm, error) {
	return l.firearms, nil
}

func (l *staticLoader) LoadAmmo(context.Context) ([]*models.AmmoProduct, error) {
	return l.ammo, nil
}

func (l *staticLoader) FindSessions(context.Context, SessionQuery) ([]*models.Session, error) {
	return l.sessions, nil
}

// testClock is a manually advanced wall clock
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

type fixture struct {
	e     *Engine
	store *fakeStore
	clock *testClock
}

func newFixture(t *testing.T, gate entitlement.Checker) *fixture {
	t.Helper()
	store := newFakeStore()
	tc := &testClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	e := New(store, Options{Now: tc.now, NewID: sequentialIDs(), Gate: gate})
	return &fixture{e: e, store: store, clock: tc}
}

// openSession starts the live flow and returns its session
func (f *fixture) openSession(t *testing.T) *models.Session {
	t.Helper()
	s := f.e.Live().Start()
	if s == nil {
		t.Fatal("Expected live session to start")
	}
	return s
}

func (f *fixture) firearm(brand, model string, mags ...int) *models.Firearm {
	fa := f.e.AddFirearm(FirearmInput{Brand: brand, Model: model, Caliber: "9mm", Class: models.ClassHandgun})
	for _, c := range mags {
		f.e.AddMagazine(fa.ID, c, "")
	}
	return fa
}

func openRuns(s *models.Session) int {
	n := 0
	for _, r := range s.Runs {
		if r.IsOpen() {
			n++
		}
	}
	return n
}

func tallySum(r *models.Run) int {
	sum := 0
	for _, t := range r.Malfunctions {
		sum += t.Count
	}
	return sum
}
