package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/balkashynov/rangelog/internal/models"
)

// OpKind is the kind of durability write
type OpKind int

const (
	OpUpsert OpKind = iota
	OpDelete
)

func (k OpKind) String() string {
	if k == OpDelete {
		return "delete"
	}
	return "upsert"
}

// Op is one pending durability write. Entity is a detached copy taken when
// the op was queued, so later in-memory edits never race with a flush.
type Op struct {
	Kind   OpKind
	Entity any
}

// Queue is the write-behind buffer between the in-memory graph and the store.
// Mutations land in memory immediately and are queued here; Flush makes them
// durable. A crash before Flush loses whatever is still pending.
type Queue struct {
	store Store

	mu      sync.Mutex
	ops     []Op
	lastErr error

	flushMu sync.Mutex
	notify  chan struct{}
}

// NewQueue returns an empty queue writing to store
func NewQueue(store Store) *Queue {
	return &Queue{
		store:  store,
		notify: make(chan struct{}, 1),
	}
}

// Enqueue appends ops as one unit; a single Flush never splits them
func (q *Queue) Enqueue(ops ...Op) {
	if len(ops) == 0 {
		return
	}
	q.mu.Lock()
	q.ops = append(q.ops, ops...)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of pending ops
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// Pending returns a copy of the pending ops in order
func (q *Queue) Pending() []Op {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Op, len(q.ops))
	copy(out, q.ops)
	return out
}

// LastError returns the error from the most recent failed flush, cleared on success
func (q *Queue) LastError() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastErr
}

// Flush writes every pending op in one transaction. On failure the ops are
// put back at the front of the queue so a later flush retries them.
func (q *Queue) Flush(ctx context.Context) error {
	q.flushMu.Lock()
	defer q.flushMu.Unlock()

	q.mu.Lock()
	batch := q.ops
	q.ops = nil
	q.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	err := q.store.Transaction(ctx, func(tx Store) error {
		for i, op := range batch {
			var opErr error
			switch op.Kind {
			case OpDelete:
				opErr = tx.Delete(ctx, op.Entity)
			default:
				opErr = tx.Upsert(ctx, op.Entity)
			}
			if opErr != nil {
				return fmt.Errorf("op %d (%s %T): %w", i, op.Kind, op.Entity, opErr)
			}
		}
		return nil
	})

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		q.ops = append(batch, q.ops...)
		q.lastErr = err
		return fmt.Errorf("failed to flush %d pending writes: %w", len(batch), err)
	}
	q.lastErr = nil
	return nil
}

// Run flushes in the background whenever ops arrive or interval elapses,
// until ctx is done. Failures are logged and retried on the next pass.
func (q *Queue) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-q.notify:
		}
		if err := q.Flush(ctx); err != nil {
			log.Printf("rangelog: background save failed: %v", err)
		}
	}
}

// upsert and remove build ops from detached copies of the live entities

func upsert(entity any) Op {
	return Op{Kind: OpUpsert, Entity: detach(entity)}
}

func remove(entity any) Op {
	return Op{Kind: OpDelete, Entity: detach(entity)}
}

// detach copies the row fields of an entity and drops its relationships
func detach(entity any) any {
	switch v := entity.(type) {
	case *models.Session:
		c := *v
		c.Runs = nil
		return &c
	case *models.Run:
		c := *v
		c.Firearm = nil
		c.Magazine = nil
		c.Ammo = nil
		c.DefaultAmmo = nil
		c.Malfunctions = nil
		c.Photos = nil
		return &c
	case *models.Firearm:
		c := *v
		c.Magazines = nil
		return &c
	case *models.Magazine:
		c := *v
		return &c
	case *models.AmmoProduct:
		c := *v
		return &c
	case *models.MalfunctionTally:
		c := *v
		return &c
	case *models.Photo:
		c := *v
		return &c
	default:
		return entity
	}
}
