package engine

import (
	"context"
	"time"

	"github.com/balkashynov/rangelog/internal/models"
)

// Store is the durable side of the object graph. Entities passed in are
// model pointers (*models.Session, *models.Run, ...).
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Upsert(ctx context.Context, entity any) error
	Delete(ctx context.Context, entity any) error
}

// SessionQuery narrows FindSessions
type SessionQuery struct {
	Since    *time.Time // StartedAt >= Since
	OpenOnly bool
	Newest   bool // order by StartedAt descending instead of ascending
	Limit    int
}

// Loader reads the object graph back out of storage
type Loader interface {
	LoadFirearms(ctx context.Context) ([]*models.Firearm, error)
	LoadAmmo(ctx context.Context) ([]*models.AmmoProduct, error)
	FindSessions(ctx context.Context, q SessionQuery) ([]*models.Session, error)
}
