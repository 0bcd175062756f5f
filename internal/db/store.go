package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/models"
)

// Store implements engine.Store and engine.Loader on top of gorm
type Store struct {
	db *gorm.DB
}

var (
	_ engine.Store  = (*Store)(nil)
	_ engine.Loader = (*Store)(nil)
)

// NewStore wraps an open connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a store bound to a single transaction
func (s *Store) Transaction(ctx context.Context, fn func(tx engine.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Upsert inserts the row or overwrites it by primary key. Relationships are
// never written through; each entity is saved on its own.
func (s *Store) Upsert(ctx context.Context, entity any) error {
	err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(entity).Error
	if err != nil {
		return fmt.Errorf("upsert %T: %w", entity, err)
	}
	return nil
}

// Delete removes the row with the entity's primary key
func (s *Store) Delete(ctx context.Context, entity any) error {
	if err := s.db.WithContext(ctx).Delete(entity).Error; err != nil {
		return fmt.Errorf("delete %T: %w", entity, err)
	}
	return nil
}

// LoadFirearms returns every firearm with its magazines, smallest first
func (s *Store) LoadFirearms(ctx context.Context) ([]*models.Firearm, error) {
	var firearms []*models.Firearm
	err := s.db.WithContext(ctx).
		Preload("Magazines", func(db *gorm.DB) *gorm.DB {
			return db.Order("capacity ASC")
		}).
		Order("brand ASC, model ASC").
		Find(&firearms).Error
	if err != nil {
		return nil, err
	}
	return firearms, nil
}

// LoadAmmo returns every ammo product
func (s *Store) LoadAmmo(ctx context.Context) ([]*models.AmmoProduct, error) {
	var ammo []*models.AmmoProduct
	if err := s.db.WithContext(ctx).Order("brand ASC, caliber ASC").Find(&ammo).Error; err != nil {
		return nil, err
	}
	return ammo, nil
}

// FindSessions returns sessions matching q with runs, tallies and photos loaded
func (s *Store) FindSessions(ctx context.Context, q engine.SessionQuery) ([]*models.Session, error) {
	tx := s.db.WithContext(ctx).
		Preload("Runs", func(db *gorm.DB) *gorm.DB {
			return db.Order("started_at ASC")
		}).
		Preload("Runs.Malfunctions").
		Preload("Runs.Photos")

	if q.Since != nil {
		tx = tx.Where("started_at >= ?", *q.Since)
	}
	if q.OpenOnly {
		tx = tx.Where("ended_at IS NULL")
	}
	if q.Newest {
		tx = tx.Order("started_at DESC")
	} else {
		tx = tx.Order("started_at ASC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var sessions []*models.Session
	if err := tx.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
