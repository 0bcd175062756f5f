// Package db persists the object graph in SQLite through gorm.
package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite" // pure Go SQLite driver, no CGO
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/rangelog/internal/models"
)

// Config holds database configuration
type Config struct {
	Path  string // file path or ":memory:"
	Debug bool
}

// Open connects to the database and runs migrations
func Open(cfg Config) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, fmt.Errorf("failed to get database path: %w", err)
		}
	}

	dsn := path
	if path != ":memory:" {
		// Ensure the directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create rangelog directory: %w", err)
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	logLevel := logger.Silent // Quiet by default
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormLogger := logger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		// referential integrity is enforced by the engine, not the schema
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if path == ":memory:" {
		// every connection to :memory: is a fresh database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// DefaultPath returns the path to the SQLite database file
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".rangelog", "rangelog.db"), nil
}

// Migrate creates/updates the database schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Firearm{},
		&models.Magazine{},
		&models.AmmoProduct{},
		&models.Session{},
		&models.Run{},
		&models.MalfunctionTally{},
		&models.Photo{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
