package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/balkashynov/rangelog/internal/blob"
	"github.com/balkashynov/rangelog/internal/clock"
	"github.com/balkashynov/rangelog/internal/config"
	"github.com/balkashynov/rangelog/internal/db"
	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/entitlement"
)

// now is the wall clock every command reads through the engine
var now clock.NowFunc = time.Now

// app is everything a command needs, opened once per invocation
type app struct {
	cfg    config.Config
	conn   *gorm.DB
	engine *engine.Engine
	gate   entitlement.Checker
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(db.Config{Path: cfg.DBPath, Debug: cfg.Debug})
	if err != nil {
		return nil, err
	}
	photos, err := blob.NewFilesystem(cfg.PhotoDir)
	if err != nil {
		_ = db.Close(conn)
		return nil, err
	}

	gate := entitlement.NewStatic(cfg.Pro, cfg.Features)
	store := db.NewStore(conn)
	e := engine.New(store, engine.Options{Now: now, Photos: photos, Gate: gate})
	if err := e.Load(ctx, store); err != nil {
		_ = db.Close(conn)
		return nil, err
	}
	return &app{cfg: cfg, conn: conn, engine: e, gate: gate}, nil
}

// close flushes pending writes and releases the database
func (a *app) close(ctx context.Context) error {
	err := a.engine.Finalize(ctx)
	if cerr := db.Close(a.conn); err == nil {
		err = cerr
	}
	return err
}

// withEngine wraps a command so it runs against the loaded graph and every
// change is saved before the process exits
func withEngine(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		runErr := fn(cmd, args, a)
		if err := a.close(ctx); err != nil && runErr == nil {
			runErr = fmt.Errorf("failed to save changes: %w", err)
		}
		return runErr
	}
}
