package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/models"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	db, err := Open(Config{Path: ":memory:"})
	require.NoError(t, err)

	cleanup := func() {
		_ = Close(db)
	}
	return db, cleanup
}

func TestStore_UpsertInsertsThenUpdates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := NewStore(db)
	ctx := context.Background()

	f := &models.Firearm{ID: "f1", Brand: "Glock", Model: "19", Caliber: "9mm", Class: models.ClassHandgun}
	require.NoError(t, store.Upsert(ctx, f))

	f.RoundCount = 150
	f.Model = "19 Gen5"
	require.NoError(t, store.Upsert(ctx, f))

	var got models.Firearm
	require.NoError(t, db.First(&got, "id = ?", "f1").Error)
	assert.Equal(t, "19 Gen5", got.Model)
	assert.Equal(t, 150, got.RoundCount)

	var count int64
	db.Model(&models.Firearm{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStore_UpsertDoesNotWriteAssociations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := NewStore(db)
	ctx := context.Background()

	f := &models.Firearm{
		ID: "f1", Brand: "Glock", Model: "19",
		Magazines: []*models.Magazine{{ID: "m1", FirearmID: "f1", Capacity: 15}},
	}
	require.NoError(t, store.Upsert(ctx, f))

	var count int64
	db.Model(&models.Magazine{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestStore_UpsertCanLowerCountersToZero(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := NewStore(db)
	ctx := context.Background()

	run := &models.Run{ID: "r1", SessionID: "s1", FirearmID: "f1", StartedAt: time.Now(), Rounds: 12}
	require.NoError(t, store.Upsert(ctx, run))
	run.Rounds = 0
	require.NoError(t, store.Upsert(ctx, run))

	var got models.Run
	require.NoError(t, db.First(&got, "id = ?", "r1").Error)
	assert.Equal(t, 0, got.Rounds)
}

func TestStore_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := NewStore(db)
	ctx := context.Background()

	a := &models.AmmoProduct{ID: "a1", Brand: "Federal", Caliber: "9mm", GrainWeight: 115}
	require.NoError(t, store.Upsert(ctx, a))
	require.NoError(t, store.Delete(ctx, &models.AmmoProduct{ID: "a1"}))
	// deleting a missing row is not an error
	require.NoError(t, store.Delete(ctx, &models.AmmoProduct{ID: "a1"}))

	var count int64
	db.Model(&models.AmmoProduct{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := NewStore(db)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx engine.Store) error {
		if err := tx.Upsert(ctx, &models.Firearm{ID: "f1", Brand: "Ruger", Model: "10/22"}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var count int64
	db.Model(&models.Firearm{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestStore_FindSessions(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := NewStore(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ended := base.Add(time.Hour)
	for i, id := range []string{"s1", "s2", "s3"} {
		s := &models.Session{ID: id, StartedAt: base.AddDate(0, 0, i)}
		if id != "s3" {
			s.EndedAt = &ended
		}
		require.NoError(t, store.Upsert(ctx, s))
	}
	require.NoError(t, store.Upsert(ctx, &models.Run{ID: "r2", SessionID: "s1", FirearmID: "f1", StartedAt: base.Add(30 * time.Minute)}))
	require.NoError(t, store.Upsert(ctx, &models.Run{ID: "r1", SessionID: "s1", FirearmID: "f1", StartedAt: base}))
	require.NoError(t, store.Upsert(ctx, &models.MalfunctionTally{ID: "t1", RunID: "r1", Kind: models.MalfunctionStovepipe, Count: 2}))
	require.NoError(t, store.Upsert(ctx, &models.Photo{ID: "p1", RunID: "r1", Handle: "mem:x", Tag: models.PhotoTarget}))

	t.Run("all oldest first with children", func(t *testing.T) {
		sessions, err := store.FindSessions(ctx, engine.SessionQuery{})
		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, "s1", sessions[0].ID)
		require.Len(t, sessions[0].Runs, 2)
		assert.Equal(t, "r1", sessions[0].Runs[0].ID)
		require.Len(t, sessions[0].Runs[0].Malfunctions, 1)
		assert.Equal(t, 2, sessions[0].Runs[0].Malfunctions[0].Count)
		assert.Len(t, sessions[0].Runs[0].Photos, 1)
	})

	t.Run("open only", func(t *testing.T) {
		sessions, err := store.FindSessions(ctx, engine.SessionQuery{OpenOnly: true})
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, "s3", sessions[0].ID)
	})

	t.Run("newest with limit", func(t *testing.T) {
		sessions, err := store.FindSessions(ctx, engine.SessionQuery{Newest: true, Limit: 2})
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "s3", sessions[0].ID)
		assert.Equal(t, "s2", sessions[1].ID)
	})

	t.Run("since", func(t *testing.T) {
		since := base.AddDate(0, 0, 1)
		sessions, err := store.FindSessions(ctx, engine.SessionQuery{Since: &since})
		require.NoError(t, err)
		assert.Len(t, sessions, 2)
	})
}

func TestStore_LoadFirearmsOrdersMagazines(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := NewStore(db)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &models.Firearm{ID: "f1", Brand: "Glock", Model: "19"}))
	require.NoError(t, store.Upsert(ctx, &models.Magazine{ID: "m2", FirearmID: "f1", Capacity: 17}))
	require.NoError(t, store.Upsert(ctx, &models.Magazine{ID: "m1", FirearmID: "f1", Capacity: 15}))

	firearms, err := store.LoadFirearms(ctx)
	require.NoError(t, err)
	require.Len(t, firearms, 1)
	require.Len(t, firearms[0].Magazines, 2)
	assert.Equal(t, 15, firearms[0].Magazines[0].Capacity)
}

func TestEngineRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := NewStore(db)
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clockFn := func() time.Time { return now }

	e := engine.New(store, engine.Options{Now: clockFn})
	f := e.AddFirearm(engine.FirearmInput{Brand: "Glock", Model: "19", Caliber: "9mm", Class: models.ClassHandgun})
	e.AddMagazine(f.ID, 15, "")
	ammo := e.AddAmmo(engine.AmmoInput{Brand: "Federal", Caliber: "9mm", GrainWeight: 115, BulletType: models.BulletFMJ})

	live := e.Live()
	s := live.Start()
	run := live.StartRun(f.ID)
	require.NotNil(t, run)
	e.SetAmmo(run.ID, ammo.ID)
	e.AdjustRounds(run.ID, 17)
	e.AdjustRounds(run.ID, 12)
	e.AdjustMalfunction(run.ID, models.MalfunctionStovepipe, 1)
	now = now.Add(20 * time.Minute)
	require.NoError(t, live.End(ctx))
	require.NoError(t, e.Finalize(ctx))

	reloaded := engine.New(store, engine.Options{Now: clockFn})
	require.NoError(t, reloaded.Load(ctx, store))

	gotSession := reloaded.Session(s.ID)
	require.NotNil(t, gotSession)
	assert.False(t, gotSession.IsOpen())
	require.Len(t, gotSession.Runs, 1)

	gotRun := gotSession.Runs[0]
	assert.Equal(t, 29, gotRun.Rounds)
	assert.Equal(t, 1, gotRun.MalfunctionTotal)
	require.NotNil(t, gotRun.Tally(models.MalfunctionStovepipe))
	assert.Equal(t, 1, gotRun.Tally(models.MalfunctionStovepipe).Count)
	require.NotNil(t, gotRun.AmmoID)
	assert.Equal(t, ammo.ID, *gotRun.AmmoID)
	assert.Equal(t, 29, reloaded.Firearm(f.ID).RoundCount)

	// cascade through the database
	reloaded.DeleteFirearm(f.ID)
	require.NoError(t, reloaded.Finalize(ctx))

	for _, m := range []any{&models.Firearm{}, &models.Magazine{}, &models.Session{}, &models.Run{}, &models.MalfunctionTally{}} {
		var count int64
		db.Model(m).Count(&count)
		assert.Equal(t, int64(0), count, "%T", m)
	}
	var ammoCount int64
	db.Model(&models.AmmoProduct{}).Count(&ammoCount)
	assert.Equal(t, int64(1), ammoCount)
}
