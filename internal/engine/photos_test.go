package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/rangelog/internal/blob"
	"github.com/balkashynov/rangelog/internal/entitlement"
	"github.com/balkashynov/rangelog/internal/models"
)

type allowAll struct{}

func (allowAll) Allowed(entitlement.Feature) bool { return true }

func newMemoryPhotos() blob.Store {
	return blob.NewMemory()
}

func TestPhotos_AttachAndLoad(t *testing.T) {
	f := newFixture(t, allowAll{})
	f.e.photos = newMemoryPhotos()
	s := f.openSession(t)
	run := f.e.StartNewRun(s.ID, f.firearm("Glock", "19").ID)

	p, err := f.e.AttachPhoto(context.Background(), run.ID, models.PhotoMalfunction, []byte("jpeg"))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, models.PhotoMalfunction, p.Tag)
	assert.Equal(t, run.ID, p.RunID)
	assert.Len(t, run.Photos, 1)

	data, err := f.e.LoadPhoto(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)

	f.e.DeletePhoto(p.ID)
	assert.Empty(t, run.Photos)
}

func TestPhotos_RefusedWithoutEntitlement(t *testing.T) {
	f := newFixture(t, entitlement.NewStatic(false, nil))
	f.e.photos = newMemoryPhotos()
	s := f.openSession(t)
	run := f.e.StartNewRun(s.ID, f.firearm("Glock", "19").ID)
	before := f.e.Queue().Len()

	p, err := f.e.AttachPhoto(context.Background(), run.ID, models.PhotoTarget, []byte("jpeg"))
	assert.ErrorIs(t, err, ErrFeatureLocked)
	assert.Nil(t, p)
	assert.Empty(t, run.Photos)
	assert.Equal(t, before, f.e.Queue().Len())
}

func TestPhotos_UnknownRunAndMissingStore(t *testing.T) {
	f := newFixture(t, allowAll{})
	p, err := f.e.AttachPhoto(context.Background(), "missing", models.PhotoTarget, nil)
	assert.NoError(t, err)
	assert.Nil(t, p)

	s := f.openSession(t)
	run := f.e.StartNewRun(s.ID, f.firearm("Glock", "19").ID)
	_, err = f.e.AttachPhoto(context.Background(), run.ID, models.PhotoTarget, []byte("x"))
	assert.ErrorIs(t, err, ErrNoPhotoStore)
}
