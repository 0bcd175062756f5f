package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	h, err := s.Put(ctx, "photos/run-1/a.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, h)

	data, err := s.Load(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	_, err = s.Put(ctx, "photos/run-1/a.jpg", []byte("again"))
	assert.Error(t, err, "keys are write-once")

	_, err = s.Put(ctx, "../escape.jpg", []byte("x"))
	assert.Error(t, err)
	_, err = s.Put(ctx, "/abs.jpg", []byte("x"))
	assert.Error(t, err)
	_, err = s.Put(ctx, "  ", []byte("x"))
	assert.Error(t, err)

	_, err = s.Load(ctx, Handle("bogus"))
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)
	assert.Equal(t, 1, m.Len())

	_, err := m.Load(context.Background(), Handle("mem:missing.jpg"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemStore(t *testing.T) {
	fsStore, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, fsStore)

	_, err = fsStore.Load(context.Background(), Handle("fs:missing.jpg"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	buf := []byte("abc")
	h, err := m.Put(ctx, "k", buf)
	require.NoError(t, err)
	buf[0] = 'z'

	data, err := m.Load(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}
