package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	ctx := context.Background()

	f, err := NewFile(path)
	require.NoError(t, err)

	_, err = f.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.Set(ctx, "a", "1"))
	require.NoError(t, f.Set(ctx, "a", "2"))

	v, err := f.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	require.NoError(t, f.Delete(ctx, "a"))
	_, err = f.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again stays a no-op.
	require.NoError(t, f.Delete(ctx, "a"))
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	ctx := context.Background()

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "a", "1"))
	require.NoError(t, f.Set(ctx, "b", "2"))
	require.NoError(t, f.Delete(ctx, "b"))

	reopened, err := NewFile(path)
	require.NoError(t, err)

	v, err := reopened.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = reopened.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileCorruptStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f, err := NewFile(path)
	require.NoError(t, err)

	_, err = f.Get(context.Background(), "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "kv.json")
	ctx := context.Background()

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "a", "1"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestMemoryWatch(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var seen []string
	m.Watch(func(key string) { seen = append(seen, key) })

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Delete(ctx, "a"))

	assert.Equal(t, []string{"a", "a"}, seen)
}
