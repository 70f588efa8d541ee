package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	name := "frames/f-001.sfrm"
	data := []byte("hello world, this is a test blob")

	require.NoError(t, store.Put(ctx, name, data))
	_, err := os.Stat(filepath.Join(tmpDir, "frames", "f-001.sfrm"))
	require.NoError(t, err)

	blob, err := store.Open(ctx, name)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))

	_, err = blob.ReadAt(ctx, buf, int64(len(data))-2)
	assert.ErrorIs(t, err, io.EOF)

	m, ok := blob.(Mappable)
	require.True(t, ok)
	mapped, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, mapped)
	require.NoError(t, blob.Close())

	got, err := ReadAll(ctx, store, name)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, name))
	_, err = store.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Delete(ctx, name), "deleting a missing blob is not an error")
}

func TestLocalStore_PutReplaces(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "manifest.json", []byte("v1")))
	require.NoError(t, store.Put(ctx, "manifest.json", []byte("version-2")))

	got, err := ReadAll(ctx, store, "manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "version-2", string(got))
}

func TestLocalStore_List(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"bus/b.sfrm", "bus/a.sfrm", "other/c.sfrm", "manifest.json"} {
		require.NoError(t, store.Put(ctx, name, []byte(name)))
	}

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"bus/a.sfrm", "bus/b.sfrm", "manifest.json", "other/c.sfrm"}, all)

	bus, err := store.List(ctx, "bus/")
	require.NoError(t, err)
	assert.Equal(t, []string{"bus/a.sfrm", "bus/b.sfrm"}, bus)
}

func TestLocalStore_EmptyBlob(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "empty", nil))
	got, err := ReadAll(ctx, store, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}
