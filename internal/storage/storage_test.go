package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinboard/internal/config"
)

func TestDiskStore_PutDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/images/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("not really a jpeg")
	require.NoError(t, store.Put(ctx, "abc.jpg", bytes.NewReader(data), int64(len(data)), "image/jpeg"))

	got, err := os.ReadFile(filepath.Join(dir, "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "/images/uploads/abc.jpg", store.URL("abc.jpg"))

	require.NoError(t, store.Delete(ctx, "abc.jpg"))
	_, err = os.Stat(filepath.Join(dir, "abc.jpg"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, "abc.jpg"), "deleting a missing object is not an error")
}

func TestDiskStore_RejectsKeysOutsideDir(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/images/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../evil.jpg", `..\evil.jpg`, "a/b.jpg"} {
		t.Run(key, func(t *testing.T) {
			err := store.Put(ctx, key, bytes.NewReader([]byte("x")), 1, "image/png")
			assert.ErrorIs(t, err, ErrInvalidKey)
			assert.ErrorIs(t, store.Delete(ctx, key), ErrInvalidKey)
		})
	}
}

func TestDiskStore_SizeMismatchLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/images/uploads")
	require.NoError(t, err)

	err = store.Put(context.Background(), "short.png", bytes.NewReader([]byte("abc")), 10, "image/png")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewR2Store_MissingConfig(t *testing.T) {
	_, err := NewR2Store(context.Background(), &config.Config{R2AccountID: "acct"})
	assert.Error(t, err)
}

func TestR2Store_URL(t *testing.T) {
	s := &R2Store{publicURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/uploads/k.png", s.URL("k.png"))

	_, err := objectKey("../k.png")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
