package dedupe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrsummarizer/internal/logger"
)

func TestFileStoreAddContains(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"), logger.NopLogger())
	ctx := context.Background()

	seen, err := store.Contains(ctx, "42")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Add(ctx, "42"))

	seen, err = store.Contains(ctx, "42")
	require.NoError(t, err)
	assert.True(t, seen)

	// Adding an existing ID is a no-op, never an error.
	require.NoError(t, store.Add(ctx, "42"))

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, all)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFileStoreCount(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"), logger.NopLogger())
	ctx := context.Background()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, store.Add(ctx, "a"))
	require.NoError(t, store.Add(ctx, "b"))
	require.NoError(t, store.Add(ctx, "b"))

	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFileStorePersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	store := NewFileStore(path, logger.NopLogger())
	require.NoError(t, store.Add(ctx, "1"))
	require.NoError(t, store.Add(ctx, "2"))
	require.NoError(t, store.Persist(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record struct {
		ProcessedIDs []string `json:"processed_ids"`
		LastUpdated  string   `json:"last_updated"`
	}
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, []string{"1", "2"}, record.ProcessedIDs)
	assert.NotEmpty(t, record.LastUpdated)

	reloaded := NewFileStore(path, logger.NopLogger())
	seen, err := reloaded.Contains(ctx, "1")
	require.NoError(t, err)
	assert.True(t, seen)
	seen, err = reloaded.Contains(ctx, "2")
	require.NoError(t, err)
	assert.True(t, seen)
	seen, err = reloaded.Contains(ctx, "3")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path, logger.NopLogger())

	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"), logger.NopLogger())

	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStorePersistIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	store := NewFileStore(path, logger.NopLogger())
	require.NoError(t, store.Add(ctx, "a"))
	require.NoError(t, store.Persist(ctx))
	require.NoError(t, store.Persist(ctx))

	reloaded := NewFileStore(path, logger.NopLogger())
	all, err := reloaded.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, all)
}
