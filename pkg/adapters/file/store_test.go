package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/excelauto/pkg/adapters/file"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/aretw0/excelauto/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, file.NewStore(dir).Save(ctx, domain.NewSession("claude", "/data/q1.xlsx")))

	loaded, err := file.NewStore(dir).Load(ctx, "claude")
	require.NoError(t, err)
	assert.Equal(t, "/data/q1.xlsx", loaded.WorkbookPath)
}

func TestFileStore_UnsafeIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := file.NewStore(dir)

	ids := []string{"../escape", "a/b", "with space", "ünïcode"}
	for _, id := range ids {
		require.NoError(t, store.Save(ctx, domain.NewSession(id, "/x.xlsx")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(ids), "every session stays inside the directory")

	// Garbage is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "!!.json"), []byte("{}"), 0o644))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, list)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "not-yet"))

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestFileStore_Corrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := file.NewStore(dir)
	require.NoError(t, store.Save(ctx, domain.NewSession("s", "/x.xlsx")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("{"), 0o644))

	_, err = store.Load(ctx, "s")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
