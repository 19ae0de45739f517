package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/surbind/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"), testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_ContentHashRoundtrip(t *testing.T) {
	store := openTestStore(t)

	// Unknown origin yields an empty hash, not an error.
	hash, err := store.GetContentHash("schema/fns.surql")
	require.NoError(t, err)
	assert.Equal(t, "", hash)

	require.NoError(t, store.SetContentHash("schema/fns.surql", "abc123"))

	hash, err = store.GetContentHash("schema/fns.surql")
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)

	// Upsert replaces the stored hash.
	require.NoError(t, store.SetContentHash("schema/fns.surql", "def456"))
	hash, err = store.GetContentHash("schema/fns.surql")
	require.NoError(t, err)
	assert.Equal(t, "def456", hash)
}

func TestStore_PruneHashes(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetContentHash("a.surql", "h1"))
	require.NoError(t, store.SetContentHash("b.surql", "h2"))
	require.NoError(t, store.SetContentHash("c.surql", "h3"))

	require.NoError(t, store.PruneHashes([]string{"a.surql", "c.surql"}))

	hash, err := store.GetContentHash("b.surql")
	require.NoError(t, err)
	assert.Equal(t, "", hash)

	hash, err = store.GetContentHash("a.surql")
	require.NoError(t, err)
	assert.Equal(t, "h1", hash)
}

func TestStore_RunLifecycle(t *testing.T) {
	store := openTestStore(t)

	run, err := store.CreateRun()
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StatusRunning, run.Status)

	require.NoError(t, store.FinishRun(run.ID, StatusSuccess, 7, "bindings.gen.go", ""))

	last, err := store.LastRun()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, run.ID, last.ID)
	assert.Equal(t, StatusSuccess, last.Status)
	assert.Equal(t, 7, last.Functions)
	assert.Equal(t, "bindings.gen.go", last.Output)
	assert.False(t, last.FinishedAt.IsZero())
}

func TestStore_FailedRunKeepsError(t *testing.T) {
	store := openTestStore(t)

	run, err := store.CreateRun()
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(run.ID, StatusFailed, 0, "", "bad.surql: malformed function header"))

	last, err := store.LastRun()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, StatusFailed, last.Status)
	assert.Contains(t, last.Error, "malformed function header")
}

func TestStore_LastRunEmpty(t *testing.T) {
	store := openTestStore(t)

	last, err := store.LastRun()
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestStore_ReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, store.SetContentHash("a.surql", "h1"))
	require.NoError(t, store.Close())

	store, err = Open(path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	hash, err := store.GetContentHash("a.surql")
	require.NoError(t, err)
	assert.Equal(t, "h1", hash)
}
