// Unit tests for the backend attach/detach lifecycle and JSONL round trips.
package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// setupBackend creates an attached Backend over a temp data directory.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestAttachDetach(t *testing.T) {
	t.Run("attach twice fails", func(t *testing.T) {
		b := setupBackend(t)
		err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
		assert.ErrorIs(t, err, types.ErrAlreadyAttached)
	})

	t.Run("detach is idempotent", func(t *testing.T) {
		b := setupBackend(t)
		require.NoError(t, b.Detach())
		require.NoError(t, b.Detach())
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		b := NewBackend()
		err := b.Attach(types.Config{Backend: "postgres"})
		assert.ErrorIs(t, err, types.ErrBackendUnknown)
	})

	t.Run("operations on detached store fail", func(t *testing.T) {
		b := setupBackend(t)
		require.NoError(t, b.Detach())

		assert.ErrorIs(t, b.CreateTable("items"), types.ErrStoreDetached)
		_, err := b.InsertRow("items", "x")
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		_, err = b.NumRows("items")
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		_, err = b.View("queue")
		assert.ErrorIs(t, err, types.ErrStoreDetached)
	})

	t.Run("attach creates source-of-truth files", func(t *testing.T) {
		dir := t.TempDir()
		b := NewBackend()
		require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
		defer b.Detach()

		for _, name := range allJSONLFiles {
			assert.FileExists(t, filepath.Join(dir, name))
		}
	})
}

func TestReattachLoadsPersistedState(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))

	require.NoError(t, b.CreateTable("items"))
	r0, err := b.InsertRow("items", "first")
	require.NoError(t, err)
	_, err = b.InsertRow("items", "second")
	require.NoError(t, err)
	require.NoError(t, b.CreateList("queue", "items"))
	require.NoError(t, b.Append("queue", 1))
	require.NoError(t, b.Append("queue", 0))

	require.NoError(t, b.Detach())

	// A fresh backend over the same directory sees the same state.
	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	n, err := b2.NumRows("items")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := b2.RowAt("items", 0)
	require.NoError(t, err)
	assert.Equal(t, r0.RowID, got.RowID)
	assert.Equal(t, "first", got.Name)

	view, err := b2.View("queue")
	require.NoError(t, err)
	size, err := view.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	entry, err := view.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "second", entry.Name)
}
