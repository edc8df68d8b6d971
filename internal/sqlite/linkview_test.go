// Tests for the live LinkView: freshness, deferred reconciliation, and the
// accessor over a real backend.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/list"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// setupQueue attaches a backend with an "items" table holding three rows
// (r0, r1, r2) and a "queue" list containing one entry per row, in order.
func setupQueue(t *testing.T) (*Backend, types.LinkView) {
	t.Helper()
	b := setupBackend(t)
	require.NoError(t, b.CreateTable("items"))
	for _, name := range []string{"r0", "r1", "r2"} {
		_, err := b.InsertRow("items", name)
		require.NoError(t, err)
	}
	require.NoError(t, b.CreateList("queue", "items"))
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Append("queue", i))
	}
	view, err := b.View("queue")
	require.NoError(t, err)
	return b, view
}

func TestAccessorOverBackend(t *testing.T) {
	t.Run("get within and past bounds", func(t *testing.T) {
		_, view := setupQueue(t)
		l := list.Bind(view)

		row, err := l.Get(2)
		require.NoError(t, err)
		assert.Equal(t, "r2", row.Name)

		_, err = l.Get(3)
		require.ErrorIs(t, err, types.ErrOutOfRange)
		var re *types.RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, 3, re.Index)
		assert.Equal(t, 3, re.Size)
	})

	t.Run("set then get resolves the new target", func(t *testing.T) {
		_, view := setupQueue(t)
		l := list.Bind(view)

		require.NoError(t, l.Set(1, 2))
		row, err := l.Get(1)
		require.NoError(t, err)
		assert.Equal(t, "r2", row.Name)
	})

	t.Run("failed set leaves the list unmodified", func(t *testing.T) {
		_, view := setupQueue(t)
		l := list.Bind(view)

		err := l.Set(5, 0)
		require.ErrorIs(t, err, types.ErrOutOfRange)

		// Invalid target: in range for the list, out of range for the table.
		err = l.Set(1, 42)
		require.ErrorIs(t, err, types.ErrRowNotFound)

		for i, want := range []string{"r0", "r1", "r2"} {
			row, err := l.Get(i)
			require.NoError(t, err)
			assert.Equal(t, want, row.Name)
		}
	})

	t.Run("size reflects external growth", func(t *testing.T) {
		b, view := setupQueue(t)
		l := list.Bind(view)

		n, err := l.Size()
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		require.NoError(t, b.Append("queue", 0))

		n, err = l.Size()
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})
}

func TestDeferredReconciliation(t *testing.T) {
	b, view := setupQueue(t)
	l := list.Bind(view)

	// Deleting a row leaves its entry dangling: the size is unchanged and
	// the entry no longer resolves.
	row, err := b.RowAt("items", 1)
	require.NoError(t, err)
	require.NoError(t, b.DeleteRow(row.RowID))

	n, err := l.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, n, "dangling entry still counted before sync")

	_, err = l.Get(1)
	require.ErrorIs(t, err, types.ErrRowNotFound)

	// VerifyAttached reconciles: the dangling entry is pruned and the
	// survivors are renumbered contiguously.
	require.NoError(t, l.VerifyAttached())

	n, err = l.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := l.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "r0", first.Name)
	second, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "r2", second.Name)

	// A second verify with no intervening mutation is a no-op.
	require.NoError(t, l.VerifyAttached())
	n, err = l.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDetachedViews(t *testing.T) {
	t.Run("backend detach gates the accessor", func(t *testing.T) {
		b, view := setupQueue(t)
		l := list.Bind(view)

		_, err := l.Get(0)
		require.NoError(t, err)

		require.NoError(t, b.Detach())

		require.ErrorIs(t, l.VerifyAttached(), types.ErrNotAttached)
		_, err = l.Size()
		assert.ErrorIs(t, err, types.ErrNotAttached)
		_, err = l.Get(0)
		assert.ErrorIs(t, err, types.ErrNotAttached)
		assert.ErrorIs(t, l.Set(0, 0), types.ErrNotAttached)
	})

	t.Run("list deletion detaches its views", func(t *testing.T) {
		b, view := setupQueue(t)
		l := list.Bind(view)

		require.NoError(t, b.DeleteList("queue"))
		require.ErrorIs(t, l.VerifyAttached(), types.ErrNotAttached)
	})
}
