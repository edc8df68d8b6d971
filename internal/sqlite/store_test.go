// Unit tests for table, row, and list operations.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestCreateTable(t *testing.T) {
	b := setupBackend(t)

	require.NoError(t, b.CreateTable("items"))
	assert.ErrorIs(t, b.CreateTable("items"), types.ErrDuplicateName)
	assert.ErrorIs(t, b.CreateTable(""), types.ErrInvalidName)
}

func TestRows(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.CreateTable("items"))

	t.Run("insert into missing table fails", func(t *testing.T) {
		_, err := b.InsertRow("nope", "x")
		assert.ErrorIs(t, err, types.ErrTableNotFound)
	})

	t.Run("rows keep insertion order", func(t *testing.T) {
		for _, name := range []string{"first", "second", "third"} {
			_, err := b.InsertRow("items", name)
			require.NoError(t, err)
		}

		n, err := b.NumRows("items")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		for i, want := range []string{"first", "second", "third"} {
			row, err := b.RowAt("items", i)
			require.NoError(t, err)
			assert.Equal(t, want, row.Name)
			assert.Equal(t, "items", row.Table)
			assert.NotEmpty(t, row.RowID)
		}
	})

	t.Run("ordinal past the end fails", func(t *testing.T) {
		_, err := b.RowAt("items", 3)
		assert.ErrorIs(t, err, types.ErrRowNotFound)
		_, err = b.RowAt("items", -1)
		assert.ErrorIs(t, err, types.ErrRowNotFound)
	})

	t.Run("delete removes the row from its table", func(t *testing.T) {
		row, err := b.RowAt("items", 1)
		require.NoError(t, err)
		require.NoError(t, b.DeleteRow(row.RowID))

		n, err := b.NumRows("items")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		assert.ErrorIs(t, b.DeleteRow(row.RowID), types.ErrRowNotFound)
	})
}

func TestLists(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.CreateTable("items"))
	for _, name := range []string{"r0", "r1", "r2"} {
		_, err := b.InsertRow("items", name)
		require.NoError(t, err)
	}

	t.Run("create requires an existing target table", func(t *testing.T) {
		assert.ErrorIs(t, b.CreateList("queue", "nope"), types.ErrTableNotFound)
	})

	t.Run("create and duplicate", func(t *testing.T) {
		require.NoError(t, b.CreateList("queue", "items"))
		assert.ErrorIs(t, b.CreateList("queue", "items"), types.ErrDuplicateName)
	})

	t.Run("append validates the target ordinal", func(t *testing.T) {
		require.NoError(t, b.Append("queue", 2))
		assert.ErrorIs(t, b.Append("queue", 3), types.ErrRowNotFound)
		assert.ErrorIs(t, b.Append("nope", 0), types.ErrListNotFound)
	})

	t.Run("view resolves the list", func(t *testing.T) {
		view, err := b.View("queue")
		require.NoError(t, err)

		size, err := view.Size()
		require.NoError(t, err)
		assert.Equal(t, 1, size)

		row, err := view.Get(0)
		require.NoError(t, err)
		assert.Equal(t, "r2", row.Name)

		_, err = b.View("nope")
		assert.ErrorIs(t, err, types.ErrListNotFound)
	})

	t.Run("delete detaches views", func(t *testing.T) {
		view, err := b.View("queue")
		require.NoError(t, err)
		require.True(t, view.IsAttached())

		require.NoError(t, b.DeleteList("queue"))
		assert.False(t, view.IsAttached())
		assert.ErrorIs(t, b.DeleteList("queue"), types.ErrListNotFound)
	})
}
