// Table, row, and list operations for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// CreateTable registers a new row table.
// Returns ErrDuplicateName if the name is taken.
func (b *Backend) CreateTable(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if name == "" {
		return types.ErrInvalidName
	}

	var exists int
	err := b.db.QueryRow(
		"SELECT 1 FROM tables WHERE table_name = ?", name).Scan(&exists)
	if err == nil {
		return types.ErrDuplicateName
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking table: %w", err)
	}

	if _, err := b.db.Exec(
		"INSERT INTO tables (table_name, created_at) VALUES (?, ?)",
		name, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting table: %w", err)
	}

	if err := b.persistTablesJSONL(); err != nil {
		return err
	}
	b.bumpLocked()
	return nil
}

// InsertRow appends a row to a table and returns its handle.
// Returns ErrTableNotFound if the table does not exist.
func (b *Backend) InsertRow(table, name string) (*types.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if name == "" {
		return nil, types.ErrInvalidName
	}
	if err := b.checkTableLocked(table); err != nil {
		return nil, err
	}

	var ordinal int
	if err := b.db.QueryRow(
		"SELECT COALESCE(MAX(ordinal) + 1, 0) FROM rows WHERE table_name = ?",
		table).Scan(&ordinal); err != nil {
		return nil, fmt.Errorf("computing row ordinal: %w", err)
	}

	row := &types.Row{
		RowID:     newUUID(),
		Table:     table,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := b.db.Exec(
		"INSERT INTO rows (row_id, table_name, name, ordinal, created_at) VALUES (?, ?, ?, ?, ?)",
		row.RowID, row.Table, row.Name, ordinal,
		row.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("inserting row: %w", err)
	}

	if err := b.persistRowsJSONL(); err != nil {
		return nil, err
	}
	b.bumpLocked()
	return row, nil
}

// DeleteRow removes a row by ID. List entries referencing the row are left
// dangling until a view reconciles them via SyncIfNeeded.
func (b *Backend) DeleteRow(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	var exists int
	err := b.db.QueryRow(
		"SELECT 1 FROM rows WHERE row_id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrRowNotFound
	}
	if err != nil {
		return fmt.Errorf("checking row: %w", err)
	}

	if _, err := b.db.Exec("DELETE FROM rows WHERE row_id = ?", id); err != nil {
		return fmt.Errorf("deleting row: %w", err)
	}

	if err := b.persistRowsJSONL(); err != nil {
		return err
	}
	b.bumpLocked()
	return nil
}

// NumRows returns the number of rows in a table.
func (b *Backend) NumRows(table string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}
	if err := b.checkTableLocked(table); err != nil {
		return 0, err
	}

	var n int
	if err := b.db.QueryRow(
		"SELECT COUNT(*) FROM rows WHERE table_name = ?", table).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}

// RowAt returns the row at ordinal ndx in a table, in insertion order.
// Returns ErrRowNotFound if the table has no row at that ordinal.
func (b *Backend) RowAt(table string, ndx int) (*types.Row, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if err := b.checkTableLocked(table); err != nil {
		return nil, err
	}
	return b.rowAtLocked(table, ndx)
}

// CreateList registers a named link list whose entries reference rows of
// targetTable.
func (b *Backend) CreateList(name, targetTable string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if name == "" {
		return types.ErrInvalidName
	}
	if err := b.checkTableLocked(targetTable); err != nil {
		return err
	}

	var exists int
	err := b.db.QueryRow(
		"SELECT 1 FROM lists WHERE name = ?", name).Scan(&exists)
	if err == nil {
		return types.ErrDuplicateName
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking list name: %w", err)
	}

	if _, err := b.db.Exec(
		"INSERT INTO lists (list_id, name, target_table, created_at) VALUES (?, ?, ?, ?)",
		newUUID(), name, targetTable,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting list: %w", err)
	}

	if err := b.persistListsJSONL(); err != nil {
		return err
	}
	b.bumpLocked()
	return nil
}

// DeleteList removes a list and its entries. Views bound to the list become
// detached.
func (b *Backend) DeleteList(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	var listID string
	err := b.db.QueryRow(
		"SELECT list_id FROM lists WHERE name = ?", name).Scan(&listID)
	if err == sql.ErrNoRows {
		return types.ErrListNotFound
	}
	if err != nil {
		return fmt.Errorf("checking list: %w", err)
	}

	if _, err := b.db.Exec("DELETE FROM list_entries WHERE list_id = ?", listID); err != nil {
		return fmt.Errorf("deleting list entries: %w", err)
	}
	if _, err := b.db.Exec("DELETE FROM lists WHERE list_id = ?", listID); err != nil {
		return fmt.Errorf("deleting list: %w", err)
	}

	if err := b.persistListsJSONL(); err != nil {
		return err
	}
	if err := b.persistListEntriesJSONL(); err != nil {
		return err
	}
	b.bumpLocked()
	return nil
}

// Append adds an entry to the end of a list, referencing the row at ordinal
// targetNdx in the list's target table.
func (b *Backend) Append(list string, targetNdx int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	var listID, targetTable string
	err := b.db.QueryRow(
		"SELECT list_id, target_table FROM lists WHERE name = ?", list).
		Scan(&listID, &targetTable)
	if err == sql.ErrNoRows {
		return types.ErrListNotFound
	}
	if err != nil {
		return fmt.Errorf("checking list: %w", err)
	}

	row, err := b.rowAtLocked(targetTable, targetNdx)
	if err != nil {
		return err
	}

	var position int
	if err := b.db.QueryRow(
		"SELECT COALESCE(MAX(position) + 1, 0) FROM list_entries WHERE list_id = ?",
		listID).Scan(&position); err != nil {
		return fmt.Errorf("computing entry position: %w", err)
	}

	if _, err := b.db.Exec(
		"INSERT INTO list_entries (list_id, position, row_id) VALUES (?, ?, ?)",
		listID, position, row.RowID); err != nil {
		return fmt.Errorf("inserting list entry: %w", err)
	}

	if err := b.persistListEntriesJSONL(); err != nil {
		return err
	}
	b.bumpLocked()
	return nil
}

// View returns a live LinkView bound to the named list.
// Returns ErrListNotFound if the list does not exist.
func (b *Backend) View(list string) (types.LinkView, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	var listID, targetTable string
	err := b.db.QueryRow(
		"SELECT list_id, target_table FROM lists WHERE name = ?", list).
		Scan(&listID, &targetTable)
	if err == sql.ErrNoRows {
		return nil, types.ErrListNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking list: %w", err)
	}

	// syncedGen starts behind the backend so the first reconciliation
	// always runs; loaded JSONL may already contain dangling entries.
	return &LinkView{
		backend:     b,
		listID:      listID,
		name:        list,
		targetTable: targetTable,
		syncedGen:   -1,
	}, nil
}

// checkTableLocked verifies that a table exists. The caller must hold b.mu.
func (b *Backend) checkTableLocked(table string) error {
	var exists int
	err := b.db.QueryRow(
		"SELECT 1 FROM tables WHERE table_name = ?", table).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrTableNotFound
	}
	if err != nil {
		return fmt.Errorf("checking table: %w", err)
	}
	return nil
}

// rowAtLocked returns the row at ordinal ndx in a table, in insertion
// order. The caller must hold b.mu.
func (b *Backend) rowAtLocked(table string, ndx int) (*types.Row, error) {
	if ndx < 0 {
		return nil, types.ErrRowNotFound
	}

	var r types.Row
	var createdAt string
	err := b.db.QueryRow(
		"SELECT row_id, table_name, name, created_at FROM rows WHERE table_name = ? ORDER BY ordinal LIMIT 1 OFFSET ?",
		table, ndx).Scan(&r.RowID, &r.Table, &r.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrRowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}
	r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing row created_at: %w", err)
	}
	return &r, nil
}
