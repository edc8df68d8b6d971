// LinkView is the live sequence a list accessor binds to. It answers size
// and indexed reads from the current database state, and defers cleanup of
// entries orphaned by row deletions until SyncIfNeeded runs.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// LinkView implements types.LinkView over one list in a Backend.
type LinkView struct {
	backend     *Backend
	listID      string
	name        string
	targetTable string

	mu        sync.Mutex
	syncedGen int64 // backend generation at last reconciliation
}

var _ types.LinkView = (*LinkView)(nil)

// Size returns the current entry count, including entries whose row has
// been deleted but not yet reconciled away.
func (v *LinkView) Size() (int, error) {
	v.backend.mu.RLock()
	defer v.backend.mu.RUnlock()

	if !v.backend.attached {
		return 0, types.ErrNotAttached
	}

	var n int
	if err := v.backend.db.QueryRow(
		"SELECT COUNT(*) FROM list_entries WHERE list_id = ?", v.listID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting list entries: %w", err)
	}
	return n, nil
}

// IsAttached reports whether the view still refers to a live list in an
// attached backend.
func (v *LinkView) IsAttached() bool {
	v.backend.mu.RLock()
	defer v.backend.mu.RUnlock()

	if !v.backend.attached {
		return false
	}

	var exists int
	err := v.backend.db.QueryRow(
		"SELECT 1 FROM lists WHERE list_id = ?", v.listID).Scan(&exists)
	return err == nil
}

// SyncIfNeeded reconciles deferred row deletions: entries whose row is gone
// are removed and the remaining entries are renumbered contiguously from 0.
// A no-op while the view's generation matches the backend's.
func (v *LinkView) SyncIfNeeded() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.backend.mu.Lock()
	defer v.backend.mu.Unlock()

	if !v.backend.attached {
		return types.ErrNotAttached
	}
	if v.syncedGen == v.backend.generation {
		return nil
	}

	if _, err := v.backend.db.Exec(
		"DELETE FROM list_entries WHERE list_id = ? AND row_id NOT IN (SELECT row_id FROM rows)",
		v.listID); err != nil {
		return fmt.Errorf("pruning list entries: %w", err)
	}

	if err := v.compactLocked(); err != nil {
		return err
	}
	if err := v.backend.persistListEntriesJSONL(); err != nil {
		return err
	}

	v.syncedGen = v.backend.generation
	return nil
}

// compactLocked renumbers surviving entries to positions 0..n-1 preserving
// order. The caller must hold the backend write lock.
func (v *LinkView) compactLocked() error {
	rows, err := v.backend.db.Query(
		"SELECT position FROM list_entries WHERE list_id = ? ORDER BY position", v.listID)
	if err != nil {
		return fmt.Errorf("reading entry positions: %w", err)
	}
	defer rows.Close()

	var positions []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return fmt.Errorf("scanning entry position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for want, have := range positions {
		if want == have {
			continue
		}
		if _, err := v.backend.db.Exec(
			"UPDATE list_entries SET position = ? WHERE list_id = ? AND position = ?",
			want, v.listID, have); err != nil {
			return fmt.Errorf("renumbering entry: %w", err)
		}
	}
	return nil
}

// Get returns the row referenced by the entry at ndx. The precondition
// 0 <= ndx < Size() is unchecked; list.List enforces it. A dangling entry
// (row deleted, not yet reconciled) resolves to ErrRowNotFound.
func (v *LinkView) Get(ndx int) (*types.Row, error) {
	v.backend.mu.RLock()
	defer v.backend.mu.RUnlock()

	if !v.backend.attached {
		return nil, types.ErrNotAttached
	}

	rowID, _, err := v.entryAtLocked(ndx)
	if err != nil {
		return nil, err
	}

	var r types.Row
	var createdAt string
	err = v.backend.db.QueryRow(
		"SELECT row_id, table_name, name, created_at FROM rows WHERE row_id = ?",
		rowID).Scan(&r.RowID, &r.Table, &r.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("entry %d references deleted row %s: %w", ndx, rowID, types.ErrRowNotFound)
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

// Set rewrites the entry at ndx to reference the row at ordinal targetNdx
// in the target table. targetNdx is validated here, against the target
// table, not by the accessor; an invalid target returns ErrRowNotFound and
// leaves the list unmodified.
func (v *LinkView) Set(ndx, targetNdx int) error {
	v.backend.mu.Lock()
	defer v.backend.mu.Unlock()

	if !v.backend.attached {
		return types.ErrNotAttached
	}

	target, err := v.backend.rowAtLocked(v.targetTable, targetNdx)
	if err != nil {
		return err
	}

	_, position, err := v.entryAtLocked(ndx)
	if err != nil {
		return err
	}

	if _, err := v.backend.db.Exec(
		"UPDATE list_entries SET row_id = ? WHERE list_id = ? AND position = ?",
		target.RowID, v.listID, position); err != nil {
		return fmt.Errorf("updating list entry: %w", err)
	}

	if err := v.backend.persistListEntriesJSONL(); err != nil {
		return err
	}
	v.backend.bumpLocked()
	return nil
}

// entryAtLocked returns the row ID and stored position of the entry at
// index ndx, in position order. The caller must hold the backend lock.
func (v *LinkView) entryAtLocked(ndx int) (string, int, error) {
	if ndx < 0 {
		return "", 0, types.ErrRowNotFound
	}

	var rowID string
	var position int
	err := v.backend.db.QueryRow(
		"SELECT row_id, position FROM list_entries WHERE list_id = ? ORDER BY position LIMIT 1 OFFSET ?",
		v.listID, ndx).Scan(&rowID, &position)
	if err == sql.ErrNoRows {
		return "", 0, types.ErrRowNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("scanning list entry: %w", err)
	}
	return rowID, position, nil
}
