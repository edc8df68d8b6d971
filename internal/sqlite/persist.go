// JSONL snapshot persistence. Each persist method reads the full SQLite
// table and rewrites the corresponding JSONL file atomically, keeping the
// files in the data directory the source of truth. Callers hold b.mu.
package sqlite

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

// JSONL file names in the data directory.
const (
	tablesFile      = "tables.jsonl"
	rowsFile        = "rows.jsonl"
	listsFile       = "lists.jsonl"
	listEntriesFile = "list_entries.jsonl"
)

// JSONL record shapes. Field order matches column order in the schema.

type tableRecord struct {
	TableName string `json:"table_name"`
	CreatedAt string `json:"created_at"`
}

type rowRecord struct {
	RowID     string `json:"row_id"`
	TableName string `json:"table_name"`
	Name      string `json:"name"`
	Ordinal   int    `json:"ordinal"`
	CreatedAt string `json:"created_at"`
}

type listRecord struct {
	ListID      string `json:"list_id"`
	Name        string `json:"name"`
	TargetTable string `json:"target_table"`
	CreatedAt   string `json:"created_at"`
}

type listEntryRecord struct {
	ListID   string `json:"list_id"`
	Position int    `json:"position"`
	RowID    string `json:"row_id"`
}

func (b *Backend) persistTablesJSONL() error {
	rows, err := b.db.Query("SELECT table_name, created_at FROM tables ORDER BY created_at, table_name")
	if err != nil {
		return fmt.Errorf("reading tables for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec tableRecord
		if err := rows.Scan(&rec.TableName, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning table for JSONL: %w", err)
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling table record: %w", err)
		}
		records = append(records, raw)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONLAtomic(filepath.Join(b.dataDir, tablesFile), records)
}

func (b *Backend) persistRowsJSONL() error {
	rows, err := b.db.Query("SELECT row_id, table_name, name, ordinal, created_at FROM rows ORDER BY table_name, ordinal")
	if err != nil {
		return fmt.Errorf("reading rows for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec rowRecord
		if err := rows.Scan(&rec.RowID, &rec.TableName, &rec.Name, &rec.Ordinal, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning row for JSONL: %w", err)
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling row record: %w", err)
		}
		records = append(records, raw)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONLAtomic(filepath.Join(b.dataDir, rowsFile), records)
}

func (b *Backend) persistListsJSONL() error {
	rows, err := b.db.Query("SELECT list_id, name, target_table, created_at FROM lists ORDER BY created_at, name")
	if err != nil {
		return fmt.Errorf("reading lists for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec listRecord
		if err := rows.Scan(&rec.ListID, &rec.Name, &rec.TargetTable, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning list for JSONL: %w", err)
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling list record: %w", err)
		}
		records = append(records, raw)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONLAtomic(filepath.Join(b.dataDir, listsFile), records)
}

func (b *Backend) persistListEntriesJSONL() error {
	rows, err := b.db.Query("SELECT list_id, position, row_id FROM list_entries ORDER BY list_id, position")
	if err != nil {
		return fmt.Errorf("reading list_entries for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec listEntryRecord
		if err := rows.Scan(&rec.ListID, &rec.Position, &rec.RowID); err != nil {
			return fmt.Errorf("scanning list entry for JSONL: %w", err)
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling list entry record: %w", err)
		}
		records = append(records, raw)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONLAtomic(filepath.Join(b.dataDir, listEntriesFile), records)
}
