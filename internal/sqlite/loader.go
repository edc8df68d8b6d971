// Loading JSONL source-of-truth files into SQLite on Attach.
package sqlite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// allJSONLFiles lists every source-of-truth file, in load order: tables
// before rows and lists, lists before entries.
var allJSONLFiles = []string{
	tablesFile,
	rowsFile,
	listsFile,
	listEntriesFile,
}

// initJSONLFiles creates empty JSONL files for any that are missing, so a
// fresh data directory is fully populated after the first Attach.
func (b *Backend) initJSONLFiles() error {
	for _, name := range allJSONLFiles {
		path := filepath.Join(b.dataDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if err := writeJSONLAtomic(path, nil); err != nil {
			return fmt.Errorf("initializing %s: %w", name, err)
		}
	}
	return nil
}

// loadAllJSONL reads every JSONL file and inserts its records into the
// freshly-created SQLite schema. Records that fail to decode are skipped,
// matching the reader's tolerance for malformed lines.
func (b *Backend) loadAllJSONL() error {
	if err := b.loadTablesJSONL(); err != nil {
		return err
	}
	if err := b.loadRowsJSONL(); err != nil {
		return err
	}
	if err := b.loadListsJSONL(); err != nil {
		return err
	}
	return b.loadListEntriesJSONL()
}

func (b *Backend) loadTablesJSONL() error {
	records, err := readJSONL(filepath.Join(b.dataDir, tablesFile))
	if err != nil {
		return err
	}
	for _, raw := range records {
		var rec tableRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if _, err := b.db.Exec(
			"INSERT INTO tables (table_name, created_at) VALUES (?, ?)",
			rec.TableName, rec.CreatedAt); err != nil {
			return fmt.Errorf("loading table %s: %w", rec.TableName, err)
		}
	}
	return nil
}

func (b *Backend) loadRowsJSONL() error {
	records, err := readJSONL(filepath.Join(b.dataDir, rowsFile))
	if err != nil {
		return err
	}
	for _, raw := range records {
		var rec rowRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if _, err := b.db.Exec(
			"INSERT INTO rows (row_id, table_name, name, ordinal, created_at) VALUES (?, ?, ?, ?, ?)",
			rec.RowID, rec.TableName, rec.Name, rec.Ordinal, rec.CreatedAt); err != nil {
			return fmt.Errorf("loading row %s: %w", rec.RowID, err)
		}
	}
	return nil
}

func (b *Backend) loadListsJSONL() error {
	records, err := readJSONL(filepath.Join(b.dataDir, listsFile))
	if err != nil {
		return err
	}
	for _, raw := range records {
		var rec listRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if _, err := b.db.Exec(
			"INSERT INTO lists (list_id, name, target_table, created_at) VALUES (?, ?, ?, ?)",
			rec.ListID, rec.Name, rec.TargetTable, rec.CreatedAt); err != nil {
			return fmt.Errorf("loading list %s: %w", rec.Name, err)
		}
	}
	return nil
}

func (b *Backend) loadListEntriesJSONL() error {
	records, err := readJSONL(filepath.Join(b.dataDir, listEntriesFile))
	if err != nil {
		return err
	}
	for _, raw := range records {
		var rec listEntryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if _, err := b.db.Exec(
			"INSERT INTO list_entries (list_id, position, row_id) VALUES (?, ?, ?)",
			rec.ListID, rec.Position, rec.RowID); err != nil {
			return fmt.Errorf("loading list entry %s/%d: %w", rec.ListID, rec.Position, err)
		}
	}
	return nil
}
