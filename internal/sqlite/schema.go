// Package sqlite implements the SQLite backend for the Larder storage
// system. SQLite is the query engine; JSONL files in the data directory are
// the source of truth, reloaded on every Attach.
package sqlite

// Schema DDL for all tables.
const (
	createTables = `CREATE TABLE tables (
    table_name TEXT PRIMARY KEY,
    created_at TEXT NOT NULL
);`

	createRows = `CREATE TABLE rows (
    row_id TEXT PRIMARY KEY,
    table_name TEXT NOT NULL,
    name TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (table_name) REFERENCES tables(table_name)
);`

	createLists = `CREATE TABLE lists (
    list_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    target_table TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (target_table) REFERENCES tables(table_name)
);`

	createListEntries = `CREATE TABLE list_entries (
    list_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    row_id TEXT NOT NULL,
    PRIMARY KEY (list_id, position),
    FOREIGN KEY (list_id) REFERENCES lists(list_id)
);`
)

// schemaStatements lists DDL in dependency order.
var schemaStatements = []string{
	createTables,
	createRows,
	createLists,
	createListEntries,
}
