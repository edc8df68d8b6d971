package types

import "time"

// Row is an opaque handle identifying one row in a table. Reads through a
// LinkView return Rows; writes address rows by their ordinal in the target
// table, not by handle.
type Row struct {
	// RowID is a UUID v7, generated on insertion.
	RowID string

	// Table is the name of the table the row belongs to.
	Table string

	// Name is the row's display name.
	Name string

	// CreatedAt is the timestamp of insertion.
	CreatedAt time.Time
}
