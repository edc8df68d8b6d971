package types

import "errors"

// Store defines the interface for backend-agnostic access to tables, rows,
// and link lists. Callers attach to a backend, obtain LinkViews for named
// lists, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources and invalidates every LinkView
	// issued by this store. Idempotent: multiple calls succeed.
	Detach() error

	// CreateTable registers a new row table.
	// Returns ErrDuplicateName if the name is taken.
	CreateTable(name string) error

	// InsertRow appends a row to a table and returns its handle.
	// Returns ErrTableNotFound if the table does not exist.
	InsertRow(table, name string) (*Row, error)

	// DeleteRow removes a row by ID. List entries referencing the row are
	// left in place until a view reconciles them via SyncIfNeeded.
	DeleteRow(id string) error

	// NumRows returns the number of rows in a table.
	NumRows(table string) (int, error)

	// RowAt returns the row at ordinal ndx in a table, in insertion order.
	RowAt(table string, ndx int) (*Row, error)

	// CreateList registers a named link list whose entries reference rows
	// of targetTable.
	CreateList(name, targetTable string) error

	// DeleteList removes a list and its entries. Views bound to the list
	// become detached.
	DeleteList(name string) error

	// Append adds an entry to the end of a list, referencing the row at
	// ordinal targetNdx in the list's target table.
	Append(list string, targetNdx int) error

	// View returns a live LinkView bound to the named list.
	// Returns ErrListNotFound if the list does not exist.
	View(list string) (LinkView, error)
}

// Store lifecycle and lookup errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
	ErrListNotFound    = errors.New("list not found")
	ErrRowNotFound     = errors.New("row not found")
	ErrDuplicateName   = errors.New("name already in use")
	ErrInvalidName     = errors.New("invalid name")
)
