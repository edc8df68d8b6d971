package types

import (
	"errors"
	"fmt"
)

// LinkView is an ordered, index-addressable, mutable sequence of row
// references owned by the storage backend. Views are live: Size may change
// between calls as the backing store mutates, and a view becomes detached
// when its list or its backend goes away.
//
// Get and Set have the precondition 0 <= ndx < Size() and are unchecked;
// list.List enforces it before delegating. Set resolves targetNdx against
// the list's target table and returns ErrRowNotFound when no row has that
// ordinal.
type LinkView interface {
	// Size returns the current number of entries in the list.
	Size() (int, error)

	// IsAttached reports whether the view still refers to a live list in an
	// attached backend.
	IsAttached() bool

	// SyncIfNeeded reconciles deferred external mutation (entries left
	// dangling by row deletions) so that subsequent Size and Get calls
	// observe a consistent view. It is a no-op when the view is current.
	SyncIfNeeded() error

	// Get returns the row referenced by the entry at ndx.
	Get(ndx int) (*Row, error)

	// Set rewrites the entry at ndx to reference the row at ordinal
	// targetNdx in the list's target table.
	Set(ndx, targetNdx int) error
}

// Accessor errors.
var (
	// ErrOutOfRange is the sentinel all RangeErrors unwrap to.
	ErrOutOfRange = errors.New("index out of range")

	// ErrNotAttached signals that a view's underlying list or backend is
	// gone. Not recoverable by retry; the caller must re-acquire a view
	// from a live store.
	ErrNotAttached = errors.New("list view is not attached")
)

// RangeError reports an index that failed a bounds check, carrying the
// offending index and the list size observed at check time.
type RangeError struct {
	Index int
	Size  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("index %d is out of range [0, %d)", e.Index, e.Size)
}

// Unwrap makes errors.Is(err, ErrOutOfRange) hold for every RangeError.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
