// Package list provides the bounds-checked accessor over a link list.
//
// A List wraps a single types.LinkView it does not own. It delegates size
// queries, indexed reads, and indexed writes to the view, validating the
// index against the view's current size before every read or write. The
// size is queried fresh on each call; the backing list may grow or shrink
// between calls.
//
// Attachment verification is a separate entry point. Size, Get, and Set do
// not call VerifyAttached implicitly; callers invoke it at refresh
// boundaries, before relying on the view after external mutation.
package list

import "github.com/mesh-intelligence/larder/pkg/types"

// List is a safe accessor bound to one LinkView. The zero value is not
// usable; obtain one with Bind.
type List struct {
	view types.LinkView
}

// Bind wraps a LinkView in a List. The List holds the view without owning
// it; discarding the List has no effect on the view or its backing list.
func Bind(view types.LinkView) *List {
	return &List{view: view}
}

// Size returns the current number of entries in the list, queried from the
// view on every call.
func (l *List) Size() (int, error) {
	return l.view.Size()
}

// Get returns the row referenced at ndx. Returns a *types.RangeError
// (unwrapping to types.ErrOutOfRange) when ndx is not in [0, size).
func (l *List) Get(ndx int) (*types.Row, error) {
	if err := l.verifyValidRow(ndx); err != nil {
		return nil, err
	}
	return l.view.Get(ndx)
}

// Set rewrites the entry at ndx to reference the row at ordinal targetNdx
// in the list's target table. Only ndx is bounds-checked here; targetNdx
// passes through uninterpreted and the view validates it against its own
// table. Returns a *types.RangeError when ndx is not in [0, size).
func (l *List) Set(ndx, targetNdx int) error {
	if err := l.verifyValidRow(ndx); err != nil {
		return err
	}
	return l.view.Set(ndx, targetNdx)
}

// VerifyAttached fails with types.ErrNotAttached when the view no longer
// refers to a live list. On an attached view it triggers the view's
// deferred reconciliation, so subsequent Size and Get calls observe
// post-refresh state.
func (l *List) VerifyAttached() error {
	if !l.view.IsAttached() {
		return types.ErrNotAttached
	}
	return l.view.SyncIfNeeded()
}

// verifyValidRow checks ndx against the view's current size. The size is
// not cached across calls.
func (l *List) verifyValidRow(ndx int) error {
	size, err := l.view.Size()
	if err != nil {
		return err
	}
	if ndx < 0 || ndx >= size {
		return &types.RangeError{Index: ndx, Size: size}
	}
	return nil
}
