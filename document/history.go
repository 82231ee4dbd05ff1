package document

import (
	"reflect"
	"sync"
)

// History is a linear undo/redo stack over whole-deck snapshots. Redoing after
// a divergent commit is impossible: the redo branch is discarded on commit.
type History struct {
	mu        sync.Mutex
	snapshots []Deck
	cursor    int
}

// NewHistory creates a history seeded with an initial snapshot. The snapshot
// list is never empty.
func NewHistory(initial Deck) *History {
	return &History{
		snapshots: []Deck{initial.Clone()},
		cursor:    0,
	}
}

// Current returns a deep copy of the snapshot at the cursor.
func (h *History) Current() Deck {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshots[h.cursor].Clone()
}

// Commit appends next as a new undo step. A commit structurally equal to the
// current snapshot is a no-op, so idempotent edits never grow the history.
func (h *History) Commit(next Deck) {
	h.CommitFn(func(Deck) Deck { return next })
}

// CommitFn computes the next snapshot from the current one and commits it.
func (h *History) CommitFn(f func(prev Deck) Deck) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current := h.snapshots[h.cursor]
	next := f(current.Clone())
	if reflect.DeepEqual(current, next) {
		return
	}

	h.snapshots = append(h.snapshots[:h.cursor+1], next.Clone())
	h.cursor = len(h.snapshots) - 1
}

// TransientUpdate replaces the snapshot at the cursor in place without growing
// the history. Used for rapid granular edits (per-keystroke text changes) so
// undo grants one step per logical edit. Intermediate transient values are
// unrecoverable once superseded.
func (h *History) TransientUpdate(next Deck) {
	h.TransientUpdateFn(func(Deck) Deck { return next })
}

// TransientUpdateFn computes the replacement from the current snapshot.
func (h *History) TransientUpdateFn(f func(prev Deck) Deck) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := f(h.snapshots[h.cursor].Clone())
	h.snapshots[h.cursor] = next.Clone()
}

// Undo moves the cursor back one step. No-op at the oldest snapshot.
func (h *History) Undo() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor > 0 {
		h.cursor--
	}
}

// Redo moves the cursor forward one step. No-op at the newest snapshot.
func (h *History) Redo() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor < len(h.snapshots)-1 {
		h.cursor++
	}
}

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.snapshots)-1
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snapshots)
}
