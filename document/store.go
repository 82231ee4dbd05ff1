package document

import (
	"fmt"
	"sync"
)

// Store holds the authoritative deck snapshot for one editing session. Every
// mutation — user edits and asynchronous generation merges alike — passes
// through the same lock, so there is exactly one mutation path and each call
// fully resolves before the store is considered updated.
type Store struct {
	mu       sync.Mutex
	history  *History
	logger   func(string)
	listener func(Deck)
}

// NewStore creates a store seeded with the initial deck. logger may be nil.
func NewStore(initial Deck, logger func(string)) *Store {
	return &Store{
		history: NewHistory(initial),
		logger:  logger,
	}
}

// SetListener registers a callback invoked with the new snapshot after every
// mutation that changed the current deck. Used to push edits to clients.
func (st *Store) SetListener(fn func(Deck)) {
	st.mu.Lock()
	st.listener = fn
	st.mu.Unlock()
}

func (st *Store) log(msg string) {
	if st.logger != nil {
		st.logger(msg)
	}
}

// Snapshot returns a deep copy of the current deck.
func (st *Store) Snapshot() Deck {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.history.Current()
}

// Commit records next as a new undo step (no-op if structurally unchanged).
func (st *Store) Commit(next Deck) {
	st.mu.Lock()
	st.history.Commit(next)
	notify := st.pendingNotify()
	st.mu.Unlock()
	notify()
}

// CommitFn computes the next snapshot from the current one and commits it.
func (st *Store) CommitFn(f func(prev Deck) Deck) {
	st.mu.Lock()
	st.history.CommitFn(f)
	notify := st.pendingNotify()
	st.mu.Unlock()
	notify()
}

// TransientUpdate replaces the current snapshot without creating an undo step.
func (st *Store) TransientUpdate(next Deck) {
	st.mu.Lock()
	st.history.TransientUpdate(next)
	notify := st.pendingNotify()
	st.mu.Unlock()
	notify()
}

// TransientUpdateFn computes the transient replacement from the current snapshot.
func (st *Store) TransientUpdateFn(f func(prev Deck) Deck) {
	st.mu.Lock()
	st.history.TransientUpdateFn(f)
	notify := st.pendingNotify()
	st.mu.Unlock()
	notify()
}

// Undo steps back one snapshot; no-op at the boundary.
func (st *Store) Undo() {
	st.mu.Lock()
	st.history.Undo()
	notify := st.pendingNotify()
	st.mu.Unlock()
	notify()
}

// Redo steps forward one snapshot; no-op at the boundary.
func (st *Store) Redo() {
	st.mu.Lock()
	st.history.Redo()
	notify := st.pendingNotify()
	st.mu.Unlock()
	notify()
}

// CanUndo reports whether undo would change the current snapshot.
func (st *Store) CanUndo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.history.CanUndo()
}

// CanRedo reports whether redo would change the current snapshot.
func (st *Store) CanRedo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.history.CanRedo()
}

// HistoryLen returns the number of snapshots currently held.
func (st *Store) HistoryLen() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.history.Len()
}

// MergeGeneratedContent applies an asynchronous generation result to the
// element identified by (slideID, elementID). The id-existence check happens
// here, at merge time: if the slide was deleted or the element was reconciled
// away, the merge is a silent no-op rather than an error. Whichever of two
// in-flight results for the same element lands last wins.
func (st *Store) MergeGeneratedContent(slideID, elementID, content string) {
	st.mu.Lock()
	st.history.CommitFn(func(prev Deck) Deck {
		slide := prev.FindSlide(slideID)
		if slide == nil {
			st.log(fmt.Sprintf("[STORE] merge skipped, slide %s gone", slideID))
			return prev
		}
		el := slide.FindElement(elementID)
		if el == nil {
			st.log(fmt.Sprintf("[STORE] merge skipped, element %s gone from slide %s", elementID, slideID))
			return prev
		}
		el.Content = content
		return prev
	})
	notify := st.pendingNotify()
	st.mu.Unlock()
	notify()
}

// pendingNotify captures the listener and current snapshot under st.mu and
// returns the call to make once the lock is released. Listeners do network
// I/O (websocket fan-out), so they never run inside the lock and may call
// back into the store.
func (st *Store) pendingNotify() func() {
	if st.listener == nil {
		return func() {}
	}
	fn, snap := st.listener, st.history.Current()
	return func() { fn(snap) }
}
