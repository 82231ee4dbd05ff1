package document

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

func deckWithImagePlaceholder() Deck {
	return Deck{
		{
			ID: "slide-1",
			Elements: []Element{
				{ID: "title-1", Kind: KindText, Content: "Topic"},
				{ID: "image-1", Kind: KindImage, Content: ""},
			},
		},
	}
}

// TestStore_MergeGeneratedContent tests that an async merge fills the
// placeholder and records an undo step
func TestStore_MergeGeneratedContent(t *testing.T) {
	st := NewStore(deckWithImagePlaceholder(), nil)

	st.MergeGeneratedContent("slide-1", "image-1", "data:image/jpeg;base64,XYZ")

	snap := st.Snapshot()
	el := snap.FindSlide("slide-1").FindElement("image-1")
	if el == nil {
		t.Fatal("image element missing after merge")
	}
	if el.Content != "data:image/jpeg;base64,XYZ" {
		t.Errorf("Expected merged content, got %q", el.Content)
	}
	if !st.CanUndo() {
		t.Error("Merge should be undoable")
	}
}

// TestStore_MergeStaleSlide tests that a merge whose slide was deleted in
// the meantime is silently dropped
func TestStore_MergeStaleSlide(t *testing.T) {
	st := NewStore(deckWithImagePlaceholder(), nil)

	// User deletes the slide while generation is in flight
	st.Commit(Deck{{ID: "slide-2"}})
	before := st.Snapshot()

	st.MergeGeneratedContent("slide-1", "image-1", "data:image/jpeg;base64,XYZ")

	if !reflect.DeepEqual(before, st.Snapshot()) {
		t.Error("Stale merge must not change the deck")
	}
}

// TestStore_MergeStaleElement tests that a merge whose element was removed
// is silently dropped without a history step
func TestStore_MergeStaleElement(t *testing.T) {
	st := NewStore(deckWithImagePlaceholder(), nil)

	st.Commit(Deck{{ID: "slide-1", Elements: []Element{{ID: "title-1", Kind: KindText, Content: "Topic"}}}})
	lenBefore := st.HistoryLen()

	st.MergeGeneratedContent("slide-1", "image-1", "data:image/jpeg;base64,XYZ")

	if st.HistoryLen() != lenBefore {
		t.Error("Stale merge must not add a history step")
	}
}

// TestStore_MergeLastWins tests that overlapping merges to the same element
// resolve to the later one
func TestStore_MergeLastWins(t *testing.T) {
	st := NewStore(deckWithImagePlaceholder(), nil)

	st.MergeGeneratedContent("slide-1", "image-1", "first")
	st.MergeGeneratedContent("slide-1", "image-1", "second")

	el := st.Snapshot().FindSlide("slide-1").FindElement("image-1")
	if el.Content != "second" {
		t.Errorf("Expected last merge to win, got %q", el.Content)
	}
}

// TestStore_ListenerNotified tests that the change listener fires with the
// new snapshot after a mutation
func TestStore_ListenerNotified(t *testing.T) {
	st := NewStore(deckWithImagePlaceholder(), nil)

	var got Deck
	calls := 0
	st.SetListener(func(d Deck) {
		got = d
		calls++
	})

	st.Commit(Deck{{ID: "slide-9"}})

	if calls == 0 {
		t.Fatal("Listener was not called")
	}
	if len(got) != 1 || got[0].ID != "slide-9" {
		t.Errorf("Listener got wrong deck: %+v", got)
	}
}

// TestStore_ListenerRunsOutsideLock tests that a listener may call back into
// the store without deadlocking
func TestStore_ListenerRunsOutsideLock(t *testing.T) {
	st := NewStore(deckWithImagePlaceholder(), nil)

	done := make(chan struct{})
	st.SetListener(func(d Deck) {
		st.Snapshot()
		st.CanUndo()
		close(done)
	})

	go st.Commit(Deck{{ID: "slide-2"}})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Listener blocked on the store lock")
	}
}

// TestStore_ConcurrentMerges tests that parallel merges to distinct elements
// all land
func TestStore_ConcurrentMerges(t *testing.T) {
	deck := Deck{{ID: "slide-1"}}
	const n = 20
	for i := 0; i < n; i++ {
		deck[0].Elements = append(deck[0].Elements, Element{
			ID: fmt.Sprintf("image-%d", i), Kind: KindImage, Content: "",
		})
	}
	st := NewStore(deck, nil)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.MergeGeneratedContent("slide-1", fmt.Sprintf("image-%d", i), fmt.Sprintf("img-%d", i))
		}(i)
	}
	wg.Wait()

	snap := st.Snapshot()
	for i := 0; i < n; i++ {
		el := snap.FindSlide("slide-1").FindElement(fmt.Sprintf("image-%d", i))
		if el == nil || el.Content != fmt.Sprintf("img-%d", i) {
			t.Errorf("Merge %d missing or wrong: %+v", i, el)
		}
	}
}
