package main

import (
	"strings"
	"sync"
	"testing"

	"slidesmith/config"
	"slidesmith/document"
	"slidesmith/logger"
)

// newTestApp builds an App with sessions only, no database or network.
func newTestApp() *App {
	return &App{
		logger:   logger.NewLogger(),
		sessions: make(map[string]*editSession),
		hub:      NewHub(),
	}
}

func TestApp_CreateSession(t *testing.T) {
	app := newTestApp()

	id, deck := app.CreateSession()
	if id == "" {
		t.Fatal("Session id should not be empty")
	}
	if len(deck) != 1 {
		t.Fatalf("New session should start with one slide, got %d", len(deck))
	}
	if deck[0].LayoutID != "title" {
		t.Errorf("Initial slide should use the title layout, got %q", deck[0].LayoutID)
	}

	got, err := app.GetDeck(id)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("GetDeck returned %d slides", len(got))
	}
}

func TestApp_UnknownSession(t *testing.T) {
	app := newTestApp()

	if _, err := app.GetDeck("nope"); err == nil {
		t.Error("Expected error for unknown session")
	}
	if _, err := app.Undo("nope"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestApp_AddAndDeleteSlide(t *testing.T) {
	app := newTestApp()
	id, _ := app.CreateSession()

	deck, err := app.AddSlide(id, "two-column")
	if err != nil {
		t.Fatalf("AddSlide failed: %v", err)
	}
	if len(deck) != 2 {
		t.Fatalf("Expected 2 slides, got %d", len(deck))
	}
	if deck[1].LayoutID != "two-column" {
		t.Errorf("New slide layout wrong: %q", deck[1].LayoutID)
	}

	deck, err = app.DeleteSlide(id, deck[0].ID)
	if err != nil {
		t.Fatalf("DeleteSlide failed: %v", err)
	}
	if len(deck) != 1 || deck[0].LayoutID != "two-column" {
		t.Errorf("Wrong slide deleted: %+v", deck)
	}
}

func TestApp_DeleteSoleSlideIsNoop(t *testing.T) {
	app := newTestApp()
	id, deck := app.CreateSession()
	slideID := deck[0].ID

	el := document.NewTextElement("text-keep", "Keep me", 10, 20, 300, 80)
	if _, err := app.AddElement(id, slideID, el); err != nil {
		t.Fatalf("AddElement failed: %v", err)
	}

	deck, err := app.DeleteSlide(id, slideID)
	if err != nil {
		t.Fatalf("DeleteSlide failed: %v", err)
	}
	if len(deck) != 1 || deck[0].ID != slideID {
		t.Fatalf("Deleting the sole slide must be refused, got %+v", deck)
	}
	if deck[0].FindElement("text-keep") == nil {
		t.Error("Refused deletion must not touch the slide's content")
	}

	// A refused deletion is not an undoable step.
	deck, err = app.Undo(id)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if deck.FindSlide(slideID).FindElement("text-keep") != nil {
		t.Error("Undo should revert the element add, not a phantom deletion")
	}
}

func TestApp_UndoRedoFlow(t *testing.T) {
	app := newTestApp()
	id, _ := app.CreateSession()

	if _, err := app.AddSlide(id, "content"); err != nil {
		t.Fatalf("AddSlide failed: %v", err)
	}

	deck, err := app.Undo(id)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if len(deck) != 1 {
		t.Errorf("Undo should remove the added slide, got %d", len(deck))
	}

	deck, err = app.Redo(id)
	if err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if len(deck) != 2 {
		t.Errorf("Redo should restore the added slide, got %d", len(deck))
	}
}

func TestApp_ApplyTheme(t *testing.T) {
	app := newTestApp()
	id, _ := app.CreateSession()
	app.AddSlide(id, "content")
	app.AddSlide(id, "grid")

	deck, err := app.ApplyTheme(id, "executive")
	if err != nil {
		t.Fatalf("ApplyTheme failed: %v", err)
	}
	for _, slide := range deck {
		if slide.ThemeID != "executive" {
			t.Errorf("Slide %s kept theme %q", slide.ID, slide.ThemeID)
		}
	}

	// Unknown theme falls back to the default instead of failing
	deck, err = app.ApplyTheme(id, "not-a-theme")
	if err != nil {
		t.Fatalf("ApplyTheme with unknown id failed: %v", err)
	}
	if deck[0].ThemeID == "not-a-theme" {
		t.Error("Unknown theme id should have been resolved to a catalog entry")
	}
}

func TestApp_ElementLifecycle(t *testing.T) {
	app := newTestApp()
	id, deck := app.CreateSession()
	slideID := deck[0].ID

	el := document.NewTextElement("", "Note", 10, 20, 300, 80)
	deck, err := app.AddElement(id, slideID, el)
	if err != nil {
		t.Fatalf("AddElement failed: %v", err)
	}

	var added *document.Element
	for i := range deck[0].Elements {
		if deck[0].Elements[i].Content == "Note" {
			added = &deck[0].Elements[i]
		}
	}
	if added == nil {
		t.Fatal("Added element not found")
	}
	if !strings.HasPrefix(added.ID, "text-") {
		t.Errorf("Auto-assigned id should carry the kind prefix, got %q", added.ID)
	}

	added.Content = "Edited"
	deck, err = app.UpdateElement(id, slideID, *added)
	if err != nil {
		t.Fatalf("UpdateElement failed: %v", err)
	}
	if deck.FindSlide(slideID).FindElement(added.ID).Content != "Edited" {
		t.Error("Update did not apply")
	}

	deck, err = app.DeleteElement(id, slideID, added.ID)
	if err != nil {
		t.Fatalf("DeleteElement failed: %v", err)
	}
	if deck.FindSlide(slideID).FindElement(added.ID) != nil {
		t.Error("Element still present after delete")
	}
}

func TestApp_ContentEditsAreTransient(t *testing.T) {
	app := newTestApp()
	id, deck := app.CreateSession()
	slideID := deck[0].ID

	el := document.NewTextElement("text-note", "N", 10, 20, 300, 80)
	if _, err := app.AddElement(id, slideID, el); err != nil {
		t.Fatalf("AddElement failed: %v", err)
	}

	// Typing burst: each content-only update replaces the snapshot in place.
	for _, content := range []string{"No", "Not", "Note"} {
		el.Content = content
		if _, err := app.UpdateElement(id, slideID, el); err != nil {
			t.Fatalf("UpdateElement failed: %v", err)
		}
	}

	// A geometry change commits a new history entry.
	el.X = 40
	deck, err := app.UpdateElement(id, slideID, el)
	if err != nil {
		t.Fatalf("UpdateElement failed: %v", err)
	}
	if deck.FindSlide(slideID).FindElement("text-note").X != 40 {
		t.Fatal("Geometry change did not apply")
	}

	// Undo lands before the move but after the whole typing burst, then
	// before the element existed at all.
	deck, err = app.Undo(id)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	got := deck.FindSlide(slideID).FindElement("text-note")
	if got == nil || got.Content != "Note" || got.X != 10 {
		t.Errorf("Undo should revert the move only, got %+v", got)
	}

	deck, err = app.Undo(id)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if deck.FindSlide(slideID).FindElement("text-note") != nil {
		t.Error("Second undo should remove the element entirely")
	}
}

func TestApp_ApplyLayoutReconciles(t *testing.T) {
	app := newTestApp()
	id, deck := app.CreateSession()
	slideID := deck[0].ID

	deck, err := app.ApplyLayout(id, slideID, "two-column", "")
	if err != nil {
		t.Fatalf("ApplyLayout failed: %v", err)
	}
	if deck[0].LayoutID != "two-column" {
		t.Errorf("Layout id not updated: %q", deck[0].LayoutID)
	}

	// The applied layout is an undo step
	deck, err = app.Undo(id)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if deck[0].LayoutID != "title" {
		t.Errorf("Undo should restore the previous layout, got %q", deck[0].LayoutID)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Quarterly Review", "Quarterly Review"},
		{"a/b\\c:d", "abcd"},
		{"  spaced  ", "spaced"},
		{"???", "presentation"},
		{"", "presentation"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApp_ApplyConfigSwapsServices(t *testing.T) {
	app := newTestApp()
	app.applyConfig(config.Defaults())

	// Readers run while the config is swapped underneath them.
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = app.config()
					_ = app.outline()
					_ = app.images()
				}
			}
		}()
	}

	next := config.Defaults()
	next.APIKey = "rotated"
	next.ImageEndpoint = "http://images.internal"
	app.applyConfig(next)

	close(stop)
	wg.Wait()

	if app.config().APIKey != "rotated" {
		t.Errorf("Config swap did not land, got %q", app.config().APIKey)
	}
	if app.outline() == nil || app.images() == nil {
		t.Error("Services should be rebuilt from the new config")
	}
}
