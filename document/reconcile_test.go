package document

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"slidesmith/catalog"
)

func testLayout(textSlots, imageSlots int) catalog.Layout {
	l := catalog.Layout{ID: "test-layout", Name: "Test"}
	for i := 0; i < textSlots; i++ {
		l.Slots = append(l.Slots, catalog.Slot{
			Kind: catalog.SlotText, X: 50, Y: float64(50 + i*120), W: 900, H: 100,
			Content: "Placeholder text",
			Style:   map[string]string{"fontSize": "24px"},
		})
	}
	for i := 0; i < imageSlots; i++ {
		l.Slots = append(l.Slots, catalog.Slot{
			Kind: catalog.SlotImage, X: 600, Y: float64(100 + i*200), W: 300, H: 180,
		})
	}
	return l
}

// TestReconcileLayout_PairsPositionally tests that existing elements adopt
// slot geometry while keeping their identity and content
func TestReconcileLayout_PairsPositionally(t *testing.T) {
	slide := Slide{
		ID: "s1",
		Elements: []Element{
			{ID: "title-1", Kind: KindText, Content: "My Talk", X: 1, Y: 2, W: 3, H: 4},
			{ID: "content-1", Kind: KindText, Content: "Key points", X: 5, Y: 6, W: 7, H: 8},
		},
	}
	layout := testLayout(2, 0)

	elements, fills := ReconcileLayout(slide, layout)

	if len(elements) != 2 {
		t.Fatalf("Expected 2 elements, got %d", len(elements))
	}
	if len(fills) != 0 {
		t.Fatalf("Expected no pending fills, got %d", len(fills))
	}

	if elements[0].ID != "title-1" || elements[0].Content != "My Talk" {
		t.Errorf("First element lost identity: %+v", elements[0])
	}
	if elements[0].X != 50 || elements[0].Y != 50 || elements[0].W != 900 || elements[0].H != 100 {
		t.Errorf("First element did not adopt slot geometry: %+v", elements[0])
	}
	if elements[0].Style["fontSize"] != "24px" {
		t.Errorf("First element did not adopt slot style: %+v", elements[0].Style)
	}
	if elements[1].ID != "content-1" || elements[1].Y != 170 {
		t.Errorf("Second element pairing wrong: %+v", elements[1])
	}
}

// TestReconcileLayout_UnfilledTextSlot tests that a surplus text slot is
// filled with its default content and a fresh id
func TestReconcileLayout_UnfilledTextSlot(t *testing.T) {
	slide := Slide{
		ID: "s1",
		Elements: []Element{
			{ID: "title-1", Kind: KindText, Content: "Only Title"},
		},
	}

	elements, _ := ReconcileLayout(slide, testLayout(2, 0))

	if len(elements) != 2 {
		t.Fatalf("Expected 2 elements, got %d", len(elements))
	}
	if elements[1].Content != "Placeholder text" {
		t.Errorf("Unfilled slot should carry slot default content, got %q", elements[1].Content)
	}
	if elements[1].ID == "" || elements[1].ID == "title-1" {
		t.Errorf("Unfilled slot should get a fresh id, got %q", elements[1].ID)
	}
}

// TestReconcileLayout_ImagePlaceholder tests that an unfilled image slot
// produces an empty placeholder plus a pending generation request
func TestReconcileLayout_ImagePlaceholder(t *testing.T) {
	slide := Slide{
		ID: "s1",
		Elements: []Element{
			{ID: "title-1", Kind: KindText, Content: "Quarterly Results"},
		},
	}

	elements, fills := ReconcileLayout(slide, testLayout(1, 1))

	if len(fills) != 1 {
		t.Fatalf("Expected 1 pending fill, got %d", len(fills))
	}

	var image *Element
	for i := range elements {
		if elements[i].Kind == KindImage {
			image = &elements[i]
		}
	}
	if image == nil {
		t.Fatal("Expected an image placeholder element")
	}
	if image.Content != "" {
		t.Errorf("Placeholder content should be empty, got %q", image.Content)
	}
	if fills[0].ElementID != image.ID {
		t.Errorf("Fill targets %q, placeholder is %q", fills[0].ElementID, image.ID)
	}
	if !strings.Contains(fills[0].Prompt, "Quarterly Results") {
		t.Errorf("Prompt should derive from the slide title, got %q", fills[0].Prompt)
	}
}

// TestReconcileLayout_PromptFallback tests the prompt when no title exists
func TestReconcileLayout_PromptFallback(t *testing.T) {
	slide := Slide{ID: "s1"}

	_, fills := ReconcileLayout(slide, testLayout(0, 1))

	if len(fills) != 1 {
		t.Fatalf("Expected 1 pending fill, got %d", len(fills))
	}
	if fills[0].Prompt != "business presentation" {
		t.Errorf("Expected fallback prompt, got %q", fills[0].Prompt)
	}
}

// TestReconcileLayout_TextOverflow tests repositioning of surplus text elements
func TestReconcileLayout_TextOverflow(t *testing.T) {
	slide := Slide{
		ID: "s1",
		Elements: []Element{
			{ID: "t1", Kind: KindText, Content: "a"},
			{ID: "t2", Kind: KindText, Content: "b"},
			{ID: "t3", Kind: KindText, Content: "c"},
		},
	}

	elements, _ := ReconcileLayout(slide, testLayout(1, 0))

	if len(elements) != 3 {
		t.Fatalf("Overflow must never delete elements, got %d of 3", len(elements))
	}
	if elements[1].ID != "t2" || elements[1].Y != 500 {
		t.Errorf("First overflow element misplaced: %+v", elements[1])
	}
	if elements[2].ID != "t3" || elements[2].Y != 550 {
		t.Errorf("Second overflow element misplaced: %+v", elements[2])
	}
}

// TestReconcileLayout_ImageOverflow tests repositioning of surplus images
func TestReconcileLayout_ImageOverflow(t *testing.T) {
	slide := Slide{
		ID: "s1",
		Elements: []Element{
			{ID: "i1", Kind: KindImage, Content: "data:image/png;base64,AAAA"},
			{ID: "i2", Kind: KindImage, Content: "data:image/png;base64,BBBB"},
		},
	}

	elements, fills := ReconcileLayout(slide, testLayout(0, 1))

	if len(fills) != 0 {
		t.Errorf("Paired image slot should not request generation, got %d fills", len(fills))
	}
	if elements[0].ID != "i1" || elements[0].Content == "" {
		t.Errorf("Paired image lost content: %+v", elements[0])
	}
	if elements[1].ID != "i2" || elements[1].X != 800 || elements[1].Y != 500 {
		t.Errorf("Overflow image misplaced: %+v", elements[1])
	}
}

// TestReconcileLayout_Properties checks the structural invariants for
// arbitrary element/slot counts.
func TestReconcileLayout_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nText := rapid.IntRange(0, 5).Draw(t, "nText")
		nImage := rapid.IntRange(0, 3).Draw(t, "nImage")
		sText := rapid.IntRange(0, 5).Draw(t, "sText")
		sImage := rapid.IntRange(0, 3).Draw(t, "sImage")

		slide := Slide{ID: "s1"}
		for i := 0; i < nText; i++ {
			slide.Elements = append(slide.Elements, Element{
				ID: "text-" + NewID(), Kind: KindText, Content: "txt",
			})
		}
		for i := 0; i < nImage; i++ {
			slide.Elements = append(slide.Elements, Element{
				ID: "image-" + NewID(), Kind: KindImage, Content: "data:image/png;base64,AAAA",
			})
		}

		elements, fills := ReconcileLayout(slide, testLayout(sText, sImage))

		counts := map[ElementKind]int{}
		ids := map[string]bool{}
		for _, e := range elements {
			counts[e.Kind]++
			if ids[e.ID] {
				t.Fatalf("duplicate element id %q", e.ID)
			}
			ids[e.ID] = true
		}

		// Per kind: result count is max(existing, slots)
		if want := max(nText, sText); counts[KindText] != want {
			t.Fatalf("text count %d, want %d", counts[KindText], want)
		}
		if want := max(nImage, sImage); counts[KindImage] != want {
			t.Fatalf("image count %d, want %d", counts[KindImage], want)
		}

		// Every existing element id survives
		for _, e := range slide.Elements {
			if !ids[e.ID] {
				t.Fatalf("element %q was dropped", e.ID)
			}
		}

		// Fills are exactly the image slots with no counterpart
		if want := max(sImage-nImage, 0); len(fills) != want {
			t.Fatalf("%d fills, want %d", len(fills), want)
		}
	})
}
