package document

import (
	"strings"

	"slidesmith/catalog"
)

// Overflow policy for elements with no slot in the new layout: extra text
// stacks below the content area, extra images move to a fixed corner.
const (
	overflowTextY    = 500.0
	overflowTextStep = 50.0
	overflowImageX   = 800.0
	overflowImageY   = 500.0
)

// fallbackImagePrompt is used when the slide has no recognizable title element.
const fallbackImagePrompt = "business presentation"

// ImageFill is a pending asynchronous image-generation request produced by
// reconciliation: an image slot had no existing element to adopt, so a
// placeholder was created and its content must be filled in later by id.
type ImageFill struct {
	ElementID string
	Prompt    string
}

// ReconcileLayout maps a slide's existing elements onto a new layout's slots.
//
// Existing elements and slots are partitioned by kind, preserving order, and
// paired positionally within each kind: the i-th text slot adopts the i-th
// existing text element's id and content while taking the slot's geometry and
// style. Slots without a counterpart are filled with slot defaults (text) or
// an empty placeholder plus a pending fill request (images). Existing elements
// beyond the slot count are never deleted; they are repositioned by the
// overflow policy. The positional pairing is a deliberate tie-break: it keeps
// the result deterministic for identical input ordering and favors content
// preservation over visual tidiness when counts mismatch.
func ReconcileLayout(slide Slide, layout catalog.Layout) ([]Element, []ImageFill) {
	var existingTexts, existingImages []Element
	for _, e := range slide.Elements {
		switch e.Kind {
		case KindText:
			existingTexts = append(existingTexts, e)
		case KindImage:
			existingImages = append(existingImages, e)
		}
	}

	var textSlots, imageSlots []catalog.Slot
	for _, s := range layout.Slots {
		switch s.Kind {
		case catalog.SlotText:
			textSlots = append(textSlots, s)
		case catalog.SlotImage:
			imageSlots = append(imageSlots, s)
		}
	}

	elements := make([]Element, 0, max(len(slide.Elements), len(layout.Slots)))
	var pending []ImageFill

	for i, slot := range textSlots {
		el := elementFromSlot(slot, KindText)
		if i < len(existingTexts) {
			el.ID = existingTexts[i].ID
			el.Content = existingTexts[i].Content
		}
		elements = append(elements, el)
	}

	for i := len(textSlots); i < len(existingTexts); i++ {
		extra := existingTexts[i].Clone()
		extra.Y = overflowTextY + float64(i-len(textSlots))*overflowTextStep
		elements = append(elements, extra)
	}

	for i, slot := range imageSlots {
		el := elementFromSlot(slot, KindImage)
		if i < len(existingImages) {
			el.ID = existingImages[i].ID
			el.Content = existingImages[i].Content
		} else {
			// Empty content is the placeholder state; the caller is expected
			// to dispatch the pending fill to the image generator.
			el.Content = ""
			pending = append(pending, ImageFill{
				ElementID: el.ID,
				Prompt:    imagePromptFor(slide),
			})
		}
		elements = append(elements, el)
	}

	for i := len(imageSlots); i < len(existingImages); i++ {
		extra := existingImages[i].Clone()
		extra.X = overflowImageX
		extra.Y = overflowImageY
		elements = append(elements, extra)
	}

	return elements, pending
}

// elementFromSlot materializes a slot as a fresh element with the slot's
// geometry, style and default content.
func elementFromSlot(slot catalog.Slot, kind ElementKind) Element {
	style := make(map[string]string, len(slot.Style))
	for k, v := range slot.Style {
		style[k] = v
	}
	return Element{
		ID:      NewID(),
		Kind:    kind,
		Content: slot.Content,
		X:       slot.X, Y: slot.Y, W: slot.W, H: slot.H,
		Style: style,
	}
}

// imagePromptFor derives a generation prompt from the slide's title element.
// Generated slides carry a "title-" prefixed element id; anything else falls
// back to a generic prompt.
func imagePromptFor(slide Slide) string {
	for _, e := range slide.Elements {
		if e.Kind == KindText && strings.HasPrefix(e.ID, "title-") && strings.TrimSpace(e.Content) != "" {
			return "Professional presentation image for: " + e.Content
		}
	}
	return "Professional presentation image for: " + fallbackImagePrompt
}
