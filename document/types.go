package document

import (
	"github.com/google/uuid"
)

// Logical editing canvas, 16:9. All element geometry is expressed in these
// units regardless of the output format.
const (
	CanvasWidth  = 1024.0
	CanvasHeight = 576.0
)

// ElementKind distinguishes text boxes from images
type ElementKind string

const (
	KindText  ElementKind = "text"
	KindImage ElementKind = "image"
)

// Element is a single positioned unit on a slide. Content holds the text for
// text elements and an image reference (data URL or remote URL) for images.
type Element struct {
	ID      string            `json:"id"`
	Kind    ElementKind       `json:"kind"`
	Content string            `json:"content"`
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	W       float64           `json:"width"`
	H       float64           `json:"height"`
	Style   map[string]string `json:"style"`
}

// Slide is one page of a deck. Elements is paint order: first element is the
// bottom layer.
type Slide struct {
	ID              string    `json:"id"`
	Elements        []Element `json:"elements"`
	ThemeID         string    `json:"themeId,omitempty"`
	LayoutID        string    `json:"layoutId,omitempty"`
	BackgroundImage string    `json:"backgroundImage,omitempty"`
}

// Deck is the full ordered set of slides being edited.
type Deck []Slide

// NewID returns a fresh element/slide identifier.
func NewID() string {
	return uuid.NewString()
}

// NewTextElement creates a text element with an allocated style map. An
// empty id is kept as-is so callers can assign their own later.
func NewTextElement(id, content string, x, y, w, h float64) Element {
	return Element{
		ID:      id,
		Kind:    KindText,
		Content: content,
		X:       x, Y: y, W: w, H: h,
		Style: map[string]string{},
	}
}

// NewImageElement creates an image element. Empty content is the placeholder
// state that marks the element as awaiting an asynchronous fill.
func NewImageElement(id, content string, x, y, w, h float64) Element {
	return Element{
		ID:      id,
		Kind:    KindImage,
		Content: content,
		X:       x, Y: y, W: w, H: h,
		Style: map[string]string{},
	}
}

// Clone returns a deep copy of the element. Nil-ness of the style map is
// preserved so a clone stays structurally equal to its source.
func (e Element) Clone() Element {
	c := e
	if e.Style != nil {
		c.Style = make(map[string]string, len(e.Style))
		for k, v := range e.Style {
			c.Style[k] = v
		}
	}
	return c
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	c := s
	if s.Elements != nil {
		c.Elements = make([]Element, len(s.Elements))
		for i, e := range s.Elements {
			c.Elements[i] = e.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of the deck.
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	c := make(Deck, len(d))
	for i, s := range d {
		c[i] = s.Clone()
	}
	return c
}

// FindSlide returns a pointer into the deck for the slide with the given id,
// or nil if no such slide exists.
func (d Deck) FindSlide(slideID string) *Slide {
	for i := range d {
		if d[i].ID == slideID {
			return &d[i]
		}
	}
	return nil
}

// FindElement returns a pointer into the slide for the element with the given
// id, or nil if no such element exists.
func (s *Slide) FindElement(elementID string) *Element {
	for i := range s.Elements {
		if s.Elements[i].ID == elementID {
			return &s.Elements[i]
		}
	}
	return nil
}
