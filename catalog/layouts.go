package catalog

// SlotKind mirrors the element kinds a layout slot can host.
type SlotKind string

const (
	SlotText  SlotKind = "text"
	SlotImage SlotKind = "image"
)

// Slot is a template-defined placeholder: default geometry (1024x576 canvas
// units), default style and default content for one element kind.
type Slot struct {
	Kind    SlotKind          `json:"kind"`
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	W       float64           `json:"width"`
	H       float64           `json:"height"`
	Content string            `json:"content"`
	Style   map[string]string `json:"style"`
}

// Layout is a named slide template: an ordered list of typed slots.
type Layout struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slots []Slot `json:"slots"`
}

// Layouts is the full layout catalog.
var Layouts = []Layout{
	{
		ID: "title", Name: "Title Slide",
		Slots: []Slot{
			{Kind: SlotText, Content: "Title", X: 50, Y: 200, W: 924, H: 100, Style: map[string]string{"fontSize": "48px", "fontWeight": "bold", "textAlign": "center"}},
			{Kind: SlotText, Content: "Subtitle", X: 150, Y: 320, W: 724, H: 60, Style: map[string]string{"fontSize": "24px", "textAlign": "center", "color": "rgba(0,0,0,0.6)"}},
		},
	},
	{
		ID: "content", Name: "Title & Content",
		Slots: []Slot{
			{Kind: SlotText, Content: "Slide Title", X: 50, Y: 40, W: 924, H: 80, Style: map[string]string{"fontSize": "36px", "fontWeight": "bold"}},
			{Kind: SlotText, Content: "Click to add content...", X: 50, Y: 140, W: 924, H: 400, Style: map[string]string{"fontSize": "18px", "textAlign": "left"}},
		},
	},
	{
		ID: "two-column", Name: "Two Columns",
		Slots: []Slot{
			{Kind: SlotText, Content: "Slide Title", X: 50, Y: 40, W: 924, H: 80, Style: map[string]string{"fontSize": "36px", "fontWeight": "bold"}},
			{Kind: SlotText, Content: "Left Column", X: 50, Y: 140, W: 440, H: 400, Style: map[string]string{"fontSize": "18px"}},
			{Kind: SlotText, Content: "Right Column", X: 530, Y: 140, W: 440, H: 400, Style: map[string]string{"fontSize": "18px"}},
		},
	},
	{
		ID: "three-column", Name: "Three Columns",
		Slots: []Slot{
			{Kind: SlotText, Content: "Slide Title", X: 50, Y: 40, W: 924, H: 80, Style: map[string]string{"fontSize": "36px", "fontWeight": "bold"}},
			{Kind: SlotText, Content: "Column 1", X: 50, Y: 140, W: 290, H: 400, Style: map[string]string{"fontSize": "16px"}},
			{Kind: SlotText, Content: "Column 2", X: 365, Y: 140, W: 290, H: 400, Style: map[string]string{"fontSize": "16px"}},
			{Kind: SlotText, Content: "Column 3", X: 680, Y: 140, W: 290, H: 400, Style: map[string]string{"fontSize": "16px"}},
		},
	},
	{
		ID: "image-left", Name: "Image Left",
		Slots: []Slot{
			{Kind: SlotText, Content: "Slide Title", X: 50, Y: 40, W: 924, H: 80, Style: map[string]string{"fontSize": "36px", "fontWeight": "bold"}},
			{Kind: SlotImage, Content: "", X: 50, Y: 140, W: 440, H: 400, Style: map[string]string{}},
			{Kind: SlotText, Content: "Content", X: 530, Y: 140, W: 440, H: 400, Style: map[string]string{"fontSize": "18px"}},
		},
	},
	{
		ID: "image-right", Name: "Image Right",
		Slots: []Slot{
			{Kind: SlotText, Content: "Slide Title", X: 50, Y: 40, W: 924, H: 80, Style: map[string]string{"fontSize": "36px", "fontWeight": "bold"}},
			{Kind: SlotText, Content: "Content", X: 50, Y: 140, W: 440, H: 400, Style: map[string]string{"fontSize": "18px"}},
			{Kind: SlotImage, Content: "", X: 530, Y: 140, W: 440, H: 400, Style: map[string]string{}},
		},
	},
	{
		ID: "grid", Name: "Grid (4 Quadrants)",
		Slots: []Slot{
			{Kind: SlotText, Content: "Top Left", X: 50, Y: 50, W: 440, H: 220, Style: map[string]string{"fontSize": "18px"}},
			{Kind: SlotText, Content: "Top Right", X: 530, Y: 50, W: 440, H: 220, Style: map[string]string{"fontSize": "18px"}},
			{Kind: SlotText, Content: "Bottom Left", X: 50, Y: 300, W: 440, H: 220, Style: map[string]string{"fontSize": "18px"}},
			{Kind: SlotText, Content: "Bottom Right", X: 530, Y: 300, W: 440, H: 220, Style: map[string]string{"fontSize": "18px"}},
		},
	},
	{
		ID: "caption-bottom", Name: "Big Image & Caption",
		Slots: []Slot{
			{Kind: SlotImage, Content: "", X: 0, Y: 0, W: 1024, H: 450, Style: map[string]string{}},
			{Kind: SlotText, Content: "Caption Text", X: 50, Y: 470, W: 924, H: 80, Style: map[string]string{"fontSize": "24px", "textAlign": "center"}},
		},
	},
	{
		ID: "table", Name: "Table (3x3)",
		Slots: []Slot{
			{Kind: SlotText, Content: "Header 1", X: 50, Y: 100, W: 300, H: 50, Style: map[string]string{"fontWeight": "bold", "textAlign": "center", "backgroundColor": "rgba(0,0,0,0.1)"}},
			{Kind: SlotText, Content: "Header 2", X: 360, Y: 100, W: 300, H: 50, Style: map[string]string{"fontWeight": "bold", "textAlign": "center", "backgroundColor": "rgba(0,0,0,0.1)"}},
			{Kind: SlotText, Content: "Header 3", X: 670, Y: 100, W: 300, H: 50, Style: map[string]string{"fontWeight": "bold", "textAlign": "center", "backgroundColor": "rgba(0,0,0,0.1)"}},

			{Kind: SlotText, Content: "Row 1, Col 1", X: 50, Y: 160, W: 300, H: 50, Style: map[string]string{"textAlign": "center", "border": "1px solid #ccc"}},
			{Kind: SlotText, Content: "Row 1, Col 2", X: 360, Y: 160, W: 300, H: 50, Style: map[string]string{"textAlign": "center", "border": "1px solid #ccc"}},
			{Kind: SlotText, Content: "Row 1, Col 3", X: 670, Y: 160, W: 300, H: 50, Style: map[string]string{"textAlign": "center", "border": "1px solid #ccc"}},

			{Kind: SlotText, Content: "Row 2, Col 1", X: 50, Y: 220, W: 300, H: 50, Style: map[string]string{"textAlign": "center", "border": "1px solid #ccc"}},
			{Kind: SlotText, Content: "Row 2, Col 2", X: 360, Y: 220, W: 300, H: 50, Style: map[string]string{"textAlign": "center", "border": "1px solid #ccc"}},
			{Kind: SlotText, Content: "Row 2, Col 3", X: 670, Y: 220, W: 300, H: 50, Style: map[string]string{"textAlign": "center", "border": "1px solid #ccc"}},
		},
	},
}

// ResolveLayout looks up a layout by id. Unknown or empty ids resolve to the
// "Title & Content" template, the catalog's general-purpose default.
func ResolveLayout(id string) Layout {
	for _, l := range Layouts {
		if l.ID == id {
			return l
		}
	}
	return Layouts[1]
}

// LayoutByName resolves the layout hints emitted by the outline service
// ("Title", "TwoColumn", "ImageLeft", ...) to catalog entries. Unrecognized
// hints fall back the same way as ResolveLayout.
func LayoutByName(hint string) Layout {
	switch hint {
	case "Title":
		return ResolveLayout("title")
	case "TwoColumn":
		return ResolveLayout("two-column")
	case "ImageLeft":
		return ResolveLayout("image-left")
	case "ImageRight":
		return ResolveLayout("image-right")
	default:
		return ResolveLayout("content")
	}
}
