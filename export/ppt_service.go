// Package export converts decks into portable presentation files.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"slidesmith/catalog"
	"slidesmith/document"
)

// PPTService serializes decks to PowerPoint using GoPPT (pure Go, zero dependencies)
type PPTService struct {
	logger func(string)
}

// NewPPTService creates a new PPT export service. logger may be nil.
func NewPPTService(logger func(string)) *PPTService {
	return &PPTService{logger: logger}
}

// PPT布局常量 - 16:9宽屏比例
const (
	emuPerInch = 914400

	// 页面尺寸 (EMU)
	pptSlideWidth  = int64(10.0 * emuPerInch)
	pptSlideHeight = int64(5.625 * emuPerInch)

	// 默认字号 (pt)
	pptFontDefault = 18
)

// ScaleX converts a logical canvas x/width value to EMU. The conversion is an
// independent linear scaling of the axis: value / canvasDimension * slideDimension.
func ScaleX(v float64) float64 {
	return v / document.CanvasWidth * float64(pptSlideWidth)
}

// ScaleY converts a logical canvas y/height value to EMU.
func ScaleY(v float64) float64 {
	return v / document.CanvasHeight * float64(pptSlideHeight)
}

// UnscaleX inverts ScaleX.
func UnscaleX(v float64) float64 {
	return v / float64(pptSlideWidth) * document.CanvasWidth
}

// UnscaleY inverts ScaleY.
func UnscaleY(v float64) float64 {
	return v / float64(pptSlideHeight) * document.CanvasHeight
}

// helper: create a solid fill
func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

func (s *PPTService) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

// ExportDeck serializes the deck to PPTX bytes, one output slide per deck
// slide, in order. Export reads the snapshot it is given and never mutates it.
// Per-element failures are logged and skipped; they never abort the export.
func (s *PPTService) ExportDeck(deck document.Deck, title string) ([]byte, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = title
	p.GetDocumentProperties().Creator = "Slidesmith"

	for i, slide := range deck {
		var target *ppt.Slide
		if i == 0 {
			target = p.GetActiveSlide()
		} else {
			target = p.CreateSlide()
		}
		s.exportSlide(target, slide)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create PPT writer: %w", err)
	}

	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to save PPT: %w", err)
	}

	return buf.Bytes(), nil
}

// exportSlide writes one deck slide: background layer first, then elements in
// paint order.
func (s *PPTService) exportSlide(target *ppt.Slide, slide document.Slide) {
	theme := catalog.ResolveTheme(slide.ThemeID)

	// Background: explicit image reference wins, then the theme color.
	drawn := false
	if slide.BackgroundImage != "" {
		if imgBytes, mime, err := decodeImageRef(slide.BackgroundImage); err == nil {
			bg := target.CreateDrawingShape()
			bg.SetImageData(imgBytes, mime)
			bg.SetOffsetX(0).SetOffsetY(0)
			bg.SetWidth(pptSlideWidth).SetHeight(pptSlideHeight)
			drawn = true
		} else {
			s.log(fmt.Sprintf("[EXPORT] background image unresolvable for slide %s: %v", slide.ID, err))
		}
	}
	if !drawn {
		bg := target.CreateRichTextShape()
		bg.SetOffsetX(0).SetOffsetY(0)
		bg.SetWidth(pptSlideWidth).SetHeight(pptSlideHeight)
		bg.SetFill(solidFill(argbColor(theme.BackgroundColor, "FFFFFFFF")))
	}

	for _, el := range slide.Elements {
		if err := s.exportElement(target, el, theme); err != nil {
			// 单个元素失败只跳过该元素，导出继续
			s.log(fmt.Sprintf("[EXPORT] element %s skipped: %v", el.ID, err))
		}
	}
}

func (s *PPTService) exportElement(target *ppt.Slide, el document.Element, theme catalog.Theme) error {
	x := int64(ScaleX(el.X))
	y := int64(ScaleY(el.Y))
	w := int64(ScaleX(el.W))
	h := int64(ScaleY(el.H))

	switch el.Kind {
	case document.KindText:
		shape := target.CreateRichTextShape()
		shape.SetOffsetX(x).SetOffsetY(y)
		shape.SetWidth(w).SetHeight(h)

		tr := shape.CreateTextRun(el.Content)
		font := tr.GetFont()
		font.SetSize(fontSizeOf(el.Style))
		font.SetColor(ppt.NewColor(argbColor(el.Style["color"], argbColor(theme.TextColor, "FF000000"))))
		if el.Style["fontWeight"] == "bold" {
			font.SetBold(true)
		}
		if el.Style["fontStyle"] == "italic" {
			font.SetItalic(true)
		}

		switch el.Style["textAlign"] {
		case "center":
			shape.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
		case "right":
			shape.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalRight))
		}
		return nil

	case document.KindImage:
		if el.Content == "" {
			return fmt.Errorf("empty image placeholder")
		}
		imgBytes, mime, err := decodeImageRef(el.Content)
		if err != nil {
			return fmt.Errorf("image reference unresolvable: %w", err)
		}
		shape := target.CreateDrawingShape()
		shape.SetImageData(imgBytes, mime)
		shape.SetOffsetX(x).SetOffsetY(y)
		shape.SetWidth(w).SetHeight(h)
		return nil

	default:
		return fmt.Errorf("unknown element kind %q", el.Kind)
	}
}

// decodeImageRef resolves a data URL to raw bytes and a MIME type. Remote
// references are not fetched at export time and count as unresolvable.
func decodeImageRef(ref string) ([]byte, string, error) {
	data := ref
	mime := "image/png"
	if strings.HasPrefix(ref, "data:image") {
		parts := strings.SplitN(ref, ",", 2)
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("malformed data URL")
		}
		data = parts[1]
		if strings.Contains(parts[0], "image/jpeg") {
			mime = "image/jpeg"
		} else if strings.Contains(parts[0], "image/gif") {
			mime = "image/gif"
		}
	} else if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return nil, "", fmt.Errorf("remote image reference %q", ref)
	}

	imgBytes, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	return imgBytes, mime, nil
}

// argbColor converts a "#rrggbb" CSS color to GoPPT's AARRGGBB form. Anything
// the target format cannot express (rgba(), named colors) falls back.
func argbColor(css, fallback string) string {
	css = strings.TrimSpace(css)
	if strings.HasPrefix(css, "#") && len(css) == 7 {
		return "FF" + strings.ToUpper(css[1:])
	}
	return fallback
}

// fontSizeOf parses a "NNpx" style value; anything unparsable gets the default.
func fontSizeOf(style map[string]string) int {
	v := strings.TrimSuffix(strings.TrimSpace(style["fontSize"]), "px")
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return pptFontDefault
}
