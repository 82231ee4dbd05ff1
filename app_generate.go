package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"slidesmith/agent"
	"slidesmith/catalog"
	"slidesmith/document"
)

// imageWorkers caps concurrent image API calls during a deck fill.
const imageWorkers = 3

// pendingImage is one asynchronous image generation task targeting a
// specific element by id.
type pendingImage struct {
	SlideID   string
	ElementID string
	Prompt    string
}

// GenerateRequest are the inputs to deck generation. APIKey and ImageToken
// override the user's stored credentials for this request only.
type GenerateRequest struct {
	Topic      string
	SlideCount int
	UserID     string
	APIKey     string
	ImageToken string
}

// GenerateDeck asks the LLM for a slide outline, replaces the session's deck
// with slides built from it, and fills image placeholders asynchronously.
// The returned deck contains the placeholders; images arrive later through
// the session's change feed.
func (a *App) GenerateDeck(ctx context.Context, sessionID string, req GenerateRequest) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}

	key := a.resolveLLMKey(req.UserID, req.APIKey)
	outlines, err := a.outline().Generate(ctx, req.Topic, req.SlideCount, key)
	if err != nil {
		return nil, WrapError("app", "GenerateDeck", err)
	}

	themeID := catalog.Themes[0].ID
	if prev := s.store.Snapshot(); len(prev) > 0 && prev[0].ThemeID != "" {
		themeID = prev[0].ThemeID
	}

	deck := make(document.Deck, 0, len(outlines))
	var pending []pendingImage
	for _, outline := range outlines {
		slide, fills := slideFromOutline(outline, themeID)
		deck = append(deck, slide)
		for _, f := range fills {
			pending = append(pending, pendingImage{SlideID: slide.ID, ElementID: f.ElementID, Prompt: f.Prompt})
		}
	}

	s.store.Commit(deck)
	a.Log(fmt.Sprintf("Session %s: generated %d slides for topic %q, %d images pending",
		sessionID, len(deck), req.Topic, len(pending)))

	if len(pending) > 0 {
		token := a.resolveImageToken(req.UserID, req.ImageToken)
		go a.fillImages(context.Background(), s, pending, token)
	}

	return s.store.Snapshot(), nil
}

// slideFromOutline builds one slide from an outline entry. Text content is
// seeded first, then reconciled onto the outline's layout so geometry and
// styling come from the layout slots. Image slots surface as placeholder
// elements plus pending generation requests; the outline's own image prompt
// wins over the derived one.
func slideFromOutline(outline agent.SlideOutline, themeID string) (document.Slide, []document.ImageFill) {
	layout := catalog.LayoutByName(outline.Layout)

	slide := document.Slide{
		ID:       document.NewID(),
		ThemeID:  themeID,
		LayoutID: layout.ID,
	}
	slide.Elements = append(slide.Elements,
		document.NewTextElement("title-"+document.NewID(), outline.Title, 0, 0, 0, 0))
	if outline.Content != "" {
		slide.Elements = append(slide.Elements,
			document.NewTextElement("content-"+document.NewID(), outline.Content, 0, 0, 0, 0))
	}

	elements, fills := document.ReconcileLayout(slide, layout)
	slide.Elements = elements

	if outline.ImagePrompt != "" {
		for i := range fills {
			fills[i].Prompt = outline.ImagePrompt
		}
		if len(fills) == 0 {
			// Layout has no image slot: add a faded full-canvas backdrop
			// behind the text, first in paint order.
			bg := document.NewImageElement("image-"+document.NewID(), "",
				0, 0, document.CanvasWidth, document.CanvasHeight)
			bg.Style["opacity"] = "0.3"
			slide.Elements = append([]document.Element{bg}, slide.Elements...)
			fills = append(fills, document.ImageFill{ElementID: bg.ID, Prompt: outline.ImagePrompt})
		}
	}
	return slide, fills
}

// fillImages generates images for pending placeholders and merges each
// result into the store by element id. Calls are paced and bounded so a
// large deck does not hammer the image API. Failures are logged and the
// placeholder stays empty.
func (a *App) fillImages(ctx context.Context, s *editSession, pending []pendingImage, token string) {
	if token == "" {
		a.Log("Image generation skipped: no image token available")
		return
	}

	limiter := rate.NewLimiter(rate.Every(time.Second), 1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(imageWorkers)

	for _, p := range pending {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			img, err := a.images().Generate(ctx, p.Prompt, token)
			if err != nil {
				a.Log(fmt.Sprintf("Image generation failed for element %s: %v", p.ElementID, err))
				return nil
			}
			s.store.MergeGeneratedContent(p.SlideID, p.ElementID, img)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.Log(fmt.Sprintf("Image fill aborted: %v", err))
	}
}
