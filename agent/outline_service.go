package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"slidesmith/config"
)

// Outline generation needs a distinct introduction and conclusion slide plus
// at least one body slide, so requests below three slides are rejected rather
// than guessed at. The upper bound keeps a single request within one model
// response.
const (
	MinSlideCount = 3
	MaxSlideCount = 20
)

// OutlineService generates presentation outlines through an OpenAI-compatible
// chat model.
type OutlineService struct {
	cfg      config.Config
	logger   func(string)
	newModel func(ctx context.Context, apiKey string) (model.ChatModel, error)
}

// NewOutlineService creates an outline service. logger may be nil.
func NewOutlineService(cfg config.Config, logger func(string)) *OutlineService {
	s := &OutlineService{cfg: cfg, logger: logger}
	s.newModel = func(ctx context.Context, apiKey string) (model.ChatModel, error) {
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.ModelName,
		})
	}
	return s
}

func (s *OutlineService) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

// Generate produces exactly slideCount outline entries for the topic. The
// first entry is the introduction and the last the conclusion. apiKey is the
// per-request credential resolved by the caller; an empty key fails with
// ErrCredentialMissing before any upstream call.
func (s *OutlineService) Generate(ctx context.Context, topic string, slideCount int, apiKey string) ([]SlideOutline, error) {
	if slideCount < MinSlideCount || slideCount > MaxSlideCount {
		return nil, fmt.Errorf("slide count %d out of range [%d, %d]", slideCount, MinSlideCount, MaxSlideCount)
	}
	if apiKey == "" {
		return nil, ErrCredentialMissing
	}

	chatModel, err := s.newModel(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	msgs := []*schema.Message{
		{Role: schema.System, Content: "You are a presentation designer. Output only valid JSON."},
		{Role: schema.User, Content: outlinePrompt(topic, slideCount)},
	}

	resp, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamGeneration, err)
	}

	s.log(fmt.Sprintf("[OUTLINE] raw model output length: %d", len(resp.Content)))

	outlines, err := ParseOutline(resp.Content)
	if err != nil {
		return nil, err
	}

	for i := range outlines {
		outlines[i].Title = stripMarkdown(outlines[i].Title)
		outlines[i].Content = stripMarkdown(outlines[i].Content)
	}

	// The contract is exactly slideCount entries. Over-generation is trimmed;
	// under-generation means the model did not follow the structure at all.
	if len(outlines) > slideCount {
		outlines = outlines[:slideCount]
	}
	if len(outlines) < slideCount {
		return nil, fmt.Errorf("%w: got %d outline entries, want %d", ErrUpstreamGeneration, len(outlines), slideCount)
	}

	return outlines, nil
}

func outlinePrompt(topic string, slideCount int) string {
	return fmt.Sprintf(`Generate a presentation outline for the topic: %q.
Create exactly %d slides.

The slides MUST follow this structure:
1. Slide 1: Layout "Title" (Introduction)
2. Slide 2: Layout "Agenda" (List of topics)
3. Slides 3 to %d: Mix of layouts "Content", "TwoColumn", "ImageLeft", "ImageRight", "Quote".
4. Slide %d: Layout "Conclusion" (Summary/Thank you)

Return ONLY a valid JSON array of objects.
Each object should have:
- "title": string
- "content": string (bullet points or short paragraph)
- "imagePrompt": string (A highly detailed, artistic, photorealistic description for an AI image generator. Describe lighting, style, and mood. NO text in image.)
- "layout": string (One of: "Title", "Agenda", "Content", "TwoColumn", "ImageLeft", "ImageRight", "Quote", "Conclusion")

Do not include markdown formatting like `+"```json"+`. Just the raw JSON string.`, topic, slideCount, slideCount-1, slideCount)
}
