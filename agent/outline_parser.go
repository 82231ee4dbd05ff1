package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// SlideOutline is one entry of a generated presentation outline.
type SlideOutline struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ImagePrompt string `json:"imagePrompt"`
	Layout      string `json:"layout"`
}

// ParseError reports that a model response could not be parsed into an
// outline, even after normalization. Raw carries the full response text for
// diagnostics.
type ParseError struct {
	Stage string // "strict" or "normalized"
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("outline parse failed at %s stage: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)

// ParseOutline parses the model's response text into an outline list.
//
// Parsing is two-stage: a strict JSON parse of the raw text first, and only
// if that fails, one documented normalization pass (code-fence stripping,
// outermost-array extraction, trailing-comma removal) followed by a reparse.
// A failure of the second stage is terminal and returns a *ParseError with
// the raw text attached.
func ParseOutline(raw string) ([]SlideOutline, error) {
	var outlines []SlideOutline

	strictErr := json.Unmarshal([]byte(raw), &outlines)
	if strictErr == nil {
		return outlines, nil
	}

	// No array to retry on: the strict failure stands as the reported one.
	normalized := normalizeOutlinePayload(raw)
	if normalized == "" {
		return nil, &ParseError{Stage: "strict", Raw: raw, Err: strictErr}
	}
	if err := json.Unmarshal([]byte(normalized), &outlines); err != nil {
		return nil, &ParseError{Stage: "normalized", Raw: raw, Err: err}
	}
	return outlines, nil
}

// normalizeOutlinePayload strips the extraneous formatting models wrap around
// structured output: markdown code fences, prose before/after the payload,
// and trailing commas. Returns "" when no array is present at all.
func normalizeOutlinePayload(content string) string {
	content = strings.TrimSpace(content)

	// Code fences first, so the bracket scan below sees the payload only.
	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+7:]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+3:]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return ""
	}
	content = content[start : end+1]

	return trailingCommaRe.ReplaceAllString(content, "$1")
}

// stripMarkdown removes the bold/italic markers models tend to leave in
// titles and bullet text.
func stripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	return strings.ReplaceAll(s, "*", "")
}
