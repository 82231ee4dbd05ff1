package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultImageEndpoint is the hosted image generation API used when the
// config does not override it.
const DefaultImageEndpoint = "https://raphaelai.org/api/v3/imagen"

// ImageService requests AI-generated images and returns them as embeddable
// data URLs. It is an external collaborator: callers treat every failure as
// recoverable and leave the requesting element in its placeholder state.
type ImageService struct {
	endpoint string
	client   *http.Client
	logger   func(string)
}

// NewImageService creates an image generation client. endpoint may be empty
// to use the default; logger may be nil.
func NewImageService(endpoint string, logger func(string)) *ImageService {
	if endpoint == "" {
		endpoint = DefaultImageEndpoint
	}
	return &ImageService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
		logger:   logger,
	}
}

func (s *ImageService) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

type imageRequest struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Token  string `json:"token"`
}

type imageResponse struct {
	Images []struct {
		Image string `json:"image"`
	} `json:"images"`
}

// Generate requests one image for the prompt and returns a data URL. An empty
// token fails with ErrCredentialMissing before any network call; upstream
// errors come back wrapped in ErrUpstreamGeneration.
func (s *ImageService) Generate(ctx context.Context, prompt, token string) (string, error) {
	if token == "" {
		return "", ErrCredentialMissing
	}

	body, err := json.Marshal(imageRequest{
		Prompt: prompt,
		Width:  1024,
		Height: 1024,
		Token:  token,
	})
	if err != nil {
		return "", fmt.Errorf("marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamGeneration, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpstreamGeneration, err)
	}
	if resp.StatusCode != http.StatusOK {
		s.log(fmt.Sprintf("[IMAGE] upstream status %d: %s", resp.StatusCode, truncateForLog(string(data))))
		return "", fmt.Errorf("%w: status %d", ErrUpstreamGeneration, resp.StatusCode)
	}

	var parsed imageResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstreamGeneration, err)
	}
	if len(parsed.Images) == 0 || parsed.Images[0].Image == "" {
		return "", fmt.Errorf("%w: response contained no image", ErrUpstreamGeneration)
	}

	// The API returns base64 without a data URL prefix most of the time.
	img := parsed.Images[0].Image
	if !strings.HasPrefix(img, "data:image") {
		img = "data:image/jpeg;base64," + img
	}
	return img, nil
}

func truncateForLog(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
