package insights

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/radiusdt/adpulse/internal/config"
)

// GeminiClient implements Model over the Gemini generateContent API.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient creates a client from configuration. An empty BaseURL uses
// the public Gemini endpoint.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	timeout := cfg.Timeout
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
			Timeout: &timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: cfg.Model, logger: logger}, nil
}

// Generate sends req and returns the text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.Contents))
	for _, m := range req.Contents {
		contents = append(contents, genai.NewContentFromText(m.Text, genai.Role(m.Role)))
	}

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Config.Temperature)),
		TopP:        genai.Ptr(float32(req.Config.TopP)),
	}
	if req.System != "" {
		gc.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.System)}}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, gc)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	var finish genai.FinishReason
	if len(resp.Candidates) > 0 {
		finish = resp.Candidates[0].FinishReason
	}
	c.logger.Debug("gemini response received",
		zap.String("model", c.model),
		zap.String("finish_reason", string(finish)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}
