package insights

import (
	"context"
	"errors"

	"github.com/radiusdt/adpulse/internal/models"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned no text")

// GenerationConfig holds sampling parameters for a single request.
type GenerationConfig struct {
	Temperature float64
	TopP        float64
}

// Request is one call to a generative model. System is optional.
type Request struct {
	System   string
	Contents []models.ChatMessage
	Config   GenerationConfig
}

// Model is a text generation backend.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}
