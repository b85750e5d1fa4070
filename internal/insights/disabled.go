package insights

import (
	"context"
	"errors"
)

// ErrModelDisabled is returned by DisabledModel.
var ErrModelDisabled = errors.New("AI model is not configured")

// DisabledModel stands in when no API key is configured. Every call fails,
// so callers fall back to their fixed replies.
type DisabledModel struct{}

func (DisabledModel) Generate(context.Context, Request) (string, error) {
	return "", ErrModelDisabled
}
