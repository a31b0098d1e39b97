package provider

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the provider answers 2xx but the
// completion carries no content.
var ErrEmptyCompletion = errors.New("provider response contains no content")

// Client defines the interface to the external generative AI provider.
// This enables testing the generation pipeline with canned outputs.
type Client interface {
	// GenerateText runs a single text completion for the prompt, bounded
	// to maxTokens of output, and returns the raw completion text.
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)

	// GenerateImage renders an illustration for the prompt and returns the
	// decoded image bytes.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}
