package llm

import (
	"context"
	"errors"
)

// ErrGenerationFailed covers every way a model call can fail: transport,
// quota or auth errors, and empty responses.
var ErrGenerationFailed = errors.New("generation failed")

// Generator sends a prompt to a text generation model and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
