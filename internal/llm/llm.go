package llm

import (
	"context"
	"errors"
)

// ErrGenerate indicates the completion call failed or returned nothing.
var ErrGenerate = errors.New("generation failed")

// Generator produces a text completion for a prompt. Implementations block
// until the backing model answers or ctx expires.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
