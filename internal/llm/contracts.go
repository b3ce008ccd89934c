// Package llm holds the language-model boundary used to categorize poster text.
package llm

import (
	"context"
	"errors"
)

// CompletionRequest is one system+user exchange.
type CompletionRequest struct {
	System string
	Prompt string
}

// Completer is the provider-neutral completion boundary. Implementations
// return the model's raw text; parsing is the caller's job.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// ErrMalformedOutput marks model text that is not a usable event object.
var ErrMalformedOutput = errors.New("malformed model output")
