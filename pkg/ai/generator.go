package ai

import "context"

// TextGenerator issues one completion request for a system prompt and a
// user prompt. Implementations do not retry; a failed call is reported to
// the caller as a single error.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
