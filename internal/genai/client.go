package genai

import "context"

// CompletionOptions are the per-call knobs forwarded to the upstream model.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// CompletionClient is the outbound port to the chat-completion endpoint.
// Implementations send a system prompt and a short user directive and
// return the first choice's message content as free text.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts CompletionOptions) (string, error)
}
