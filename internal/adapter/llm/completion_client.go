package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"examcraft/internal/config"
	"examcraft/internal/genai"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChatCompletionClient implements genai.CompletionClient against any
// OpenAI-compatible chat-completion endpoint via langchaingo. Only the
// first choice's message content is consumed from the response envelope.
type ChatCompletionClient struct {
	model llms.Model
}

// NewChatCompletionClient builds the production completion client from the
// LLM configuration (base URL, model id, bearer token).
func NewChatCompletionClient(cfg config.LLMConfig) (*ChatCompletionClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is not configured")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("LLM model is not configured")
	}

	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
		// Per-call deadlines come from the caller's context; the transport
		// timeout is a backstop.
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout + 10*time.Second}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}
	return &ChatCompletionClient{model: model}, nil
}

// Complete sends one system+user message pair and returns the reply text.
func (c *ChatCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts genai.CompletionOptions) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(opts.MaxTokens),
		llms.WithTemperature(opts.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}
	return resp.Choices[0].Content, nil
}

var _ genai.CompletionClient = (*ChatCompletionClient)(nil)
