package genai

import (
	"time"

	"examcraft/internal/config"
)

// Config holds the pipeline tunables. The legacy generators hid divergent
// copies of these constants; they live in one place now.
type Config struct {
	// MinBatchSize is the smallest count worth asking the model for in one
	// call. The model degrades noticeably below roughly three items.
	MinBatchSize int
	// MaxBatchSize bounds a single outbound request.
	MaxBatchSize int
	// Concurrency caps simultaneous upstream calls.
	Concurrency int
	// MaxAttempts bounds retries per batch, backoff doubling each attempt.
	MaxAttempts int
	BaseBackoff time.Duration
	// RequestTimeout aborts a single upstream call.
	RequestTimeout time.Duration
	// MaxFillIterations bounds the orchestrator's top-up loop.
	MaxFillIterations int
	// Token budget: BaseTokens + TokensPerQuestion*count, capped at MaxTokens.
	BaseTokens        int
	TokensPerQuestion int
	MaxTokens         int
	// FingerprintLength is the dedup key prefix length.
	FingerprintLength int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinBatchSize:      3,
		MaxBatchSize:      10,
		Concurrency:       3,
		MaxAttempts:       3,
		BaseBackoff:       2 * time.Second,
		RequestTimeout:    60 * time.Second,
		MaxFillIterations: 5,
		BaseTokens:        500,
		TokensPerQuestion: 350,
		MaxTokens:         4000,
		FingerprintLength: 160,
	}
}

// ConfigFromApp maps the application configuration onto pipeline config,
// falling back to defaults for unset values.
func ConfigFromApp(gen config.GenerationConfig, llm config.LLMConfig) Config {
	cfg := DefaultConfig()
	if gen.MinBatchSize > 0 {
		cfg.MinBatchSize = gen.MinBatchSize
	}
	if gen.MaxBatchSize > 0 {
		cfg.MaxBatchSize = gen.MaxBatchSize
	}
	if gen.Concurrency > 0 {
		cfg.Concurrency = gen.Concurrency
	}
	if gen.MaxAttempts > 0 {
		cfg.MaxAttempts = gen.MaxAttempts
	}
	if gen.BaseBackoff > 0 {
		cfg.BaseBackoff = gen.BaseBackoff
	}
	if gen.MaxFillIterations > 0 {
		cfg.MaxFillIterations = gen.MaxFillIterations
	}
	if gen.BaseTokens > 0 {
		cfg.BaseTokens = gen.BaseTokens
	}
	if gen.TokensPerQuestion > 0 {
		cfg.TokensPerQuestion = gen.TokensPerQuestion
	}
	if gen.MaxTokens > 0 {
		cfg.MaxTokens = gen.MaxTokens
	}
	if llm.Timeout > 0 {
		cfg.RequestTimeout = llm.Timeout
	}
	return cfg
}
