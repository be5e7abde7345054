package genai

import (
	"context"
	"time"

	"examcraft/internal/domain"

	"go.uber.org/zap"
)

// fetchBatch issues one batch request with retries and a single recursive
// top-up. Failure is absorbed: after exhausting every attempt the batch
// yields an empty slice, never an error. The orchestrator's fill loop
// compensates for any shortfall signaled through the returned length.
func (g *Generator) fetchBatch(ctx context.Context, batch Batch, req *domain.GenerationRequest, depth int) []*domain.QuestionCandidate {
	system, user := buildPrompt(batch, req)

	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if !g.backoff(ctx, attempt) {
				return nil
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
		raw, err := g.client.Complete(callCtx, system, user, CompletionOptions{
			MaxTokens:   g.tokenBudget(batch.Count),
			Temperature: temperatureFor(req.Medium, attempt),
		})
		cancel()
		if err != nil {
			g.logger.Warn("Batch completion call failed",
				zap.Strings("topics", batch.Topics),
				zap.Int("count", batch.Count),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		parsed := parseQuestions(raw, batch, req)
		if len(parsed) == 0 {
			// The whole response failed to parse; treat like a transport
			// failure and burn a retry.
			g.logger.Warn("Batch response yielded no parseable questions",
				zap.Strings("topics", batch.Topics),
				zap.Int("attempt", attempt+1),
			)
			continue
		}

		if len(parsed) >= batch.Count {
			return parsed[:batch.Count]
		}

		// Under-delivery. Recursing on a batch already at the minimum
		// viable size is not productive; take what we got.
		if batch.Count <= g.cfg.MinBatchSize {
			return parsed
		}
		if depth > 0 {
			return parsed
		}

		// One top-up call for the shortfall, never below the minimum
		// viable size.
		shortfall := batch.Count - len(parsed)
		topUpCount := shortfall
		if topUpCount < g.cfg.MinBatchSize {
			topUpCount = g.cfg.MinBatchSize
		}
		g.logger.Info("Batch under-delivered, requesting top-up",
			zap.Strings("topics", batch.Topics),
			zap.Int("requested", batch.Count),
			zap.Int("parsed", len(parsed)),
			zap.Int("top_up", topUpCount),
		)
		more := g.fetchBatch(ctx, Batch{Topics: batch.Topics, Count: topUpCount}, req, depth+1)
		combined := append(parsed, more...)
		if len(combined) > batch.Count {
			combined = combined[:batch.Count]
		}
		return combined
	}

	g.logger.Warn("Batch exhausted all attempts",
		zap.Strings("topics", batch.Topics),
		zap.Int("count", batch.Count),
	)
	return nil
}

// backoff sleeps the exponential delay for the given attempt. It returns
// false if the context ended first.
func (g *Generator) backoff(ctx context.Context, attempt int) bool {
	delay := g.cfg.BaseBackoff << (attempt - 1)
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}
