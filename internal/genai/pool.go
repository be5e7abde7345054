package genai

import (
	"context"

	"examcraft/internal/domain"

	"golang.org/x/sync/errgroup"
)

// runPool executes the batch tasks under a fixed concurrency ceiling and
// returns their results in submission order regardless of completion order.
// Submission order matters downstream: dedup keeps first occurrences, so it
// decides which duplicate survives. Tasks absorb their own failures; the
// pool has no error path and no early abort.
func runPool(ctx context.Context, limit int, tasks []func(context.Context) []*domain.QuestionCandidate) [][]*domain.QuestionCandidate {
	if limit < 1 {
		limit = 1
	}

	results := make([][]*domain.QuestionCandidate, len(tasks))
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(limit)
	for i, task := range tasks {
		grp.Go(func() error {
			results[i] = task(grpCtx)
			return nil
		})
	}
	_ = grp.Wait()
	return results
}
