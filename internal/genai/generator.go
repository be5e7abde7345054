package genai

import (
	"context"
	"fmt"
	"strings"

	"examcraft/internal/domain"

	"go.uber.org/zap"
)

// Generator is the question-generation orchestrator and the package's only
// externally-called entry point. It turns a GenerationRequest into a
// deduplicated, validated set of exactly NumQuestions candidates,
// best-effort: the count guarantee is soft when the upstream model stays
// persistently unable to deliver (the shortfall is reported, not hidden).
type Generator struct {
	client CompletionClient
	cfg    Config
	logger *zap.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(client CompletionClient, cfg Config, logger *zap.Logger) *Generator {
	return &Generator{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Generate runs the full pipeline: plan batches, fetch them through the
// worker pool, deduplicate, top up under-represented topics until the
// target count or the iteration ceiling is reached, then truncate and
// renumber. An invalid request is the only error it returns.
func (g *Generator) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	target := req.NumQuestions

	batches := planBatches(req.Topics, target, g.cfg.MinBatchSize, g.cfg.MaxBatchSize)
	g.logger.Info("Planned generation batches",
		zap.String("exam_type", req.ExamType),
		zap.Int("target", target),
		zap.Int("batches", len(batches)),
	)

	tasks := make([]func(context.Context) []*domain.QuestionCandidate, len(batches))
	for i, batch := range batches {
		tasks[i] = func(taskCtx context.Context) []*domain.QuestionCandidate {
			return g.fetchBatch(taskCtx, batch, req, 0)
		}
	}

	var questions []*domain.QuestionCandidate
	for _, batchResult := range runPool(ctx, g.cfg.Concurrency, tasks) {
		questions = append(questions, batchResult...)
	}
	questions = dedupe(questions, g.cfg.FingerprintLength)

	// Fill loop: compensate the whole remaining shortfall each iteration,
	// planned into batches on the least-represented topic so a large
	// shortfall can converge within the iteration ceiling. Zero-yield
	// iterations still count against the ceiling so the loop cannot spin
	// forever.
	for iter := 0; len(questions) < target && iter < g.cfg.MaxFillIterations; iter++ {
		topic := leastRepresentedTopic(req.Topics, questions)
		count := target - len(questions)
		if count < g.cfg.MinBatchSize {
			count = g.cfg.MinBatchSize
		}

		fillBatches := planBatches([]string{topic}, count, g.cfg.MinBatchSize, g.cfg.MaxBatchSize)
		g.logger.Info("Fill iteration",
			zap.Int("iteration", iter+1),
			zap.String("topic", topic),
			zap.Int("have", len(questions)),
			zap.Int("target", target),
			zap.Int("batches", len(fillBatches)),
		)

		fillTasks := make([]func(context.Context) []*domain.QuestionCandidate, len(fillBatches))
		for i, batch := range fillBatches {
			fillTasks[i] = func(taskCtx context.Context) []*domain.QuestionCandidate {
				return g.fetchBatch(taskCtx, batch, req, 0)
			}
		}
		for _, fill := range runPool(ctx, g.cfg.Concurrency, fillTasks) {
			questions = append(questions, fill...)
		}
		questions = dedupe(questions, g.cfg.FingerprintLength)
	}

	if len(questions) > target {
		questions = questions[:target]
	}
	renumber(questions)

	shortfall := target - len(questions)
	if shortfall > 0 {
		g.logger.Warn("Generation finished below target",
			zap.Int("target", target),
			zap.Int("generated", len(questions)),
			zap.Int("shortfall", shortfall),
		)
	}

	return &domain.GenerationResult{
		Questions: questions,
		Shortfall: shortfall,
	}, nil
}

// leastRepresentedTopic returns the topic with the fewest accumulated
// candidates, ties broken by input order.
func leastRepresentedTopic(topics []string, questions []*domain.QuestionCandidate) string {
	counts := make(map[string]int, len(topics))
	for _, q := range questions {
		counts[q.Topic]++
	}
	best := topics[0]
	for _, t := range topics[1:] {
		if counts[t] < counts[best] {
			best = t
		}
	}
	return best
}

// renumber rewrites every question's text with a normalized
// "Question {i}: " prefix, stripping any residual numbering the model
// embedded.
func renumber(questions []*domain.QuestionCandidate) {
	for i, q := range questions {
		text := strings.TrimSpace(leadingHeaderRe.ReplaceAllString(q.QuestionText, ""))
		q.QuestionText = fmt.Sprintf("Question %d: %s", i+1, text)
	}
}
