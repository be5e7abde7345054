package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"examcraft/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingClient answers every call with a fresh well-formed reply of the
// requested size, parsed back out of the user prompt.
type countingClient struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (c *countingClient) Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()

	if c.fail {
		return "", errors.New("model unavailable")
	}

	var n int
	if _, err := fmt.Sscanf(user, "Generate the %d questions now.", &n); err != nil {
		return "", err
	}
	return modelReply(n, fmt.Sprintf("call%d", call)), nil
}

func TestGenerate_HappyPath(t *testing.T) {
	client := &countingClient{}
	g := newTestGenerator(client, testGenConfig())

	req := &domain.GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       []string{"Algebra", "Geometry"},
		NumQuestions: 20,
	}
	result, err := g.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, result.Questions, 20)
	assert.Zero(t, result.Shortfall)
	// Questions are renumbered sequentially.
	for i, q := range result.Questions {
		assert.True(t, strings.HasPrefix(q.QuestionText, fmt.Sprintf("Question %d: ", i+1)),
			"question %d has text %q", i, q.QuestionText)
	}
}

func TestGenerate_NormalizesDefaults(t *testing.T) {
	client := &countingClient{}
	g := newTestGenerator(client, testGenConfig())

	req := &domain.GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       []string{"Algebra"},
		NumQuestions: 5,
	}
	result, err := g.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMedium, req.Medium)
	assert.Equal(t, domain.DifficultyMixed, req.Difficulty)
	assert.Len(t, result.Questions, 5)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	g := newTestGenerator(&countingClient{}, testGenConfig())

	_, err := g.Generate(context.Background(), &domain.GenerationRequest{
		ExamType:     "",
		Topics:       []string{"Algebra"},
		NumQuestions: 5,
	})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)

	_, err = g.Generate(context.Background(), &domain.GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       nil,
		NumQuestions: 5,
	})
	require.Error(t, err)
}

func TestGenerate_PersistentFailureReportsShortfall(t *testing.T) {
	client := &countingClient{fail: true}
	g := newTestGenerator(client, testGenConfig())

	req := &domain.GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       []string{"Algebra"},
		NumQuestions: 10,
	}
	result, err := g.Generate(context.Background(), req)

	// Upstream failure is absorbed, never surfaced as an error.
	require.NoError(t, err)
	assert.Empty(t, result.Questions)
	assert.Equal(t, 10, result.Shortfall)
}

// duplicatingClient returns the same questions on every call, forcing the
// dedup stage to collapse them and the fill loop to run until its ceiling.
type duplicatingClient struct{}

func (c *duplicatingClient) Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	var n int
	if _, err := fmt.Sscanf(user, "Generate the %d questions now.", &n); err != nil {
		return "", err
	}
	return modelReply(n, "identical"), nil
}

func TestGenerate_DuplicatesCollapseAndFillLoopTerminates(t *testing.T) {
	cfg := testGenConfig()
	g := newTestGenerator(&duplicatingClient{}, cfg)

	req := &domain.GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       []string{"Algebra", "Geometry"},
		NumQuestions: 20,
	}
	result, err := g.Generate(context.Background(), req)

	require.NoError(t, err)
	// Every batch returns the same 10 questions; dedup keeps one copy and
	// the fill loop gives up after its iteration ceiling.
	assert.Len(t, result.Questions, 10)
	assert.Equal(t, 10, result.Shortfall)
}

// shortClient always delivers two questions fewer than asked (at least
// one), each call with fresh content.
type shortClient struct {
	mu    sync.Mutex
	calls int
}

func (c *shortClient) Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()

	var n int
	if _, err := fmt.Sscanf(user, "Generate the %d questions now.", &n); err != nil {
		return "", err
	}
	if n -= 2; n < 1 {
		n = 1
	}
	return modelReply(n, fmt.Sprintf("call%d", call)), nil
}

func TestGenerate_FillLoopTopsUpShortfall(t *testing.T) {
	// Every call under-delivers; the fill loop keeps topping up with fresh
	// content until the target is reached.
	g := newTestGenerator(&shortClient{}, testGenConfig())

	req := &domain.GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       []string{"Algebra"},
		NumQuestions: 10,
	}
	result, err := g.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, result.Questions, 10)
	assert.Zero(t, result.Shortfall)
}

// hindiClient answers with well-formed Devanagari questions, fresh content
// per call.
type hindiClient struct {
	mu    sync.Mutex
	calls int
}

func (c *hindiClient) Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()

	var n int
	if _, err := fmt.Sscanf(user, "Generate the %d questions now.", &n); err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "प्रश्न %d:\n", i)
		fmt.Fprintf(&b, "श्रृंखला %d का तथ्य संख्या %d क्या है?\n", call, i)
		b.WriteString("A) पहला\n")
		b.WriteString("B) दूसरा\n")
		b.WriteString("C) तीसरा\n")
		b.WriteString("D) चौथा\n")
		b.WriteString("Correct: A\n")
		fmt.Fprintf(&b, "Explanation: श्रृंखला %d प्रश्न %d।\n\n", call, i)
	}
	return b.String(), nil
}

func TestGenerate_HindiMediumKeepsDistinctQuestions(t *testing.T) {
	g := newTestGenerator(&hindiClient{}, testGenConfig())

	req := &domain.GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       []string{"Algebra"},
		NumQuestions: 10,
		Medium:       "Hindi",
	}
	result, err := g.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, result.Questions, 10)
	assert.Zero(t, result.Shortfall)
}

// flakyThenServingClient fails its first failFirst calls and serves full
// well-formed replies afterwards.
type flakyThenServingClient struct {
	mu        sync.Mutex
	calls     int
	failFirst int
}

func (c *flakyThenServingClient) Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()

	if call <= c.failFirst {
		return "", errors.New("model unavailable")
	}
	var n int
	if _, err := fmt.Sscanf(user, "Generate the %d questions now.", &n); err != nil {
		return "", err
	}
	return modelReply(n, fmt.Sprintf("call%d", call)), nil
}

func TestGenerate_FillIterationCoversWholeShortfall(t *testing.T) {
	// All three initially planned batches fail, leaving a 25-question
	// shortfall. A single fill iteration must plan enough batches to cover
	// all of it, not just one batch's worth.
	cfg := testGenConfig()
	cfg.MaxAttempts = 1
	cfg.MaxFillIterations = 1
	client := &flakyThenServingClient{failFirst: 3}
	g := newTestGenerator(client, cfg)

	req := &domain.GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       []string{"Algebra"},
		NumQuestions: 25,
	}
	result, err := g.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, result.Questions, 25)
	assert.Zero(t, result.Shortfall)
}

func TestGenerate_MultiBatchTotalMatchesTarget(t *testing.T) {
	client := &countingClient{}
	g := newTestGenerator(client, testGenConfig())

	req := &domain.GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       []string{"A", "B", "C"},
		NumQuestions: 7,
	}
	result, err := g.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, result.Questions, 7)
	assert.Zero(t, result.Shortfall)
}

func TestLeastRepresentedTopic(t *testing.T) {
	topics := []string{"A", "B", "C"}
	questions := []*domain.QuestionCandidate{
		{Topic: "A"}, {Topic: "A"}, {Topic: "B"},
	}
	assert.Equal(t, "C", leastRepresentedTopic(topics, questions))

	// Ties break by input order.
	questions = []*domain.QuestionCandidate{{Topic: "A"}}
	assert.Equal(t, "B", leastRepresentedTopic(topics, questions))

	assert.Equal(t, "A", leastRepresentedTopic(topics, nil))
}

func TestRenumber(t *testing.T) {
	questions := []*domain.QuestionCandidate{
		{QuestionText: "Question 7: What is gravity?"},
		{QuestionText: "What is light?"},
		{QuestionText: "प्रश्न 3: some text"},
	}
	renumber(questions)

	assert.Equal(t, "Question 1: What is gravity?", questions[0].QuestionText)
	assert.Equal(t, "Question 2: What is light?", questions[1].QuestionText)
	assert.Equal(t, "Question 3: some text", questions[2].QuestionText)
}
