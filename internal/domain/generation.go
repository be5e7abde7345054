package domain

import "strings"

// Difficulty levels accepted by the generation pipeline.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyMixed  = "mixed"
)

// Session types.
const (
	SessionTypePractice = "practice"
	SessionTypePYQ      = "pyq"
	SessionTypeMock     = "mock"
)

// DefaultMedium is the target language when the caller does not pick one.
const DefaultMedium = "English"

const (
	// MinQuestions and MaxQuestions bound a single generation request.
	MinQuestions = 1
	MaxQuestions = 100
)

// GenerationRequest describes one request for a set of generated questions.
type GenerationRequest struct {
	ExamType     string
	Topics       []string
	NumQuestions int
	Difficulty   string
	SessionType  string
	Medium       string
}

// Normalize fills defaults and clamps NumQuestions into [MinQuestions, MaxQuestions].
func (r *GenerationRequest) Normalize() {
	if r.Medium == "" {
		r.Medium = DefaultMedium
	}
	if r.Difficulty == "" {
		r.Difficulty = DifficultyMixed
	}
	if r.SessionType == "" {
		r.SessionType = SessionTypePractice
	}
	if r.NumQuestions < MinQuestions {
		r.NumQuestions = MinQuestions
	}
	if r.NumQuestions > MaxQuestions {
		r.NumQuestions = MaxQuestions
	}
}

// Validate checks the request before any network activity. It is the only
// failure the generation pipeline propagates to its caller.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.ExamType) == "" {
		return NewInvalidInputError("exam type is required")
	}
	if len(r.Topics) == 0 {
		return NewInvalidInputError("at least one topic is required")
	}
	for _, t := range r.Topics {
		if strings.TrimSpace(t) == "" {
			return NewInvalidInputError("topics must be non-empty")
		}
	}
	return nil
}

// QuestionCandidate is one parsed multiple-choice question produced by the
// generation pipeline. It has no persistent identity; the caller assigns a
// session ID and sequential index when storing it.
type QuestionCandidate struct {
	ExamType      string
	Topic         string
	Difficulty    string
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption string
	Explanation   string
}

// GenerationResult is the outcome of one Generate call. Shortfall is
// non-zero when the pipeline gave up before reaching the requested count;
// callers must treat len(Questions), not the requested count, as
// authoritative.
type GenerationResult struct {
	Questions []*QuestionCandidate
	Shortfall int
}
