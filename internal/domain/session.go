package domain

import (
	"strings"
	"time"
)

// Session statuses.
const (
	SessionStatusActive    = "active"
	SessionStatusSubmitted = "submitted"
)

// ExamSession is one attempt at a generated mock test.
type ExamSession struct {
	ID              string
	UserID          string
	ExamType        string
	SessionType     string
	Difficulty      string
	Medium          string
	Topics          []string
	NumQuestions    int
	DurationMinutes int
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	SubmittedAt     *time.Time
	// Result is non-nil once the session has been submitted and scored.
	Result *SessionResult
}

// Question is a persisted question row belonging to a session.
type Question struct {
	ID             string
	SessionID      string
	QuestionIndex  int
	Topic          string
	Difficulty     string
	QuestionText   string
	OptionA        string
	OptionB        string
	OptionC        string
	OptionD        string
	CorrectOption  string
	Explanation    string
	SelectedOption string
	CreatedAt      time.Time
}

// SessionResult aggregates the score of a submitted session.
type SessionResult struct {
	SessionID   string
	Total       int
	Correct     int
	Incorrect   int
	Unattempted int
	Percentage  float64
}

// ScoreSession counts correct, incorrect and unattempted answers. The
// answers map is keyed by question ID with the selected option letter as
// the value; letters are matched case-insensitively and anything outside
// A-D counts as unattempted.
func ScoreSession(sessionID string, questions []*Question, answers map[string]string) *SessionResult {
	result := &SessionResult{
		SessionID: sessionID,
		Total:     len(questions),
	}
	for _, q := range questions {
		selected, ok := answers[q.ID]
		selected = strings.ToUpper(strings.TrimSpace(selected))
		if !ok || !isOptionLetter(selected) {
			result.Unattempted++
			continue
		}
		if selected == q.CorrectOption {
			result.Correct++
		} else {
			result.Incorrect++
		}
	}
	if result.Total > 0 {
		result.Percentage = float64(result.Correct) / float64(result.Total) * 100
	}
	return result
}

func isOptionLetter(s string) bool {
	return s == "A" || s == "B" || s == "C" || s == "D"
}
