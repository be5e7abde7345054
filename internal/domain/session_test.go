package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scoringQuestions() []*Question {
	return []*Question{
		{ID: "q1", CorrectOption: "A"},
		{ID: "q2", CorrectOption: "B"},
		{ID: "q3", CorrectOption: "C"},
		{ID: "q4", CorrectOption: "D"},
	}
}

func TestScoreSession_AllCorrect(t *testing.T) {
	answers := map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D"}
	result := ScoreSession("s1", scoringQuestions(), answers)

	assert.Equal(t, "s1", result.SessionID)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 4, result.Correct)
	assert.Zero(t, result.Incorrect)
	assert.Zero(t, result.Unattempted)
	assert.InDelta(t, 100.0, result.Percentage, 1e-9)
}

func TestScoreSession_Mixed(t *testing.T) {
	answers := map[string]string{"q1": "A", "q2": "D"}
	result := ScoreSession("s1", scoringQuestions(), answers)

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.Incorrect)
	assert.Equal(t, 2, result.Unattempted)
	assert.InDelta(t, 25.0, result.Percentage, 1e-9)
}

func TestScoreSession_InvalidLetterCountsAsUnattempted(t *testing.T) {
	answers := map[string]string{"q1": "E", "q2": "", "q3": "AB"}
	result := ScoreSession("s1", scoringQuestions(), answers)

	assert.Zero(t, result.Correct)
	assert.Zero(t, result.Incorrect)
	assert.Equal(t, 4, result.Unattempted)
}

func TestScoreSession_LettersMatchCaseInsensitively(t *testing.T) {
	answers := map[string]string{"q1": "a", "q2": "d", "q3": " c ", "q4": "D"}
	result := ScoreSession("s1", scoringQuestions(), answers)

	assert.Equal(t, 3, result.Correct)
	assert.Equal(t, 1, result.Incorrect)
	assert.Zero(t, result.Unattempted)
}

func TestScoreSession_UnknownQuestionIDsIgnored(t *testing.T) {
	answers := map[string]string{"q1": "A", "bogus": "B"}
	result := ScoreSession("s1", scoringQuestions(), answers)

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 3, result.Unattempted)
}

func TestScoreSession_EmptySession(t *testing.T) {
	result := ScoreSession("s1", nil, nil)

	assert.Zero(t, result.Total)
	assert.Zero(t, result.Percentage)
}
