package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationRequest_NormalizeDefaults(t *testing.T) {
	r := &GenerationRequest{ExamType: "SSC CGL", Topics: []string{"Algebra"}}
	r.Normalize()

	assert.Equal(t, DefaultMedium, r.Medium)
	assert.Equal(t, DifficultyMixed, r.Difficulty)
	assert.Equal(t, SessionTypePractice, r.SessionType)
	assert.Equal(t, MinQuestions, r.NumQuestions)
}

func TestGenerationRequest_NormalizeClampsCount(t *testing.T) {
	r := &GenerationRequest{ExamType: "SSC CGL", Topics: []string{"A"}, NumQuestions: 500}
	r.Normalize()
	assert.Equal(t, MaxQuestions, r.NumQuestions)

	r.NumQuestions = -3
	r.Normalize()
	assert.Equal(t, MinQuestions, r.NumQuestions)
}

func TestGenerationRequest_NormalizeKeepsExplicitValues(t *testing.T) {
	r := &GenerationRequest{
		ExamType:     "SSC CGL",
		Topics:       []string{"A"},
		NumQuestions: 25,
		Difficulty:   DifficultyHard,
		SessionType:  SessionTypeMock,
		Medium:       "Hindi",
	}
	r.Normalize()

	assert.Equal(t, 25, r.NumQuestions)
	assert.Equal(t, DifficultyHard, r.Difficulty)
	assert.Equal(t, SessionTypeMock, r.SessionType)
	assert.Equal(t, "Hindi", r.Medium)
}

func TestGenerationRequest_Validate(t *testing.T) {
	valid := &GenerationRequest{ExamType: "SSC CGL", Topics: []string{"Algebra"}}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name string
		req  GenerationRequest
	}{
		{"missing exam type", GenerationRequest{Topics: []string{"A"}}},
		{"blank exam type", GenerationRequest{ExamType: "   ", Topics: []string{"A"}}},
		{"no topics", GenerationRequest{ExamType: "SSC CGL"}},
		{"blank topic", GenerationRequest{ExamType: "SSC CGL", Topics: []string{"A", " "}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			require.Error(t, err)

			var domainErr *DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, CodeInvalidInput, domainErr.Code)
		})
	}
}
