package dto

import "time"

// CreateSessionRequest is the request body for starting a mock test.
type CreateSessionRequest struct {
	ExamType        string   `json:"exam_type" validate:"required"`
	Topics          []string `json:"topics" validate:"required"`
	NumQuestions    int      `json:"num_questions"`
	Difficulty      string   `json:"difficulty"`
	SessionType     string   `json:"session_type"`
	Medium          string   `json:"medium"`
	DurationMinutes int      `json:"duration_minutes"`
}

// QuestionResponse is a single question as shown while a session is in
// progress. CorrectOption and Explanation are only populated after the
// session has been submitted.
type QuestionResponse struct {
	ID             string `json:"id"`
	QuestionIndex  int    `json:"question_index"`
	Topic          string `json:"topic"`
	Difficulty     string `json:"difficulty"`
	QuestionText   string `json:"question_text"`
	OptionA        string `json:"option_a"`
	OptionB        string `json:"option_b"`
	OptionC        string `json:"option_c"`
	OptionD        string `json:"option_d"`
	CorrectOption  string `json:"correct_option,omitempty"`
	Explanation    string `json:"explanation,omitempty"`
	SelectedOption string `json:"selected_option,omitempty"`
}

// SessionResponse is a session with its questions.
type SessionResponse struct {
	ID              string              `json:"id"`
	ExamType        string              `json:"exam_type"`
	SessionType     string              `json:"session_type"`
	Difficulty      string              `json:"difficulty"`
	Medium          string              `json:"medium"`
	Topics          []string            `json:"topics"`
	NumQuestions    int                 `json:"num_questions"`
	DurationMinutes int                 `json:"duration_minutes"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	SubmittedAt     *time.Time          `json:"submitted_at,omitempty"`
	Questions       []*QuestionResponse `json:"questions,omitempty"`
	Result          *SessionResultDTO   `json:"result,omitempty"`
}

// SessionSummary is a session without its questions, used in listings.
type SessionSummary struct {
	ID           string            `json:"id"`
	ExamType     string            `json:"exam_type"`
	SessionType  string            `json:"session_type"`
	Difficulty   string            `json:"difficulty"`
	Topics       []string          `json:"topics"`
	NumQuestions int               `json:"num_questions"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	SubmittedAt  *time.Time        `json:"submitted_at,omitempty"`
	Result       *SessionResultDTO `json:"result,omitempty"`
}

// SubmitAnswersRequest carries the user's selected options keyed by
// question ID.
type SubmitAnswersRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

// SessionResultDTO is the scored outcome of a submitted session.
type SessionResultDTO struct {
	SessionID   string  `json:"session_id"`
	Total       int     `json:"total"`
	Correct     int     `json:"correct"`
	Incorrect   int     `json:"incorrect"`
	Unattempted int     `json:"unattempted"`
	Percentage  float64 `json:"percentage"`
}

// SessionResultResponse is the result together with the reviewed
// questions (correct options and explanations included).
type SessionResultResponse struct {
	Result    *SessionResultDTO   `json:"result"`
	Questions []*QuestionResponse `json:"questions"`
}
