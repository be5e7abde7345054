package dto

// ExamResponse is an exam with its topic names, as listed in the catalog.
type ExamResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Topics      []string `json:"topics,omitempty"`
}

// CreateExamRequest is the back-office request for creating an exam.
type CreateExamRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
}

// UpdateExamRequest is the back-office request for updating an exam.
type UpdateExamRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateTopicRequest is the back-office request for adding a topic to an
// exam.
type CreateTopicRequest struct {
	Name string `json:"name" validate:"required"`
}

// TopicResponse is a single syllabus topic.
type TopicResponse struct {
	ID     string `json:"id"`
	ExamID string `json:"exam_id"`
	Name   string `json:"name"`
}
