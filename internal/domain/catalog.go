package domain

import "time"

// Exam is an exam category managed through the back office (e.g. "SSC CGL").
type Exam struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Topics      []*Topic
}

// Validate validates the exam
func (e *Exam) Validate() error {
	if e.Name == "" {
		return NewInvalidInputError("exam name is required")
	}
	return nil
}

// Topic is a syllabus topic under an exam.
type Topic struct {
	ID        string
	ExamID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the topic
func (t *Topic) Validate() error {
	if t.ExamID == "" {
		return NewInvalidInputError("exam ID is required")
	}
	if t.Name == "" {
		return NewInvalidInputError("topic name is required")
	}
	return nil
}
