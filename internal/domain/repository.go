package domain

import (
	"context"
	"time"
)

// SessionRepository persists exam sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *ExamSession) error
	GetSessionByID(ctx context.Context, id string) (*ExamSession, error)
	GetSessionsByUserID(ctx context.Context, userID string, limit, offset int) ([]*ExamSession, error)
	ListSessions(ctx context.Context, limit, offset int) ([]*ExamSession, error)
	MarkSubmitted(ctx context.Context, id string, result *SessionResult, submittedAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAbandonedSessions(ctx context.Context, olderThan time.Time) (int64, error)
}

// QuestionRepository persists generated questions.
type QuestionRepository interface {
	CreateQuestions(ctx context.Context, questions []*Question) error
	GetQuestionsBySessionID(ctx context.Context, sessionID string) ([]*Question, error)
	SaveSelectedOptions(ctx context.Context, sessionID string, answers map[string]string) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context, limit, offset int) ([]*User, error)
}

// CatalogRepository persists exams and their topics.
type CatalogRepository interface {
	CreateExam(ctx context.Context, exam *Exam) error
	GetExamByID(ctx context.Context, id string) (*Exam, error)
	GetExamByName(ctx context.Context, name string) (*Exam, error)
	ListExams(ctx context.Context) ([]*Exam, error)
	UpdateExam(ctx context.Context, exam *Exam) error
	DeleteExam(ctx context.Context, id string) error
	CreateTopic(ctx context.Context, topic *Topic) error
	GetTopicsByExamID(ctx context.Context, examID string) ([]*Topic, error)
	DeleteTopic(ctx context.Context, id string) error
}
