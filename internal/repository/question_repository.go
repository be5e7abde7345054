package repository

import (
	"context"
	"fmt"
	"time"

	"examcraft/internal/domain"
	"examcraft/internal/repository/models"
	"examcraft/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// CreateQuestions implements domain.QuestionRepository. All rows insert in
// one transaction so a session never persists with half its questions.
func (a *QuestionDatabaseAdapter) CreateQuestions(ctx context.Context, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO questions (
		id, session_id, question_index, topic, difficulty, question_text,
		option_a, option_b, option_c, option_d, correct_option, explanation, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	for _, q := range questions {
		if q.ID == "" {
			q.ID = util.NewULID()
		}
		q.CreatedAt = now
		if _, err := tx.ExecContext(ctx, query,
			q.ID,
			q.SessionID,
			q.QuestionIndex,
			q.Topic,
			q.Difficulty,
			q.QuestionText,
			q.OptionA,
			q.OptionB,
			q.OptionC,
			q.OptionD,
			q.CorrectOption,
			q.Explanation,
			q.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert question %d: %w", q.QuestionIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit questions: %w", err)
	}
	return nil
}

// GetQuestionsBySessionID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetQuestionsBySessionID(ctx context.Context, sessionID string) ([]*domain.Question, error) {
	var modelQuestions []*models.Question
	query := `SELECT id, session_id, question_index, topic, difficulty, question_text,
		option_a, option_b, option_c, option_d, correct_option, explanation,
		selected_option, created_at
	FROM questions
	WHERE session_id = $1
	ORDER BY question_index ASC`

	if err := a.db.SelectContext(ctx, &modelQuestions, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get questions for session %s: %w", sessionID, err)
	}

	questions := make([]*domain.Question, 0, len(modelQuestions))
	for _, m := range modelQuestions {
		questions = append(questions, toDomainQuestion(m))
	}
	return questions, nil
}

// SaveSelectedOptions implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) SaveSelectedOptions(ctx context.Context, sessionID string, answers map[string]string) error {
	if len(answers) == 0 {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE questions SET selected_option = $1 WHERE id = $2 AND session_id = $3`
	for questionID, selected := range answers {
		if _, err := tx.ExecContext(ctx, query, selected, questionID, sessionID); err != nil {
			return fmt.Errorf("failed to save answer for question %s: %w", questionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit answers: %w", err)
	}
	return nil
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:             m.ID,
		SessionID:      m.SessionID,
		QuestionIndex:  m.QuestionIndex,
		Topic:          m.Topic,
		Difficulty:     m.Difficulty,
		QuestionText:   m.QuestionText,
		OptionA:        m.OptionA,
		OptionB:        m.OptionB,
		OptionC:        m.OptionC,
		OptionD:        m.OptionD,
		CorrectOption:  m.CorrectOption,
		Explanation:    m.Explanation,
		SelectedOption: m.SelectedOption.String,
		CreatedAt:      m.CreatedAt,
	}
}
