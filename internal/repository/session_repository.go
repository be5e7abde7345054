package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"examcraft/internal/domain"
	"examcraft/internal/repository/models"
	"examcraft/internal/util"

	"github.com/jmoiron/sqlx"
)

// SessionDatabaseAdapter implements domain.SessionRepository using sqlx.DB
type SessionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewSessionDatabaseAdapter creates a new instance of SessionDatabaseAdapter
func NewSessionDatabaseAdapter(db *sqlx.DB) domain.SessionRepository {
	return &SessionDatabaseAdapter{db: db}
}

const sessionColumns = `id, user_id, exam_type, session_type, difficulty, medium, topics,
	num_questions, duration_minutes, status, correct_count, incorrect_count,
	unattempted_count, percentage, created_at, updated_at, submitted_at`

// CreateSession implements domain.SessionRepository
func (a *SessionDatabaseAdapter) CreateSession(ctx context.Context, session *domain.ExamSession) error {
	model := toModelSession(session)
	if model.ID == "" {
		model.ID = util.NewULID()
	}
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now

	query := `INSERT INTO sessions (
		id, user_id, exam_type, session_type, difficulty, medium, topics,
		num_questions, duration_minutes, status, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := a.db.ExecContext(ctx, query,
		model.ID,
		model.UserID,
		model.ExamType,
		model.SessionType,
		model.Difficulty,
		model.Medium,
		model.Topics,
		model.NumQuestions,
		model.DurationMinutes,
		model.Status,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	session.ID = model.ID
	session.CreatedAt = model.CreatedAt
	session.UpdatedAt = model.UpdatedAt
	return nil
}

// GetSessionByID implements domain.SessionRepository
func (a *SessionDatabaseAdapter) GetSessionByID(ctx context.Context, id string) (*domain.ExamSession, error) {
	var model models.ExamSession
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	err := a.db.GetContext(ctx, &model, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by ID %s: %w", id, err)
	}
	return toDomainSession(&model), nil
}

// GetSessionsByUserID implements domain.SessionRepository
func (a *SessionDatabaseAdapter) GetSessionsByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.ExamSession, error) {
	var modelSessions []*models.ExamSession
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	if err := a.db.SelectContext(ctx, &modelSessions, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get sessions for user %s: %w", userID, err)
	}
	return toDomainSessions(modelSessions), nil
}

// ListSessions implements domain.SessionRepository
func (a *SessionDatabaseAdapter) ListSessions(ctx context.Context, limit, offset int) ([]*domain.ExamSession, error) {
	var modelSessions []*models.ExamSession
	query := `SELECT ` + sessionColumns + ` FROM sessions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	if err := a.db.SelectContext(ctx, &modelSessions, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return toDomainSessions(modelSessions), nil
}

// MarkSubmitted implements domain.SessionRepository
func (a *SessionDatabaseAdapter) MarkSubmitted(ctx context.Context, id string, result *domain.SessionResult, submittedAt time.Time) error {
	query := `UPDATE sessions SET
		status = $1,
		correct_count = $2,
		incorrect_count = $3,
		unattempted_count = $4,
		percentage = $5,
		submitted_at = $6,
		updated_at = $7
	WHERE id = $8 AND status = $9`

	res, err := a.db.ExecContext(ctx, query,
		domain.SessionStatusSubmitted,
		result.Correct,
		result.Incorrect,
		result.Unattempted,
		result.Percentage,
		submittedAt,
		time.Now(),
		id,
		domain.SessionStatusActive,
	)
	if err != nil {
		return fmt.Errorf("failed to mark session submitted: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewSessionSubmittedError(id)
	}
	return nil
}

// DeleteSession implements domain.SessionRepository
func (a *SessionDatabaseAdapter) DeleteSession(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewSessionNotFoundError(id)
	}
	return nil
}

// DeleteAbandonedSessions implements domain.SessionRepository. It removes
// sessions that were never submitted and are older than the cutoff.
func (a *SessionDatabaseAdapter) DeleteAbandonedSessions(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE status = $1 AND created_at < $2`
	res, err := a.db.ExecContext(ctx, query, domain.SessionStatusActive, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete abandoned sessions: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// Helper functions for model conversion
func toDomainSession(m *models.ExamSession) *domain.ExamSession {
	s := &domain.ExamSession{
		ID:              m.ID,
		UserID:          m.UserID,
		ExamType:        m.ExamType,
		SessionType:     m.SessionType,
		Difficulty:      m.Difficulty,
		Medium:          m.Medium,
		Topics:          []string(m.Topics),
		NumQuestions:    m.NumQuestions,
		DurationMinutes: m.DurationMinutes,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.SubmittedAt.Valid {
		t := m.SubmittedAt.Time
		s.SubmittedAt = &t
	}
	if m.Status == domain.SessionStatusSubmitted {
		s.Result = &domain.SessionResult{
			SessionID:   m.ID,
			Total:       m.NumQuestions,
			Correct:     int(m.Correct.Int64),
			Incorrect:   int(m.Incorrect.Int64),
			Unattempted: int(m.Unattempted.Int64),
			Percentage:  m.Percentage.Float64,
		}
	}
	return s
}

func toDomainSessions(ms []*models.ExamSession) []*domain.ExamSession {
	sessions := make([]*domain.ExamSession, 0, len(ms))
	for _, m := range ms {
		sessions = append(sessions, toDomainSession(m))
	}
	return sessions
}

func toModelSession(d *domain.ExamSession) *models.ExamSession {
	return &models.ExamSession{
		ID:              d.ID,
		UserID:          d.UserID,
		ExamType:        d.ExamType,
		SessionType:     d.SessionType,
		Difficulty:      d.Difficulty,
		Medium:          d.Medium,
		Topics:          models.StringSlice(d.Topics),
		NumQuestions:    d.NumQuestions,
		DurationMinutes: d.DurationMinutes,
		Status:          d.Status,
	}
}
