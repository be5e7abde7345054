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

// CatalogDatabaseAdapter implements domain.CatalogRepository using sqlx.DB
type CatalogDatabaseAdapter struct {
	db *sqlx.DB
}

// NewCatalogDatabaseAdapter creates a new instance of CatalogDatabaseAdapter
func NewCatalogDatabaseAdapter(db *sqlx.DB) domain.CatalogRepository {
	return &CatalogDatabaseAdapter{db: db}
}

// CreateExam implements domain.CatalogRepository
func (a *CatalogDatabaseAdapter) CreateExam(ctx context.Context, exam *domain.Exam) error {
	if err := exam.Validate(); err != nil {
		return err
	}
	if exam.ID == "" {
		exam.ID = util.NewULID()
	}
	now := time.Now()
	exam.CreatedAt = now
	exam.UpdatedAt = now

	query := `INSERT INTO exams (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := a.db.ExecContext(ctx, query,
		exam.ID, exam.Name, nullString(exam.Description), exam.CreatedAt, exam.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	return nil
}

// GetExamByID implements domain.CatalogRepository
func (a *CatalogDatabaseAdapter) GetExamByID(ctx context.Context, id string) (*domain.Exam, error) {
	var model models.Exam
	query := `SELECT id, name, description, created_at, updated_at FROM exams WHERE id = $1`

	err := a.db.GetContext(ctx, &model, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam by ID %s: %w", id, err)
	}
	return toDomainExam(&model), nil
}

// GetExamByName implements domain.CatalogRepository. The lookup is
// case-insensitive.
func (a *CatalogDatabaseAdapter) GetExamByName(ctx context.Context, name string) (*domain.Exam, error) {
	var model models.Exam
	query := `SELECT id, name, description, created_at, updated_at FROM exams WHERE LOWER(name) = LOWER($1)`

	err := a.db.GetContext(ctx, &model, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam by name %s: %w", name, err)
	}
	return toDomainExam(&model), nil
}

// ListExams implements domain.CatalogRepository
func (a *CatalogDatabaseAdapter) ListExams(ctx context.Context) ([]*domain.Exam, error) {
	var modelExams []*models.Exam
	query := `SELECT id, name, description, created_at, updated_at FROM exams ORDER BY name ASC`

	if err := a.db.SelectContext(ctx, &modelExams, query); err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	exams := make([]*domain.Exam, 0, len(modelExams))
	for _, m := range modelExams {
		exams = append(exams, toDomainExam(m))
	}
	return exams, nil
}

// UpdateExam implements domain.CatalogRepository
func (a *CatalogDatabaseAdapter) UpdateExam(ctx context.Context, exam *domain.Exam) error {
	if err := exam.Validate(); err != nil {
		return err
	}
	exam.UpdatedAt = time.Now()

	query := `UPDATE exams SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	res, err := a.db.ExecContext(ctx, query,
		exam.Name, nullString(exam.Description), exam.UpdatedAt, exam.ID)
	if err != nil {
		return fmt.Errorf("failed to update exam: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewExamNotFoundError(exam.ID)
	}
	return nil
}

// DeleteExam implements domain.CatalogRepository. Topics cascade through
// the schema's foreign key.
func (a *CatalogDatabaseAdapter) DeleteExam(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exam %s: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewExamNotFoundError(id)
	}
	return nil
}

// CreateTopic implements domain.CatalogRepository
func (a *CatalogDatabaseAdapter) CreateTopic(ctx context.Context, topic *domain.Topic) error {
	if err := topic.Validate(); err != nil {
		return err
	}
	if topic.ID == "" {
		topic.ID = util.NewULID()
	}
	now := time.Now()
	topic.CreatedAt = now
	topic.UpdatedAt = now

	query := `INSERT INTO topics (id, exam_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := a.db.ExecContext(ctx, query,
		topic.ID, topic.ExamID, topic.Name, topic.CreatedAt, topic.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

// GetTopicsByExamID implements domain.CatalogRepository
func (a *CatalogDatabaseAdapter) GetTopicsByExamID(ctx context.Context, examID string) ([]*domain.Topic, error) {
	var modelTopics []*models.Topic
	query := `SELECT id, exam_id, name, created_at, updated_at FROM topics
		WHERE exam_id = $1 ORDER BY name ASC`

	if err := a.db.SelectContext(ctx, &modelTopics, query, examID); err != nil {
		return nil, fmt.Errorf("failed to get topics for exam %s: %w", examID, err)
	}

	topics := make([]*domain.Topic, 0, len(modelTopics))
	for _, m := range modelTopics {
		topics = append(topics, &domain.Topic{
			ID:        m.ID,
			ExamID:    m.ExamID,
			Name:      m.Name,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return topics, nil
}

// DeleteTopic implements domain.CatalogRepository
func (a *CatalogDatabaseAdapter) DeleteTopic(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic %s: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("Topic not found with ID: %s", id))
	}
	return nil
}

func toDomainExam(m *models.Exam) *domain.Exam {
	return &domain.Exam{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
