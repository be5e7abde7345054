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

// UserDatabaseAdapter implements domain.UserRepository using sqlx.DB
type UserDatabaseAdapter struct {
	db *sqlx.DB
}

// NewUserDatabaseAdapter creates a new instance of UserDatabaseAdapter
func NewUserDatabaseAdapter(db *sqlx.DB) domain.UserRepository {
	return &UserDatabaseAdapter{db: db}
}

const userColumns = `id, google_id, email, name, profile_picture_url, role,
	encrypted_refresh_token, created_at, updated_at`

// CreateUser implements domain.UserRepository
func (a *UserDatabaseAdapter) CreateUser(ctx context.Context, user *domain.User) error {
	model := toModelUser(user)
	if model.ID == "" {
		model.ID = util.NewULID()
	}
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now
	if model.Role == "" {
		model.Role = domain.RoleUser
	}

	query := `INSERT INTO users (
		id, google_id, email, name, profile_picture_url, role,
		encrypted_refresh_token, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := a.db.ExecContext(ctx, query,
		model.ID,
		model.GoogleID,
		model.Email,
		model.Name,
		model.ProfilePictureURL,
		model.Role,
		model.EncryptedRefreshToken,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = model.ID
	user.Role = model.Role
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

// GetUserByID implements domain.UserRepository
func (a *UserDatabaseAdapter) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var model models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := a.db.GetContext(ctx, &model, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return toDomainUser(&model), nil
}

// GetUserByGoogleID implements domain.UserRepository
func (a *UserDatabaseAdapter) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	var model models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`

	err := a.db.GetContext(ctx, &model, query, googleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by google ID: %w", err)
	}
	return toDomainUser(&model), nil
}

// UpdateUser implements domain.UserRepository
func (a *UserDatabaseAdapter) UpdateUser(ctx context.Context, user *domain.User) error {
	model := toModelUser(user)
	model.UpdatedAt = time.Now()

	query := `UPDATE users SET
		email = $1,
		name = $2,
		profile_picture_url = $3,
		role = $4,
		encrypted_refresh_token = $5,
		updated_at = $6
	WHERE id = $7`

	res, err := a.db.ExecContext(ctx, query,
		model.Email,
		model.Name,
		model.ProfilePictureURL,
		model.Role,
		model.EncryptedRefreshToken,
		model.UpdatedAt,
		model.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("User not found with ID: %s", user.ID))
	}
	user.UpdatedAt = model.UpdatedAt
	return nil
}

// ListUsers implements domain.UserRepository
func (a *UserDatabaseAdapter) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	var modelUsers []*models.User
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if err := a.db.SelectContext(ctx, &modelUsers, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domain.User, 0, len(modelUsers))
	for _, m := range modelUsers {
		users = append(users, toDomainUser(m))
	}
	return users, nil
}

func toDomainUser(m *models.User) *domain.User {
	return &domain.User{
		ID:                    m.ID,
		GoogleID:              m.GoogleID,
		Email:                 m.Email,
		Name:                  m.Name.String,
		ProfilePictureURL:     m.ProfilePictureURL.String,
		Role:                  m.Role,
		EncryptedRefreshToken: m.EncryptedRefreshToken.String,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toModelUser(d *domain.User) *models.User {
	return &models.User{
		ID:                    d.ID,
		GoogleID:              d.GoogleID,
		Email:                 d.Email,
		Name:                  nullString(d.Name),
		ProfilePictureURL:     nullString(d.ProfilePictureURL),
		Role:                  d.Role,
		EncryptedRefreshToken: nullString(d.EncryptedRefreshToken),
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
