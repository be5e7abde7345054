package service

import (
	"context"
	"fmt"

	"examcraft/internal/domain"
	"examcraft/internal/dto"
)

// UserService exposes user profile operations.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	ListUsers(ctx context.Context, p dto.Pagination) ([]*dto.UserProfileResponse, error)
}

type userServiceImpl struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo domain.UserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("User not found with ID: %s", userID))
	}
	return toUserProfile(user), nil
}

// ListUsers is a back-office listing, newest accounts first.
func (s *userServiceImpl) ListUsers(ctx context.Context, p dto.Pagination) ([]*dto.UserProfileResponse, error) {
	p.Normalize()
	users, err := s.userRepo.ListUsers(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, domain.NewInternalError("failed to list users", err)
	}
	out := make([]*dto.UserProfileResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserProfile(u))
	}
	return out, nil
}

func toUserProfile(u *domain.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		ProfilePictureURL: u.ProfilePictureURL,
		Role:              u.Role,
	}
}
