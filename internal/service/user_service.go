package service

import (
	"context"
	"errors"

	"qaforum/internal/models"
	"qaforum/internal/repository"

	"gorm.io/gorm"
)

// UserService implements the user directory operations.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes a non-admin user. Admin rows can never be targeted;
// the repository-level guard reports that indistinguishably from a missing
// id, matching the API contract.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	rows, err := s.users.DeleteNonAdmin(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("User not found or cannot delete admin")
	}
	return nil
}
