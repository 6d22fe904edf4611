package service

import (
	"context"
	"testing"

	"qaforum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	listFn           func(context.Context) ([]*models.User, error)
	deleteNonAdminFn func(context.Context, uint) (int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) List(ctx context.Context) ([]*models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) DeleteNonAdmin(ctx context.Context, id uint) (int64, error) {
	return s.deleteNonAdminFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:         func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:        func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn:  func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn:           func(_ context.Context) ([]*models.User, error) { return nil, nil },
		deleteNonAdminFn: func(_ context.Context, _ uint) (int64, error) { return 1, nil },
	}
}

func TestUserService_GetProfile(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice", DisplayName: "Alice"}, nil
		}
		svc := NewUserService(repo)
		user, err := svc.GetProfile(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewUserService(repo)
		_, err := svc.GetProfile(context.Background(), 5)
		assertNotFoundError(t, err)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("deletes a regular user", func(t *testing.T) {
		t.Parallel()
		var gotID uint
		repo := noopUserRepo()
		repo.deleteNonAdminFn = func(_ context.Context, id uint) (int64, error) {
			gotID = id
			return 1, nil
		}
		svc := NewUserService(repo)
		require.NoError(t, svc.DeleteUser(context.Background(), 8))
		assert.Equal(t, uint(8), gotID)
	})

	t.Run("admin target reports not found", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.deleteNonAdminFn = func(_ context.Context, _ uint) (int64, error) { return 0, nil }
		svc := NewUserService(repo)
		err := svc.DeleteUser(context.Background(), 1)
		assertNotFoundError(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "User not found or cannot delete admin", appErr.Message)
	})
}
