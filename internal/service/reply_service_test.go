package service

import (
	"context"
	"errors"
	"testing"

	"qaforum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReplyService_CreateReply_Validation(t *testing.T) {
	t.Parallel()

	svc := NewReplyService(noopReplyRepo(), noopPostRepo(), noopBlobStore())
	ctx := context.Background()

	t.Run("missing content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateReply(ctx, CreateReplyInput{PostID: 1, UserID: 1})
		assertValidationError(t, err)
	})

	t.Run("missing post id", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateReply(ctx, CreateReplyInput{UserID: 1, Content: "hi"})
		assertValidationError(t, err)
	})

	t.Run("post not found", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc2 := NewReplyService(noopReplyRepo(), postRepo, noopBlobStore())
		_, err := svc2.CreateReply(ctx, CreateReplyInput{PostID: 99, UserID: 1, Content: "hi"})
		assertNotFoundError(t, err)
	})
}

func TestReplyService_CreateReply_ParentChecks(t *testing.T) {
	t.Parallel()

	t.Run("parent not found", func(t *testing.T) {
		t.Parallel()
		replyRepo := noopReplyRepo()
		replyRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Reply, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewReplyService(replyRepo, noopPostRepo(), noopBlobStore())
		_, err := svc.CreateReply(context.Background(), CreateReplyInput{
			PostID: 1, UserID: 1, ParentReplyID: ptrUint(50), Content: "hi",
		})
		assertNotFoundError(t, err)
	})

	t.Run("parent on different post is rejected", func(t *testing.T) {
		t.Parallel()
		replyRepo := noopReplyRepo()
		replyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, PostID: 2}, nil
		}
		svc := NewReplyService(replyRepo, noopPostRepo(), noopBlobStore())
		_, err := svc.CreateReply(context.Background(), CreateReplyInput{
			PostID: 1, UserID: 1, ParentReplyID: ptrUint(50), Content: "hi",
		})
		assertValidationError(t, err)
	})

	t.Run("nested reply keeps the root post id", func(t *testing.T) {
		t.Parallel()
		var created *models.Reply
		replyRepo := noopReplyRepo()
		replyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			if created != nil {
				return created, nil
			}
			return &models.Reply{ID: id, PostID: 1}, nil
		}
		replyRepo.createFn = func(_ context.Context, r *models.Reply) error {
			r.ID = 60
			created = r
			return nil
		}
		svc := NewReplyService(replyRepo, noopPostRepo(), noopBlobStore())
		reply, err := svc.CreateReply(context.Background(), CreateReplyInput{
			PostID: 1, UserID: 1, ParentReplyID: ptrUint(50), Content: "nested",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(1), reply.PostID)
		require.NotNil(t, reply.ParentReplyID)
		assert.Equal(t, uint(50), *reply.ParentReplyID)
	})
}

func TestReplyService_CreateReply_CompensatesBlobOnRowFailure(t *testing.T) {
	t.Parallel()

	rowErr := errors.New("insert failed")
	replyRepo := noopReplyRepo()
	replyRepo.createFn = func(_ context.Context, _ *models.Reply) error { return rowErr }

	var deletedID string
	blobs := noopBlobStore()
	blobs.putFn = func(_ context.Context, _ []byte, _ string) (string, error) { return "orphan-2", nil }
	blobs.deleteFn = func(_ context.Context, id string) error {
		deletedID = id
		return nil
	}

	svc := NewReplyService(replyRepo, noopPostRepo(), blobs)
	_, err := svc.CreateReply(context.Background(), CreateReplyInput{
		PostID:     1,
		UserID:     1,
		Content:    "hi",
		Screenshot: &ScreenshotUpload{Data: []byte("img"), ContentType: "image/png"},
	})
	require.ErrorIs(t, err, rowErr)
	assert.Equal(t, "orphan-2", deletedID)
}

func TestReplyService_DeleteReply_Authorization(t *testing.T) {
	t.Parallel()

	ownedBy10 := func(_ context.Context, id uint) (*models.Reply, error) {
		return &models.Reply{ID: id, UserID: 10}, nil
	}

	t.Run("non-owner forbidden", func(t *testing.T) {
		t.Parallel()
		replyRepo := noopReplyRepo()
		replyRepo.getByIDFn = ownedBy10
		svc := NewReplyService(replyRepo, noopPostRepo(), noopBlobStore())
		err := svc.DeleteReply(context.Background(), DeleteReplyInput{
			ReplyID: 1, CallerID: 2, CallerRole: models.RoleUser,
		})
		assertForbiddenError(t, err)
	})

	t.Run("admin may delete", func(t *testing.T) {
		t.Parallel()
		replyRepo := noopReplyRepo()
		replyRepo.getByIDFn = ownedBy10
		svc := NewReplyService(replyRepo, noopPostRepo(), noopBlobStore())
		err := svc.DeleteReply(context.Background(), DeleteReplyInput{
			ReplyID: 1, CallerID: 99, CallerRole: models.RoleAdmin,
		})
		require.NoError(t, err)
	})

	t.Run("missing reply", func(t *testing.T) {
		t.Parallel()
		replyRepo := noopReplyRepo()
		replyRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Reply, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewReplyService(replyRepo, noopPostRepo(), noopBlobStore())
		err := svc.DeleteReply(context.Background(), DeleteReplyInput{
			ReplyID: 1, CallerID: 1, CallerRole: models.RoleUser,
		})
		assertNotFoundError(t, err)
	})
}
