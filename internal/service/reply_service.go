package service

import (
	"context"
	"errors"

	"qaforum/internal/blob"
	"qaforum/internal/models"
	"qaforum/internal/repository"

	"gorm.io/gorm"
)

// ReplyService implements reply creation and deletion, including the blob
// store saga shared with posts.
type ReplyService struct {
	replies repository.ReplyRepository
	posts   repository.PostRepository
	blobs   blob.Store
}

// CreateReplyInput carries the fields for creating a reply.
type CreateReplyInput struct {
	PostID        uint
	UserID        uint
	ParentReplyID *uint
	Content       string
	Screenshot    *ScreenshotUpload
}

// DeleteReplyInput identifies the reply to delete and the caller.
type DeleteReplyInput struct {
	ReplyID    uint
	CallerID   uint
	CallerRole string
}

// NewReplyService creates a new ReplyService.
func NewReplyService(replies repository.ReplyRepository, posts repository.PostRepository, blobs blob.Store) *ReplyService {
	return &ReplyService{replies: replies, posts: posts, blobs: blobs}
}

// CreateReply validates the target post and, when nesting, that the parent
// reply belongs to the same post, then runs the blob-first saga.
func (s *ReplyService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Reply, error) {
	if in.PostID == 0 || in.Content == "" {
		return nil, models.NewValidationError("Post ID and content are required")
	}

	if _, err := s.posts.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post not found")
		}
		return nil, err
	}

	if in.ParentReplyID != nil {
		parent, err := s.replies.GetByID(ctx, *in.ParentReplyID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Parent reply not found")
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent reply belongs to a different post")
		}
	}

	screenshotID, err := storeScreenshot(ctx, s.blobs, in.Screenshot)
	if err != nil {
		return nil, err
	}

	reply := &models.Reply{
		PostID:        in.PostID,
		UserID:        in.UserID,
		ParentReplyID: in.ParentReplyID,
		Content:       in.Content,
		ScreenshotID:  screenshotID,
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		compensateBlob(ctx, s.blobs, screenshotID)
		return nil, err
	}

	return s.replies.GetByID(ctx, reply.ID)
}

// DeleteReply removes the relational row first, then best-effort deletes
// the blob.
func (s *ReplyService) DeleteReply(ctx context.Context, in DeleteReplyInput) error {
	reply, err := s.replies.GetByID(ctx, in.ReplyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Reply not found")
	}
	if err != nil {
		return err
	}

	if in.CallerRole != models.RoleAdmin && reply.UserID != in.CallerID {
		return models.NewForbiddenError("Not authorized to delete this reply")
	}

	rows, err := s.replies.Delete(ctx, in.ReplyID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("Reply not found")
	}

	discardBlob(ctx, s.blobs, reply.ScreenshotID)
	return nil
}
