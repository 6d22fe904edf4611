package service

import (
	"context"
	"errors"
	"log/slog"

	"qaforum/internal/blob"
	"qaforum/internal/middleware"
	"qaforum/internal/models"
	"qaforum/internal/observability"
	"qaforum/internal/repository"

	"gorm.io/gorm"
)

// ScreenshotUpload carries the raw bytes and content type of an uploaded
// screenshot on its way into the blob store.
type ScreenshotUpload struct {
	Data        []byte
	ContentType string
}

// PostService implements post CRUD over the relational store plus the blob
// store saga for screenshots.
type PostService struct {
	posts     repository.PostRepository
	assembler *ReplyTreeAssembler
	blobs     blob.Store
}

// CreatePostInput carries the fields for creating a post.
type CreatePostInput struct {
	ChannelID  uint
	UserID     uint
	Title      string
	Content    string
	Screenshot *ScreenshotUpload
}

// DeletePostInput identifies the post to delete and the caller.
type DeletePostInput struct {
	PostID     uint
	CallerID   uint
	CallerRole string
}

// NewPostService creates a new PostService.
func NewPostService(posts repository.PostRepository, assembler *ReplyTreeAssembler, blobs blob.Store) *PostService {
	return &PostService{posts: posts, assembler: assembler, blobs: blobs}
}

func (s *PostService) ListByChannel(ctx context.Context, channelID uint) ([]*models.Post, error) {
	return s.posts.ListByChannel(ctx, channelID)
}

// GetPost returns the post with its author, hydrated screenshot, and the
// assembled reply forest.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post not found")
	}
	if err != nil {
		return nil, err
	}

	if post.ScreenshotID != nil {
		if doc, blobErr := s.blobs.Get(ctx, *post.ScreenshotID); blobErr != nil {
			observability.ScreenshotHydrationFailures.Inc()
			middleware.Logger.WarnContext(ctx, "failed to fetch post screenshot",
				slog.Uint64("post_id", uint64(post.ID)),
				slog.String("error", blobErr.Error()),
			)
		} else {
			post.Screenshot = &doc.Data
		}
	}

	replies, err := s.assembler.Assemble(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Replies = replies

	return post, nil
}

// CreatePost inserts the optional screenshot blob first and the relational
// row second; if the row insert fails the orphaned blob is compensated with
// a best-effort delete.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" || in.Content == "" || in.ChannelID == 0 {
		return nil, models.NewValidationError("Title, content, and channelId are required")
	}

	screenshotID, err := s.storeScreenshot(ctx, in.Screenshot)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ChannelID:    in.ChannelID,
		UserID:       in.UserID,
		Title:        in.Title,
		Content:      in.Content,
		ScreenshotID: screenshotID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.compensateBlob(ctx, screenshotID)
		return nil, err
	}

	return s.posts.GetByID(ctx, post.ID)
}

// DeletePost removes the relational row first (it is the source of truth),
// then best-effort deletes the blob; blob-store errors never block the
// relational delete.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.posts.GetByID(ctx, in.PostID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post not found")
	}
	if err != nil {
		return err
	}

	if in.CallerRole != models.RoleAdmin && post.UserID != in.CallerID {
		return models.NewForbiddenError("Not authorized to delete this post")
	}

	rows, err := s.posts.Delete(ctx, in.PostID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("Post not found")
	}

	s.discardBlob(ctx, post.ScreenshotID)
	return nil
}

// storeScreenshot uploads the screenshot, if any, and returns its blob key.
func (s *PostService) storeScreenshot(ctx context.Context, upload *ScreenshotUpload) (*string, error) {
	return storeScreenshot(ctx, s.blobs, upload)
}

func (s *PostService) compensateBlob(ctx context.Context, id *string) {
	compensateBlob(ctx, s.blobs, id)
}

func (s *PostService) discardBlob(ctx context.Context, id *string) {
	discardBlob(ctx, s.blobs, id)
}

func storeScreenshot(ctx context.Context, blobs blob.Store, upload *ScreenshotUpload) (*string, error) {
	if upload == nil {
		return nil, nil
	}
	id, err := blobs.Put(ctx, upload.Data, upload.ContentType)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// compensateBlob deletes a blob whose relational row never materialized.
func compensateBlob(ctx context.Context, blobs blob.Store, id *string) {
	if id == nil {
		return
	}
	observability.OrphanedBlobCompensations.Inc()
	if err := blobs.Delete(ctx, *id); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to compensate orphaned screenshot",
			slog.String("screenshot_id", *id),
			slog.String("error", err.Error()),
		)
	}
}

// discardBlob best-effort deletes the blob behind a removed row; failures
// are logged and swallowed.
func discardBlob(ctx context.Context, blobs blob.Store, id *string) {
	if id == nil {
		return
	}
	if err := blobs.Delete(ctx, *id); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to delete screenshot",
			slog.String("screenshot_id", *id),
			slog.String("error", err.Error()),
		)
	}
}
