package repository

import (
	"context"

	"qaforum/internal/models"

	"gorm.io/gorm"
)

// replyTreeQuery collects the full descendant set of one reply in a single
// transitive-closure pass. Direct children carry level 0, grandchildren
// level 1, and so on; rows come back ordered breadth-by-depth then
// chronologically, which guarantees every parent is emitted before any of
// its children.
const replyTreeQuery = `
WITH RECURSIVE reply_tree AS (
    SELECT r.*, u.display_name AS author, 0 AS level
    FROM replies r
    LEFT JOIN users u ON u.id = r.user_id
    WHERE r.parent_reply_id = ?

    UNION ALL

    SELECT r.*, u.display_name AS author, rt.level + 1 AS level
    FROM replies r
    JOIN reply_tree rt ON r.parent_reply_id = rt.id
    LEFT JOIN users u ON u.id = r.user_id
)
SELECT * FROM reply_tree
ORDER BY level ASC, created_at ASC`

// ReplyRepository defines the interface for reply data operations.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	ListRoots(ctx context.Context, postID uint) ([]*models.Reply, error)
	ListDescendants(ctx context.Context, replyID uint) ([]*models.Reply, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new reply repository.
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	err := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Select("replies.*, users.display_name AS author").
		Joins("LEFT JOIN users ON users.id = replies.user_id").
		Where("replies.id = ?", id).
		First(&reply).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// ListRoots returns the forest roots for a post: its direct replies in
// chronological order.
func (r *replyRepository) ListRoots(ctx context.Context, postID uint) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Select("replies.*, users.display_name AS author").
		Joins("LEFT JOIN users ON users.id = replies.user_id").
		Where("replies.post_id = ? AND replies.parent_reply_id IS NULL", postID).
		Order("replies.created_at ASC").
		Find(&replies).Error
	return replies, err
}

// ListDescendants returns every reply below replyID as a flat list ordered
// by (level, created_at).
func (r *replyRepository) ListDescendants(ctx context.Context, replyID uint) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.db.WithContext(ctx).Raw(replyTreeQuery, replyID).Scan(&replies).Error
	return replies, err
}

// Delete removes the reply row; nested replies go with it via the
// self-referencing ON DELETE CASCADE foreign key.
func (r *replyRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Reply{}, id)
	return res.RowsAffected, res.Error
}
