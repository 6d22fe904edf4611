package repository

import (
	"context"

	"qaforum/internal/models"

	"gorm.io/gorm"
)

// ChannelRepository defines the interface for channel data operations.
type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, id uint) (*models.Channel, error)
	List(ctx context.Context) ([]*models.Channel, error)
	Update(ctx context.Context, id uint, name, description string) error
	Delete(ctx context.Context, id uint) (int64, error)
	DeleteAll(ctx context.Context) error
}

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new channel repository.
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

// applyPostCount adds the left join + group computing post_count for each channel.
func (r *channelRepository) applyPostCount(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Channel{}).
		Select("channels.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN posts ON posts.channel_id = channels.id").
		Group("channels.id")
}

func (r *channelRepository) Create(ctx context.Context, channel *models.Channel) error {
	return r.db.WithContext(ctx).Create(channel).Error
}

func (r *channelRepository) GetByID(ctx context.Context, id uint) (*models.Channel, error) {
	var channel models.Channel
	err := r.applyPostCount(r.db.WithContext(ctx)).
		Where("channels.id = ?", id).
		First(&channel).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) List(ctx context.Context) ([]*models.Channel, error) {
	var channels []*models.Channel
	err := r.applyPostCount(r.db.WithContext(ctx)).
		Order("channels.name").
		Find(&channels).Error
	return channels, err
}

func (r *channelRepository) Update(ctx context.Context, id uint, name, description string) error {
	return r.db.WithContext(ctx).
		Model(&models.Channel{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "description": description}).Error
}

// Delete removes the channel; posts and replies go with it via the ON
// DELETE CASCADE foreign keys.
func (r *channelRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Channel{}, id)
	return res.RowsAffected, res.Error
}

func (r *channelRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("DELETE FROM channels").Error
}
