package service

import (
	"context"
	"errors"

	"qaforum/internal/models"
	"qaforum/internal/repository"

	"gorm.io/gorm"
)

// ChannelService implements the channel directory operations.
type ChannelService struct {
	channels repository.ChannelRepository
}

// CreateChannelInput carries the fields for creating a channel.
type CreateChannelInput struct {
	Name        string
	Description string
	CreatedBy   uint
}

// UpdateChannelInput carries the fields for updating a channel plus the
// caller identity used for the ownership check.
type UpdateChannelInput struct {
	ChannelID   uint
	Name        string
	Description string
	CallerID    uint
	CallerRole  string
}

// DeleteChannelInput identifies the channel to delete and the caller.
type DeleteChannelInput struct {
	ChannelID  uint
	CallerID   uint
	CallerRole string
}

// NewChannelService creates a new ChannelService.
func NewChannelService(channels repository.ChannelRepository) *ChannelService {
	return &ChannelService{channels: channels}
}

func (s *ChannelService) ListChannels(ctx context.Context) ([]*models.Channel, error) {
	return s.channels.List(ctx)
}

func (s *ChannelService) GetChannel(ctx context.Context, id uint) (*models.Channel, error) {
	channel, err := s.channels.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Channel not found")
	}
	if err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *ChannelService) CreateChannel(ctx context.Context, in CreateChannelInput) (*models.Channel, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Channel name is required")
	}

	channel := &models.Channel{
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.channels.Create(ctx, channel); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Channel name already exists")
		}
		return nil, err
	}

	// A fresh channel has no posts yet; skip the aggregate round-trip.
	channel.PostCount = 0
	return channel, nil
}

func (s *ChannelService) UpdateChannel(ctx context.Context, in UpdateChannelInput) (*models.Channel, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Channel name is required")
	}

	channel, err := s.GetChannel(ctx, in.ChannelID)
	if err != nil {
		return nil, err
	}

	if in.CallerRole != models.RoleAdmin && channel.CreatedBy != in.CallerID {
		return nil, models.NewForbiddenError("Not authorized to update this channel")
	}

	if err := s.channels.Update(ctx, in.ChannelID, in.Name, in.Description); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Channel name already exists")
		}
		return nil, err
	}

	return s.GetChannel(ctx, in.ChannelID)
}

func (s *ChannelService) DeleteChannel(ctx context.Context, in DeleteChannelInput) error {
	channel, err := s.GetChannel(ctx, in.ChannelID)
	if err != nil {
		return err
	}

	if in.CallerRole != models.RoleAdmin && channel.CreatedBy != in.CallerID {
		return models.NewForbiddenError("Not authorized to delete this channel")
	}

	rows, err := s.channels.Delete(ctx, in.ChannelID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("Channel not found")
	}
	return nil
}

// DeleteAllChannels removes every channel; posts and replies cascade at the
// database level. Admin-only, enforced by the route.
func (s *ChannelService) DeleteAllChannels(ctx context.Context) error {
	return s.channels.DeleteAll(ctx)
}
