package server

import (
	"strings"

	"qaforum/internal/models"
	"qaforum/internal/service"

	"github.com/gofiber/fiber/v2"
)

type channelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetChannels handles GET /api/channels/ returning every channel with its
// post count, ordered by name.
func (s *Server) GetChannels(c *fiber.Ctx) error {
	channels, err := s.channelService.ListChannels(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(channels)
}

// GetChannel handles GET /api/channels/:id.
func (s *Server) GetChannel(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	channel, err := s.channelService.GetChannel(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(channel)
}

// CreateChannel handles POST /api/channels/.
func (s *Server) CreateChannel(c *fiber.Ctx) error {
	var req channelRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.RespondWithError(c, models.NewValidationError("Channel name is required"))
	}

	channel, err := s.channelService.CreateChannel(c.UserContext(), service.CreateChannelInput{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   callerID(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(channel)
}

// UpdateChannel handles PUT /api/channels/:id.
func (s *Server) UpdateChannel(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req channelRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.RespondWithError(c, models.NewValidationError("Channel name is required"))
	}

	channel, err := s.channelService.UpdateChannel(c.UserContext(), service.UpdateChannelInput{
		ChannelID:   id,
		Name:        req.Name,
		Description: req.Description,
		CallerID:    callerID(c),
		CallerRole:  callerRole(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(channel)
}

// DeleteChannel handles DELETE /api/channels/:id. Posts and replies under
// the channel go with it via the cascading foreign keys.
func (s *Server) DeleteChannel(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.channelService.DeleteChannel(c.UserContext(), service.DeleteChannelInput{
		ChannelID:  id,
		CallerID:   callerID(c),
		CallerRole: callerRole(c),
	}); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Channel deleted successfully"})
}

// DeleteAllChannels handles DELETE /api/channels/all. Admin only.
func (s *Server) DeleteAllChannels(c *fiber.Ctx) error {
	if err := s.channelService.DeleteAllChannels(c.UserContext()); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All channels deleted successfully"})
}
