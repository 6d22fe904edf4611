package server

import (
	"strconv"
	"strings"

	"qaforum/internal/models"
	"qaforum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetChannelPosts handles GET /api/posts/channel/:channelId, listing a
// channel's posts newest first with author names and reply counts.
func (s *Server) GetChannelPosts(c *fiber.Ctx) error {
	channelID, err := parseID(c, "channelId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	posts, err := s.postService.ListByChannel(c.UserContext(), channelID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id, returning the post with its screenshot
// hydrated and the full nested reply tree attached.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts/. The request is a multipart form with
// title, content, channelId fields and an optional screenshot file.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.FormValue("title"))
	content := strings.TrimSpace(c.FormValue("content"))
	channelIDRaw := c.FormValue("channelId")

	if title == "" || content == "" || channelIDRaw == "" {
		return models.RespondWithError(c,
			models.NewValidationError("Title, content, and channelId are required"))
	}

	channelID, err := strconv.ParseUint(channelIDRaw, 10, 32)
	if err != nil || channelID == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("Title, content, and channelId are required"))
	}

	screenshot, err := readScreenshot(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		ChannelID:  uint(channelID),
		UserID:     callerID(c),
		Title:      title,
		Content:    content,
		Screenshot: screenshot,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. Owners and admins only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		PostID:     id,
		CallerID:   callerID(c),
		CallerRole: callerRole(c),
	}); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}
