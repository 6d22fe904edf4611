package server

import (
	"strconv"
	"strings"

	"qaforum/internal/models"
	"qaforum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReply handles POST /api/replies/. The request is a multipart form
// with postId and content fields, an optional parentReplyId for nesting, and
// an optional screenshot file.
func (s *Server) CreateReply(c *fiber.Ctx) error {
	postIDRaw := c.FormValue("postId")
	content := strings.TrimSpace(c.FormValue("content"))

	if postIDRaw == "" || content == "" {
		return models.RespondWithError(c,
			models.NewValidationError("Post ID and content are required"))
	}

	postID, err := strconv.ParseUint(postIDRaw, 10, 32)
	if err != nil || postID == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("Post ID and content are required"))
	}

	var parentReplyID *uint
	if raw := c.FormValue("parentReplyId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			return models.RespondWithError(c,
				models.NewValidationError("Invalid parentReplyId"))
		}
		id := uint(parsed)
		parentReplyID = &id
	}

	screenshot, err := readScreenshot(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	reply, err := s.replyService.CreateReply(c.UserContext(), service.CreateReplyInput{
		PostID:        uint(postID),
		UserID:        callerID(c),
		ParentReplyID: parentReplyID,
		Content:       content,
		Screenshot:    screenshot,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// DeleteReply handles DELETE /api/replies/:id. Owners and admins only.
// Nested descendants are removed by the cascading parent foreign key.
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.replyService.DeleteReply(c.UserContext(), service.DeleteReplyInput{
		ReplyID:    id,
		CallerID:   callerID(c),
		CallerRole: callerRole(c),
	}); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reply deleted successfully"})
}
