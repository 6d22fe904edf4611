package server

import (
	"io"
	"strconv"

	"qaforum/internal/models"
	"qaforum/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxScreenshotBytes = 5 * 1024 * 1024

// parseID parses a numeric route parameter, returning a validation error
// suitable for RespondWithError when the value is not a positive integer.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// callerID returns the authenticated user's ID from Fiber locals. It must
// only be called behind AuthRequired.
func callerID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// callerRole returns the authenticated user's role from Fiber locals.
func callerRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	if role == "" {
		return models.RoleUser
	}
	return role
}

// readScreenshot extracts an optional screenshot file from a multipart form.
// Returns nil when the form carries no screenshot part.
func readScreenshot(c *fiber.Ctx) (*service.ScreenshotUpload, error) {
	fileHeader, err := c.FormFile("screenshot")
	if err != nil {
		// No file attached; a missing part is not an error for optional uploads.
		return nil, nil
	}

	if fileHeader.Size > maxScreenshotBytes {
		return nil, models.NewValidationError("Screenshot exceeds the 5MB limit")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &service.ScreenshotUpload{Data: data, ContentType: contentType}, nil
}
