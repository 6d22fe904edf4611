package server

import (
	"qaforum/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/profile, returning the caller's own
// record without the password hash.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), callerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetUsers handles GET /api/users/. Admin only.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(users)
}

// DeleteUser handles DELETE /api/users/:id. Admin only; admin accounts
// cannot be deleted through this endpoint.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.userService.DeleteUser(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
