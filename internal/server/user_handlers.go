package server

import (
	"garland/internal/middleware"
	"garland/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id. Users may delete their own
// account; admins may delete anyone's.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	callerID := middleware.UserID(c)
	if callerID != targetID {
		isAdmin, err := s.isAdminByUserID(c.Context(), callerID)
		if err != nil || !isAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Cannot delete another user's account"))
		}
	}

	if err := s.userRepo.Delete(c.Context(), targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted",
	})
}
