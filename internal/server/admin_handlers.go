package server

import (
	"garland/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Admin handlers. All routes in this file sit behind AdminRequired, so the
// caller is a verified, unblocked administrator.

func (s *Server) adminNoteAction(c *fiber.Ctx, apply func(ctx *fiber.Ctx, adminID, targetID uint) error, message string) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	adminID := middleware.UserID(c)

	if err := apply(c, adminID, targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": message,
	})
}

// AdminHideNote handles PATCH /api/admin/notes/:id/hide
func (s *Server) AdminHideNote(c *fiber.Ctx) error {
	return s.adminNoteAction(c, func(c *fiber.Ctx, adminID, id uint) error {
		return s.moderation.HideNote(c.Context(), adminID, id)
	}, "Note hidden")
}

// AdminShowNote handles PATCH /api/admin/notes/:id/show
func (s *Server) AdminShowNote(c *fiber.Ctx) error {
	return s.adminNoteAction(c, func(c *fiber.Ctx, adminID, id uint) error {
		return s.moderation.ShowNote(c.Context(), adminID, id)
	}, "Note visible")
}

// AdminDeleteNote handles DELETE /api/admin/notes/:id
func (s *Server) AdminDeleteNote(c *fiber.Ctx) error {
	return s.adminNoteAction(c, func(c *fiber.Ctx, adminID, id uint) error {
		return s.moderation.DeleteNote(c.Context(), adminID, id)
	}, "Note deleted")
}

// AdminHideComment handles PATCH /api/admin/comments/:id/hide
func (s *Server) AdminHideComment(c *fiber.Ctx) error {
	return s.adminNoteAction(c, func(c *fiber.Ctx, adminID, id uint) error {
		return s.moderation.HideComment(c.Context(), adminID, id)
	}, "Comment hidden")
}

// AdminShowComment handles PATCH /api/admin/comments/:id/show
func (s *Server) AdminShowComment(c *fiber.Ctx) error {
	return s.adminNoteAction(c, func(c *fiber.Ctx, adminID, id uint) error {
		return s.moderation.ShowComment(c.Context(), adminID, id)
	}, "Comment visible")
}

// AdminDeleteComment handles DELETE /api/admin/comments/:id
func (s *Server) AdminDeleteComment(c *fiber.Ctx) error {
	return s.adminNoteAction(c, func(c *fiber.Ctx, adminID, id uint) error {
		return s.moderation.DeleteComment(c.Context(), adminID, id)
	}, "Comment deleted")
}

// AdminBlockUser handles PATCH /api/admin/users/:id/block
func (s *Server) AdminBlockUser(c *fiber.Ctx) error {
	return s.adminNoteAction(c, func(c *fiber.Ctx, adminID, id uint) error {
		return s.moderation.BlockUser(c.Context(), adminID, id)
	}, "User blocked")
}

// AdminUnblockUser handles PATCH /api/admin/users/:id/unblock
func (s *Server) AdminUnblockUser(c *fiber.Ctx) error {
	return s.adminNoteAction(c, func(c *fiber.Ctx, adminID, id uint) error {
		return s.moderation.UnblockUser(c.Context(), adminID, id)
	}, "User unblocked")
}

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	users, err := s.moderation.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// AdminListUserNotes handles GET /api/admin/users/:id/notes
func (s *Server) AdminListUserNotes(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	notes, err := s.moderation.ListUserNotes(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notes)
}

// AdminListUserComments handles GET /api/admin/users/:id/comments
func (s *Server) AdminListUserComments(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comments, err := s.moderation.ListUserComments(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// AdminListLogs handles GET /api/admin/logs
func (s *Server) AdminListLogs(c *fiber.Ctx) error {
	logs, err := s.moderation.ListLogs(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}
