package server

import (
	"garland/internal/models"
	"garland/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateNote handles POST /api/trees/:id/notes. Admission is transactional:
// the tree never exceeds its note capacity, even under concurrent writers.
func (s *Server) CreateNote(c *fiber.Ctx) error {
	treeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Message string  `json:"message"`
		PosX    int    `json:"pos_x"`
		PosY    int    `json:"pos_y"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateNoteMessage(req.Message); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	note := &models.Note{
		TreeID:  treeID,
		UserID:  userID,
		Message: req.Message,
		PosX:    req.PosX,
		PosY:    req.PosY,
	}
	if err := s.noteRepo.Create(c.Context(), note); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"note_id": note.ID,
	})
}

// GetTreeNotes handles GET /api/trees/:id/notes. Hidden notes are filtered
// out unless the caller is an admin.
func (s *Server) GetTreeNotes(c *fiber.Ctx) error {
	treeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	notes, err := s.noteRepo.ListByTree(c.Context(), treeID, s.callerSeesHidden(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notes)
}

// UpdateNote handles PUT /api/trees/:id/notes/:noteId
func (s *Server) UpdateNote(c *fiber.Ctx) error {
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	noteID, err := s.parseID(c, "noteId")
	if err != nil {
		return nil
	}
	userID, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Message string  `json:"message"`
		PosX    int    `json:"pos_x"`
		PosY    int    `json:"pos_y"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateNoteMessage(req.Message); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if err := s.noteRepo.Update(c.Context(), noteID, userID, req.Message, req.PosX, req.PosY); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Note updated",
	})
}

// DeleteNote handles DELETE /api/trees/:id/notes/:noteId
func (s *Server) DeleteNote(c *fiber.Ctx) error {
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	noteID, err := s.parseID(c, "noteId")
	if err != nil {
		return nil
	}
	userID, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	if err := s.noteRepo.Delete(c.Context(), noteID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Note deleted",
	})
}

// LikeNote handles POST /api/notes/:id/likes. Liking twice is a no-op.
func (s *Server) LikeNote(c *fiber.Ctx) error {
	noteID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	liked, count, err := s.noteRepo.Like(c.Context(), noteID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"liked":     liked,
		"likeCount": count,
	})
}

// UnlikeNote handles DELETE /api/notes/:id/likes
func (s *Server) UnlikeNote(c *fiber.Ctx) error {
	noteID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	count, err := s.noteRepo.Unlike(c.Context(), noteID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"likeCount": count,
	})
}

// GetLikeCount handles GET /api/notes/:id/likes/count
func (s *Server) GetLikeCount(c *fiber.Ctx) error {
	noteID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.noteRepo.LikeCount(c.Context(), noteID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"likeCount": count,
	})
}
