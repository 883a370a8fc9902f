package server

import (
	"garland/internal/middleware"
	"garland/internal/models"
	"garland/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/notes/:id/comments. A missing user or an
// empty body returns 401: the route predates the uniform 400 convention and
// clients depend on the status.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	noteID, parseErr := c.ParamsInt("id")
	if parseErr != nil || noteID <= 0 {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Missing required fields"))
	}

	userID := middleware.UserID(c)

	var req struct {
		Content string `json:"content"`
	}
	_ = c.BodyParser(&req)

	if userID == 0 || req.Content == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Missing required fields"))
	}

	if err := validation.ValidateCommentContent(req.Content); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	comment := &models.Comment{
		NoteID:  uint(noteID),
		UserID:  userID,
		Content: req.Content,
	}
	if err := s.commentRepo.Create(c.Context(), comment); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"comment_id": comment.ID,
	})
}

// GetComments handles GET /api/notes/:id/comments. Hidden comments are
// filtered out unless the caller is an admin.
func (s *Server) GetComments(c *fiber.Ctx) error {
	noteID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentRepo.ListByNote(c.Context(), noteID, s.callerSeesHidden(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// UpdateComment handles PUT /api/notes/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateCommentContent(req.Content); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if err := s.commentRepo.Update(c.Context(), commentID, userID, req.Content); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Comment updated",
	})
}

// DeleteComment handles DELETE /api/notes/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	if err := s.commentRepo.Delete(c.Context(), commentID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Comment deleted",
	})
}
