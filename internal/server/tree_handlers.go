package server

import (
	"garland/internal/middleware"
	"garland/internal/models"
	"garland/internal/repository"
	"garland/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateTree handles POST /api/trees
func (s *Server) CreateTree(c *fiber.Ctx) error {
	userID, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"tree_name"`
		Type string `json:"tree_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateTreeName(req.Name); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	treeType := models.TreeType(req.Type)
	if treeType == "" {
		treeType = models.TreeTypePublic
	}
	if treeType != models.TreeTypePublic && treeType != models.TreeTypePrivate {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("tree_type must be PUBLIC or PRIVATE"))
	}

	tree := &models.Tree{
		OwnerID: userID,
		Name:    req.Name,
		Type:    treeType,
	}
	if err := s.treeRepo.Create(c.Context(), tree); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"tree_id":   tree.ID,
		"tree_type": tree.Type,
		"tree_key":  tree.Key,
	})
}

// GetTree handles GET /api/trees/:id
func (s *Server) GetTree(c *fiber.Ctx) error {
	treeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tree, err := s.treeRepo.GetByID(c.Context(), treeID)
	if err != nil {
		return respondError(c, err)
	}

	// The key is only disclosed to the owner.
	if tree.OwnerID != middleware.UserID(c) {
		tree.Key = ""
	}
	return c.JSON(tree)
}

// GetTreeByKey handles GET /api/tree/by-key/:key
func (s *Server) GetTreeByKey(c *fiber.Ctx) error {
	key := c.Params("key")
	if len(key) != models.TreeKeyLength {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Tree", key))
	}

	tree, err := s.treeRepo.GetByKey(c.Context(), key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tree)
}

// JoinTree handles POST /api/trees/:id/join
func (s *Server) JoinTree(c *fiber.Ctx) error {
	treeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Key string `json:"tree_key"`
	}
	// A missing body is fine for public trees.
	_ = c.BodyParser(&req)

	result, err := s.treeRepo.Join(c.Context(), treeID, userID, req.Key)
	if err != nil {
		return respondError(c, err)
	}

	if result == repository.AlreadyMember {
		return c.JSON(fiber.Map{
			"message": "Already a member",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Joined",
	})
}

// GetUserTrees handles GET /api/users/:id/trees
func (s *Server) GetUserTrees(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	trees, err := s.treeRepo.ListForUser(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	// Keys belong to owners only.
	caller := middleware.UserID(c)
	for i := range trees {
		if trees[i].OwnerID != caller {
			trees[i].Key = ""
		}
	}
	return c.JSON(trees)
}
