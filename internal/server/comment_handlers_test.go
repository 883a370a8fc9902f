package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"garland/internal/models"

	"github.com/gofiber/fiber/v2"
)

func commentTestApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(asUser(userID))
	app.Post("/api/notes/:id/comments", s.CreateComment)
	app.Get("/api/notes/:id/comments", s.GetComments)
	app.Put("/api/notes/:id/comments/:commentId", s.UpdateComment)
	app.Delete("/api/notes/:id/comments/:commentId", s.DeleteComment)
	return app
}

func seedNoteForComments(t *testing.T, s *Server, owner models.User) models.Note {
	t.Helper()
	tree := seedHandlerTree(t, s, owner)
	note := models.Note{TreeID: tree.ID, UserID: owner.ID, Message: "commented"}
	if err := s.db.Create(&note).Error; err != nil {
		t.Fatalf("create note: %v", err)
	}
	return note
}

func TestCreateComment(t *testing.T) {
	s, db := newTestServer(t)
	user := createTestUser(t, db, "commenter", false)
	note := seedNoteForComments(t, s, user)
	path := fmt.Sprintf("/api/notes/%d/comments", note.ID)

	app := commentTestApp(s, user.ID)
	resp, body := doJSON(t, app, http.MethodPost, path, fiber.Map{"content": "lovely"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if body["comment_id"] == nil {
		t.Fatal("expected comment_id")
	}

	// Missing content and missing user both return the contractual 401.
	resp, _ = doJSON(t, app, http.MethodPost, path, fiber.Map{})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing content, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, commentTestApp(s, 0), http.MethodPost, path, fiber.Map{"content": "anon"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing user, got %d", resp.StatusCode)
	}

	// Unknown note is a 404.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/notes/999/comments", fiber.Map{"content": "ghost"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCommentVisibilityByRole(t *testing.T) {
	s, db := newTestServer(t)
	user := createTestUser(t, db, "c-user", false)
	admin := createTestUser(t, db, "c-admin", true)
	note := seedNoteForComments(t, s, user)

	if err := db.Create(&models.Comment{NoteID: note.ID, UserID: user.ID, Content: "visible"}).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if err := db.Create(&models.Comment{NoteID: note.ID, UserID: user.ID, Content: "hidden", IsHidden: true}).Error; err != nil {
		t.Fatalf("create hidden comment: %v", err)
	}

	list := func(app *fiber.App) []map[string]interface{} {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/notes/%d/comments", note.ID), nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		raw, _ := io.ReadAll(resp.Body)
		var comments []map[string]interface{}
		if err := json.Unmarshal(raw, &comments); err != nil {
			t.Fatalf("decode comments: %v", err)
		}
		return comments
	}

	if got := list(commentTestApp(s, 0)); len(got) != 1 {
		t.Fatalf("anonymous: expected 1 comment, got %d", len(got))
	}
	if got := list(commentTestApp(s, admin.ID)); len(got) != 2 {
		t.Fatalf("admin: expected 2 comments, got %d", len(got))
	}
}

func TestUpdateAndDeleteCommentOwnership(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "c-author", false)
	other := createTestUser(t, db, "c-other", false)
	note := seedNoteForComments(t, s, author)

	comment := models.Comment{NoteID: note.ID, UserID: author.ID, Content: "original"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	path := fmt.Sprintf("/api/notes/%d/comments/%d", note.ID, comment.ID)

	resp, _ := doJSON(t, commentTestApp(s, other.ID), http.MethodPut, path, fiber.Map{"content": "hijack"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner update, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, commentTestApp(s, author.ID), http.MethodPut, path, fiber.Map{"content": "edited"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for owner update, got %d", resp.StatusCode)
	}

	var reloaded models.Comment
	if err := db.First(&reloaded, comment.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Content != "edited" {
		t.Fatalf("expected edited content, got %q", reloaded.Content)
	}

	resp, _ = doJSON(t, commentTestApp(s, 0), http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for anonymous delete, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, commentTestApp(s, author.ID), http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for owner delete, got %d", resp.StatusCode)
	}
}
