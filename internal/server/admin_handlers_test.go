package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"garland/internal/middleware"
	"garland/internal/models"

	"github.com/gofiber/fiber/v2"
)

// adminTestApp mounts the admin routes behind the real AdminRequired gate
// with the identity injected.
func adminTestApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(asUser(userID))
	admin := app.Group("/api/admin", middleware.AdminRequired(s.db))
	admin.Patch("/notes/:id/hide", s.AdminHideNote)
	admin.Patch("/notes/:id/show", s.AdminShowNote)
	admin.Delete("/notes/:id", s.AdminDeleteNote)
	admin.Patch("/comments/:id/hide", s.AdminHideComment)
	admin.Patch("/comments/:id/show", s.AdminShowComment)
	admin.Delete("/comments/:id", s.AdminDeleteComment)
	admin.Patch("/users/:id/block", s.AdminBlockUser)
	admin.Patch("/users/:id/unblock", s.AdminUnblockUser)
	admin.Get("/users", s.AdminListUsers)
	admin.Get("/users/:id/notes", s.AdminListUserNotes)
	admin.Get("/users/:id/comments", s.AdminListUserComments)
	admin.Get("/logs", s.AdminListLogs)
	return app
}

func TestAdminGateRejectsNonAdmins(t *testing.T) {
	s, db := newTestServer(t)
	admin := createTestUser(t, db, "gate-admin", true)
	regular := createTestUser(t, db, "gate-user", false)

	blockedAdmin := models.User{
		Username: "blocked-admin", Email: "blocked-admin@example.com",
		Password: "pw", IsAdmin: true, IsBlocked: true,
	}
	if err := db.Create(&blockedAdmin).Error; err != nil {
		t.Fatalf("create blocked admin: %v", err)
	}

	cases := []struct {
		name   string
		caller uint
		want   int
	}{
		{"anonymous", 0, http.StatusUnauthorized},
		{"regular user", regular.ID, http.StatusUnauthorized},
		{"blocked admin", blockedAdmin.ID, http.StatusUnauthorized},
		{"admin", admin.ID, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := doJSON(t, adminTestApp(s, tc.caller), http.MethodGet, "/api/admin/logs", nil)
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestAdminModerationFlow(t *testing.T) {
	s, db := newTestServer(t)
	admin := createTestUser(t, db, "flow-admin", true)
	user := createTestUser(t, db, "flow-user", false)

	tree := seedHandlerTree(t, s, user)
	note := models.Note{TreeID: tree.ID, UserID: user.ID, Message: "reported"}
	if err := db.Create(&note).Error; err != nil {
		t.Fatalf("create note: %v", err)
	}
	comment := models.Comment{NoteID: note.ID, UserID: user.ID, Content: "reported too"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	app := adminTestApp(s, admin.ID)

	resp, _ := doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/admin/notes/%d/hide", note.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hide note: expected 200, got %d", resp.StatusCode)
	}
	var reloaded models.Note
	if err := db.First(&reloaded, note.ID).Error; err != nil {
		t.Fatalf("reload note: %v", err)
	}
	if !reloaded.IsHidden {
		t.Fatal("note should be hidden")
	}

	resp, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/admin/comments/%d/hide", comment.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hide comment: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/block", user.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("block user: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/admin/notes/%d", note.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete note: expected 200, got %d", resp.StatusCode)
	}

	// Unknown targets are 404s.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/admin/notes/999/hide", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	// Every successful action above left an audit row.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/logs", nil)
	logResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = logResp.Body.Close() }()
	raw, _ := io.ReadAll(logResp.Body)
	var logs []models.AdminLog
	if err := json.Unmarshal(raw, &logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(logs) != 4 {
		t.Fatalf("expected 4 audit rows, got %d", len(logs))
	}
	for _, entry := range logs {
		if entry.AdminID != admin.ID {
			t.Fatalf("log row attributed to %d, want %d", entry.AdminID, admin.ID)
		}
	}
}

func TestAdminListUserContent(t *testing.T) {
	s, db := newTestServer(t)
	admin := createTestUser(t, db, "list-admin", true)
	user := createTestUser(t, db, "list-user", false)

	tree := seedHandlerTree(t, s, user)
	for i := 0; i < 2; i++ {
		n := models.Note{TreeID: tree.ID, UserID: user.ID, Message: fmt.Sprintf("n%d", i), IsHidden: i == 0}
		if err := db.Create(&n).Error; err != nil {
			t.Fatalf("create note: %v", err)
		}
	}

	app := adminTestApp(s, admin.ID)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/admin/users/%d/notes", user.ID), nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(resp.Body)
	var notes []models.Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		t.Fatalf("decode notes: %v", err)
	}
	// Admin listings include hidden rows.
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes including hidden, got %d", len(notes))
	}
}
