package server

import (
	"net/http"
	"testing"

	"garland/internal/models"

	"github.com/gofiber/fiber/v2"
)

func treeTestApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(asUser(userID))
	app.Get("/api/tree/by-key/:key", s.GetTreeByKey)
	app.Post("/api/trees", s.CreateTree)
	app.Get("/api/trees/:id", s.GetTree)
	app.Post("/api/trees/:id/join", s.JoinTree)
	app.Get("/api/users/:id/trees", s.GetUserTrees)
	return app
}

func TestCreateTree(t *testing.T) {
	s, _ := newTestServer(t)
	user := createTestUser(t, s.db, "planter", false)
	app := treeTestApp(s, user.ID)

	resp, body := doJSON(t, app, http.MethodPost, "/api/trees", fiber.Map{
		"tree_name": "My Tree",
		"tree_type": "PRIVATE",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	key, _ := body["tree_key"].(string)
	if len(key) != models.TreeKeyLength {
		t.Fatalf("expected %d-char key, got %q", models.TreeKeyLength, key)
	}

	// Public trees carry no key.
	resp, body = doJSON(t, app, http.MethodPost, "/api/trees", fiber.Map{
		"tree_name": "Open Tree",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if body["tree_type"] != string(models.TreeTypePublic) {
		t.Fatalf("expected PUBLIC default, got %v", body["tree_type"])
	}
	if k, _ := body["tree_key"].(string); k != "" {
		t.Fatalf("expected no key for public tree, got %q", k)
	}

	// Missing name is a 400.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/trees", fiber.Map{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	// Anonymous caller gets the contractual 400.
	anon := treeTestApp(s, 0)
	resp, _ = doJSON(t, anon, http.MethodPost, "/api/trees", fiber.Map{"tree_name": "Nope"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing user, got %d", resp.StatusCode)
	}
}

func TestGetTreeByKey(t *testing.T) {
	s, db := newTestServer(t)
	user := createTestUser(t, s.db, "keeper", false)
	app := treeTestApp(s, user.ID)

	tree := models.Tree{OwnerID: user.ID, Name: "locked", Type: models.TreeTypePrivate, Key: "KEY123456789"}
	if err := db.Create(&tree).Error; err != nil {
		t.Fatalf("create tree: %v", err)
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/tree/by-key/KEY123456789", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["tree_name"] != "locked" {
		t.Fatalf("unexpected tree: %v", body)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/tree/by-key/MISSINGKEY12", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	// Malformed key short-circuits to 404 without a lookup.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/tree/by-key/short", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed key, got %d", resp.StatusCode)
	}
}

func TestJoinTree(t *testing.T) {
	s, db := newTestServer(t)
	owner := createTestUser(t, db, "owner", false)
	joiner := createTestUser(t, db, "joiner", false)

	tree := models.Tree{OwnerID: owner.ID, Name: "club", Type: models.TreeTypePrivate, Key: "CLUBKEY45678"}
	if err := db.Create(&tree).Error; err != nil {
		t.Fatalf("create tree: %v", err)
	}

	app := treeTestApp(s, joiner.ID)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/trees/1/join", fiber.Map{"tree_key": "WRONG"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong key, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/api/trees/1/join", fiber.Map{"tree_key": "CLUBKEY45678"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 on join, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/api/trees/1/join", fiber.Map{"tree_key": "CLUBKEY45678"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 when already a member, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/api/trees/999/join", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tree, got %d", resp.StatusCode)
	}

	anon := treeTestApp(s, 0)
	resp, _ = doJSON(t, anon, http.MethodPost, "/api/trees/1/join", fiber.Map{"tree_key": "CLUBKEY45678"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing user, got %d", resp.StatusCode)
	}
}

func TestTreeKeyDisclosure(t *testing.T) {
	s, db := newTestServer(t)
	owner := createTestUser(t, db, "secretive", false)
	stranger := createTestUser(t, db, "stranger", false)

	tree := models.Tree{OwnerID: owner.ID, Name: "mine", Type: models.TreeTypePrivate, Key: "OWNERKEY1234"}
	if err := db.Create(&tree).Error; err != nil {
		t.Fatalf("create tree: %v", err)
	}

	ownerApp := treeTestApp(s, owner.ID)
	resp, body := doJSON(t, ownerApp, http.MethodGet, "/api/trees/1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["tree_key"] != "OWNERKEY1234" {
		t.Fatal("owner should see the key")
	}

	strangerApp := treeTestApp(s, stranger.ID)
	resp, body = doJSON(t, strangerApp, http.MethodGet, "/api/trees/1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if k, ok := body["tree_key"].(string); ok && k != "" {
		t.Fatalf("stranger should not see the key, got %q", k)
	}
}
