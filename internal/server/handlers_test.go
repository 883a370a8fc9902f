package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"garland/internal/config"
	"garland/internal/database"
	"garland/internal/models"
	"garland/internal/repository"
	"garland/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db := setupHandlerTestDB(t)
	cfg := &config.Config{
		JWTSecret: "test-secret-0123456789-0123456789",
		Port:      "0",
		Env:       "test",
	}
	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		treeRepo:    repository.NewTreeRepository(db),
		noteRepo:    repository.NewNoteRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		moderation:  service.NewModerationService(db),
	}
	return s, db
}

// asUser injects an authenticated identity the way the JWT middleware does.
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("userID", userID)
		}
		return c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin bool) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw",
		Provider: models.ProviderLocal,
		IsAdmin:  admin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	_ = resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 {
		// Array responses are checked by the caller from raw status only.
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}
