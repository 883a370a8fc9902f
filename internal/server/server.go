// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"garland/internal/cache"
	"garland/internal/config"
	"garland/internal/database"
	"garland/internal/middleware"
	"garland/internal/repository"
	"garland/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// GoogleTokenVerifier validates a Google ID token and returns the verified
// email and display name. Injected so tests can stub the network call.
type GoogleTokenVerifier func(ctx context.Context, idToken string) (email, name string, err error)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	treeRepo       repository.TreeRepository
	noteRepo       repository.NoteRepository
	commentRepo    repository.CommentRepository
	moderation     *service.ModerationService
	verifyGoogle   GoogleTokenVerifier
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("garland-api"),
		userRepo:       repository.NewUserRepository(db),
		treeRepo:       repository.NewTreeRepository(db),
		noteRepo:       repository.NewNoteRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		moderation:     service.NewModerationService(db),
	}, nil
}

// SetGoogleVerifier installs the Google ID token verifier.
func (s *Server) SetGoogleVerifier(v GoogleTokenVerifier) {
	s.verifyGoogle = v
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	api.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	api.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth := api.Group("/auth")
	auth.Post("/google", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "google_login"), s.GoogleLogin)
	auth.Post("/logout", s.Logout)

	// Tree routes. Reads are open; writes establish identity via JWT.
	api.Get("/tree/by-key/:key", s.GetTreeByKey)
	trees := api.Group("/trees")
	trees.Post("/", middleware.OptionalAuth, s.CreateTree)
	trees.Get("/:id", middleware.OptionalAuth, s.GetTree)
	trees.Post("/:id/join", middleware.OptionalAuth, s.JoinTree)

	// Note routes. Reads filter hidden rows unless the caller is an admin.
	trees.Get("/:id/notes", middleware.OptionalAuth, s.GetTreeNotes)
	trees.Post("/:id/notes", middleware.OptionalAuth, s.CreateNote)
	trees.Put("/:id/notes/:noteId", middleware.OptionalAuth, s.UpdateNote)
	trees.Delete("/:id/notes/:noteId", middleware.OptionalAuth, s.DeleteNote)

	// Comment routes
	notes := api.Group("/notes")
	notes.Get("/:id/comments", middleware.OptionalAuth, s.GetComments)
	notes.Post("/:id/comments", middleware.OptionalAuth, s.CreateComment)
	notes.Put("/:id/comments/:commentId", middleware.OptionalAuth, s.UpdateComment)
	notes.Delete("/:id/comments/:commentId", middleware.OptionalAuth, s.DeleteComment)

	// Like routes
	notes.Post("/:id/likes", middleware.OptionalAuth, s.LikeNote)
	notes.Delete("/:id/likes", middleware.OptionalAuth, s.UnlikeNote)
	notes.Get("/:id/likes/count", s.GetLikeCount)

	// User routes
	users := api.Group("/users")
	users.Get("/me", middleware.AuthRequired, s.GetMyProfile)
	users.Get("/:id/trees", middleware.AuthRequired, s.GetUserTrees)
	users.Delete("/:id", middleware.AuthRequired, s.DeleteUser)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthRequired, middleware.AdminRequired(s.db))
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
}

// Shutdown releases server-held resources after the Fiber app has stopped.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis == nil {
		redisStatus = "unavailable"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":   dbStatus,
		"database": dbStatus,
		"redis":    redisStatus,
		"time":     time.Now(),
	})
}
