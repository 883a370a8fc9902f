// Package middleware provides authentication, logging, tracing, and rate
// limiting middleware for the application.
package middleware

import (
	"errors"
	"strconv"
	"strings"

	"garland/internal/config"
	"garland/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// userIDFromBearer extracts and validates the Bearer token, returning the
// authenticated user id. Returns 0 and an error message when the token is
// missing or invalid.
func userIDFromBearer(c *fiber.Ctx) (uint, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, "Authorization header required"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "Invalid authorization header format"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "Invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "Invalid token claims"
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "Invalid token subject"
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "Invalid user ID in token"
	}

	return uint(userID), ""
}

// AuthRequired enforces authentication for protected routes and stores the
// authenticated user id in c.Locals("userID"). This middleware is the only
// place request identity is established; handlers never read ids from the
// body, query, or headers.
func AuthRequired(c *fiber.Ctx) error {
	userID, reason := userIDFromBearer(c)
	if userID == 0 {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(reason))
	}
	c.Locals("userID", userID)
	return c.Next()
}

// OptionalAuth establishes identity when a valid Bearer token is present and
// proceeds anonymously otherwise. Used on routes whose contract reports a
// missing user as 400 rather than 401, and on read routes where admins see
// hidden content.
func OptionalAuth(c *fiber.Ctx) error {
	if userID, _ := userIDFromBearer(c); userID != 0 {
		c.Locals("userID", userID)
	}
	return c.Next()
}

// UserID returns the authenticated user id from locals, or 0 when the
// request is anonymous.
func UserID(c *fiber.Ctx) uint {
	if v, ok := c.Locals("userID").(uint); ok {
		return v
	}
	return 0
}

// AdminRequired enforces that the authenticated user is an administrator and
// not blocked. Must be mounted after AuthRequired. Non-admin callers get 401.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		var user models.User
		err := db.WithContext(c.UserContext()).
			Select("id", "is_admin", "is_blocked").
			First(&user, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Unknown user"))
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}

		if !user.IsAdmin || user.IsBlocked {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Administrator privileges required"))
		}

		c.Locals("isAdmin", true)
		return c.Next()
	}
}
