package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"linkhub/internal/db"
	"linkhub/internal/models"
)

// Session keys shared by the middleware and the handlers that sign users in.
const (
	SessionUserKey          = "user_id"
	SessionShowSensitiveKey = "show_sensitive"
)

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	db *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{db: database}
}

// RequireAuth ensures the user is authenticated, answering 401 if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user, err := m.loadUser(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  "internal error",
		})
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "not authenticated",
		})
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user, err := m.loadUser(c); err == nil && user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

// loadUser resolves the session's user. A session pointing at a user that no longer
// exists is destroyed.
func (m *AuthMiddleware) loadUser(c fiber.Ctx) (*models.PublicUser, error) {
	sess := session.FromContext(c)
	if sess == nil {
		return nil, nil
	}

	userID := SessionUserID(sess.Get(SessionUserKey))
	if userID == 0 {
		return nil, nil
	}

	user, err := m.db.GetUserByID(c.Context(), userID)
	if errors.Is(err, db.ErrUserNotFound) {
		slog.Warn("session references missing user", "user_id", userID)
		sess.Destroy()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SessionUserID normalizes a stored user ID. Session stores may hand back any
// numeric type depending on their encoding; anything else yields 0.
func SessionUserID(v any) int64 {
	switch id := v.(type) {
	case int64:
		return id
	case int:
		return int64(id)
	case int32:
		return int64(id)
	case uint64:
		return int64(id)
	case float64:
		return int64(id)
	default:
		return 0
	}
}

// CurrentUser returns the user loaded by RequireAuth or OptionalAuth, or nil.
func CurrentUser(c fiber.Ctx) *models.PublicUser {
	user, _ := c.Locals("user").(*models.PublicUser)
	return user
}

// CurrentUserID returns the authenticated user's ID, or 0 for anonymous callers.
func CurrentUserID(c fiber.Ctx) int64 {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// ShowSensitive reports the caller's sensitive-content preference. Defaults to false.
func ShowSensitive(c fiber.Ctx) bool {
	sess := session.FromContext(c)
	if sess == nil {
		return false
	}
	show, _ := sess.Get(SessionShowSensitiveKey).(bool)
	return show
}
