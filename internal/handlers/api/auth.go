package api

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"linkhub/internal/db"
	"linkhub/internal/middleware"
	"linkhub/internal/models"
)

// AuthHandler handles password registration and sign-in via JSON API.
type AuthHandler struct {
	db *db.DB
}

// NewAuthHandler creates a new API auth handler.
func NewAuthHandler(database *db.DB) *AuthHandler {
	return &AuthHandler{db: database}
}

var errNoSession = errors.New("session not available")

// signIn issues a fresh session ID and stores the user ID in it.
func signIn(c fiber.Ctx, userID int64) error {
	sess := session.FromContext(c)
	if sess == nil {
		return errNoSession
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(middleware.SessionUserKey, userID)
	return nil
}

// Register creates an account and signs the caller in.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := &models.User{
		Username: body.Username,
		Email:    body.Email,
		FullName: body.FullName,
	}
	if err := h.db.RegisterUser(c.Context(), user, body.Password); err != nil {
		return storeError(c, err, "failed to create user")
	}

	if err := signIn(c, user.ID); err != nil {
		slog.Error("failed to start session", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to start session")
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return jsonCreated(c, user.Public())
}

// Login verifies a username/password pair and signs the caller in.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Username == "" || body.Password == "" {
		return jsonError(c, fiber.StatusBadRequest, "Username and password are required")
	}

	user, err := h.db.VerifyUser(c.Context(), body.Username, body.Password)
	if err != nil {
		return storeError(c, err, "failed to sign in")
	}

	if err := signIn(c, user.ID); err != nil {
		slog.Error("failed to start session", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to start session")
	}

	return jsonSuccess(c, user.Public())
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		sess.Destroy()
	}
	return jsonSuccess(c, nil)
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	return jsonSuccess(c, user)
}
