package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/sync/errgroup"

	"linkhub/internal/db"
	"linkhub/internal/middleware"
	"linkhub/internal/models"
)

// ProfileHandler serves the caller's profile and viewing preferences.
type ProfileHandler struct {
	db *db.DB
}

// NewProfileHandler creates a new API profile handler.
func NewProfileHandler(database *db.DB) *ProfileHandler {
	return &ProfileHandler{db: database}
}

type profileResponse struct {
	User          *models.PublicUser       `json:"user"`
	Links         []models.LinkWithDetails `json:"links"`
	UserLikes     []int64                  `json:"user_likes"`
	UserBookmarks []int64                  `json:"user_bookmarks"`
}

// Show returns the caller, every link they submitted, and their likes and bookmarks.
func (h *ProfileHandler) Show(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	resp := profileResponse{User: user}

	g, ctx := errgroup.WithContext(c.Context())
	g.Go(func() (err error) {
		resp.Links, err = h.db.ListLinksByOwner(ctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		resp.UserLikes, err = h.db.GetUserLikes(ctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		resp.UserBookmarks, err = h.db.GetUserBookmarks(ctx, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return storeError(c, err, "failed to load profile")
	}

	return jsonSuccess(c, resp)
}

// SetFilterPreference stores whether sensitive links should be shown to the caller.
// Anonymous callers may set it too.
func (h *ProfileHandler) SetFilterPreference(c fiber.Ctx) error {
	var body struct {
		ShowSensitive bool `json:"show_sensitive"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return jsonError(c, fiber.StatusInternalServerError, "session not available")
	}
	sess.Set(middleware.SessionShowSensitiveKey, body.ShowSensitive)

	return jsonSuccess(c, fiber.Map{"show_sensitive": body.ShowSensitive})
}
