package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"linkhub/internal/db"
	"linkhub/internal/metrics"
	"linkhub/internal/middleware"
	"linkhub/internal/models"
)

// LinkHandler handles link CRUD and engagement operations via JSON API.
type LinkHandler struct {
	db *db.DB
}

// NewLinkHandler creates a new API link handler.
func NewLinkHandler(database *db.DB) *LinkHandler {
	return &LinkHandler{db: database}
}

// includeSensitive resolves the caller's sensitivity preference. An explicit
// include_sensitive query parameter wins over the session preference.
func includeSensitive(c fiber.Ctx) bool {
	if v, ok := queryBool(c, "include_sensitive"); ok {
		return v
	}
	return middleware.ShowSensitive(c)
}

// List returns links newest first, optionally scoped to ?category_id=.
func (h *LinkHandler) List(c fiber.Ctx) error {
	include := includeSensitive(c)

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid category id")
		}
		links, err := h.db.ListLinksByCategory(c.Context(), categoryID, include)
		if err != nil {
			return storeError(c, err, "failed to fetch links")
		}
		return jsonSuccess(c, links)
	}

	links, err := h.db.ListLinks(c.Context(), include)
	if err != nil {
		return storeError(c, err, "failed to fetch links")
	}
	return jsonSuccess(c, links)
}

// Get returns a single link by ID. Sensitive links are reported as missing unless
// the caller owns them or has opted in.
func (h *LinkHandler) Get(c fiber.Ctx) error {
	id, ok := linkIDParam(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	link, err := h.db.GetLinkByID(c.Context(), id)
	if err != nil {
		return storeError(c, err, "failed to fetch link")
	}

	if !link.VisibleTo(middleware.CurrentUserID(c), includeSensitive(c)) {
		return jsonError(c, fiber.StatusNotFound, "link not found")
	}

	return jsonSuccess(c, link)
}

// Create creates a new link owned by the caller.
func (h *LinkHandler) Create(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var body struct {
		Title       string     `json:"title"`
		URL         string     `json:"url"`
		Description string     `json:"description"`
		ImageURL    string     `json:"image_url"`
		CategoryID  flexibleID `json:"category_id"`
		IsSensitive bool       `json:"is_sensitive"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	link := &models.Link{
		Title:       body.Title,
		URL:         body.URL,
		Description: &body.Description,
		ImageURL:    &body.ImageURL,
		CategoryID:  int64(body.CategoryID),
		OwnerID:     user.ID,
		IsSensitive: body.IsSensitive,
	}
	if body.Description == "" {
		link.Description = nil
	}
	if body.ImageURL == "" {
		link.ImageURL = nil
	}

	if err := h.db.CreateLink(c.Context(), link); err != nil {
		return storeError(c, err, "Failed to create link")
	}

	slog.Info("link created", "link_id", link.ID, "owner_id", user.ID, "sensitive", link.IsSensitive)
	return jsonCreated(c, link)
}

// Delete removes a link owned by the caller together with its likes and bookmarks.
func (h *LinkHandler) Delete(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	id, ok := linkIDParam(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	if err := h.db.DeleteLink(c.Context(), id, user.ID); err != nil {
		return storeError(c, err, "Failed to delete link")
	}

	slog.Info("link deleted", "link_id", id, "owner_id", user.ID)
	return jsonSuccess(c, fiber.Map{"id": id})
}

type toggleFunc func(ctx context.Context, userID, linkID int64) (bool, error)

// toggle runs one engagement operation for the caller and reports whether it
// changed state. A repeated like or bookmark is not an error.
func (h *LinkHandler) toggle(c fiber.Ctx, action string, fn toggleFunc) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	id, ok := linkIDParam(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	applied, err := fn(c.Context(), user.ID, id)
	if err != nil {
		return storeError(c, err, "failed to "+action+" link")
	}
	metrics.RecordToggle(action, applied)

	return jsonSuccess(c, fiber.Map{"link_id": id, "applied": applied})
}

// Like records that the caller likes a link.
func (h *LinkHandler) Like(c fiber.Ctx) error {
	return h.toggle(c, "like", h.db.LikeLink)
}

// Unlike removes the caller's like.
func (h *LinkHandler) Unlike(c fiber.Ctx) error {
	return h.toggle(c, "unlike", h.db.UnlikeLink)
}

// Bookmark records a bookmark for the caller.
func (h *LinkHandler) Bookmark(c fiber.Ctx) error {
	return h.toggle(c, "bookmark", h.db.BookmarkLink)
}

// Unbookmark removes the caller's bookmark.
func (h *LinkHandler) Unbookmark(c fiber.Ctx) error {
	return h.toggle(c, "unbookmark", h.db.UnbookmarkLink)
}
