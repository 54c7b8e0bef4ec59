package api

import (
	"github.com/gofiber/fiber/v3"

	"linkhub/internal/db"
)

// CategoryHandler handles category listing via JSON API.
type CategoryHandler struct {
	db *db.DB
}

// NewCategoryHandler creates a new API category handler.
func NewCategoryHandler(database *db.DB) *CategoryHandler {
	return &CategoryHandler{db: database}
}

// List returns every category ordered by id.
func (h *CategoryHandler) List(c fiber.Ctx) error {
	categories, err := h.db.ListCategories(c.Context())
	if err != nil {
		return storeError(c, err, "failed to fetch categories")
	}
	return jsonSuccess(c, categories)
}
