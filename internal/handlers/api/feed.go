package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/sync/errgroup"

	"linkhub/internal/db"
	"linkhub/internal/middleware"
	"linkhub/internal/models"
)

// FeedHandler serves the home feed: visible links grouped by category.
type FeedHandler struct {
	db *db.DB
}

// NewFeedHandler creates a new API feed handler.
func NewFeedHandler(database *db.DB) *FeedHandler {
	return &FeedHandler{db: database}
}

type feedResponse struct {
	Categories    []models.CategoryFeed `json:"categories"`
	User          *models.PublicUser    `json:"user"`
	UserLikes     []int64               `json:"user_likes"`
	UserBookmarks []int64               `json:"user_bookmarks"`
	ShowSensitive bool                  `json:"show_sensitive"`
}

// Show returns the feed. ?show_sensitive= updates the stored preference first.
func (h *FeedHandler) Show(c fiber.Ctx) error {
	if v, ok := queryBool(c, "show_sensitive"); ok {
		if sess := session.FromContext(c); sess != nil {
			sess.Set(middleware.SessionShowSensitiveKey, v)
		}
	}
	show := middleware.ShowSensitive(c)
	user := middleware.CurrentUser(c)

	resp := feedResponse{
		User:          user,
		UserLikes:     []int64{},
		UserBookmarks: []int64{},
		ShowSensitive: show,
	}

	var (
		categories []models.Category
		links      []models.LinkWithDetails
	)

	g, ctx := errgroup.WithContext(c.Context())
	g.Go(func() (err error) {
		categories, err = h.db.ListCategories(ctx)
		return err
	})
	g.Go(func() (err error) {
		links, err = h.db.ListLinks(ctx, show)
		return err
	})
	if user != nil {
		g.Go(func() (err error) {
			resp.UserLikes, err = h.db.GetUserLikes(ctx, user.ID)
			return err
		})
		g.Go(func() (err error) {
			resp.UserBookmarks, err = h.db.GetUserBookmarks(ctx, user.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return storeError(c, err, "failed to load feed")
	}

	resp.Categories = models.GroupByCategory(categories, links)
	return jsonSuccess(c, resp)
}

