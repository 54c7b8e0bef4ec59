package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"linkhub/internal/db"
	"linkhub/internal/email"
	"linkhub/internal/middleware"
	"linkhub/internal/models"
)

// RequestHandler handles contact and data removal requests via JSON API.
type RequestHandler struct {
	db       *db.DB
	notifier *email.Notifier
}

// NewRequestHandler creates a new API request handler. notifier may be nil.
func NewRequestHandler(database *db.DB, notifier *email.Notifier) *RequestHandler {
	return &RequestHandler{db: database, notifier: notifier}
}

// Contact logs a contact request or content report from the caller.
func (h *RequestHandler) Contact(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var body struct {
		Type             string `json:"type"`
		Subject          string `json:"subject"`
		Message          string `json:"message"`
		Email            string `json:"email"`
		ContentReference string `json:"content_reference"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	req := &models.ContactRequest{
		UserID:      user.ID,
		RequestType: body.Type,
		Subject:     body.Subject,
		Message:     body.Message,
		UserEmail:   body.Email,
	}
	if err := h.db.CreateContactRequest(c.Context(), req, body.ContentReference); err != nil {
		return storeError(c, err, "Failed to submit your request. Please try again.")
	}

	if h.notifier != nil {
		h.notifier.NotifyContactRequest(req, user)
	}

	return jsonCreated(c, fiber.Map{
		"id":      req.ID,
		"message": "Your request has been submitted. We will respond within 24 hours.",
	})
}

// DataRemoval logs a data removal request. The caller must confirm explicitly.
func (h *RequestHandler) DataRemoval(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var body struct {
		RemovalType   string  `json:"removal_type"`
		SpecificLinks []int64 `json:"specific_links"`
		Reason        string  `json:"reason"`
		Confirmation  bool    `json:"confirmation"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !body.Confirmation {
		return jsonError(c, fiber.StatusBadRequest, "Please confirm the data removal request")
	}

	req := &models.RemovalRequest{
		UserID:        user.ID,
		RemovalType:   body.RemovalType,
		SpecificLinks: body.SpecificLinks,
		Reason:        body.Reason,
	}
	if err := h.db.CreateRemovalRequest(c.Context(), req); err != nil {
		return storeError(c, err, "Failed to submit your removal request. Please try again.")
	}

	if h.notifier != nil {
		h.notifier.NotifyRemovalRequest(req, user)
	}

	return jsonCreated(c, fiber.Map{
		"id":      req.ID,
		"message": models.RemovalConfirmation(req.RemovalType),
	})
}

// MyRequests lists the caller's contact and removal requests.
func (h *RequestHandler) MyRequests(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	requests, err := h.db.ListRequestsByUser(c.Context(), user.ID)
	if err != nil {
		return storeError(c, err, "failed to fetch requests")
	}
	return jsonSuccess(c, requests)
}
