package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"linkhub/internal/db"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonCreated returns a 201 response with data wrapped in the standard envelope.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// storeError maps a repository error to an HTTP response. fallback is used for
// storage failures so backend details never reach the client.
func storeError(c fiber.Ctx, err error, fallback string) error {
	var verr *db.ValidationError
	switch {
	case errors.As(err, &verr):
		return jsonError(c, fiber.StatusBadRequest, verr.Reason)
	case errors.Is(err, db.ErrDuplicateUser):
		return jsonError(c, fiber.StatusConflict, "Username or email already exists")
	case errors.Is(err, db.ErrInvalidCredentials):
		return jsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, db.ErrForbidden):
		return jsonError(c, fiber.StatusForbidden, "Link not found or access denied")
	case errors.Is(err, db.ErrLinkNotFound):
		return jsonError(c, fiber.StatusNotFound, "link not found")
	case errors.Is(err, db.ErrUserNotFound):
		return jsonError(c, fiber.StatusNotFound, "user not found")
	default:
		return jsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

// linkIDParam parses the :id route parameter.
func linkIDParam(c fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryBool reports whether the query parameter is present, and its value.
func queryBool(c fiber.Ctx, key string) (value, present bool) {
	raw := c.Query(key)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	return err == nil && v, true
}

// flexibleID decodes a JSON number or a numeric string, as sent by HTML form
// values. Empty strings and null decode to zero.
type flexibleID int64

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexibleID(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("id must be a number or numeric string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("id %q is not a number: %w", s, err)
	}
	*f = flexibleID(n)
	return nil
}
