package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an ID, reusing one supplied by the client
// when it is a valid UUID.
func RequestID(c fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	c.Locals("request_id", id)
	c.Set(RequestIDHeader, id)
	return c.Next()
}

// GetRequestID returns the ID assigned by RequestID.
func GetRequestID(c fiber.Ctx) string {
	id, _ := c.Locals("request_id").(string)
	return id
}
