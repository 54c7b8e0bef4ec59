package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
)

func TestSessionUserID(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected int64
	}{
		{"int64", int64(42), 42},
		{"int", 7, 7},
		{"int32", int32(3), 3},
		{"uint64", uint64(9), 9},
		{"float64 from json", float64(12), 12},
		{"nil", nil, 0},
		{"string", "42", 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionUserID(tt.value); got != tt.expected {
				t.Errorf("SessionUserID(%v) = %d, want %d", tt.value, got, tt.expected)
			}
		})
	}
}

// newTestApp mounts the session middleware and the auth middleware with no
// database. Only paths that never reach the database are exercised.
func newTestApp() *fiber.App {
	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{})
	app.Use(sessionMiddleware)

	auth := NewAuthMiddleware(nil)
	app.Get("/private", auth.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("secret")
	})
	app.Get("/public", auth.OptionalAuth, func(c fiber.Ctx) error {
		if CurrentUser(c) != nil || CurrentUserID(c) != 0 {
			return c.SendString("user")
		}
		return c.SendString("anonymous")
	})
	app.Post("/sensitive", func(c fiber.Ctx) error {
		session.FromContext(c).Set(SessionShowSensitiveKey, true)
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/sensitive", func(c fiber.Ctx) error {
		if ShowSensitive(c) {
			return c.SendString("shown")
		}
		return c.SendString("hidden")
	})
	return app
}

func TestRequireAuth_Anonymous(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptestRequest(t, "GET", "/private"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "not authenticated" || body["status"] != "error" {
		t.Errorf("body = %v", body)
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptestRequest(t, "GET", "/public"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || string(body) != "anonymous" {
		t.Errorf("got %d %q, want 200 anonymous", resp.StatusCode, body)
	}
}

func TestShowSensitive(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptestRequest(t, "GET", "/sensitive"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "hidden" {
		t.Errorf("default preference = %q, want hidden", body)
	}

	resp, err = app.Test(httptestRequest(t, "POST", "/sensitive"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	req := httptestRequest(t, "GET", "/sensitive")
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	if string(body) != "shown" {
		t.Errorf("stored preference = %q, want shown", body)
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID)
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})

	resp, err := app.Test(httptestRequest(t, "GET", "/"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	generated := resp.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Errorf("generated id %q is not a UUID", generated)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != generated {
		t.Errorf("locals id = %q, header id = %q", body, generated)
	}

	supplied := uuid.NewString()
	req := httptestRequest(t, "GET", "/")
	req.Header.Set(RequestIDHeader, supplied)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); got != supplied {
		t.Errorf("request id = %q, want supplied %q", got, supplied)
	}

	req = httptestRequest(t, "GET", "/")
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("invalid client id should be replaced")
	}
}

func httptestRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}
