package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"linkhub/internal/testutil"
)

// client replays session cookies between requests like a browser would.
type client struct {
	t       *testing.T
	s       *Server
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, s: s, cookies: make(map[string]*http.Cookie)}
}

func (cl *client) do(method, path, body string) (int, map[string]any) {
	cl.t.Helper()

	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}

	resp, err := cl.s.App.Test(req)
	if err != nil {
		cl.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	for _, c := range resp.Cookies() {
		cl.cookies[c.Name] = c
	}

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		cl.t.Fatalf("%s %s: invalid JSON %q", method, path, raw)
	}
	return resp.StatusCode, decoded
}

func dataMap(body map[string]any) map[string]any {
	m, _ := body["data"].(map[string]any)
	return m
}

func TestFlow_ShareLikeDelete(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := New(testConfig())
	if err := s.RegisterRoutes(context.Background(), database, nil); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	alice := newClient(t, s)
	status, body := alice.do("POST", "/api/register",
		`{"username":"alice","email":"alice@x.com","password":"pw1","full_name":"Alice A"}`)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d, body = %v", status, body)
	}
	if dataMap(body)["id"] != float64(1) {
		t.Errorf("first user id = %v, want 1", dataMap(body)["id"])
	}
	if _, leaked := dataMap(body)["password_hash"]; leaked {
		t.Error("register response leaks password hash")
	}

	status, body = alice.do("POST", "/api/register",
		`{"username":"alice","email":"other@x.com","password":"pw2","full_name":"Alice B"}`)
	if status != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", status)
	}

	status, body = alice.do("POST", "/api/links",
		`{"title":"Go","url":"https://go.dev","category_id":1}`)
	if status != http.StatusCreated {
		t.Fatalf("create link status = %d, body = %v", status, body)
	}
	linkID := int64(dataMap(body)["id"].(float64))

	status, body = alice.do("POST", "/api/links",
		`{"title":"Secret","url":"https://example.com/s","category_id":1,"is_sensitive":true}`)
	if status != http.StatusCreated {
		t.Fatalf("create sensitive link status = %d, body = %v", status, body)
	}
	sensitiveID := int64(dataMap(body)["id"].(float64))

	// Anonymous visitors see only the non-sensitive link.
	anon := newClient(t, s)
	status, body = anon.do("GET", "/api/links", "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if links, _ := body["data"].([]any); len(links) != 1 {
		t.Errorf("anonymous list returned %d links, want 1", len(links))
	}
	if status, _ = anon.do("GET", fmt.Sprintf("/api/links/%d", sensitiveID), ""); status != http.StatusNotFound {
		t.Errorf("anonymous get sensitive status = %d, want 404", status)
	}
	if status, _ = alice.do("GET", fmt.Sprintf("/api/links/%d", sensitiveID), ""); status != http.StatusOK {
		t.Errorf("owner get sensitive status = %d, want 200", status)
	}

	bob := newClient(t, s)
	bob.do("POST", "/api/register", `{"username":"bob","email":"bob@x.com","password":"pw","full_name":"Bob"}`)

	likePath := fmt.Sprintf("/api/links/%d/like", linkID)
	status, body = bob.do("POST", likePath, "")
	if status != http.StatusOK || dataMap(body)["applied"] != true {
		t.Errorf("first like = %d %v, want applied", status, body)
	}
	status, body = bob.do("POST", likePath, "")
	if status != http.StatusOK || dataMap(body)["applied"] != false {
		t.Errorf("second like = %d %v, want not applied", status, body)
	}

	status, body = bob.do("GET", "/api/feed", "")
	if status != http.StatusOK {
		t.Fatalf("feed status = %d", status)
	}
	feed := dataMap(body)
	if likes, _ := feed["user_likes"].([]any); len(likes) != 1 {
		t.Errorf("feed user_likes = %v, want one entry", feed["user_likes"])
	}
	categories, _ := feed["categories"].([]any)
	if len(categories) != 1 {
		t.Fatalf("feed categories = %v, want one", categories)
	}
	links, _ := categories[0].(map[string]any)["links"].([]any)
	if len(links) != 1 || links[0].(map[string]any)["likes_count"] != float64(1) {
		t.Errorf("feed links = %v, want one link with one like", links)
	}

	deletePath := fmt.Sprintf("/api/links/%d", linkID)
	if status, _ = bob.do("DELETE", deletePath, ""); status != http.StatusForbidden {
		t.Errorf("non-owner delete status = %d, want 403", status)
	}
	if status, _ = alice.do("DELETE", deletePath, ""); status != http.StatusOK {
		t.Errorf("owner delete status = %d, want 200", status)
	}
	if status, _ = bob.do("POST", likePath, ""); status != http.StatusNotFound {
		t.Errorf("like deleted link status = %d, want 404", status)
	}

	status, body = bob.do("GET", "/api/profile", "")
	if status != http.StatusOK {
		t.Fatalf("profile status = %d", status)
	}
	if likes, _ := dataMap(body)["user_likes"].([]any); len(likes) != 0 {
		t.Errorf("likes survived delete: %v", likes)
	}
}

func TestFlow_SupportRequests(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := New(testConfig())
	if err := s.RegisterRoutes(context.Background(), database, nil); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	userID := testutil.CreateTestUser(t, database, "carol")
	testutil.CreateTestLink(t, database, userID, "mine", false)

	carol := newClient(t, s)
	if status, body := carol.do("POST", "/api/login", `{"username":"carol","password":"password"}`); status != http.StatusOK {
		t.Fatalf("login status = %d, body = %v", status, body)
	}
	if status, _ := newClient(t, s).do("POST", "/api/login", `{"username":"carol","password":"nope"}`); status != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", status)
	}

	status, body := carol.do("POST", "/api/contact",
		`{"type":"report","subject":"Spam","message":"bad link","content_reference":"link 3"}`)
	if status != http.StatusCreated {
		t.Fatalf("contact status = %d, body = %v", status, body)
	}

	if status, _ = carol.do("POST", "/api/contact", `{"subject":"","message":""}`); status != http.StatusBadRequest {
		t.Errorf("empty contact status = %d, want 400", status)
	}

	status, body = carol.do("POST", "/api/data-removal", `{"removal_type":"account"}`)
	if status != http.StatusBadRequest || body["error"] != "Please confirm the data removal request" {
		t.Errorf("unconfirmed removal = %d %v", status, body)
	}

	status, body = carol.do("POST", "/api/data-removal",
		`{"removal_type":"specific","specific_links":[1],"confirmation":true}`)
	if status != http.StatusCreated {
		t.Fatalf("removal status = %d, body = %v", status, body)
	}
	if !strings.Contains(dataMap(body)["message"].(string), "specific links") {
		t.Errorf("removal message = %v", dataMap(body)["message"])
	}

	status, body = carol.do("GET", "/api/my-requests", "")
	if status != http.StatusOK {
		t.Fatalf("my-requests status = %d", status)
	}
	requests := dataMap(body)
	if contacts, _ := requests["contact_requests"].([]any); len(contacts) != 1 {
		t.Errorf("contact_requests = %v, want 1", requests["contact_requests"])
	}
	if removals, _ := requests["removal_requests"].([]any); len(removals) != 1 {
		t.Errorf("removal_requests = %v, want 1", requests["removal_requests"])
	}
}

func TestFlow_CreateLinkWithFormCategoryID(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := New(testConfig())
	if err := s.RegisterRoutes(context.Background(), database, nil); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	cl := newClient(t, s)
	if status, body := cl.do("POST", "/api/register",
		`{"username":"carol","email":"carol@x.com","password":"pw1","full_name":"Carol"}`); status != http.StatusCreated {
		t.Fatalf("register status = %d, body = %v", status, body)
	}

	status, body := cl.do("POST", "/api/links", `{"title":"T","url":"http://x.com","category_id":"2"}`)
	if status != http.StatusCreated {
		t.Fatalf("create link status = %d, body = %v", status, body)
	}
	if got := dataMap(body)["category_id"]; got != float64(2) {
		t.Errorf("category_id = %v, want 2", got)
	}

	if status, _ = cl.do("POST", "/api/links", `{"title":"T","url":"http://x.com","category_id":"two"}`); status != http.StatusBadRequest {
		t.Errorf("non-numeric category_id status = %d, want 400", status)
	}
}
