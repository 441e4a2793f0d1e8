// Package notiontest provides an in-memory Notion API for tests.
package notiontest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/appspark/waitlist/internal/notion"
)

// Server fakes the database query, page create and page update endpoints
// for a single database.
type Server struct {
	DatabaseID string

	mu       sync.Mutex
	srv      *httptest.Server
	order    []string
	pages    map[string]notion.Properties
	failures []int
	requests int
	nextID   int
}

// NewServer starts a fake API that is shut down when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		DatabaseID: "test-db",
		pages:      make(map[string]notion.Properties),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API base URL to hand to notion.WithBaseURL.
func (s *Server) URL() string {
	return s.srv.URL
}

// Client returns a notion client pointed at the fake.
func (s *Server) Client() *notion.Client {
	return notion.NewClient("secret_test", notion.WithBaseURL(s.srv.URL), notion.WithHTTPClient(s.srv.Client()))
}

// FailNext makes the next request respond with status instead of being
// served. Calls queue.
func (s *Server) FailNext(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, status)
}

// Requests returns how many requests the fake received.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Seed inserts a page directly and returns its id.
func (s *Server) Seed(props notion.Properties) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(props)
}

// Page returns a copy of a page's properties.
func (s *Server) Page(id string) (notion.Properties, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	props, ok := s.pages[id]
	if !ok {
		return nil, false
	}
	out := make(notion.Properties, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out, true
}

// Len returns the number of pages.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Server) insert(props notion.Properties) string {
	s.nextID++
	id := fmt.Sprintf("page-%d", s.nextID)
	s.order = append(s.order, id)
	s.pages[id] = props
	return id
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests++

	if len(s.failures) > 0 {
		status := s.failures[0]
		s.failures = s.failures[1:]
		writeError(w, status, "injected failure")
		return
	}

	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeError(w, http.StatusUnauthorized, "API token is invalid.")
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/databases/"+s.DatabaseID+"/query":
		s.handleQuery(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/pages":
		s.handleCreate(w, r)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/pages/"):
		s.handleUpdate(w, r, strings.TrimPrefix(r.URL.Path, "/pages/"))
	default:
		writeError(w, http.StatusNotFound, "Could not find object")
	}
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter      *notion.Filter `json:"filter"`
		StartCursor string         `json:"start_cursor"`
		PageSize    int            `json:"page_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var matched []notion.Page
	for _, id := range s.order {
		props := s.pages[id]
		if req.Filter != nil && req.Filter.Email != nil {
			if props[req.Filter.Property].EmailValue() != req.Filter.Email.Equals {
				continue
			}
		}
		matched = append(matched, notion.Page{ID: id, Properties: props})
	}

	start := 0
	if req.StartCursor != "" {
		start, _ = strconv.Atoi(req.StartCursor)
	}
	size := req.PageSize
	if size <= 0 || size > 100 {
		size = 100
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	resp := map[string]any{
		"object":   "list",
		"results":  nonNilPages(matched[start:end]),
		"has_more": end < len(matched),
	}
	if end < len(matched) {
		resp["next_cursor"] = strconv.Itoa(end)
	} else {
		resp["next_cursor"] = nil
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Parent struct {
			DatabaseID string `json:"database_id"`
		} `json:"parent"`
		Properties notion.Properties `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Parent.DatabaseID != s.DatabaseID {
		writeError(w, http.StatusNotFound, "Could not find database")
		return
	}

	id := s.insert(req.Properties)
	writeJSON(w, http.StatusOK, notion.Page{ID: id, Properties: req.Properties})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	props, ok := s.pages[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Could not find page")
		return
	}

	var req struct {
		Properties notion.Properties `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for k, v := range req.Properties {
		props[k] = v
	}
	writeJSON(w, http.StatusOK, notion.Page{ID: id, Properties: props})
}

func nonNilPages(p []notion.Page) []notion.Page {
	if p == nil {
		return []notion.Page{}
	}
	return p
}

func writeError(w http.ResponseWriter, status int, msg string) {
	code := "internal_server_error"
	switch status {
	case http.StatusTooManyRequests:
		code = "rate_limited"
	case http.StatusNotFound:
		code = "object_not_found"
	case http.StatusBadRequest:
		code = "validation_error"
	case http.StatusUnauthorized:
		code = "unauthorized"
	}
	writeJSON(w, status, map[string]any{
		"object":  "error",
		"status":  status,
		"code":    code,
		"message": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
