// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/quick-rate/config"
	"github.com/danielhkuo/quick-rate/session"
	"github.com/danielhkuo/quick-rate/store"
	"github.com/danielhkuo/quick-rate/web"
)

// TestSecret is the session secret used across tests.
const TestSecret = "test-session-secret"

// DefaultItemsCSV has three single-row groups plus extra columns.
const DefaultItemsCSV = `item_id,source,description,topic
i1,img/a.png,First image,animals
i2,img/b.png,Second image,animals
i3,img/c.png,Third image,plants
`

// DefaultQuestionsJSON has two item-scoped questions and one page-scoped.
const DefaultQuestionsJSON = `[
  {"id": "quality", "label": "Overall quality", "type": "single_choice",
   "options": ["good", "bad"], "applies_to": "item", "required": true},
  {"id": "tags", "label": "Tags", "type": "multi_choice",
   "options": ["cat", "dog"], "applies_to": "item"},
  {"id": "difficulty", "label": "Page difficulty", "type": "scale",
   "applies_to": "page"}
]`

// WriteFile writes content under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// ProjectConfig builds a config over default fixture files in a temp dir.
// Shuffle is off so selection order is deterministic.
func ProjectConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	shuffle := false
	cfg := config.Config{
		Port:          5000,
		SessionSecret: TestSecret,
		ProjectName:   "Test Project",
		MediaType:     "image",
		ItemsFile:     WriteFile(t, dir, "items.csv", DefaultItemsCSV),
		QuestionsFile: WriteFile(t, dir, "questions.json", DefaultQuestionsJSON),
		BatchSize:     5,
		ShuffleItems:  &shuffle,
		OutputCSV:     filepath.Join(dir, "ratings.csv"),
		CoderMode:     "free_entry",
		CodersFile:    filepath.Join(dir, "coders.csv"),
	}
	return cfg
}

// NewCatalog loads a catalog or fails the test.
func NewCatalog(t *testing.T, cfg config.Config) *store.Catalog {
	t.Helper()
	cat, err := store.NewCatalog(cfg)
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	return cat
}

// NewWriter builds an answer writer over the config's output path.
func NewWriter(t *testing.T, cfg config.Config, cat *store.Catalog) *store.Writer {
	t.Helper()
	w, err := store.NewWriter(cfg.OutputCSV, cat.Questions(), nil)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	return w
}

// NewRenderer parses the embedded templates or fails the test.
func NewRenderer(t *testing.T) *web.Renderer {
	t.Helper()
	r, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}
	return r
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// WithSession attaches a valid coder session cookie to the request.
func WithSession(req *http.Request, coderID string) *http.Request {
	req.AddCookie(&http.Cookie{
		Name:  session.CookieName,
		Value: session.Token(coderID, TestSecret),
	})
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
