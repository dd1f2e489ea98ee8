// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielhkuo/quick-rate/config"
	"github.com/danielhkuo/quick-rate/models"
	"github.com/danielhkuo/quick-rate/session"
	"github.com/danielhkuo/quick-rate/store"
	"github.com/danielhkuo/quick-rate/testutil"
	"github.com/danielhkuo/quick-rate/web"
)

// setupProject builds the fixture catalog, writer, and renderer shared by
// the handler tests.
func setupProject(t *testing.T) (config.Config, *store.Catalog, *store.Writer, *web.Renderer) {
	t.Helper()
	cfg := testutil.ProjectConfig(t)
	cat := testutil.NewCatalog(t, cfg)
	w := testutil.NewWriter(t, cfg, cat)
	r := testutil.NewRenderer(t)
	return cfg, cat, w, r
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHomeFreeEntry(t *testing.T) {
	cfg, cat, _, renderer := setupProject(t)
	h := NewLoginHandler(cat, cfg, renderer)

	w := httptest.NewRecorder()
	h.Home(w, testutil.MakeRequest("GET", "/", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `name="coder_id"`) {
		t.Error("free-entry home should render the login form")
	}
}

func TestHomePseudonym(t *testing.T) {
	cfg, cat, _, renderer := setupProject(t)
	cfg.CoderMode = models.ModePseudonym
	h := NewLoginHandler(cat, cfg, renderer)

	w := httptest.NewRecorder()
	h.Home(w, testutil.MakeRequest("GET", "/", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "pseudonym") {
		t.Error("pseudonym home should render the info page")
	}
}

func TestLogin(t *testing.T) {
	cfg, cat, _, renderer := setupProject(t)
	h := NewLoginHandler(cat, cfg, renderer)

	tests := []struct {
		name       string
		coderID    string
		wantStatus int
	}{
		{"valid coder", "alice", http.StatusSeeOther},
		{"trims whitespace", "  bob  ", http.StatusSeeOther},
		{"empty coder", "", http.StatusBadRequest},
		{"whitespace only", "   ", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Login(w, postForm("/", url.Values{"coder_id": {tt.coderID}}))

			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus != http.StatusSeeOther {
				return
			}
			if loc := w.Header().Get("Location"); loc != "/annotate" {
				t.Errorf("Location = %q, want /annotate", loc)
			}
			c := sessionCookie(t, w)
			coderID, err := session.Parse(c.Value, cfg.SessionSecret)
			if err != nil {
				t.Fatalf("session cookie invalid: %v", err)
			}
			if coderID != strings.TrimSpace(tt.coderID) {
				t.Errorf("session coder = %q, want %q", coderID, strings.TrimSpace(tt.coderID))
			}
		})
	}
}

func TestLoginRejectedInPseudonymMode(t *testing.T) {
	cfg, cat, _, renderer := setupProject(t)
	cfg.CoderMode = models.ModePseudonym
	h := NewLoginHandler(cat, cfg, renderer)

	w := httptest.NewRecorder()
	h.Login(w, postForm("/", url.Values{"coder_id": {"alice"}}))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestEnterPseudonym(t *testing.T) {
	cfg, _, _, renderer := setupProject(t)
	cfg.CoderMode = models.ModePseudonym
	testutil.WriteFile(t, filepath.Dir(cfg.ItemsFile), "coders.csv", "coder_id\nalice\nbob\n")
	cat := testutil.NewCatalog(t, cfg)
	h := NewLoginHandler(cat, cfg, renderer)

	tests := []struct {
		name       string
		coderID    string
		wantStatus int
	}{
		{"rostered coder", "alice", http.StatusSeeOther},
		{"unknown coder", "mallory", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/c/"+tt.coderID, nil, nil)
			req.SetPathValue("coder_id", tt.coderID)
			w := httptest.NewRecorder()
			h.EnterPseudonym(w, req)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestEnterPseudonymWrongMode(t *testing.T) {
	cfg, cat, _, renderer := setupProject(t)
	h := NewLoginHandler(cat, cfg, renderer)

	req := testutil.MakeRequest("GET", "/c/alice", nil, nil)
	req.SetPathValue("coder_id", "alice")
	w := httptest.NewRecorder()
	h.EnterPseudonym(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
