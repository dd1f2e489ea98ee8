// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quick-rate/config"
	"github.com/danielhkuo/quick-rate/models"
	"github.com/danielhkuo/quick-rate/session"
	"github.com/danielhkuo/quick-rate/store"
	"github.com/danielhkuo/quick-rate/web"
)

type LoginHandler struct {
	catalog  *store.Catalog
	cfg      config.Config
	renderer *web.Renderer
}

func NewLoginHandler(catalog *store.Catalog, cfg config.Config, renderer *web.Renderer) *LoginHandler {
	return &LoginHandler{catalog: catalog, cfg: cfg, renderer: renderer}
}

// Home handles GET /
// Free-entry projects get the login form; pseudonym projects get an info page.
func (h *LoginHandler) Home(w http.ResponseWriter, r *http.Request) {
	if h.cfg.CoderMode == models.ModeFreeEntry {
		h.renderPage(w, "login.html", web.LoginPage{ProjectName: h.cfg.ProjectName})
		return
	}
	h.renderPage(w, "info.html", web.InfoPage{ProjectName: h.cfg.ProjectName})
}

// Login handles POST /
// Free-entry mode only: reads the coder_id form field and starts a session.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.cfg.CoderMode != models.ModeFreeEntry {
		http.Error(w, "This project does not use free-entry login.", http.StatusBadRequest)
		return
	}

	coderID := strings.TrimSpace(r.FormValue("coder_id"))
	if coderID == "" {
		http.Error(w, "Coder ID required", http.StatusBadRequest)
		return
	}

	session.Set(w, coderID, h.cfg.SessionSecret)
	slog.Info("coder logged in", "coder_id", coderID)
	http.Redirect(w, r, "/annotate", http.StatusSeeOther)
}

// EnterPseudonym handles GET /c/{coder_id}
// Pseudonym mode only: validates the coder against the roster when one
// exists and starts a session.
func (h *LoginHandler) EnterPseudonym(w http.ResponseWriter, r *http.Request) {
	if h.cfg.CoderMode != models.ModePseudonym {
		http.Error(w, "This project is not using pseudonyms.", http.StatusBadRequest)
		return
	}

	coderID := r.PathValue("coder_id")
	if coderID == "" {
		http.Error(w, "Coder ID required", http.StatusBadRequest)
		return
	}
	if !h.catalog.InRoster(coderID) {
		slog.Warn("rejected unknown pseudonym", "coder_id", coderID)
		http.Error(w, "Unauthorized coder ID", http.StatusForbidden)
		return
	}

	session.Set(w, coderID, h.cfg.SessionSecret)
	slog.Info("coder entered via pseudonym", "coder_id", coderID)
	http.Redirect(w, r, "/annotate", http.StatusSeeOther)
}

func (h *LoginHandler) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, name, data); err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
	}
}
