// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quick-rate/config"
	"github.com/danielhkuo/quick-rate/session"
	"github.com/danielhkuo/quick-rate/store"
	"github.com/danielhkuo/quick-rate/web"
)

type ProgressHandler struct {
	catalog  *store.Catalog
	answers  *store.Writer
	cfg      config.Config
	renderer *web.Renderer
}

func NewProgressHandler(catalog *store.Catalog, answers *store.Writer, cfg config.Config, renderer *web.Renderer) *ProgressHandler {
	return &ProgressHandler{catalog: catalog, answers: answers, cfg: cfg, renderer: renderer}
}

// Show handles GET /progress
// Reports how far the session's coder has gotten through their assignment.
func (h *ProgressHandler) Show(w http.ResponseWriter, r *http.Request) {
	coderID, err := session.Coder(r, h.cfg.SessionSecret)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	completed := h.answers.CompletedItems(coderID)
	assigned := h.catalog.AssignedIDs(coderID)

	var total, done int
	if assigned != nil {
		total = len(assigned)
		for id := range completed {
			if assigned[id] {
				done++
			}
		}
	} else {
		total = h.catalog.GroupCount()
		done = len(completed)
	}
	remaining := total - done
	if remaining < 0 {
		remaining = 0
	}

	page := web.ProgressPage{
		ProjectName: h.cfg.ProjectName,
		CoderID:     coderID,
		Completed:   humanize.Comma(int64(done)),
		Total:       humanize.Comma(int64(total)),
		Remaining:   humanize.Comma(int64(remaining)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, "progress.html", page); err != nil {
		slog.Error("failed to render page", "template", "progress.html", "error", err)
	}
}
