// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"html"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/quick-rate/config"
	"github.com/danielhkuo/quick-rate/models"
	"github.com/danielhkuo/quick-rate/session"
	"github.com/danielhkuo/quick-rate/store"
	"github.com/danielhkuo/quick-rate/web"
)

type AnnotateHandler struct {
	catalog  *store.Catalog
	answers  *store.Writer
	cfg      config.Config
	renderer *web.Renderer
}

func NewAnnotateHandler(catalog *store.Catalog, answers *store.Writer, cfg config.Config, renderer *web.Renderer) *AnnotateHandler {
	return &AnnotateHandler{catalog: catalog, answers: answers, cfg: cfg, renderer: renderer}
}

// ShowBatch handles GET /annotate
// Picks the next unseen item group for the session's coder and renders the
// annotation form. ?n=N overrides the configured batch size for this page.
func (h *AnnotateHandler) ShowBatch(w http.ResponseWriter, r *http.Request) {
	coderID, err := session.Coder(r, h.cfg.SessionSecret)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	batch := h.cfg.BatchSize
	if n := r.URL.Query().Get("n"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v > 0 {
			batch = v
		}
	}

	completed := h.answers.CompletedItems(coderID)
	itemID, group := h.catalog.NextGroup(coderID, completed)
	if len(group) == 0 {
		h.renderPage(w, "done.html", web.DonePage{
			ProjectName: h.cfg.ProjectName,
			CoderID:     coderID,
		})
		return
	}
	if len(group) > batch {
		group = group[:batch]
	}

	items := make([]web.AnnotateItem, 0, len(group))
	for _, it := range group {
		if h.cfg.MediaType == models.MediaText {
			it.DisplayText = store.ReadTextSource(it.Source)
		}
		rowJSON, err := json.Marshal(it.Fields)
		if err != nil {
			slog.Error("failed to encode item row", "item_id", it.ID, "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		items = append(items, web.AnnotateItem{Item: it, RowJSON: string(rowJSON)})
	}

	var itemQuestions, pageQuestions []models.Question
	for _, q := range h.catalog.Questions() {
		switch q.AppliesTo {
		case models.AppliesItem:
			itemQuestions = append(itemQuestions, q)
		case models.AppliesPage:
			pageQuestions = append(pageQuestions, q)
		}
	}

	page := web.AnnotatePage{
		ProjectName:    h.cfg.ProjectName,
		CoderID:        coderID,
		MediaType:      h.cfg.MediaType,
		Items:          items,
		ItemQuestions:  itemQuestions,
		PageQuestions:  pageQuestions,
		PageHeaderHTML: template.HTML(h.cfg.PageHeaderHTML),
		PageDescHTML:   h.pageDescription(group),
		AllowSkip:      h.cfg.AllowSkip,
	}

	slog.Info("serving batch", "coder_id", coderID, "item_id", itemID, "rows", len(group))
	h.renderPage(w, "annotate.html", page)
}

// pageDescription builds the optional description block from the first
// non-empty value of the configured column. The template comes from trusted
// config; the cell value is escaped before substitution.
func (h *AnnotateHandler) pageDescription(group []models.Item) template.HTML {
	if !h.cfg.DescriptionEnabled() {
		return ""
	}
	col := h.cfg.DescriptionColumn()
	for _, it := range group {
		v := strings.TrimSpace(it.Fields[col])
		if v == "" {
			continue
		}
		block := strings.ReplaceAll(h.cfg.DescriptionTemplate(), "{{value}}", html.EscapeString(v))
		return template.HTML(block)
	}
	return ""
}

func (h *AnnotateHandler) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, name, data); err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
	}
}
