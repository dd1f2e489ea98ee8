// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/danielhkuo/quick-rate/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer holds the parsed page templates.
type Renderer struct {
	tpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render executes the named template.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if err := r.tpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// Page data

type LoginPage struct {
	ProjectName string
	Error       string
}

type InfoPage struct {
	ProjectName string
}

// AnnotateItem pairs an item with the JSON echo of its row that the submit
// payload carries back.
type AnnotateItem struct {
	models.Item
	RowJSON string
}

type AnnotatePage struct {
	ProjectName    string
	CoderID        string
	MediaType      string
	Items          []AnnotateItem
	ItemQuestions  []models.Question
	PageQuestions  []models.Question
	PageHeaderHTML template.HTML
	PageDescHTML   template.HTML
	AllowSkip      bool
}

type DonePage struct {
	ProjectName string
	CoderID     string
}

type ProgressPage struct {
	ProjectName string
	CoderID     string
	Completed   string // humanized counts
	Total       string
	Remaining   string
}
