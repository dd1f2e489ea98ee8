// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Media type constants
const (
	MediaImage = "image"
	MediaText  = "text"
	MediaAudio = "audio"
	MediaVideo = "video"
)

// Coder mode constants
const (
	ModeFreeEntry = "free_entry"
	ModePseudonym = "pseudonym"
)

// Question scope constants
const (
	AppliesItem = "item"
	AppliesPage = "page"
)

// Question type constants
const (
	QuestionSingleChoice = "single_choice"
	QuestionMultiChoice  = "multi_choice"
	QuestionScale        = "scale"
	QuestionText         = "text"
)

// Domain types

// Item is one row of items.csv. ID and Source are mandatory; every other
// column is preserved in Fields. Rows sharing an ID form one group and are
// presented together.
type Item struct {
	ID          string            `json:"item_id"`
	Source      string            `json:"source"`
	Description string            `json:"description,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`

	// DisplayText is filled for text projects when Source names a readable
	// file; otherwise Source itself is shown inline.
	DisplayText string `json:"display_text,omitempty"`
}

// Question is one entry of questions.json.
type Question struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Type      string   `json:"type"`
	Options   []string `json:"options,omitempty"`
	AppliesTo string   `json:"applies_to"`
	Required  bool     `json:"required,omitempty"`
}

// AnswerRow is one record of the output CSV: one annotated item within one
// submission. ItemAnswers and PageAnswers are keyed by question ID with
// values already flattened to strings.
type AnswerRow struct {
	Timestamp    time.Time
	SubmissionID string
	CoderID      string
	MediaType    string
	ItemID       string
	Source       string
	Description  string
	ItemAnswers  map[string]string
	PageAnswers  map[string]string
	Comments     string
}

// Request types

type SubmitRequest struct {
	Items       []SubmitItem   `json:"items"`
	PageAnswers map[string]any `json:"page_answers"`
	Comments    string         `json:"comments"`
}

// item_row echoes the item as rendered; answers maps question ID to a
// string, number, or list of strings (multi-choice).
type SubmitItem struct {
	ItemRow map[string]any `json:"item_row"`
	Answers map[string]any `json:"answers"`
}

// Response types

type SubmitResponse struct {
	Status       string `json:"status"`
	SubmissionID string `json:"submission_id"`
	RowsWritten  int    `json:"rows_written"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FlattenAnswer converts a decoded JSON answer value to its CSV cell form.
// Lists are joined with commas, matching the output format of the rest of
// the row; numbers drop the float64 JSON artifact.
func FlattenAnswer(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, FlattenAnswer(e))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", t)
	}
}
