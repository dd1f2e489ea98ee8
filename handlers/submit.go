// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quick-rate/config"
	"github.com/danielhkuo/quick-rate/middleware"
	"github.com/danielhkuo/quick-rate/models"
	"github.com/danielhkuo/quick-rate/session"
	"github.com/danielhkuo/quick-rate/store"
)

type SubmitHandler struct {
	catalog *store.Catalog
	answers *store.Writer
	cfg     config.Config
}

func NewSubmitHandler(catalog *store.Catalog, answers *store.Writer, cfg config.Config) *SubmitHandler {
	return &SubmitHandler{catalog: catalog, answers: answers, cfg: cfg}
}

// Submit handles POST /submit
// Accepts the page's answers as JSON and appends one output row per item.
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	coderID, err := session.Coder(r, h.cfg.SessionSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No coder id")
		return
	}

	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	submissionID := session.NewSubmissionID()
	now := time.Now()
	comments := strings.TrimSpace(req.Comments)
	questions := h.catalog.Questions()

	// Page-level answers repeat on every row of the submission.
	pageAnswers := make(map[string]string)
	for _, q := range questions {
		if q.AppliesTo == models.AppliesPage {
			pageAnswers[q.ID] = models.FlattenAnswer(req.PageAnswers[q.ID])
		}
	}

	rows := make([]models.AnswerRow, 0, len(req.Items))
	for _, it := range req.Items {
		row := models.AnswerRow{
			Timestamp:    now,
			SubmissionID: submissionID,
			CoderID:      coderID,
			MediaType:    h.cfg.MediaType,
			ItemID:       models.FlattenAnswer(it.ItemRow["item_id"]),
			Source:       models.FlattenAnswer(it.ItemRow["source"]),
			Description:  models.FlattenAnswer(it.ItemRow["description"]),
			ItemAnswers:  make(map[string]string),
			PageAnswers:  pageAnswers,
			Comments:     comments,
		}
		if row.ItemID == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "item_row.item_id is required")
			return
		}
		for _, q := range questions {
			if q.AppliesTo == models.AppliesItem {
				row.ItemAnswers[q.ID] = models.FlattenAnswer(it.Answers[q.ID])
			}
		}
		rows = append(rows, row)
	}

	if err := h.answers.Append(rows); err != nil {
		slog.Error("failed to append answers", "coder_id", coderID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save answers")
		return
	}

	slog.Info("submission recorded",
		"coder_id", coderID,
		"submission_id", submissionID,
		"rows", len(rows),
	)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{
		Status:       "success",
		SubmissionID: submissionID,
		RowsWritten:  len(rows),
	})
}
