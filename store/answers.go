// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/quick-rate/db"
	"github.com/danielhkuo/quick-rate/models"
)

// baseColumns always lead the output header, in this order.
var baseColumns = []string{
	"timestamp",
	"submission_id",
	"coder_id",
	"media_type",
	"item_id",
	"source",
	"description",
}

// Writer appends answer rows to the output CSV. The header is fixed at
// construction so appends from different batches never shear columns; when
// the file already has a header, that header wins. A single mutex covers
// appends and completed-set reads because coders submit concurrently.
type Writer struct {
	mu     sync.Mutex
	path   string
	header []string
	mirror *db.Mirror // optional SQLite mirror, may be nil
}

// NewWriter derives the output header from the questionnaire (or adopts an
// existing file's header) and wires the optional SQLite mirror.
func NewWriter(path string, questions []models.Question, mirror *db.Mirror) (*Writer, error) {
	header, err := existingHeader(path)
	if err != nil {
		return nil, err
	}
	if header == nil {
		header = deriveHeader(questions)
	}
	return &Writer{path: path, header: header, mirror: mirror}, nil
}

// Header returns the output column names.
func (w *Writer) Header() []string {
	out := make([]string, len(w.header))
	copy(out, w.header)
	return out
}

// Append writes one CSV record per answer row, adding the header when the
// file is new or empty. Rows are mirrored to SQLite best-effort: a mirror
// failure is logged, never surfaced, because the CSV is the record of truth.
func (w *Writer) Append(rows []models.AnswerRow) error {
	if len(rows) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat output file: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(w.header); err != nil {
			return fmt.Errorf("failed to write output header: %w", err)
		}
	}
	for _, row := range rows {
		rec := make([]string, len(w.header))
		for i, field := range w.header {
			rec[i] = fieldValue(row, field)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	if w.mirror != nil {
		if err := w.mirror.InsertRows(rows); err != nil {
			slog.Warn("sqlite mirror insert failed", "error", err)
		}
	}
	return nil
}

// CompletedItems returns the item IDs this coder has already submitted.
// A missing or empty output file means none; an unreadable one logs a
// warning and likewise returns none, so annotation can continue.
func (w *Writer) CompletedItems(coderID string) map[string]bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	done := make(map[string]bool)

	f, err := os.Open(w.path)
	if err != nil {
		return done
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return done
	}
	coderIdx, okC := indexOf(header, "coder_id")
	itemIdx, okI := indexOf(header, "item_id")
	if !okC || !okI {
		return done
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("could not read output file for progress", "path", w.path, "error", err)
			break
		}
		if coderIdx >= len(rec) || itemIdx >= len(rec) {
			continue
		}
		if rec[coderIdx] == coderID && rec[itemIdx] != "" {
			done[rec[itemIdx]] = true
		}
	}
	return done
}

// deriveHeader builds the stable output header: base columns, then item- and
// page-scoped question columns in sorted order, then comments. Question
// columns that would collide with a base column are skipped.
func deriveHeader(questions []models.Question) []string {
	base := make(map[string]bool, len(baseColumns))
	for _, c := range baseColumns {
		base[c] = true
	}

	var itemCols, pageCols []string
	for _, q := range questions {
		var name string
		switch q.AppliesTo {
		case models.AppliesItem:
			name = "item_" + q.ID
			if !base[name] {
				itemCols = append(itemCols, name)
			}
		case models.AppliesPage:
			name = "page_" + q.ID
			if !base[name] {
				pageCols = append(pageCols, name)
			}
		}
	}
	sort.Strings(itemCols)
	sort.Strings(pageCols)

	header := make([]string, 0, len(baseColumns)+len(itemCols)+len(pageCols)+1)
	header = append(header, baseColumns...)
	header = append(header, itemCols...)
	header = append(header, pageCols...)
	header = append(header, "comments")
	return header
}

// existingHeader returns the header of a non-empty output file, or nil when
// the file is missing or empty.
func existingHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read output header: %w", err)
	}
	return header, nil
}

func fieldValue(row models.AnswerRow, field string) string {
	switch field {
	case "timestamp":
		return row.Timestamp.Format(time.RFC3339)
	case "submission_id":
		return row.SubmissionID
	case "coder_id":
		return row.CoderID
	case "media_type":
		return row.MediaType
	case "item_id":
		return row.ItemID
	case "source":
		return row.Source
	case "description":
		return row.Description
	case "comments":
		return row.Comments
	}
	if qid, ok := strings.CutPrefix(field, "item_"); ok {
		return row.ItemAnswers[qid]
	}
	if qid, ok := strings.CutPrefix(field, "page_"); ok {
		return row.PageAnswers[qid]
	}
	return ""
}
