// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quick-rate/models"
	"github.com/danielhkuo/quick-rate/testutil"
)

func TestShowBatchRequiresSession(t *testing.T) {
	cfg, cat, writer, renderer := setupProject(t)
	h := NewAnnotateHandler(cat, writer, cfg, renderer)

	w := httptest.NewRecorder()
	h.ShowBatch(w, testutil.MakeRequest("GET", "/annotate", nil, nil))

	testutil.AssertStatus(t, w, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestShowBatchRendersForm(t *testing.T) {
	cfg, cat, writer, renderer := setupProject(t)
	h := NewAnnotateHandler(cat, writer, cfg, renderer)

	w := httptest.NewRecorder()
	h.ShowBatch(w, testutil.WithSession(testutil.MakeRequest("GET", "/annotate", nil, nil), "alice"))

	testutil.AssertStatus(t, w, http.StatusOK)
	body := w.Body.String()
	// Shuffle is off, so the first group (i1) is served.
	if !strings.Contains(body, "img/a.png") {
		t.Error("first item not rendered")
	}
	if !strings.Contains(body, "Overall quality") {
		t.Error("item question not rendered")
	}
	if !strings.Contains(body, "Page difficulty") {
		t.Error("page question not rendered")
	}
	if !strings.Contains(body, "alice") {
		t.Error("coder id not rendered")
	}
}

func TestShowBatchSkipsCompletedGroups(t *testing.T) {
	cfg, cat, writer, renderer := setupProject(t)
	h := NewAnnotateHandler(cat, writer, cfg, renderer)

	row := models.AnswerRow{
		Timestamp: time.Now(), SubmissionID: "s1", CoderID: "alice",
		MediaType: "image", ItemID: "i1", Source: "img/a.png",
		ItemAnswers: map[string]string{}, PageAnswers: map[string]string{},
	}
	if err := writer.Append([]models.AnswerRow{row}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	w := httptest.NewRecorder()
	h.ShowBatch(w, testutil.WithSession(testutil.MakeRequest("GET", "/annotate", nil, nil), "alice"))

	body := w.Body.String()
	if strings.Contains(body, "img/a.png") {
		t.Error("completed group i1 was served again")
	}
	if !strings.Contains(body, "img/b.png") {
		t.Error("next group i2 not served")
	}
}

func TestShowBatchDoneWhenExhausted(t *testing.T) {
	cfg, cat, writer, renderer := setupProject(t)
	h := NewAnnotateHandler(cat, writer, cfg, renderer)

	var rows []models.AnswerRow
	for _, id := range []string{"i1", "i2", "i3"} {
		rows = append(rows, models.AnswerRow{
			Timestamp: time.Now(), SubmissionID: "s1", CoderID: "alice",
			MediaType: "image", ItemID: id,
			ItemAnswers: map[string]string{}, PageAnswers: map[string]string{},
		})
	}
	if err := writer.Append(rows); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	w := httptest.NewRecorder()
	h.ShowBatch(w, testutil.WithSession(testutil.MakeRequest("GET", "/annotate", nil, nil), "alice"))

	if !strings.Contains(w.Body.String(), "No more items") {
		t.Error("exhausted coder should see the done page")
	}
}

func TestShowBatchTruncatesToBatchSize(t *testing.T) {
	cfg, _, _, renderer := setupProject(t)
	cfg.ItemsFile = testutil.WriteFile(t, filepath.Dir(cfg.ItemsFile), "big_group.csv", `item_id,source
g1,a.png
g1,b.png
g1,c.png
g1,d.png
`)
	cat := testutil.NewCatalog(t, cfg)
	writer := testutil.NewWriter(t, cfg, cat)
	h := NewAnnotateHandler(cat, writer, cfg, renderer)

	// ?n=2 overrides the batch size.
	w := httptest.NewRecorder()
	h.ShowBatch(w, testutil.WithSession(testutil.MakeRequest("GET", "/annotate?n=2", nil, nil), "alice"))

	body := w.Body.String()
	if got := strings.Count(body, `<section class="item"`); got != 2 {
		t.Errorf("rendered %d item sections, want 2", got)
	}
}

func TestShowBatchPageDescription(t *testing.T) {
	cfg, cat, writer, renderer := setupProject(t)
	h := NewAnnotateHandler(cat, writer, cfg, renderer)

	w := httptest.NewRecorder()
	h.ShowBatch(w, testutil.WithSession(testutil.MakeRequest("GET", "/annotate", nil, nil), "alice"))

	// Default column is description; first group's value is "First image".
	if !strings.Contains(w.Body.String(), "<h3>First image</h3>") {
		t.Error("page description block not rendered from description column")
	}
}

func TestShowBatchTextMedia(t *testing.T) {
	cfg, _, _, renderer := setupProject(t)
	dir := filepath.Dir(cfg.ItemsFile)
	passage := testutil.WriteFile(t, dir, "passage.txt", "read me carefully")
	cfg.MediaType = models.MediaText
	cfg.ItemsFile = testutil.WriteFile(t, dir, "text_items.csv",
		"item_id,source\nt1,"+passage+"\nt2,just inline words\n")
	cat := testutil.NewCatalog(t, cfg)
	writer := testutil.NewWriter(t, cfg, cat)
	h := NewAnnotateHandler(cat, writer, cfg, renderer)

	w := httptest.NewRecorder()
	h.ShowBatch(w, testutil.WithSession(testutil.MakeRequest("GET", "/annotate", nil, nil), "alice"))

	if !strings.Contains(w.Body.String(), "read me carefully") {
		t.Error("file-backed text source not inlined")
	}
}
