// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielhkuo/quick-rate/models"
	"github.com/danielhkuo/quick-rate/testutil"
)

// Coders submit in parallel; every row must land intact in the output file.
func TestConcurrentSubmissions(t *testing.T) {
	cfg, cat, writer, _ := setupProject(t)
	h := NewSubmitHandler(cat, writer, cfg)

	const coders = 10
	var wg sync.WaitGroup
	for i := 0; i < coders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			coderID := fmt.Sprintf("coder-%d", n)
			payload := models.SubmitRequest{
				Items: []models.SubmitItem{{
					ItemRow: map[string]any{"item_id": "i1", "source": "img/a.png"},
					Answers: map[string]any{"quality": "good"},
				}},
				PageAnswers: map[string]any{"difficulty": "2"},
			}
			req := testutil.WithSession(testutil.MakeRequest("POST", "/submit", payload, nil), coderID)
			w := httptest.NewRecorder()
			h.Submit(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("coder %d: status = %d, body = %s", n, w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	header, rows := readOutput(t, cfg.OutputCSV)
	if len(rows) != coders {
		t.Fatalf("got %d rows, want %d", len(rows), coders)
	}
	seen := make(map[string]bool)
	for _, row := range rows {
		if len(row) != len(header) {
			t.Errorf("ragged row (interleaved write?): %v", row)
		}
		seen[cellOf(t, header, row, "coder_id")] = true
	}
	if len(seen) != coders {
		t.Errorf("got rows for %d distinct coders, want %d", len(seen), coders)
	}
}

// A coder's annotate/submit loop interleaved with another coder must never
// serve a group the first coder already completed.
func TestConcurrentAnnotateAndSubmit(t *testing.T) {
	cfg, cat, writer, renderer := setupProject(t)
	annotate := NewAnnotateHandler(cat, writer, cfg, renderer)
	submit := NewSubmitHandler(cat, writer, cfg)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			coderID := fmt.Sprintf("coder-%d", n)

			for _, itemID := range []string{"i1", "i2", "i3"} {
				w := httptest.NewRecorder()
				annotate.ShowBatch(w, testutil.WithSession(
					testutil.MakeRequest("GET", "/annotate", nil, nil), coderID))
				if w.Code != http.StatusOK {
					t.Errorf("annotate status = %d", w.Code)
					return
				}

				payload := models.SubmitRequest{
					Items: []models.SubmitItem{{
						ItemRow: map[string]any{"item_id": itemID},
						Answers: map[string]any{"quality": "good"},
					}},
				}
				sw := httptest.NewRecorder()
				submit.Submit(sw, testutil.WithSession(
					testutil.MakeRequest("POST", "/submit", payload, nil), coderID))
				if sw.Code != http.StatusOK {
					t.Errorf("submit status = %d", sw.Code)
					return
				}
			}

			// All three groups done: the coder must now see the done page.
			w := httptest.NewRecorder()
			annotate.ShowBatch(w, testutil.WithSession(
				testutil.MakeRequest("GET", "/annotate", nil, nil), coderID))
			if !strings.Contains(w.Body.String(), "No more items") {
				t.Errorf("coder %s should be done", coderID)
			}
		}(i)
	}
	wg.Wait()
}
