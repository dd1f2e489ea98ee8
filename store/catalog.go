// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/danielhkuo/quick-rate/config"
	"github.com/danielhkuo/quick-rate/models"
)

var (
	ErrMissingColumns = errors.New("items file must have item_id and source columns")
	ErrDuplicateID    = errors.New("duplicate question id")
)

// snapshot is one immutable view of the project inputs. Reload swaps the
// whole snapshot so readers never see a half-loaded catalog.
type snapshot struct {
	items       []models.Item
	groupOrder  []string                   // item IDs in first-appearance order
	groups      map[string][]models.Item   // item ID -> rows sharing it
	questions   []models.Question
	roster      map[string]bool            // pseudonym roster; empty = unrestricted
	assignments map[string]map[string]bool // coder ID -> allowed item IDs
}

// Catalog holds the loaded items, questions, roster, and assignment map.
// All reads go through an RWMutex so the fsnotify reload path can swap the
// snapshot under concurrent request handlers.
type Catalog struct {
	cfg config.Config

	mu  sync.RWMutex
	cur snapshot
}

// NewCatalog loads the project inputs named by cfg. Items and questions are
// mandatory; roster and assignment sources are best-effort, matching how a
// half-configured project should still serve.
func NewCatalog(cfg config.Config) (*Catalog, error) {
	c := &Catalog{cfg: cfg}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads every input file. On failure the previous snapshot stays
// in place and the error is returned.
func (c *Catalog) Reload() error {
	items, err := loadItems(c.cfg.ItemsFile)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	questions, err := loadQuestions(c.cfg.QuestionsFile)
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	next := snapshot{
		items:       items,
		groups:      make(map[string][]models.Item),
		questions:   questions,
		roster:      make(map[string]bool),
		assignments: make(map[string]map[string]bool),
	}
	for _, it := range items {
		if _, seen := next.groups[it.ID]; !seen {
			next.groupOrder = append(next.groupOrder, it.ID)
		}
		next.groups[it.ID] = append(next.groups[it.ID], it)
	}

	// Roster only matters in pseudonym mode and the file is optional.
	if c.cfg.CoderMode == models.ModePseudonym {
		roster, err := loadRoster(c.cfg.CodersFile)
		if err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to read coders file for roster", "path", c.cfg.CodersFile, "error", err)
		} else if err == nil {
			next.roster = roster
		}
	}

	next.assignments = loadAssignments(c.cfg)

	c.mu.Lock()
	c.cur = next
	c.mu.Unlock()
	return nil
}

// Questions returns the questionnaire.
func (c *Catalog) Questions() []models.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur.questions
}

// GroupCount returns the number of distinct item groups.
func (c *Catalog) GroupCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cur.groupOrder)
}

// InRoster reports whether coderID is permitted to enter via pseudonym URL.
// An empty roster places no restriction.
func (c *Catalog) InRoster(coderID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cur.roster) == 0 || c.cur.roster[coderID]
}

// AssignedIDs returns the item IDs assigned to a coder, or nil when the
// coder has no restriction.
func (c *Catalog) AssignedIDs(coderID string) map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := c.cur.assignments[coderID]
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// NextGroup picks the next item group for a coder: restricted to assigned
// IDs when an assignment exists, excluding completed IDs unless repeats are
// allowed, randomized when shuffle_items is on. Returns "" and nil when
// nothing remains.
func (c *Catalog) NextGroup(coderID string, completed map[string]bool) (string, []models.Item) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	allowed := c.cur.assignments[coderID]

	var candidates []string
	for _, id := range c.cur.groupOrder {
		if len(allowed) > 0 && !allowed[id] {
			continue
		}
		if !c.cfg.AllowRepeat && completed[id] {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return "", nil
	}

	pick := candidates[0]
	if c.cfg.Shuffle() {
		pick = candidates[rand.IntN(len(candidates))]
	}

	group := make([]models.Item, len(c.cur.groups[pick]))
	copy(group, c.cur.groups[pick])
	return pick, group
}

func loadItems(path string) ([]models.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read items header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	// Back-compat: a 'prompt' column doubles as description.
	descCol, hasDesc := col["description"]
	renamedPrompt := false
	if !hasDesc {
		descCol, hasDesc = col["prompt"]
		renamedPrompt = hasDesc
	}

	idCol, hasID := col["item_id"]
	srcCol, hasSrc := col["source"]
	if !hasID || !hasSrc {
		return nil, ErrMissingColumns
	}

	var items []models.Item
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read items row: %w", err)
		}

		get := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		it := models.Item{
			ID:     get(idCol),
			Source: get(srcCol),
			Fields: make(map[string]string, len(header)),
		}
		if hasDesc {
			it.Description = get(descCol)
		}
		for name, i := range col {
			if renamedPrompt && name == "prompt" {
				name = "description"
			}
			it.Fields[name] = get(i)
		}
		it.Fields["item_id"] = it.ID
		it.Fields["source"] = it.Source
		items = append(items, it)
	}
	return items, nil
}

func loadQuestions(path string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}

	seen := make(map[string]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if q.ID == "" {
			return nil, fmt.Errorf("question %d has no id", i)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, q.ID)
		}
		seen[q.ID] = true
		if q.AppliesTo == "" {
			q.AppliesTo = models.AppliesItem
		}
		if q.Type == "" {
			q.Type = models.QuestionText
		}
		if q.Type == models.QuestionScale && len(q.Options) == 0 {
			q.Options = []string{"1", "2", "3", "4", "5"}
		}
	}
	return questions, nil
}

func loadRoster(path string) (map[string]bool, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, ok := indexOf(header, "coder_id")
	if !ok {
		return map[string]bool{}, nil
	}
	roster := make(map[string]bool, len(rows))
	for _, rec := range rows {
		if idx < len(rec) {
			if id := strings.TrimSpace(rec[idx]); id != "" {
				roster[id] = true
			}
		}
	}
	return roster, nil
}

// loadAssignments merges the dedicated assignments file (preferred) with an
// item_ids column in the coders file. Either source failing to parse logs a
// warning and contributes nothing.
func loadAssignments(cfg config.Config) map[string]map[string]bool {
	mapping := make(map[string]map[string]bool)

	merge := func(path string) {
		rows, header, err := readCSV(path)
		if err != nil {
			slog.Warn("failed to read assignment source", "path", path, "error", err)
			return
		}
		coderIdx, okC := indexOf(header, "coder_id")
		idsIdx, okI := indexOf(header, "item_ids")
		if !okC || !okI {
			return
		}
		for _, rec := range rows {
			if coderIdx >= len(rec) || idsIdx >= len(rec) {
				continue
			}
			coder := strings.TrimSpace(rec[coderIdx])
			ids := splitIDs(rec[idsIdx])
			if coder == "" || len(ids) == 0 {
				continue
			}
			if mapping[coder] == nil {
				mapping[coder] = make(map[string]bool, len(ids))
			}
			for _, id := range ids {
				mapping[coder][id] = true
			}
		}
	}

	if f := strings.TrimSpace(cfg.AssignmentsFile); f != "" {
		if _, err := os.Stat(f); err == nil {
			merge(f)
		}
	}
	if _, err := os.Stat(cfg.CodersFile); err == nil {
		merge(cfg.CodersFile)
	}
	return mapping
}

// splitIDs splits an item_ids cell on ';' or ','.
func splitIDs(s string) []string {
	s = strings.ReplaceAll(s, ";", ",")
	var ids []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

func readCSV(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err = r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return rows, header, nil
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, rec)
	}
}

func indexOf(header []string, name string) (int, bool) {
	for i, h := range header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// ReadTextSource resolves the display text for text projects: if src names a
// readable file its contents are returned, otherwise src is inline text.
func ReadTextSource(src string) string {
	info, err := os.Stat(src)
	if err != nil || info.IsDir() {
		return src
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Sprintf("[Error reading file: %s]", src)
	}
	return string(data)
}
