// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danielhkuo/quick-rate/config"
)

// Watcher reloads the catalog when an input file changes on disk. Watches
// are placed on parent directories because editors typically replace files
// rather than write them in place.
type Watcher struct {
	catalog  *Catalog
	fsw      *fsnotify.Watcher
	paths    map[string]bool // absolute input paths worth reacting to
	debounce time.Duration
	last     map[string]time.Time
}

// NewWatcher creates a watcher over the input files named by cfg.
func NewWatcher(catalog *Catalog, cfg config.Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		catalog:  catalog,
		fsw:      fsw,
		paths:    make(map[string]bool),
		debounce: 500 * time.Millisecond, // editors fire several events per save
		last:     make(map[string]time.Time),
	}

	inputs := []string{cfg.ItemsFile, cfg.QuestionsFile, cfg.CodersFile}
	if f := strings.TrimSpace(cfg.AssignmentsFile); f != "" {
		inputs = append(inputs, f)
	}

	dirs := make(map[string]bool)
	for _, p := range inputs {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			slog.Warn("failed to watch input directory", "dir", dir, "error", err)
		}
	}

	return w, nil
}

// Run processes events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !w.paths[abs] {
				continue
			}
			now := time.Now()
			if now.Sub(w.last[abs]) < w.debounce {
				continue
			}
			w.last[abs] = now

			if err := w.catalog.Reload(); err != nil {
				slog.Warn("input reload failed, keeping previous catalog", "file", abs, "error", err)
				continue
			}
			slog.Info("inputs reloaded", "file", abs)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}
