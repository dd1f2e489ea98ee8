// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the annotation server.

# Handler Types

Each handler is a struct with catalog, answer store, and config dependencies:

  - LoginHandler: free-entry login and pseudonym entry
  - AnnotateHandler: next-batch selection and form rendering
  - SubmitHandler: answer persistence
  - ProgressHandler: per-coder progress

Handlers are created via constructor functions:

	annotate := handlers.NewAnnotateHandler(catalog, answers, cfg, renderer)

# Annotation Flow

A coder identifies themselves, then loops annotate → submit:

	GET  /              → Home (login form or pseudonym info)
	POST /              → Login (free_entry mode)
	GET  /c/{coder_id}  → EnterPseudonym (pseudonym mode, roster-checked)
	GET  /annotate?n=N  → ShowBatch (next unseen group, truncated to N)
	POST /submit        → Submit (one output row per item)
	GET  /progress      → Show (completed / remaining counts)

ShowBatch excludes item IDs already present for the coder in the output CSV
(unless allow_repeat) and restricts to the coder's assignment when one
exists. Submit flattens item- and page-scoped answers into item_<id> and
page_<id> columns and appends under a single writer lock.
*/
package handlers
