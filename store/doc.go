// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store loads the project inputs and persists coder answers.

# Catalog

Catalog reads items.csv, questions.json, and the coder/assignment files into
one immutable snapshot behind an RWMutex:

	cat, err := store.NewCatalog(cfg)
	itemID, group := cat.NextGroup(coderID, completed)

NextGroup restricts to assigned item IDs when an assignment exists, excludes
IDs the coder already completed (unless allow_repeat), and picks randomly
when shuffle_items is on. Watcher reloads the catalog when an input file
changes, so a running session picks up edits without a restart.

# Answers

Writer appends one CSV record per annotated item. The header is derived once
from the questionnaire (base columns, item_ and page_ question columns,
comments); if the output file already carries a header, that header wins so
appends never shear. CompletedItems scans the output for a coder's submitted
item IDs. When output_sqlite is configured, every appended row is mirrored
into SQLite for downstream analysis.
*/
package store
