// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides the optional SQLite mirror of the answers CSV.

When output_sqlite is set in config.yaml, each submitted batch is also
written to a local SQLite file (modernc.org/sqlite, no cgo) as one row per
(submission, item, question). The CSV remains the record of truth; the
mirror exists so results can be queried with SQL instead of spreadsheet
tooling.
*/
package db
