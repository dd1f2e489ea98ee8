// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quick Rate annotation server.

Quick Rate is a locally-hosted web application that presents annotation
tasks (images, text, audio, video) to human coders and records their
responses to a CSV file.

# Starting the Server

The server reads its project settings from config.yaml and needs a session
secret:

	SESSION_SECRET=... go run main.go

Or with flags:

	go run main.go -p 5000 -c myproject/config.yaml --session-secret ...

A .env file in the working directory is loaded automatically.

# Project Files

  - items.csv: the task list (item_id, source, optional description,
    arbitrary extra columns; rows sharing an item_id form one group)
  - questions.json: the questionnaire (item- and page-scoped questions)
  - coders.csv / assignments.csv: optional roster and per-coder item
    assignments
  - config.yaml: display and batching settings
  - output CSV (default ratings.csv): one appended row per annotated item,
    optionally mirrored to SQLite via output_sqlite

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (login, annotate, submit, progress)
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, caching, JSON helpers
  - web: embedded HTML templates
  - store: input catalog, answer writer, file watcher
  - db: optional SQLite mirror
  - session: signed coder sessions
  - config: flags, env, and config.yaml parsing

See package documentation for each component.
*/
package main
