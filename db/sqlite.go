// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quick-rate/models"
)

// Mirror copies every answer row into a local SQLite file so the data can be
// queried without parsing the CSV. The CSV stays the record of truth; the
// mirror is rebuildable from it.
type Mirror struct {
	db *sql.DB
}

// Open connects to (or creates) the SQLite file and ensures the schema.
func Open(path string) (*Mirror, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite mirror: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite mirror ping failed: %w", err)
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Mirror{db: conn}, nil
}

func (m *Mirror) Close() error {
	return m.db.Close()
}

// InsertRows writes one answer record per (item, question) pair plus the
// page-scoped answers, all in one transaction per submission batch.
func (m *Mirror) InsertRows(rows []models.AnswerRow) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin mirror transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO answer (submitted_at, submission_id, coder_id, media_type,
		                    item_id, source, description, question_id, scope, value, comments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare mirror insert: %w", err)
	}
	defer stmt.Close()

	insert := func(row models.AnswerRow, qid, scope, value string) error {
		_, err := stmt.Exec(
			row.Timestamp.Format(time.RFC3339), row.SubmissionID, row.CoderID,
			row.MediaType, row.ItemID, row.Source, row.Description,
			qid, scope, value, row.Comments,
		)
		return err
	}

	for _, row := range rows {
		for qid, value := range row.ItemAnswers {
			if err := insert(row, qid, models.AppliesItem, value); err != nil {
				return fmt.Errorf("failed to insert item answer: %w", err)
			}
		}
		for qid, value := range row.PageAnswers {
			if err := insert(row, qid, models.AppliesPage, value); err != nil {
				return fmt.Errorf("failed to insert page answer: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mirror transaction: %w", err)
	}
	return nil
}

// CreateSchema creates the mirror table.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Answers, one row per (submission, item, question)
CREATE TABLE IF NOT EXISTS answer (
    id INTEGER PRIMARY KEY,
    submitted_at TEXT NOT NULL,
    submission_id TEXT NOT NULL,
    coder_id TEXT NOT NULL,
    media_type TEXT NOT NULL,
    item_id TEXT NOT NULL,
    source TEXT,
    description TEXT,
    question_id TEXT NOT NULL,
    scope TEXT NOT NULL CHECK (scope IN ('item', 'page')),
    value TEXT,
    comments TEXT
);

CREATE INDEX IF NOT EXISTS idx_answer_coder_item ON answer(coder_id, item_id);
CREATE INDEX IF NOT EXISTS idx_answer_submission ON answer(submission_id);
`
