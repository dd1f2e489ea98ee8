// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the server.

# Domain Types

  - Item: one items.csv row (item_id, source, optional description, extra columns)
  - Question: one questions.json entry (item- or page-scoped)
  - AnswerRow: one output CSV record

# Request Types

  - SubmitRequest: items with per-item answers, page-level answers, comments

# Response Types

  - SubmitResponse: status, submission_id, rows_written
  - ErrorResponse: error, message

# Constants

Media types:

	MediaImage = "image"
	MediaText  = "text"
	MediaAudio = "audio"
	MediaVideo = "video"

Coder modes:

	ModeFreeEntry = "free_entry"
	ModePseudonym = "pseudonym"

Question scopes:

	AppliesItem = "item"
	AppliesPage = "page"

Question types:

	QuestionSingleChoice = "single_choice"
	QuestionMultiChoice  = "multi_choice"
	QuestionScale        = "scale"
	QuestionText         = "text"
*/
package models
