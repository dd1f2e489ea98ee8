// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package config parses runtime settings (flags, env, optional .env) and the
project config file (config.yaml).

Runtime settings follow flags first, then environment variables:

  - PORT (-p): server port (default: 5000)
  - CONFIG_FILE (-c): project config path (default: config.yaml)
  - SESSION_SECRET (--session-secret): secret for coder session signing, required

Project settings come from config.yaml: project_name, media_type,
items_file, questions_file, batch_size, shuffle_items, allow_repeat,
allow_skip, output_csv, output_sqlite, media_dir, page_header_html,
page_description, coder_mode, coders_file, assignments_file, watch.
Missing keys fall back to defaults; media_type and coder_mode are validated.
*/
package config
