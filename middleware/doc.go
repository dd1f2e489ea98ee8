// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides request logging and JSON response helpers.

WithLogging logs method, path, status, and duration for each request.
NoCache marks form pages uncacheable so a coder never re-sees a stale batch.
JSONResponse, ErrorResponse, and ParseJSONBody carry the JSON submit surface.
*/
package middleware
