// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires the route table using Go 1.22+ ServeMux patterns.
// Form pages go through NoCache so a coder never re-sees a stale batch;
// every route is wrapped with request logging.
package router
