// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package web holds the embedded HTML templates and their page data types.
// Pages are deliberately plain: login, annotation form, done, and progress.
package web
