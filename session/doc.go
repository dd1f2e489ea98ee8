// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session implements signed coder sessions and submission IDs.

A session is a cookie holding base64url(coder_id) + "." + HMAC-SHA256 of the
coder ID under the server's SESSION_SECRET. Verification is constant-time.
There is no server-side session state; clearing the cookie ends the session.

	session.Set(w, coderID, cfg.SessionSecret)
	coderID, err := session.Coder(r, cfg.SessionSecret)
*/
package session
