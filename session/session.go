// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// CookieName carries the signed coder identity.
const CookieName = "coder_session"

var (
	ErrNoSession      = errors.New("no coder session")
	ErrInvalidSession = errors.New("invalid session token")
)

// Token creates a signed session token for a coder:
// base64url(coder_id) + "." + base64url(HMAC-SHA256(coder_id, secret)).
// The coder ID itself is encoded so IDs containing the separator stay intact.
func Token(coderID, secret string) string {
	id := base64.RawURLEncoding.EncodeToString([]byte(coderID))
	return id + "." + sign(coderID, secret)
}

// Parse verifies a session token and returns the coder ID.
func Parse(token, secret string) (string, error) {
	idPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return "", ErrInvalidSession
	}
	raw, err := base64.RawURLEncoding.DecodeString(idPart)
	if err != nil {
		return "", ErrInvalidSession
	}
	coderID := string(raw)
	if !hmac.Equal([]byte(sigPart), []byte(sign(coderID, secret))) {
		return "", ErrInvalidSession
	}
	return coderID, nil
}

func sign(coderID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(coderID))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Set writes the session cookie for a coder.
func Set(w http.ResponseWriter, coderID, secret string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    Token(coderID, secret),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Coder extracts and verifies the coder ID from the request cookie.
func Coder(r *http.Request, secret string) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrNoSession
	}
	return Parse(c.Value, secret)
}

// NewSubmissionID returns a fresh ID grouping the rows of one submission.
func NewSubmissionID() string {
	return uuid.NewString()
}
