// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		coderID string
	}{
		{"simple", "alice"},
		{"with separator char", "coder.7"},
		{"with spaces", "coder seven"},
		{"unicode", "codér-ñ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := Token(tt.coderID, "secret")
			got, err := Parse(token, "secret")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != tt.coderID {
				t.Errorf("Parse() = %q, want %q", got, tt.coderID)
			}
		})
	}
}

func TestParseRejectsTampering(t *testing.T) {
	token := Token("alice", "secret")

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", token},
		{"no separator", strings.ReplaceAll(token, ".", "")},
		{"swapped identity", Token("bob", "other-secret")},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret := "secret"
			if tt.name == "wrong secret" {
				secret = "not-the-secret"
			}
			if _, err := Parse(tt.token, secret); err == nil {
				t.Error("Parse() expected error, got nil")
			}
		})
	}
}

func TestCookieRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	Set(w, "alice", "secret")

	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].Name != CookieName {
		t.Errorf("cookie name = %q, want %q", cookies[0].Name, CookieName)
	}
	if !cookies[0].HttpOnly {
		t.Error("cookie should be HttpOnly")
	}

	r := httptest.NewRequest("GET", "/annotate", nil)
	r.AddCookie(cookies[0])
	coderID, err := Coder(r, "secret")
	if err != nil {
		t.Fatalf("Coder() error = %v", err)
	}
	if coderID != "alice" {
		t.Errorf("Coder() = %q, want alice", coderID)
	}
}

func TestCoderWithoutCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "/annotate", nil)
	if _, err := Coder(r, "secret"); err != ErrNoSession {
		t.Errorf("Coder() error = %v, want ErrNoSession", err)
	}
}

func TestClear(t *testing.T) {
	w := httptest.NewRecorder()
	Clear(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", cookies[0].MaxAge)
	}
}

func TestNewSubmissionID(t *testing.T) {
	a, b := NewSubmissionID(), NewSubmissionID()
	if a == "" || b == "" {
		t.Fatal("NewSubmissionID() returned empty ID")
	}
	if a == b {
		t.Error("NewSubmissionID() produced duplicate IDs (extremely unlikely)")
	}
}
