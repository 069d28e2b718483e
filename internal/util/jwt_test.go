package util

import (
	"net/http"
	"testing"
	"time"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	userID, expiresAt, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	if userID != "user-1" {
		t.Errorf("ParseJWT() user = %q, want user-1", userID)
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("ParseJWT() expiry = %v, want in the future", expiresAt)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Error("ParseJWT(wrong secret) error = nil, want error")
	}
}

func TestParseJWT_Garbage(t *testing.T) {
	if _, _, err := ParseJWT("not.a.token", "secret"); err == nil {
		t.Error("ParseJWT(garbage) error = nil, want error")
	}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := ExtractToken(req); got != tc.want {
				t.Errorf("ExtractToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
