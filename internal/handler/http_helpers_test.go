package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdf-converter/internal/domain"
)

func TestGetUserFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := GetUserFromContext(req); ok {
		t.Fatal("expected no user on a bare request")
	}

	user := &domain.User{ID: "u1"}
	ctx := context.WithValue(req.Context(), userContextKey, user)
	got, ok := GetUserFromContext(req.WithContext(ctx))
	if !ok || got.ID != "u1" {
		t.Fatalf("expected user from context, got %v %v", got, ok)
	}
}

func TestWriteDomainError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrDocumentNotFound, http.StatusNotFound},
		{domain.ErrAccessDenied, http.StatusForbidden},
		{domain.ErrInvalidAPIKey, http.StatusUnauthorized},
		{domain.ErrInsufficientFunds, http.StatusPaymentRequired},
		{domain.ErrInvalidFile, http.StatusBadRequest},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{domain.ErrDocumentNotReady, http.StatusConflict},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{&domain.ValidationError{Field: "x", Message: "bad"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeDomainError(rec, tc.err)
		if rec.Code != tc.code {
			t.Errorf("writeDomainError(%v) = %d, want %d", tc.err, rec.Code, tc.code)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	if got := clientIP(req); got != "203.0.113.9" {
		t.Fatalf("expected bare IP, got %q", got)
	}

	req.RemoteAddr = "203.0.113.9"
	if got := clientIP(req); got != "203.0.113.9" {
		t.Fatalf("expected passthrough without port, got %q", got)
	}
}

func TestTrimExtension(t *testing.T) {
	cases := map[string]string{
		"report.docx":     "report",
		"archive.tar.gz":  "archive.tar",
		"noextension":     "noextension",
		"dir.v1/file":     "dir.v1/file",
		"dir.v1/file.png": "dir.v1/file",
	}
	for in, want := range cases {
		if got := trimExtension(in); got != want {
			t.Errorf("trimExtension(%q) = %q, want %q", in, got, want)
		}
	}
}
