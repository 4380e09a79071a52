package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
		title  string
	}{
		{BadRequest("x"), http.StatusBadRequest, "Bad Request"},
		{Unauthorized("x"), http.StatusUnauthorized, "Unauthorized"},
		{Forbidden("x"), http.StatusForbidden, "Forbidden"},
		{NotFound("Query"), http.StatusNotFound, "Not Found"},
		{Conflict("x"), http.StatusConflict, "Conflict"},
		{UnsupportedMediaType("x"), http.StatusUnsupportedMediaType, "Unsupported Media Type"},
		{TooManyRequests("x"), http.StatusTooManyRequests, "Too Many Requests"},
		{Internal(errors.New("boom")), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		if tt.err.Status != tt.status || tt.err.Title != tt.title {
			t.Errorf("got %d %q, want %d %q", tt.err.Status, tt.err.Title, tt.status, tt.title)
		}
	}
	if NotFound("Query").Message != "Query not found" {
		t.Errorf("unexpected message %q", NotFound("Query").Message)
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)
	if err.Message != "An unexpected error occurred" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrappable")
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Forbidden("nope"))
	appErr, ok := As(wrapped)
	if !ok || appErr.Status != http.StatusForbidden {
		t.Fatalf("As failed: %v %v", appErr, ok)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Error("plain error must not convert")
	}
}
