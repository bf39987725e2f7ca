package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("x")), http.StatusNotFound},
	}

	for _, tc := range tests {
		if got := StatusCode(tc.err); got != tc.want {
			t.Fatalf("StatusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestBodyFlattensValidationExtras(t *testing.T) {
	body := Body(ValidationWith("Insufficient inventory", map[string]any{"available": 5.0, "requested": 9.0}), "x")
	if body["error"] != "Insufficient inventory" {
		t.Fatalf("unexpected error field %v", body["error"])
	}
	if body["available"] != 5.0 || body["requested"] != 9.0 {
		t.Fatalf("extras not flattened: %v", body)
	}
}

func TestBodyInternalPassesDetails(t *testing.T) {
	body := Body(Internal("Failed to create cattle", errors.New("disk full")), "x")
	if body["error"] != "Failed to create cattle" || body["details"] != "disk full" {
		t.Fatalf("unexpected body %v", body)
	}

	body = Body(errors.New("raw"), "Failed to fetch")
	if body["error"] != "Failed to fetch" || body["details"] != "raw" {
		t.Fatalf("unexpected fallback body %v", body)
	}
}
