package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestConflictStatusCode(t *testing.T) {
	err := Conflict("slot no longer available")

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.StatusCode() != http.StatusConflict {
		t.Errorf("expected status 409, got %d", err.StatusCode())
	}
}

func TestNotFoundWithIDDetails(t *testing.T) {
	err := NotFoundWithID("Booking", "abc123")

	if err.StatusCode() != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", err.StatusCode())
	}
	if err.Details["id"] != "abc123" {
		t.Errorf("expected id detail abc123, got %v", err.Details["id"])
	}
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("failed to insert booking", cause)

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", err.StatusCode())
	}
}

func TestAsAppErrorPassesThrough(t *testing.T) {
	original := Validation("bad request", nil)

	got := AsAppError(original)
	if got != original {
		t.Error("expected the same AppError instance back")
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	got := AsAppError(errors.New("boom"))

	if got.Code != CodeInternal {
		t.Errorf("expected internal code, got %s", got.Code)
	}
}

func TestStatusCodeDefaultsTo500(t *testing.T) {
	err := &AppError{Code: CodeInternal, Message: "no status set"}

	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected fallback status 500, got %d", err.StatusCode())
	}
}
