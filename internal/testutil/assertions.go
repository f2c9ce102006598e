package testutil

import (
	"testing"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// AssertDomainError checks that err carries the expected error code and kind.
func AssertDomainError(t *testing.T, err error, expectedCode string, expectedKind domainerror.Kind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with code %q, got nil", expectedCode)
	}
	if code := domainerror.CodeOf(err); code != expectedCode {
		t.Errorf("expected error code %q, got %q (error: %v)", expectedCode, code, err)
	}
	if kind := domainerror.KindOf(err); kind != expectedKind {
		t.Errorf("expected error kind %s, got %s", expectedKind, kind)
	}
}
