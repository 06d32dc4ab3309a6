package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeNotFound, "product not found")
	if err.Code() != CodeNotFound {
		t.Fatalf("expected code %s got %s", CodeNotFound, err.Code())
	}
	if err.Message() != "product not found" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Error() != "NOT_FOUND: product not found" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeDependency, cause, "load store config")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to satisfy errors.Is")
	}
	if err.Unwrap() != cause {
		t.Fatal("expected Unwrap to return the cause")
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeAlreadyImported, "already imported")
	wrapped := fmt.Errorf("outer: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeAlreadyImported {
		t.Fatalf("expected ALREADY_IMPORTED got %s", typed.Code())
	}
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	if As(errors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
	if As(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestMetadataForKnownAndUnknownCodes(t *testing.T) {
	if meta := MetadataFor(CodeQuotaExceeded); meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for quota exceeded, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodeAlreadyImported); meta.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409 for already imported, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(Code("MYSTERY")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"name": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["name"] != "is required" {
		t.Fatalf("unexpected details %v", err.Details())
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(CodeDependency, cause, "sync store")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected code in dump, got %q", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected chain entries, got %v", dump.Chain)
	}
}
