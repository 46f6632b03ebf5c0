package core

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestContactErrorMapper_AssignsStableCodes(t *testing.T) {
	mapped := contactErrorMapper(NewSaveError(stderrors.New("disk full"), ChangeErrorUnableToSaveContact))
	if mapped.TextCode != ContactErrorStoreFailed {
		t.Fatalf("expected store failed text code, got %q", mapped.TextCode)
	}
	if mapped.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for store failures, got %d", mapped.Code)
	}
	codes, ok := mapped.Metadata["change_errors"].([]string)
	if !ok || len(codes) != 1 || codes[0] != string(ChangeErrorUnableToSaveContact) {
		t.Fatalf("expected change codes in metadata, got %#v", mapped.Metadata)
	}

	mapped = contactErrorMapper(stderrors.New("sqlstore: contact not found"))
	if mapped.TextCode != ContactErrorNotFound {
		t.Fatalf("expected not found text code, got %q", mapped.TextCode)
	}
	if mapped.Category != goerrors.CategoryNotFound || mapped.Code != http.StatusNotFound {
		t.Fatalf("unexpected not found envelope %#v", mapped)
	}

	mapped = contactErrorMapper(stderrors.New("core: migration to public contacts not yet implemented"))
	if mapped.TextCode != ContactErrorNotSupported {
		t.Fatalf("expected not supported text code, got %q", mapped.TextCode)
	}

	mapped = contactErrorMapper(stderrors.New("core: contact id is required"))
	if mapped.TextCode != ContactErrorBadInput || mapped.Code != http.StatusBadRequest {
		t.Fatalf("expected bad input envelope, got %#v", mapped)
	}
}

func TestContactErrorMapper_KeepsRichErrors(t *testing.T) {
	rich := goerrors.New("already gone", goerrors.CategoryConflict).
		WithTextCode("CUSTOM_CODE")
	mapped := contactErrorMapper(fmt.Errorf("wrapped: %w", rich))
	if mapped.TextCode != "CUSTOM_CODE" {
		t.Fatalf("expected custom text code to survive, got %q", mapped.TextCode)
	}
	if mapped.Code != http.StatusConflict {
		t.Fatalf("expected conflict status to be filled in, got %d", mapped.Code)
	}

	if contactErrorMapper(nil) != nil {
		t.Fatalf("expected nil error to map to nil")
	}
}

func TestSaveError_Message(t *testing.T) {
	err := NewSaveError(stderrors.New("boom"),
		ChangeErrorUnableToCreateContactWithNewType,
		ChangeErrorUnableToCreateContactGroup,
	)
	want := "core: save failed [UNABLE_TO_CREATE_CONTACT_WITH_NEW_TYPE, UNABLE_TO_CREATE_CONTACT_GROUP]: boom"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !stderrors.Is(err, err.Cause) {
		t.Fatalf("expected save error to unwrap to its cause")
	}

	var nilErr *SaveError
	if nilErr.Error() != "" || nilErr.Unwrap() != nil {
		t.Fatalf("expected nil save error to be inert")
	}
}
