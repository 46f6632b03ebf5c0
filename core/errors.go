package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ChangeError is a typed failure code reported by save, delete and
// migration operations.
type ChangeError string

const (
	ChangeErrorUnableToDeleteContact                ChangeError = "UNABLE_TO_DELETE_CONTACT"
	ChangeErrorUnableToResolveContact               ChangeError = "UNABLE_TO_RESOLVE_CONTACT"
	ChangeErrorUnableToSaveContact                  ChangeError = "UNABLE_TO_SAVE_CONTACT"
	ChangeErrorUnableToResolveExistingContact       ChangeError = "UNABLE_TO_RESOLVE_EXISTING_CONTACT"
	ChangeErrorUnableToCreateContactWithNewType     ChangeError = "UNABLE_TO_CREATE_CONTACT_WITH_NEW_TYPE"
	ChangeErrorUnableToDeleteContactWithOldType     ChangeError = "UNABLE_TO_DELETE_CONTACT_WITH_OLD_TYPE"
	ChangeErrorUnableToCreateContactGroup           ChangeError = "UNABLE_TO_CREATE_CONTACT_GROUP"
	ChangeErrorNotYetImplementedForExternalContacts ChangeError = "NOT_YET_IMPLEMENTED_FOR_EXTERNAL_CONTACTS"
	ChangeErrorNotYetImplementedForInternalContacts ChangeError = "NOT_YET_IMPLEMENTED_FOR_INTERNAL_CONTACTS"
	ChangeErrorUnknown                              ChangeError = "UNKNOWN_ERROR"
)

// ValidationError is a user-fixable problem that blocks a save.
type ValidationError string

const (
	ValidationErrorNameNotSet ValidationError = "NAME_NOT_SET"
)

const (
	ContactErrorBadInput         = "CONTACTS_BAD_INPUT"
	ContactErrorValidationFailed = "CONTACTS_VALIDATION_FAILED"
	ContactErrorNotFound         = "CONTACTS_NOT_FOUND"
	ContactErrorNotSupported     = "CONTACTS_NOT_SUPPORTED"
	ContactErrorStoreFailed      = "CONTACTS_STORE_FAILED"
	ContactErrorInternal         = "CONTACTS_INTERNAL_ERROR"
)

// SaveError is a store-level failure. Stores return it so callers can report
// precise change codes; any other error is reported with a default code.
type SaveError struct {
	Codes []ChangeError
	Cause error
}

func NewSaveError(cause error, codes ...ChangeError) *SaveError {
	return &SaveError{Codes: append([]ChangeError(nil), codes...), Cause: cause}
}

func (e *SaveError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, len(e.Codes))
	for _, code := range e.Codes {
		parts = append(parts, string(code))
	}
	message := "core: save failed"
	if len(parts) > 0 {
		message += " [" + strings.Join(parts, ", ") + "]"
	}
	if e.Cause != nil {
		message += ": " + e.Cause.Error()
	}
	return message
}

func (e *SaveError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ChangeErrorsOf extracts change codes from err, falling back to fallback
// when err carries none.
func ChangeErrorsOf(err error, fallback ChangeError) []ChangeError {
	if err == nil {
		return nil
	}
	var saveErr *SaveError
	if errors.As(err, &saveErr) && len(saveErr.Codes) > 0 {
		return append([]ChangeError(nil), saveErr.Codes...)
	}
	return []ChangeError{fallback}
}

func contactErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureContactErrorEnvelope(richErr)
	}

	var saveErr *SaveError
	if errors.As(err, &saveErr) {
		mapped := newContactError(err.Error(), goerrors.CategoryOperation, ContactErrorStoreFailed)
		return mapped.WithMetadata(map[string]any{"change_errors": changeErrorStrings(saveErr.Codes)})
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not found"):
		return newContactError(err.Error(), goerrors.CategoryNotFound, ContactErrorNotFound)
	case strings.Contains(msg, "not supported"), strings.Contains(msg, "not yet implemented"):
		return newContactError(err.Error(), goerrors.CategoryOperation, ContactErrorNotSupported)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "unknown"):
		return newContactError(err.Error(), goerrors.CategoryBadInput, ContactErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureContactErrorEnvelope(mapped)
}

func newContactError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureContactErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureContactErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = contactHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultContactTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultContactTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput:
		return ContactErrorBadInput
	case goerrors.CategoryValidation:
		return ContactErrorValidationFailed
	case goerrors.CategoryNotFound:
		return ContactErrorNotFound
	case goerrors.CategoryOperation:
		return ContactErrorStoreFailed
	default:
		return ContactErrorInternal
	}
}

func contactHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryOperation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func changeErrorStrings(codes []ChangeError) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		out = append(out, string(code))
	}
	return out
}
