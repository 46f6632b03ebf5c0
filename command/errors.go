package command

import (
	"net/http"

	"github.com/goliatone/go-contacts/core"
	goerrors "github.com/goliatone/go-errors"
)

func commandDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.ContactErrorInternal)
}

func commandValidationError(field string, message string) error {
	return goerrors.NewValidation("command: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.ContactErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

// commandBatchError reports a batch in which nothing succeeded. Partial
// failures are returned through the stored result only.
func commandBatchError(operation string, result core.BatchChangeResult[core.ContactID]) error {
	if !result.CompletelyFailed() {
		return nil
	}
	codes := result.FlattenedErrors()
	textCode := string(core.ChangeErrorUnknown)
	if len(codes) > 0 {
		textCode = string(codes[0])
	}
	values := make([]string, 0, len(codes))
	for _, code := range codes {
		values = append(values, string(code))
	}
	return goerrors.New("command: "+operation+" failed for every contact", goerrors.CategoryOperation).
		WithCode(http.StatusUnprocessableEntity).
		WithTextCode(textCode).
		WithMetadata(map[string]any{
			"change_errors": values,
			"failed":        len(result.Failed),
		})
}
