package core

import (
	"sort"

	goerrors "github.com/goliatone/go-errors"
)

// ChangeOutcome classifies a ChangeResult.
type ChangeOutcome string

const (
	ChangeOutcomeSuccess           ChangeOutcome = "success"
	ChangeOutcomeValidationFailure ChangeOutcome = "validation_failure"
	ChangeOutcomeFailure           ChangeOutcome = "failure"
)

// ChangeResult is the terminal value of a save, delete or migration of a
// single contact. Failures are carried as typed codes, never as panics.
//
// Warnings report steps that failed without blocking the write, such as
// group creation. A successful result may carry warnings.
type ChangeResult struct {
	Outcome          ChangeOutcome
	ContactID        ContactID
	Errors           []ChangeError
	ValidationErrors []ValidationError
	Warnings         []ChangeError
}

func Success(contactID ContactID) ChangeResult {
	return ChangeResult{Outcome: ChangeOutcomeSuccess, ContactID: contactID}
}

func Failure(errs ...ChangeError) ChangeResult {
	if len(errs) == 0 {
		errs = []ChangeError{ChangeErrorUnknown}
	}
	return ChangeResult{Outcome: ChangeOutcomeFailure, Errors: append([]ChangeError(nil), errs...)}
}

func ValidationFailure(errs ...ValidationError) ChangeResult {
	return ChangeResult{
		Outcome:          ChangeOutcomeValidationFailure,
		ValidationErrors: append([]ValidationError(nil), errs...),
	}
}

// WithWarnings returns a copy of r with codes appended to its warnings.
func (r ChangeResult) WithWarnings(codes ...ChangeError) ChangeResult {
	if len(codes) == 0 {
		return r
	}
	r.Warnings = append(append([]ChangeError(nil), r.Warnings...), codes...)
	return r
}

func (r ChangeResult) Successful() bool {
	return r.Outcome == ChangeOutcomeSuccess
}

// Err bridges a non-successful result into a go-errors value. It returns nil
// for a success.
func (r ChangeResult) Err() error {
	switch r.Outcome {
	case ChangeOutcomeSuccess:
		return nil
	case ChangeOutcomeValidationFailure:
		fieldErrors := make([]goerrors.FieldError, 0, len(r.ValidationErrors))
		for _, code := range r.ValidationErrors {
			fieldErrors = append(fieldErrors, goerrors.FieldError{
				Field:   validationField(code),
				Message: string(code),
			})
		}
		return ensureContactErrorEnvelope(
			goerrors.NewValidation("contact validation failed", fieldErrors...).
				WithTextCode(ContactErrorValidationFailed),
		)
	default:
		codes := r.Errors
		if len(codes) == 0 {
			codes = []ChangeError{ChangeErrorUnknown}
		}
		err := goerrors.New("contact change failed: "+string(codes[0]), goerrors.CategoryOperation).
			WithTextCode(string(codes[0])).
			WithMetadata(map[string]any{"change_errors": changeErrorStrings(codes)})
		return ensureContactErrorEnvelope(err)
	}
}

func validationField(code ValidationError) string {
	switch code {
	case ValidationErrorNameNotSet:
		return "name"
	default:
		return "contact"
	}
}

// BatchChangeResult aggregates the per-key outcome of a batch operation.
// A key is either in Successful or in Failed, never both. Keys that failed
// validation are also listed in Invalid with their validation codes.
type BatchChangeResult[K comparable] struct {
	Successful []K
	Failed     map[K][]ChangeError
	Invalid    map[K][]ValidationError
}

func NewBatchChangeResult[K comparable]() BatchChangeResult[K] {
	return BatchChangeResult[K]{Failed: map[K][]ChangeError{}}
}

func (r *BatchChangeResult[K]) AddSuccess(key K) {
	r.Successful = append(r.Successful, key)
}

func (r *BatchChangeResult[K]) AddFailure(key K, errs ...ChangeError) {
	if r.Failed == nil {
		r.Failed = map[K][]ChangeError{}
	}
	if len(errs) == 0 {
		errs = []ChangeError{ChangeErrorUnknown}
	}
	r.Failed[key] = append(r.Failed[key], errs...)
}

// AddValidationFailure records key as failed with code and keeps the
// validation codes that caused it.
func (r *BatchChangeResult[K]) AddValidationFailure(key K, code ChangeError, errs ...ValidationError) {
	r.AddFailure(key, code)
	if len(errs) == 0 {
		return
	}
	if r.Invalid == nil {
		r.Invalid = map[K][]ValidationError{}
	}
	r.Invalid[key] = append(r.Invalid[key], errs...)
}

func (r BatchChangeResult[K]) IsEmpty() bool {
	return len(r.Successful) == 0 && len(r.Failed) == 0
}

func (r BatchChangeResult[K]) Attempted() int {
	return len(r.Successful) + len(r.Failed)
}

// CompletelySuccessful is true for a non-empty result without failures.
func (r BatchChangeResult[K]) CompletelySuccessful() bool {
	return len(r.Failed) == 0 && len(r.Successful) > 0
}

// CompletelyFailed is true for a non-empty result without successes.
func (r BatchChangeResult[K]) CompletelyFailed() bool {
	return len(r.Successful) == 0 && len(r.Failed) > 0
}

// Combine merges two results; failures of the same key are concatenated.
func (r BatchChangeResult[K]) Combine(other BatchChangeResult[K]) BatchChangeResult[K] {
	out := NewBatchChangeResult[K]()
	out.Successful = append(append(out.Successful, r.Successful...), other.Successful...)
	for key, errs := range r.Failed {
		out.Failed[key] = append(out.Failed[key], errs...)
	}
	for key, errs := range other.Failed {
		out.Failed[key] = append(out.Failed[key], errs...)
	}
	for _, invalid := range []map[K][]ValidationError{r.Invalid, other.Invalid} {
		for key, errs := range invalid {
			if out.Invalid == nil {
				out.Invalid = map[K][]ValidationError{}
			}
			out.Invalid[key] = append(out.Invalid[key], errs...)
		}
	}
	return out
}

// FlattenedErrors returns the distinct failure codes, sorted.
func (r BatchChangeResult[K]) FlattenedErrors() []ChangeError {
	seen := map[ChangeError]struct{}{}
	out := make([]ChangeError, 0, len(r.Failed))
	for _, errs := range r.Failed {
		for _, code := range errs {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
