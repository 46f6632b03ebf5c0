package core

import (
	"context"
	"strings"
)

// DefaultValidator rejects contacts without a usable name.
type DefaultValidator struct{}

func (DefaultValidator) Validate(_ context.Context, contact *Contact) []ValidationError {
	if contact == nil || strings.TrimSpace(contact.DisplayName()) == "" {
		return []ValidationError{ValidationErrorNameNotSet}
	}
	return nil
}

var _ Validator = DefaultValidator{}
