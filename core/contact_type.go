package core

import (
	"fmt"
	"strings"
)

// ContactType selects the store a contact lives in.
type ContactType string

const (
	// ContactTypeSecret contacts live in the app-owned store.
	ContactTypeSecret ContactType = "SECRET"
	// ContactTypePublic contacts live in the shared provider store.
	ContactTypePublic ContactType = "PUBLIC"
)

func (t ContactType) Valid() bool {
	return t == ContactTypeSecret || t == ContactTypePublic
}

// IDFamily returns the identity family used by the store of t.
func (t ContactType) IDFamily() IDFamily {
	if t == ContactTypePublic {
		return IDFamilyExternal
	}
	return IDFamilyInternal
}

func ParseContactType(raw string) (ContactType, error) {
	parsed := ContactType(strings.ToUpper(strings.TrimSpace(raw)))
	if !parsed.Valid() {
		return "", fmt.Errorf("core: unknown contact type %q", raw)
	}
	return parsed, nil
}
