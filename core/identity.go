package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDFamily names the store an identity belongs to.
type IDFamily string

const (
	IDFamilyInternal IDFamily = "internal"
	IDFamilyExternal IDFamily = "external"
)

// ContactDataID identifies a contact-data item. It is one of
// InternalDataID, ExternalDataID or ExternalPlaceholderDataID.
type ContactDataID interface {
	Family() IDFamily
	String() string
	isContactDataID()
}

// InternalDataID is the app-owned identity of an item in the secret store.
type InternalDataID struct {
	UUID uuid.UUID
}

func (InternalDataID) Family() IDFamily { return IDFamilyInternal }

func (id InternalDataID) String() string { return "internal:" + id.UUID.String() }

func (InternalDataID) isContactDataID() {}

// ExternalDataID is a provider-assigned row number.
type ExternalDataID struct {
	Number int64
}

func (ExternalDataID) Family() IDFamily { return IDFamilyExternal }

func (id ExternalDataID) String() string { return "external:" + strconv.FormatInt(id.Number, 10) }

func (ExternalDataID) isContactDataID() {}

// ExternalPlaceholderDataID stands in for an external item the provider has
// not numbered yet. Each value is unique within the process and is never used
// as a store lookup key.
type ExternalPlaceholderDataID struct {
	token uuid.UUID
}

func (ExternalPlaceholderDataID) Family() IDFamily { return IDFamilyExternal }

func (id ExternalPlaceholderDataID) String() string { return "external:pending:" + id.token.String() }

func (ExternalPlaceholderDataID) isContactDataID() {}

func NewInternalDataID() InternalDataID {
	return InternalDataID{UUID: uuid.New()}
}

func NewExternalPlaceholderDataID() ExternalPlaceholderDataID {
	return ExternalPlaceholderDataID{token: uuid.New()}
}

// NewDataIDForFamily mints a fresh id for the given family. External ids are
// placeholders until the provider assigns a number.
func NewDataIDForFamily(family IDFamily) ContactDataID {
	if family == IDFamilyExternal {
		return NewExternalPlaceholderDataID()
	}
	return NewInternalDataID()
}

// ExternalDataNumber returns the provider number of id, if it has one.
func ExternalDataNumber(id ContactDataID) (int64, bool) {
	typed, ok := id.(ExternalDataID)
	if !ok {
		return 0, false
	}
	return typed.Number, true
}

// ContactID identifies a contact. It is either InternalContactID or
// ExternalContactID.
type ContactID interface {
	Family() IDFamily
	String() string
	isContactID()
}

type InternalContactID struct {
	UUID uuid.UUID
}

func (InternalContactID) Family() IDFamily { return IDFamilyInternal }

func (id InternalContactID) String() string { return "internal:" + id.UUID.String() }

func (InternalContactID) isContactID() {}

// ExternalContactID carries the provider contact number and the optional
// provider lookup key.
type ExternalContactID struct {
	Number    int64
	LookupKey string
}

func (ExternalContactID) Family() IDFamily { return IDFamilyExternal }

func (id ExternalContactID) String() string {
	base := "external:" + strconv.FormatInt(id.Number, 10)
	if id.LookupKey == "" {
		return base
	}
	return base + ":" + id.LookupKey
}

func (ExternalContactID) isContactID() {}

func NewInternalContactID() InternalContactID {
	return InternalContactID{UUID: uuid.New()}
}

// ParseContactID is the inverse of ContactID.String.
func ParseContactID(raw string) (ContactID, error) {
	raw = strings.TrimSpace(raw)
	family, rest, ok := strings.Cut(raw, ":")
	if !ok || rest == "" {
		return nil, fmt.Errorf("core: invalid contact id %q", raw)
	}
	switch IDFamily(family) {
	case IDFamilyInternal:
		parsed, err := uuid.Parse(rest)
		if err != nil {
			return nil, fmt.Errorf("core: invalid internal contact id %q: %w", raw, err)
		}
		return InternalContactID{UUID: parsed}, nil
	case IDFamilyExternal:
		number, lookupKey, _ := strings.Cut(rest, ":")
		parsed, err := strconv.ParseInt(number, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("core: invalid external contact id %q: %w", raw, err)
		}
		return ExternalContactID{Number: parsed, LookupKey: lookupKey}, nil
	default:
		return nil, fmt.Errorf("core: unknown contact id family in %q", raw)
	}
}

// SplitContactIDs partitions ids by family, keeping input order.
func SplitContactIDs(ids []ContactID) (internal []ContactID, external []ContactID) {
	for _, id := range ids {
		if id == nil {
			continue
		}
		if id.Family() == IDFamilyExternal {
			external = append(external, id)
			continue
		}
		internal = append(internal, id)
	}
	return internal, external
}

// ContactIDString is id.String() that tolerates a nil id.
func ContactIDString(id ContactID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
