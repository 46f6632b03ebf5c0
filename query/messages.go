package query

import (
	"github.com/goliatone/go-contacts/core"
)

const (
	TypeLoadContact   = "contacts.query.load"
	TypeComputeDiff   = "contacts.query.diff"
	TypeContactsExist = "contacts.query.exist"
)

type LoadContactMessage struct {
	ID core.ContactID
}

func (LoadContactMessage) Type() string { return TypeLoadContact }

func (m LoadContactMessage) Validate() error {
	if m.ID == nil {
		return queryValidationError("id", "contact id is required")
	}
	return nil
}

// ComputeDiffMessage diffs After against Before. A nil Before is replaced by
// the stored snapshot of After.ID.
type ComputeDiffMessage struct {
	Before *core.Contact
	After  *core.Contact
}

func (ComputeDiffMessage) Type() string { return TypeComputeDiff }

func (m ComputeDiffMessage) Validate() error {
	if m.After == nil {
		return queryValidationError("after", "edited contact is required")
	}
	if m.Before == nil && m.After.ID == nil {
		return queryValidationError("before", "stored contact or contact id is required")
	}
	return nil
}

type ContactsExistMessage struct {
	IDs []core.ContactID
}

func (ContactsExistMessage) Type() string { return TypeContactsExist }

func (m ContactsExistMessage) Validate() error {
	if len(m.IDs) == 0 {
		return queryValidationError("ids", "at least one contact id is required")
	}
	for _, id := range m.IDs {
		if id == nil {
			return queryValidationError("ids", "contact ids must not be nil")
		}
	}
	return nil
}
