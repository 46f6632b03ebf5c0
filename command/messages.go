package command

import (
	"github.com/goliatone/go-contacts/core"
)

const (
	TypeSaveContact         = "contacts.command.save"
	TypeDeleteContacts      = "contacts.command.delete"
	TypeChangeContactType   = "contacts.command.type.change"
	TypeChangeContactTypes  = "contacts.command.type.change_batch"
	TypeScheduleBatchDelete = "contacts.command.delete.schedule"
)

type SaveContactMessage struct {
	Contact *core.Contact
}

func (SaveContactMessage) Type() string { return TypeSaveContact }

func (m SaveContactMessage) Validate() error {
	if m.Contact == nil {
		return commandValidationError("contact", "contact is required")
	}
	if !m.Contact.Type.Valid() {
		return commandValidationError("contact_type", "contact type must be SECRET or PUBLIC")
	}
	return nil
}

type DeleteContactsMessage struct {
	IDs []core.ContactID
}

func (DeleteContactsMessage) Type() string { return TypeDeleteContacts }

func (m DeleteContactsMessage) Validate() error {
	return validateIDs(m.IDs)
}

type ChangeContactTypeMessage struct {
	Contact *core.Contact
	Target  core.ContactType
}

func (ChangeContactTypeMessage) Type() string { return TypeChangeContactType }

func (m ChangeContactTypeMessage) Validate() error {
	if m.Contact == nil {
		return commandValidationError("contact", "contact is required")
	}
	return validateTarget(m.Target)
}

type ChangeContactTypesMessage struct {
	Contacts []*core.Contact
	Target   core.ContactType
}

func (ChangeContactTypesMessage) Type() string { return TypeChangeContactTypes }

func (m ChangeContactTypesMessage) Validate() error {
	if len(m.Contacts) == 0 {
		return commandValidationError("contacts", "at least one contact is required")
	}
	for _, contact := range m.Contacts {
		if contact == nil {
			return commandValidationError("contacts", "contacts must not contain nil entries")
		}
	}
	return validateTarget(m.Target)
}

type ScheduleBatchDeleteMessage struct {
	IDs []core.ContactID
}

func (ScheduleBatchDeleteMessage) Type() string { return TypeScheduleBatchDelete }

func (m ScheduleBatchDeleteMessage) Validate() error {
	return validateIDs(m.IDs)
}

func validateIDs(ids []core.ContactID) error {
	if len(ids) == 0 {
		return commandValidationError("ids", "at least one contact id is required")
	}
	for _, id := range ids {
		if id == nil {
			return commandValidationError("ids", "contact ids must not be nil")
		}
	}
	return nil
}

func validateTarget(target core.ContactType) error {
	if !target.Valid() {
		return commandValidationError("target", "target type must be SECRET or PUBLIC")
	}
	return nil
}
