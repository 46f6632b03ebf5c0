package core

import "context"

// MigrationStrategy describes how a contact moves into the Target store.
// Strategies are plain values built by SelectStrategy; they hold no state
// beyond the collaborators they were given.
type MigrationStrategy struct {
	Target ContactType
	// Unsupported is set when the direction cannot be migrated; it is the
	// error reported without touching either store.
	Unsupported ChangeError
	Groups      GroupStore
	Account     string
}

// SelectStrategy returns the strategy for moving a contact into target.
// Moving a contact into the public store is not implemented.
func SelectStrategy(target ContactType, groups GroupStore, account string) MigrationStrategy {
	strategy := MigrationStrategy{Target: target, Groups: groups, Account: account}
	if target != ContactTypeSecret {
		strategy.Unsupported = ChangeErrorNotYetImplementedForInternalContacts
	}
	return strategy
}

func (s MigrationStrategy) Supported() bool {
	return s.Unsupported == ""
}

// Prepare returns a copy of contact re-identified for the target store. The
// source contact is left untouched.
func (s MigrationStrategy) Prepare(contact *Contact) *Contact {
	prepared := contact.Clone()
	prepared.Type = s.Target
	prepared.IsNew = true
	if s.Target.IDFamily() == IDFamilyInternal {
		prepared.ID = NewInternalContactID()
	}
	ReidentifyData(prepared, s.Target.IDFamily())
	return prepared
}

// PrepareGroups creates the contact's groups in the target store. It is
// best effort; a later save retries group creation per contact.
func (s MigrationStrategy) PrepareGroups(ctx context.Context, contact *Contact) error {
	if s.Groups == nil || contact == nil || len(contact.Groups) == 0 {
		return nil
	}
	return s.Groups.CreateMissingGroups(ctx, contact.Groups, s.Account)
}

// ReidentifyData rewrites item identities into family and resets statuses for
// a full re-creation: DELETED items and groups are dropped, the rest become
// NEW. The image follows the same rule.
func ReidentifyData(contact *Contact, family IDFamily) {
	kept := make([]ContactData, 0, len(contact.ContactData))
	for _, item := range contact.ContactData {
		if item.Status == ModelStatusDeleted {
			continue
		}
		item.ID = NewDataIDForFamily(family)
		kept = append(kept, item)
	}
	EnforceContinuousSortOrder(kept)
	for index := range kept {
		kept[index].OverrideStatus(ModelStatusNew)
	}
	contact.ContactData = kept

	groups := make([]ContactGroup, 0, len(contact.Groups))
	for _, group := range contact.Groups {
		if group.Status == ModelStatusDeleted {
			continue
		}
		group.Status = ModelStatusNew
		if family == IDFamilyInternal {
			group.ID.Number = 0
		}
		groups = append(groups, group)
	}
	contact.Groups = groups

	switch {
	case contact.Image.Status == ModelStatusDeleted:
		contact.Image = ContactImage{Status: ModelStatusUnchanged}
	case contact.Image.IsEmpty():
		contact.Image.Status = ModelStatusUnchanged
	default:
		contact.Image.Status = ModelStatusNew
	}
}
