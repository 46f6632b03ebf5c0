package core

import (
	"context"
	"errors"
	"testing"
)

const (
	testSaveCode   ChangeError = "STORE_WRITE_X"
	testDeleteCode ChangeError = "STORE_DELETE_Y"
)

func newTypeChangeFixture(t *testing.T, opts ...TypeChangeServiceOption) (*TypeChangeService, *memoryStore, *memoryStore) {
	t.Helper()
	secret := newMemoryStore(IDFamilyInternal)
	public := newMemoryStore(IDFamilyExternal)
	saver, err := NewSaveService(secret, public)
	if err != nil {
		t.Fatalf("new save service: %v", err)
	}
	service, err := NewTypeChangeService(saver, opts...)
	if err != nil {
		t.Fatalf("new type change service: %v", err)
	}
	return service, secret, public
}

func migrationSource() *Contact {
	return publicContact(10,
		dataItem(CategoryPhoneNumber, 0, PhoneNumber{Number: "A"}, ModelStatusNew),
		dataItem(CategoryPhoneNumber, 1, PhoneNumber{Number: "B"}, ModelStatusUnchanged),
		dataItem(CategoryPhoneNumber, 2, PhoneNumber{Number: "C"}, ModelStatusDeleted),
	)
}

func TestChangeType_ReidentifiesAndDropsDeletedItems(t *testing.T) {
	service, secret, public := newTypeChangeFixture(t)
	source := migrationSource()
	public.put(source)

	result := service.ChangeType(context.Background(), source, ContactTypeSecret)
	if !result.Successful() {
		t.Fatalf("expected success, got %#v", result)
	}
	if _, ok := result.ContactID.(InternalContactID); !ok {
		t.Fatalf("expected internal id for migrated contact, got %T", result.ContactID)
	}

	created := secret.lastCreated
	if created == nil {
		t.Fatalf("expected contact to be created in secret store")
	}
	if created.Type != ContactTypeSecret {
		t.Fatalf("expected SECRET type, got %s", created.Type)
	}
	if len(created.ContactData) != 2 {
		t.Fatalf("expected A and B only, got %d items", len(created.ContactData))
	}
	for index, want := range []string{"A", "B"} {
		item := created.ContactData[index]
		if item.SerializedValue() != want {
			t.Fatalf("item %d: expected %s, got %s", index, want, item.SerializedValue())
		}
		if item.ID.Family() != IDFamilyInternal {
			t.Fatalf("item %d: expected internal id, got %s", index, item.ID)
		}
		if item.Status != ModelStatusNew {
			t.Fatalf("item %d: expected NEW, got %s", index, item.Status)
		}
	}

	if public.has(source.ID) {
		t.Fatalf("expected source contact to be deleted from public store")
	}
	if source.ContactData[2].Status != ModelStatusDeleted || source.ID.Family() != IDFamilyExternal {
		t.Fatalf("source snapshot must not be modified")
	}
}

func TestChangeType_SaveFailureKeepsSource(t *testing.T) {
	service, secret, public := newTypeChangeFixture(t)
	secret.createErr = NewSaveError(errors.New("disk full"), testSaveCode)
	source := migrationSource()
	public.put(source)

	result := service.ChangeType(context.Background(), source, ContactTypeSecret)
	assertFailure(t, result, ChangeErrorUnableToCreateContactWithNewType, testSaveCode)
	if public.deleteCalls != 0 {
		t.Fatalf("delete must not be attempted after a failed save")
	}
	if !public.has(source.ID) {
		t.Fatalf("expected source contact to remain")
	}
}

func TestChangeType_DeleteFailureLeavesBothCopies(t *testing.T) {
	service, secret, public := newTypeChangeFixture(t)
	public.deleteErr = NewSaveError(errors.New("provider busy"), testDeleteCode)
	source := migrationSource()
	public.put(source)

	result := service.ChangeType(context.Background(), source, ContactTypeSecret)
	assertFailure(t, result, ChangeErrorUnableToDeleteContactWithOldType, testDeleteCode)

	existing, err := public.ContactsExist(context.Background(), []ContactID{source.ID})
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !existing[source.ID] {
		t.Fatalf("expected source copy to remain in public store")
	}
	if secret.createCalls != 1 || len(secret.contacts) != 1 {
		t.Fatalf("expected migrated copy in secret store")
	}
}

func TestChangeType_ToPublicIsNotImplemented(t *testing.T) {
	service, secret, public := newTypeChangeFixture(t)
	source := &Contact{ID: NewInternalContactID(), Type: ContactTypeSecret, FirstName: "Ada"}
	secret.put(source)

	result := service.ChangeType(context.Background(), source, ContactTypePublic)
	assertFailure(t, result, ChangeErrorNotYetImplementedForInternalContacts)
	if public.createCalls != 0 || public.groupCalls != 0 || secret.deleteCalls != 0 {
		t.Fatalf("unsupported migration must not touch any store")
	}
}

func TestChangeType_ValidationFailureShortCircuits(t *testing.T) {
	service, secret, public := newTypeChangeFixture(t)
	source := migrationSource()
	source.FirstName, source.LastName = "", ""
	public.put(source)

	result := service.ChangeType(context.Background(), source, ContactTypeSecret)
	if result.Outcome != ChangeOutcomeValidationFailure {
		t.Fatalf("expected validation failure, got %#v", result)
	}
	if len(result.ValidationErrors) != 1 || result.ValidationErrors[0] != ValidationErrorNameNotSet {
		t.Fatalf("unexpected validation errors %#v", result.ValidationErrors)
	}
	if secret.createCalls != 0 || public.deleteCalls != 0 {
		t.Fatalf("validation failure must not touch stores")
	}
}

func TestChangeType_GroupPreparationFailureIsLogged(t *testing.T) {
	logger := newCaptureLogger()
	service, secret, public := newTypeChangeFixture(t, WithTypeChangeLogger(logger))
	source := migrationSource()
	source.Groups = []ContactGroup{{ID: ContactGroupID{Name: "family", Number: 3}, Status: ModelStatusUnchanged}}
	public.put(source)
	secret.groupErr = errors.New("group table locked")

	result := service.ChangeType(context.Background(), source, ContactTypeSecret)
	if !result.Successful() {
		t.Fatalf("expected migration to proceed without its groups, got %#v", result)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != ChangeErrorUnableToCreateContactGroup {
		t.Fatalf("expected a single group warning, got %v", result.Warnings)
	}
	if secret.groupCalls != 2 {
		t.Fatalf("expected preparation and save to attempt group creation, got %d calls", secret.groupCalls)
	}
	if secret.createCalls != 1 || !secret.has(result.ContactID) {
		t.Fatalf("expected the contact to be written to the secret store")
	}
	if public.has(source.ID) {
		t.Fatalf("expected the public copy to be deleted after the migration")
	}

	found := false
	for _, record := range logger.snapshot() {
		if record.level == "warn" && record.msg == "group preparation failed, continuing with migration" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected warn log for failed group preparation")
	}
}

func TestChangeType_SameTypeIsNormalSave(t *testing.T) {
	service, _, public := newTypeChangeFixture(t)
	source := migrationSource()
	public.put(source)

	result := service.ChangeType(context.Background(), source, ContactTypePublic)
	if !result.Successful() {
		t.Fatalf("expected success, got %#v", result)
	}
	if public.updateCalls != 1 || public.deleteCalls != 0 {
		t.Fatalf("expected a plain update, got %d updates and %d deletes", public.updateCalls, public.deleteCalls)
	}
}

func TestChangeTypes_AggregatesPerContact(t *testing.T) {
	service, _, public := newTypeChangeFixture(t)
	ok := migrationSource()
	invalid := publicContact(11)
	invalid.FirstName, invalid.LastName = "", ""
	public.put(ok)
	public.put(invalid)

	batch := service.ChangeTypes(context.Background(), []*Contact{ok, invalid}, ContactTypeSecret)
	if batch.Attempted() != 2 {
		t.Fatalf("expected 2 attempts, got %d", batch.Attempted())
	}
	if len(batch.Successful) != 1 || batch.Successful[0] != ok.ID {
		t.Fatalf("unexpected successes %#v", batch.Successful)
	}
	if errs := batch.Failed[invalid.ID]; len(errs) != 1 || errs[0] != ChangeErrorUnableToCreateContactWithNewType {
		t.Fatalf("expected invalid contact to fail with the migration code, got %v", errs)
	}
	if codes := batch.Invalid[invalid.ID]; len(codes) != 1 || codes[0] != ValidationErrorNameNotSet {
		t.Fatalf("expected validation codes to be kept, got %v", codes)
	}
	if batch.CompletelySuccessful() || batch.CompletelyFailed() {
		t.Fatalf("expected partial result")
	}
}

func TestSelectStrategy(t *testing.T) {
	if !SelectStrategy(ContactTypeSecret, nil, "").Supported() {
		t.Fatalf("expected secret target to be supported")
	}
	strategy := SelectStrategy(ContactTypePublic, nil, "")
	if strategy.Supported() || strategy.Unsupported != ChangeErrorNotYetImplementedForInternalContacts {
		t.Fatalf("expected public target to be unsupported, got %#v", strategy)
	}
}

func TestReidentifyData_Image(t *testing.T) {
	contact := publicContact(1)
	contact.Image = ContactImage{Thumbnail: []byte{1}, Status: ModelStatusDeleted}
	ReidentifyData(contact, IDFamilyInternal)
	if !contact.Image.IsEmpty() || contact.Image.Status != ModelStatusUnchanged {
		t.Fatalf("expected deleted image to be cleared, got %#v", contact.Image)
	}

	contact.Image = ContactImage{Full: []byte{1}, Status: ModelStatusUnchanged}
	ReidentifyData(contact, IDFamilyInternal)
	if contact.Image.Status != ModelStatusNew {
		t.Fatalf("expected image to be re-created, got %s", contact.Image.Status)
	}
}

func assertFailure(t *testing.T, result ChangeResult, want ...ChangeError) {
	t.Helper()
	if result.Outcome != ChangeOutcomeFailure {
		t.Fatalf("expected failure, got %#v", result)
	}
	if len(result.Errors) != len(want) {
		t.Fatalf("expected errors %v, got %v", want, result.Errors)
	}
	for index := range want {
		if result.Errors[index] != want[index] {
			t.Fatalf("expected errors %v, got %v", want, result.Errors)
		}
	}
}
