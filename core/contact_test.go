package core

import (
	"context"
	"testing"
)

func TestContactRemoveData_DropsNewItemAndMarksPersistedItem(t *testing.T) {
	contact := publicContact(1,
		dataItem(CategoryPhoneNumber, 0, PhoneNumber{Number: "111"}, ModelStatusUnchanged),
		dataItem(CategoryPhoneNumber, 1, PhoneNumber{Number: "222"}, ModelStatusNew),
	)
	persisted := contact.ContactData[0].ID
	fresh := contact.ContactData[1].ID

	if !contact.RemoveData(fresh) {
		t.Fatalf("expected new item to be removed")
	}
	if len(contact.ContactData) != 1 {
		t.Fatalf("expected new item to be dropped, got %d items", len(contact.ContactData))
	}

	if !contact.RemoveData(persisted) {
		t.Fatalf("expected persisted item to be removed")
	}
	item, ok := contact.FindData(persisted)
	if !ok {
		t.Fatalf("expected persisted item to stay until save")
	}
	if item.Status != ModelStatusDeleted {
		t.Fatalf("expected DELETED, got %s", item.Status)
	}
	if len(contact.ActiveData()) != 0 {
		t.Fatalf("expected no active data")
	}
}

func TestContactData_ChangeValueChecksCategory(t *testing.T) {
	item := dataItem(CategoryEmail, 0, EmailAddress("a@example.com"), ModelStatusUnchanged)
	if err := item.ChangeValue(Website("https://example.com")); err == nil {
		t.Fatalf("expected category mismatch error")
	}
	if item.Status != ModelStatusUnchanged {
		t.Fatalf("failed change must not touch status, got %s", item.Status)
	}
	if err := item.ChangeValue(EmailAddress("b@example.com")); err != nil {
		t.Fatalf("change value: %v", err)
	}
	if item.Status != ModelStatusChanged {
		t.Fatalf("expected CHANGED, got %s", item.Status)
	}
}

func TestEnforceContinuousSortOrder(t *testing.T) {
	items := []ContactData{
		dataItem(CategoryEmail, 4, EmailAddress("c@example.com"), ModelStatusUnchanged),
		dataItem(CategoryEmail, 0, EmailAddress("a@example.com"), ModelStatusUnchanged),
		dataItem(CategoryEmail, 2, EmailAddress("gone@example.com"), ModelStatusDeleted),
		dataItem(CategoryPhoneNumber, 3, PhoneNumber{Number: "1"}, ModelStatusUnchanged),
	}
	EnforceContinuousSortOrder(items)

	if items[1].SortOrder != 0 || items[1].Status != ModelStatusUnchanged {
		t.Fatalf("expected first email untouched, got %d/%s", items[1].SortOrder, items[1].Status)
	}
	if items[0].SortOrder != 1 || items[0].Status != ModelStatusChanged {
		t.Fatalf("expected second email moved to 1 and CHANGED, got %d/%s", items[0].SortOrder, items[0].Status)
	}
	if items[2].SortOrder != 2 || items[2].Status != ModelStatusDeleted {
		t.Fatalf("deleted items must be left alone")
	}
	if items[3].SortOrder != 0 {
		t.Fatalf("expected phone to be renumbered within its own category, got %d", items[3].SortOrder)
	}
}

func TestContactClone_IsDeep(t *testing.T) {
	contact := publicContact(1, dataItem(CategoryEmail, 0, EmailAddress("a@example.com"), ModelStatusUnchanged))
	contact.Image = ContactImage{Thumbnail: []byte{1, 2}, Full: []byte{3}, Status: ModelStatusUnchanged}
	contact.Groups = []ContactGroup{{ID: ContactGroupID{Name: "family"}, Status: ModelStatusUnchanged}}

	cloned := contact.Clone()
	cloned.ContactData[0].Delete()
	cloned.Image.Thumbnail[0] = 9
	cloned.Groups[0].Notes = "changed"

	if contact.ContactData[0].Status != ModelStatusUnchanged {
		t.Fatalf("clone shares contact data")
	}
	if contact.Image.Thumbnail[0] != 1 {
		t.Fatalf("clone shares image bytes")
	}
	if contact.Groups[0].Notes != "" {
		t.Fatalf("clone shares groups")
	}
}

func TestContactChangeImage(t *testing.T) {
	contact := publicContact(1)
	contact.ChangeImage([]byte{1}, []byte{2})
	if contact.Image.Status != ModelStatusChanged {
		t.Fatalf("expected CHANGED image, got %s", contact.Image.Status)
	}
	contact.ChangeImage(nil, nil)
	if contact.Image.Status != ModelStatusDeleted {
		t.Fatalf("expected DELETED image, got %s", contact.Image.Status)
	}
}

func TestDefaultValidator(t *testing.T) {
	validator := DefaultValidator{}
	if errs := validator.Validate(context.Background(), &Contact{Nickname: "  "}); len(errs) != 1 || errs[0] != ValidationErrorNameNotSet {
		t.Fatalf("expected NAME_NOT_SET, got %#v", errs)
	}
	if errs := validator.Validate(context.Background(), &Contact{Nickname: "ada"}); len(errs) != 0 {
		t.Fatalf("expected nickname to satisfy validation, got %#v", errs)
	}
}
