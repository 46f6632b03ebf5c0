package core

import "testing"

var allStatuses = []ModelStatus{
	ModelStatusNew,
	ModelStatusChanged,
	ModelStatusUnchanged,
	ModelStatusDeleted,
}

func TestModelStatusTryChangeTo_IsIdempotent(t *testing.T) {
	for _, current := range allStatuses {
		for _, target := range allStatuses {
			once := current.TryChangeTo(target)
			twice := once.TryChangeTo(target)
			if once != twice {
				t.Fatalf("%s -> %s: expected idempotent result, got %s then %s", current, target, once, twice)
			}
			if again := current.TryChangeTo(target); again != once {
				t.Fatalf("%s -> %s: expected deterministic result, got %s and %s", current, target, once, again)
			}
		}
	}
}

func TestModelStatusTryChangeTo_NeverReturnsNewUnlessAlreadyNew(t *testing.T) {
	for _, current := range allStatuses {
		for _, target := range allStatuses {
			got := current.TryChangeTo(target)
			if got == ModelStatusNew && current != ModelStatusNew {
				t.Fatalf("%s -> %s: unexpected NEW", current, target)
			}
			if current == ModelStatusNew && target != ModelStatusDeleted && got != ModelStatusNew {
				t.Fatalf("%s -> %s: NEW may only leave towards DELETED, got %s", current, target, got)
			}
		}
	}
}

func TestModelStatusTryChangeTo_Table(t *testing.T) {
	cases := []struct {
		current ModelStatus
		target  ModelStatus
		want    ModelStatus
	}{
		{ModelStatusUnchanged, ModelStatusChanged, ModelStatusChanged},
		{ModelStatusUnchanged, ModelStatusDeleted, ModelStatusDeleted},
		{ModelStatusUnchanged, ModelStatusNew, ModelStatusUnchanged},
		{ModelStatusChanged, ModelStatusUnchanged, ModelStatusChanged},
		{ModelStatusChanged, ModelStatusNew, ModelStatusChanged},
		{ModelStatusChanged, ModelStatusDeleted, ModelStatusDeleted},
		{ModelStatusDeleted, ModelStatusChanged, ModelStatusDeleted},
		{ModelStatusDeleted, ModelStatusUnchanged, ModelStatusDeleted},
		{ModelStatusDeleted, ModelStatusNew, ModelStatusDeleted},
		{ModelStatusNew, ModelStatusChanged, ModelStatusNew},
		{ModelStatusNew, ModelStatusUnchanged, ModelStatusNew},
		{ModelStatusNew, ModelStatusDeleted, ModelStatusDeleted},
		{ModelStatusUnchanged, ModelStatus("BOGUS"), ModelStatusUnchanged},
	}
	for _, tc := range cases {
		if got := tc.current.TryChangeTo(tc.target); got != tc.want {
			t.Fatalf("%s -> %s: expected %s, got %s", tc.current, tc.target, tc.want, got)
		}
	}
}

func TestContactData_EditedNewItemStaysNew(t *testing.T) {
	contact := NewContact(ContactTypeSecret)
	item := contact.AddData(CategoryEmail)
	if err := item.ChangeValue(EmailAddress("ada@example.com")); err != nil {
		t.Fatalf("change value: %v", err)
	}
	item.ChangeType(TypeBusiness)
	if item.Status != ModelStatusNew {
		t.Fatalf("expected edited item to stay NEW, got %s", item.Status)
	}

	if !contact.RemoveData(item.ID) {
		t.Fatalf("expected item to be found")
	}
	if len(contact.ContactData) != 0 {
		t.Fatalf("expected edited new item to be dropped, got %#v", contact.ContactData)
	}
}

func TestParseModelStatus(t *testing.T) {
	status, err := ParseModelStatus(" changed ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if status != ModelStatusChanged {
		t.Fatalf("expected CHANGED, got %s", status)
	}
	if _, err := ParseModelStatus("gone"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestFilterChanged(t *testing.T) {
	items := []ContactData{
		dataItem(CategoryEmail, 0, EmailAddress("a@example.com"), ModelStatusNew),
		dataItem(CategoryEmail, 1, EmailAddress("b@example.com"), ModelStatusUnchanged),
		dataItem(CategoryEmail, 2, EmailAddress("c@example.com"), ModelStatusChanged),
		dataItem(CategoryEmail, 3, EmailAddress("d@example.com"), ModelStatusDeleted),
	}
	changed := FilterChanged(items)
	if len(changed) != 2 {
		t.Fatalf("expected 2 changed items, got %d", len(changed))
	}
	if changed[0].Value != EmailAddress("a@example.com") || changed[1].Value != EmailAddress("c@example.com") {
		t.Fatalf("unexpected changed items %#v", changed)
	}
}
