package public

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-contacts/company"
	"github.com/goliatone/go-contacts/core"
	"github.com/goliatone/go-contacts/labels"
)

func newTestStore(t *testing.T) (*Store, *MemoryProvider) {
	t.Helper()
	provider := NewMemoryProvider()
	store, err := NewStore(provider, WithAccount("device"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, provider
}

func sampleContact() *core.Contact {
	contact := core.NewContact(core.ContactTypePublic)
	contact.FirstName = "Grace"
	contact.LastName = "Hopper"

	phone := contact.AddData(core.CategoryPhoneNumber)
	phone.Value = core.PhoneNumber{Number: "555-0100"}
	phone.Type = core.TypeBusiness

	employer := contact.AddData(core.CategoryCompany)
	employer.Value = core.Company("US Navy")
	employer.Type = core.CustomType("Reserve")

	partner := contact.AddData(core.CategoryRelationship)
	partner.Value = core.Relationship("Vincent")
	partner.Type = core.TypeRelationshipPartner

	contact.Groups = []core.ContactGroup{{ID: core.ContactGroupID{Name: "navy"}, Status: core.ModelStatusNew}}
	contact.ChangeDataIDs(core.IDFamilyExternal)
	return contact
}

func TestStore_CreateAndLoad(t *testing.T) {
	store, provider := newTestStore(t)
	ctx := context.Background()
	contact := sampleContact()

	if err := store.CreateContact(ctx, contact); err != nil {
		t.Fatalf("create: %v", err)
	}
	id, ok := contact.ID.(core.ExternalContactID)
	if !ok || id.Number == 0 || id.LookupKey == "" {
		t.Fatalf("expected provider id, got %#v", contact.ID)
	}
	for _, item := range contact.ContactData {
		if _, ok := core.ExternalDataNumber(item.ID); !ok {
			t.Fatalf("expected provider row id on %s item", item.Category)
		}
	}

	record, err := provider.Load(ctx, id.Number)
	if err != nil {
		t.Fatalf("provider load: %v", err)
	}
	var companyRow Row
	for _, row := range record.Rows {
		if company.Matches(row.Label) {
			companyRow = row
		}
	}
	if companyRow.Kind != KindRelation || companyRow.Label != "Organisation:CUSTOM:Reserve" {
		t.Fatalf("expected company encoded as relationship, got %#v", companyRow)
	}

	loaded, err := store.LoadContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.ContactData) != 3 {
		t.Fatalf("expected 3 items, got %d", len(loaded.ContactData))
	}
	byCategory := map[core.ContactDataCategory]core.ContactData{}
	for _, item := range loaded.ContactData {
		if item.Status != core.ModelStatusUnchanged {
			t.Fatalf("loaded items must be UNCHANGED, got %s", item.Status)
		}
		byCategory[item.Category] = item
	}
	if got := byCategory[core.CategoryCompany]; got.Type != core.CustomType("Reserve") || got.SerializedValue() != "US Navy" {
		t.Fatalf("unexpected company item %#v", got)
	}
	if got := byCategory[core.CategoryPhoneNumber]; got.Type != core.TypeBusiness {
		t.Fatalf("unexpected phone type %s", got.Type)
	}
	if len(loaded.Groups) != 1 || loaded.Groups[0].ID.Name != "navy" {
		t.Fatalf("unexpected groups %#v", loaded.Groups)
	}
}

func TestStore_UpdateKeepsOriginalLabel(t *testing.T) {
	store, provider := newTestStore(t)
	ctx := context.Background()
	stored, err := provider.Insert(ctx, Record{
		FirstName: "Ada",
		Rows: []Row{
			{Kind: KindRelation, Label: labels.Label{Kind: labels.KindRelationSpouse}.String(), Value: "William"},
			{Kind: KindPhone, Label: labels.Label{Kind: labels.KindPhoneMobile}.String(), Value: "1"},
		},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	contact, err := store.LoadContact(ctx, core.ExternalContactID{Number: stored.ID})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	contact.Notes = "updated"
	for index := range contact.ContactData {
		if contact.ContactData[index].Category == core.CategoryPhoneNumber {
			contact.ContactData[index].Delete()
		}
	}
	if err := store.UpdateContact(ctx, contact.ID, contact); err != nil {
		t.Fatalf("update: %v", err)
	}

	record, _ := provider.Load(ctx, stored.ID)
	if record.Notes != "updated" {
		t.Fatalf("expected notes to be written")
	}
	if len(record.Rows) != 1 {
		t.Fatalf("expected deleted phone row to be removed, got %#v", record.Rows)
	}
	if record.Rows[0].Label != string(labels.KindRelationSpouse) {
		t.Fatalf("expected spouse label to survive, got %q", record.Rows[0].Label)
	}
}

func TestStore_UpdateMissingRecord(t *testing.T) {
	store, _ := newTestStore(t)
	contact := sampleContact()
	err := store.UpdateContact(context.Background(), core.ExternalContactID{Number: 404}, contact)
	codes := core.ChangeErrorsOf(err, core.ChangeErrorUnknown)
	if len(codes) != 1 || codes[0] != core.ChangeErrorUnableToResolveExistingContact {
		t.Fatalf("expected unresolved existing contact, got %v", codes)
	}
}

func TestStore_CreateMissingGroups(t *testing.T) {
	store, provider := newTestStore(t)
	ctx := context.Background()
	groups := []core.ContactGroup{
		{ID: core.ContactGroupID{Name: "family"}},
		{ID: core.ContactGroupID{Name: "family"}},
		{ID: core.ContactGroupID{Name: "old"}, Status: core.ModelStatusDeleted},
	}
	if err := store.CreateMissingGroups(ctx, groups, ""); err != nil {
		t.Fatalf("create groups: %v", err)
	}
	if err := store.CreateMissingGroups(ctx, groups, ""); err != nil {
		t.Fatalf("create groups again: %v", err)
	}
	listed, _ := provider.ListGroups(ctx, "device")
	if len(listed) != 1 || listed[0].Title != "family" {
		t.Fatalf("expected one family group in the default account, got %#v", listed)
	}
}

func TestStore_PartialBatchDeleteIsReconciled(t *testing.T) {
	store, provider := newTestStore(t)
	ctx := context.Background()
	first, second := sampleContact(), sampleContact()
	for _, contact := range []*core.Contact{first, second} {
		if err := store.CreateContact(ctx, contact); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	provider.FailDeletesAfter(1, errors.New("provider process died"))

	saver, err := core.NewSaveService(nil, store)
	if err != nil {
		t.Fatalf("new save service: %v", err)
	}
	result := saver.DeleteContacts(ctx, []core.ContactID{first.ID, second.ID})
	if len(result.Successful) != 1 || result.Successful[0] != first.ID {
		t.Fatalf("expected first delete to succeed, got %#v", result.Successful)
	}
	if _, failed := result.Failed[second.ID]; !failed {
		t.Fatalf("expected second delete to fail")
	}
	if provider.Len() != 1 {
		t.Fatalf("expected one record to remain, got %d", provider.Len())
	}
}

func TestStore_ContactsExistIgnoresForeignIDs(t *testing.T) {
	store, _ := newTestStore(t)
	internal := core.NewInternalContactID()
	existing, err := store.ContactsExist(context.Background(), []core.ContactID{internal})
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if existing[internal] {
		t.Fatalf("internal ids never exist in the provider")
	}
}
