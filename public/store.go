package public

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-contacts/company"
	"github.com/goliatone/go-contacts/core"
	"github.com/goliatone/go-contacts/labels"
	glog "github.com/goliatone/go-logger/glog"
)

// Provider row kinds.
const (
	KindPhone    = "phone"
	KindEmail    = "email"
	KindAddress  = "address"
	KindWebsite  = "website"
	KindRelation = "relation"
	KindEvent    = "event"
)

var kindByCategory = map[core.ContactDataCategory]string{
	core.CategoryPhoneNumber:  KindPhone,
	core.CategoryEmail:        KindEmail,
	core.CategoryAddress:      KindAddress,
	core.CategoryWebsite:      KindWebsite,
	core.CategoryRelationship: KindRelation,
	core.CategoryEventDate:    KindEvent,
	core.CategoryCompany:      KindRelation,
}

var categoryByKind = map[string]core.ContactDataCategory{
	KindPhone:    core.CategoryPhoneNumber,
	KindEmail:    core.CategoryEmail,
	KindAddress:  core.CategoryAddress,
	KindWebsite:  core.CategoryWebsite,
	KindRelation: core.CategoryRelationship,
	KindEvent:    core.CategoryEventDate,
}

type StoreOption func(*Store)

func WithLogger(logger core.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAccount sets the provider account new groups are created in when the
// caller passes none.
func WithAccount(account string) StoreOption {
	return func(s *Store) {
		s.account = account
	}
}

// Store is the core.ContactStore for PUBLIC contacts.
type Store struct {
	provider   Provider
	translator *labels.Translator
	codec      *company.Codec
	logger     core.Logger
	account    string
}

func NewStore(provider Provider, opts ...StoreOption) (*Store, error) {
	if provider == nil {
		return nil, fmt.Errorf("public: provider is required")
	}
	_, logger := glog.Resolve("public", nil, nil)
	s := &Store{
		provider: provider,
		logger:   glog.Ensure(logger),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.translator = labels.NewTranslator(labels.WithLogger(s.logger))
	s.codec = company.NewCodec(company.WithLogger(s.logger))
	return s, nil
}

func (s *Store) LoadContact(ctx context.Context, id core.ContactID) (*core.Contact, error) {
	number, err := providerNumber(id)
	if err != nil {
		return nil, err
	}
	record, err := s.provider.Load(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.toContact(ctx, record), nil
}

func (s *Store) ContactsExist(ctx context.Context, ids []core.ContactID) (map[core.ContactID]bool, error) {
	numbers := make([]int64, 0, len(ids))
	byNumber := make(map[int64][]core.ContactID, len(ids))
	out := make(map[core.ContactID]bool, len(ids))
	for _, id := range ids {
		number, err := providerNumber(id)
		if err != nil {
			// ids of another family can never be stored here
			out[id] = false
			continue
		}
		if _, seen := byNumber[number]; !seen {
			numbers = append(numbers, number)
		}
		byNumber[number] = append(byNumber[number], id)
	}
	if len(numbers) == 0 {
		return out, nil
	}
	existing, err := s.provider.Exists(ctx, numbers)
	if err != nil {
		return nil, err
	}
	for number, contactIDs := range byNumber {
		exists, answered := existing[number]
		if !answered {
			continue
		}
		for _, id := range contactIDs {
			out[id] = exists
		}
	}
	return out, nil
}

// CreateContact inserts contact and writes the provider-assigned ids back
// into it.
func (s *Store) CreateContact(ctx context.Context, contact *core.Contact) error {
	if contact == nil {
		return core.NewSaveError(fmt.Errorf("public: contact is required"), core.ChangeErrorUnableToResolveContact)
	}
	record, items := s.toRecord(contact, nil)
	stored, err := s.provider.Insert(ctx, record)
	if err != nil {
		return core.NewSaveError(err, core.ChangeErrorUnableToSaveContact)
	}
	contact.ID = core.ExternalContactID{Number: stored.ID, LookupKey: stored.LookupKey}
	assignRowIDs(contact, items, stored.Rows)
	return nil
}

// UpdateContact rewrites the record with the given id. Labels of items whose
// type did not change are kept as the provider stored them.
func (s *Store) UpdateContact(ctx context.Context, id core.ContactID, contact *core.Contact) error {
	if contact == nil {
		return core.NewSaveError(fmt.Errorf("public: contact is required"), core.ChangeErrorUnableToResolveContact)
	}
	number, err := providerNumber(id)
	if err != nil {
		return core.NewSaveError(err, core.ChangeErrorUnableToResolveExistingContact)
	}
	existing, err := s.provider.Load(ctx, number)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return core.NewSaveError(err, core.ChangeErrorUnableToResolveExistingContact)
		}
		return core.NewSaveError(err, core.ChangeErrorUnableToSaveContact)
	}
	originals := make(map[int64]string, len(existing.Rows))
	for _, row := range existing.Rows {
		originals[row.ID] = row.Label
	}

	record, items := s.toRecord(contact, originals)
	record.ID = number
	record.LookupKey = existing.LookupKey
	if contact.Image.Status == core.ModelStatusUnchanged && contact.Image.IsEmpty() {
		record.Thumbnail, record.Photo = existing.Thumbnail, existing.Photo
	}
	stored, err := s.provider.Update(ctx, record)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return core.NewSaveError(err, core.ChangeErrorUnableToResolveExistingContact)
		}
		return core.NewSaveError(err, core.ChangeErrorUnableToSaveContact)
	}
	assignRowIDs(contact, items, stored.Rows)
	return nil
}

// DeleteContacts forwards to the provider batch delete. The provider reports
// no per-id outcome; callers reconcile by existence.
func (s *Store) DeleteContacts(ctx context.Context, ids []core.ContactID) error {
	numbers := make([]int64, 0, len(ids))
	for _, id := range ids {
		number, err := providerNumber(id)
		if err != nil {
			return core.NewSaveError(err, core.ChangeErrorUnableToDeleteContact)
		}
		numbers = append(numbers, number)
	}
	if len(numbers) == 0 {
		return nil
	}
	if err := s.provider.Delete(ctx, numbers); err != nil {
		return core.NewSaveError(err, core.ChangeErrorUnableToDeleteContact)
	}
	return nil
}

// CreateMissingGroups creates the groups whose title is unknown in the
// account.
func (s *Store) CreateMissingGroups(ctx context.Context, groups []core.ContactGroup, account string) error {
	if account == "" {
		account = s.account
	}
	existing, err := s.provider.ListGroups(ctx, account)
	if err != nil {
		return core.NewSaveError(err, core.ChangeErrorUnableToCreateContactGroup)
	}
	known := make(map[string]struct{}, len(existing))
	for _, group := range existing {
		known[group.Title] = struct{}{}
	}
	missing := make([]GroupRecord, 0, len(groups))
	for _, group := range groups {
		if group.Status == core.ModelStatusDeleted || group.ID.Name == "" {
			continue
		}
		if _, ok := known[group.ID.Name]; ok {
			continue
		}
		known[group.ID.Name] = struct{}{}
		missing = append(missing, GroupRecord{Title: group.ID.Name, Notes: group.Notes, Account: account})
	}
	if len(missing) == 0 {
		return nil
	}
	if err := s.provider.InsertGroups(ctx, missing); err != nil {
		return core.NewSaveError(err, core.ChangeErrorUnableToCreateContactGroup)
	}
	return nil
}

// toRecord builds the provider record of contact. The returned indexes map
// each row to its item in contact.ContactData.
func (s *Store) toRecord(contact *core.Contact, originals map[int64]string) (Record, []int) {
	record := Record{
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Nickname:  contact.Nickname,
		Notes:     contact.Notes,
	}
	if contact.Image.Status != core.ModelStatusDeleted {
		record.Thumbnail = append([]byte(nil), contact.Image.Thumbnail...)
		record.Photo = append([]byte(nil), contact.Image.Full...)
	}
	items := make([]int, 0, len(contact.ContactData))
	for index, item := range contact.ContactData {
		if item.Status == core.ModelStatusDeleted || item.IsEmpty() {
			continue
		}
		var id int64
		if number, ok := core.ExternalDataNumber(item.ID); ok {
			id = number
		}
		record.Rows = append(record.Rows, s.toRow(item, id, originals))
		items = append(items, index)
	}
	for _, group := range contact.Groups {
		if group.Status == core.ModelStatusDeleted {
			continue
		}
		record.Groups = append(record.Groups, group.ID.Name)
	}
	return record, items
}

func (s *Store) toRow(item core.ContactData, id int64, originals map[int64]string) Row {
	row := Row{
		ID:        id,
		Kind:      kindByCategory[item.Category],
		Value:     item.SerializedValue(),
		SortOrder: item.SortOrder,
	}
	if item.Category == core.CategoryCompany {
		_, row.Label = company.ToRelationship(item)
		return row
	}
	var original *labels.Label
	if raw, ok := originals[id]; ok && id != 0 && !company.Matches(raw) {
		parsed := labels.Parse(raw)
		original = &parsed
	}
	row.Label = s.translator.ToExternalLabel(item.Type, item.Category, original).String()
	return row
}

func (s *Store) toContact(ctx context.Context, record Record) *core.Contact {
	contact := &core.Contact{
		ID:        core.ExternalContactID{Number: record.ID, LookupKey: record.LookupKey},
		Type:      core.ContactTypePublic,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Nickname:  record.Nickname,
		Notes:     record.Notes,
		Image: core.ContactImage{
			Thumbnail: append([]byte(nil), record.Thumbnail...),
			Full:      append([]byte(nil), record.Photo...),
			Status:    core.ModelStatusUnchanged,
		},
	}
	for _, row := range record.Rows {
		item, ok := s.fromRow(ctx, row)
		if !ok {
			continue
		}
		contact.ContactData = append(contact.ContactData, item)
	}
	for _, title := range record.Groups {
		contact.Groups = append(contact.Groups, core.ContactGroup{
			ID:     core.ContactGroupID{Name: title},
			Status: core.ModelStatusUnchanged,
		})
	}
	return contact
}

func (s *Store) fromRow(ctx context.Context, row Row) (core.ContactData, bool) {
	category, ok := categoryByKind[row.Kind]
	if !ok {
		s.logger.WithContext(ctx).Warn("skipping provider row of unknown kind", "kind", row.Kind, "row_id", row.ID)
		return core.ContactData{}, false
	}
	value, err := core.DeserializeValue(category, row.Value)
	if err != nil {
		s.logger.WithContext(ctx).Warn("skipping unreadable provider row", "row_id", row.ID, "error", err)
		return core.ContactData{}, false
	}
	item := core.ContactData{
		ID:        core.ExternalDataID{Number: row.ID},
		SortOrder: row.SortOrder,
		Category:  category,
		Type:      labels.ToInternalType(labels.Parse(row.Label)),
		Value:     value,
		Status:    core.ModelStatusUnchanged,
	}
	if category == core.CategoryRelationship && company.Matches(row.Label) {
		item = s.codec.FromRelationship(item, row.Label)
	}
	return item, true
}

func assignRowIDs(contact *core.Contact, items []int, rows []Row) {
	for position, index := range items {
		if position >= len(rows) {
			return
		}
		contact.ContactData[index].ID = core.ExternalDataID{Number: rows[position].ID}
	}
}

func providerNumber(id core.ContactID) (int64, error) {
	external, ok := id.(core.ExternalContactID)
	if !ok {
		return 0, fmt.Errorf("public: contact id %s is not a provider id", core.ContactIDString(id))
	}
	return external.Number, nil
}

var _ core.ContactStore = (*Store)(nil)
