package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-contacts/core"
	glog "github.com/goliatone/go-logger/glog"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ContactStoreOption func(*ContactStore)

func WithLogger(logger core.Logger) ContactStoreOption {
	return func(s *ContactStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// ContactStore is the core.ContactStore for SECRET contacts. Writes apply
// the mutation status of every item: NEW and CHANGED items are written,
// DELETED items are removed and UNCHANGED items are left alone.
type ContactStore struct {
	db       *bun.DB
	contacts repository.Repository[*contactRecord]
	groups   repository.Repository[*contactGroupRecord]
	logger   core.Logger
}

func NewContactStore(db *bun.DB, opts ...ContactStoreOption) (*ContactStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	contacts := repository.NewRepository[*contactRecord](db, contactHandlers())
	if validator, ok := contacts.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid contact repository wiring: %w", err)
		}
	}
	groups := repository.NewRepository[*contactGroupRecord](db, groupHandlers())
	if validator, ok := groups.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid contact group repository wiring: %w", err)
		}
	}
	_, logger := glog.Resolve("sqlstore", nil, nil)
	s := &ContactStore{
		db:       db,
		contacts: contacts,
		groups:   groups,
		logger:   glog.Ensure(logger),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *ContactStore) LoadContact(ctx context.Context, id core.ContactID) (*core.Contact, error) {
	if s == nil || s.contacts == nil {
		return nil, fmt.Errorf("sqlstore: contact store is not configured")
	}
	contactID, err := internalID(id)
	if err != nil {
		return nil, err
	}
	record, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	contact := record.toDomain()

	var rows []*contactDataRecord
	if err := s.db.NewSelect().
		Model(&rows).
		Where("contact_id = ?", contactID).
		Order("category ASC", "sort_order ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	for _, row := range rows {
		item, convErr := row.toDomain()
		if convErr != nil {
			s.logger.WithContext(ctx).Warn("skipping unreadable contact data row",
				"contact_id", contactID,
				"row_id", row.ID,
				"error", convErr,
			)
			continue
		}
		contact.ContactData = append(contact.ContactData, item)
	}

	groups, err := s.loadGroups(ctx, contactID)
	if err != nil {
		return nil, err
	}
	contact.Groups = groups
	return contact, nil
}

func (s *ContactStore) loadGroups(ctx context.Context, contactID string) ([]core.ContactGroup, error) {
	var members []*groupMemberRecord
	if err := s.db.NewSelect().
		Model(&members).
		Where("contact_id = ?", contactID).
		Order("group_name ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(members))
	for _, member := range members {
		names = append(names, member.GroupName)
	}
	records, err := s.listGroups(ctx, names)
	if err != nil {
		return nil, err
	}
	notes := make(map[string]string, len(records))
	for _, record := range records {
		notes[record.Name] = record.Notes
	}
	out := make([]core.ContactGroup, 0, len(names))
	for _, name := range names {
		out = append(out, core.ContactGroup{
			ID:     core.ContactGroupID{Name: name},
			Notes:  notes[name],
			Status: core.ModelStatusUnchanged,
		})
	}
	return out, nil
}

func (s *ContactStore) listGroups(ctx context.Context, names []string) ([]*contactGroupRecord, error) {
	records, _, err := s.groups.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.name IN (?)", bun.In(names))
		}),
		repository.OrderBy("name ASC"),
	)
	return records, err
}

// ContactsExist answers for every id. Ids of another family are reported as
// missing.
func (s *ContactStore) ContactsExist(ctx context.Context, ids []core.ContactID) (map[core.ContactID]bool, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: contact store is not configured")
	}
	out := make(map[core.ContactID]bool, len(ids))
	byKey := make(map[string][]core.ContactID, len(ids))
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		key, err := internalID(id)
		if err != nil {
			out[id] = false
			continue
		}
		if _, seen := byKey[key]; !seen {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], id)
		out[id] = false
	}
	if len(keys) == 0 {
		return out, nil
	}
	var found []string
	if err := s.db.NewSelect().
		Model((*contactRecord)(nil)).
		Column("id").
		Where("id IN (?)", bun.In(keys)).
		Scan(ctx, &found); err != nil {
		return nil, err
	}
	for _, key := range found {
		for _, id := range byKey[key] {
			out[id] = true
		}
	}
	return out, nil
}

// CreateContact inserts contact under its internal id together with its
// items and group memberships. Items without an internal id get one.
func (s *ContactStore) CreateContact(ctx context.Context, contact *core.Contact) error {
	if s == nil || s.contacts == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: contact store is not configured"), core.ChangeErrorUnableToSaveContact)
	}
	if contact == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: contact is required"), core.ChangeErrorUnableToResolveContact)
	}
	id, ok := contact.ID.(core.InternalContactID)
	if !ok {
		return core.NewSaveError(
			fmt.Errorf("sqlstore: contact id %s is not an internal id", core.ContactIDString(contact.ID)),
			core.ChangeErrorUnableToSaveContact,
		)
	}
	now := time.Now().UTC()
	record := newContactRecord(id.UUID, contact, now)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.contacts.CreateTx(ctx, tx, record); err != nil {
			return err
		}
		for index := range contact.ContactData {
			item := &contact.ContactData[index]
			if item.Status == core.ModelStatusDeleted || item.IsEmpty() {
				continue
			}
			if _, internal := item.ID.(core.InternalDataID); !internal {
				item.ChangeToInternalID()
			}
			row, err := newContactDataRecord(record.ID, *item, now)
			if err != nil {
				return err
			}
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return err
			}
		}
		for _, group := range contact.Groups {
			if group.Status == core.ModelStatusDeleted {
				continue
			}
			if err := ensureMemberTx(ctx, tx, record.ID, group.ID.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return core.NewSaveError(err, core.ChangeErrorUnableToSaveContact)
	}
	return nil
}

func (s *ContactStore) UpdateContact(ctx context.Context, id core.ContactID, contact *core.Contact) error {
	if s == nil || s.db == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: contact store is not configured"), core.ChangeErrorUnableToSaveContact)
	}
	if contact == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: contact is required"), core.ChangeErrorUnableToResolveContact)
	}
	contactID, err := internalID(id)
	if err != nil {
		return core.NewSaveError(err, core.ChangeErrorUnableToResolveExistingContact)
	}
	now := time.Now().UTC()

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record := &contactRecord{}
		if err := tx.NewSelect().Model(record).Where("id = ?", contactID).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return core.NewSaveError(err, core.ChangeErrorUnableToResolveExistingContact)
			}
			return err
		}
		record.FirstName = contact.FirstName
		record.LastName = contact.LastName
		record.Nickname = contact.Nickname
		record.Notes = contact.Notes
		switch contact.Image.Status {
		case core.ModelStatusDeleted:
			record.Thumbnail, record.Photo = nil, nil
		case core.ModelStatusNew, core.ModelStatusChanged:
			record.Thumbnail = append([]byte(nil), contact.Image.Thumbnail...)
			record.Photo = append([]byte(nil), contact.Image.Full...)
		}
		record.UpdatedAt = now
		if _, err := tx.NewUpdate().Model(record).Where("id = ?", contactID).Exec(ctx); err != nil {
			return err
		}

		for index := range contact.ContactData {
			if err := applyItemTx(ctx, tx, contactID, &contact.ContactData[index], now); err != nil {
				return err
			}
		}
		for _, group := range contact.Groups {
			if group.Status == core.ModelStatusDeleted {
				if _, err := tx.NewDelete().
					Model((*groupMemberRecord)(nil)).
					Where("contact_id = ?", contactID).
					Where("group_name = ?", group.ID.Name).
					Exec(ctx); err != nil {
					return err
				}
				continue
			}
			if group.Status == core.ModelStatusUnchanged {
				continue
			}
			if err := ensureMemberTx(ctx, tx, contactID, group.ID.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var saveErr *core.SaveError
		if errors.As(err, &saveErr) {
			return saveErr
		}
		return core.NewSaveError(err, core.ChangeErrorUnableToSaveContact)
	}
	return nil
}

// applyItemTx writes one item according to its status. Written items are
// matched by id, so an item is inserted when its id is not stored yet.
func applyItemTx(ctx context.Context, tx bun.Tx, contactID string, item *core.ContactData, now time.Time) error {
	switch item.Status {
	case core.ModelStatusUnchanged:
		return nil
	case core.ModelStatusDeleted:
		internal, ok := item.ID.(core.InternalDataID)
		if !ok {
			return nil
		}
		_, err := tx.NewDelete().
			Model((*contactDataRecord)(nil)).
			Where("id = ?", internal.UUID.String()).
			Where("contact_id = ?", contactID).
			Exec(ctx)
		return err
	}

	if item.IsEmpty() {
		return nil
	}
	if _, internal := item.ID.(core.InternalDataID); !internal {
		item.ChangeToInternalID()
	}
	row, err := newContactDataRecord(contactID, *item, now)
	if err != nil {
		return err
	}
	exists, err := tx.NewSelect().
		Model((*contactDataRecord)(nil)).
		Where("id = ?", row.ID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		_, err = tx.NewInsert().Model(row).Exec(ctx)
		return err
	}
	_, err = tx.NewUpdate().
		Model(row).
		Column("category", "type_key", "type_custom", "value", "sort_order", "updated_at").
		Where("id = ?", row.ID).
		Exec(ctx)
	return err
}

func ensureMemberTx(ctx context.Context, tx bun.Tx, contactID string, groupName string) error {
	groupName = strings.TrimSpace(groupName)
	if groupName == "" {
		return nil
	}
	exists, err := tx.NewSelect().
		Model((*groupMemberRecord)(nil)).
		Where("contact_id = ?", contactID).
		Where("group_name = ?", groupName).
		Exists(ctx)
	if err != nil || exists {
		return err
	}
	_, err = tx.NewInsert().Model(&groupMemberRecord{ContactID: contactID, GroupName: groupName}).Exec(ctx)
	return err
}

// DeleteContacts removes every id in one transaction, so either all of them
// are gone afterwards or none.
func (s *ContactStore) DeleteContacts(ctx context.Context, ids []core.ContactID) error {
	if s == nil || s.db == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: contact store is not configured"), core.ChangeErrorUnableToDeleteContact)
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		key, err := internalID(id)
		if err != nil {
			return core.NewSaveError(err, core.ChangeErrorUnableToDeleteContact)
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*groupMemberRecord)(nil)).
			Where("contact_id IN (?)", bun.In(keys)).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*contactDataRecord)(nil)).
			Where("contact_id IN (?)", bun.In(keys)).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*contactRecord)(nil)).
			Where("id IN (?)", bun.In(keys)).
			Exec(ctx)
		return err
	})
	if err != nil {
		return core.NewSaveError(err, core.ChangeErrorUnableToDeleteContact)
	}
	return nil
}

// CreateMissingGroups inserts the group names that are not stored yet. The
// secret store has no accounts, so account is ignored.
func (s *ContactStore) CreateMissingGroups(ctx context.Context, groups []core.ContactGroup, _ string) error {
	if s == nil || s.groups == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: contact store is not configured"), core.ChangeErrorUnableToCreateContactGroup)
	}
	wanted := make([]core.ContactGroup, 0, len(groups))
	seen := map[string]struct{}{}
	names := make([]string, 0, len(groups))
	for _, group := range groups {
		name := strings.TrimSpace(group.ID.Name)
		if name == "" || group.Status == core.ModelStatusDeleted {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		group.ID.Name = name
		wanted = append(wanted, group)
		names = append(names, name)
	}
	if len(wanted) == 0 {
		return nil
	}
	existing, err := s.listGroups(ctx, names)
	if err != nil {
		return core.NewSaveError(err, core.ChangeErrorUnableToCreateContactGroup)
	}
	known := make(map[string]struct{}, len(existing))
	for _, record := range existing {
		known[record.Name] = struct{}{}
	}
	now := time.Now().UTC()
	for _, group := range wanted {
		if _, ok := known[group.ID.Name]; ok {
			continue
		}
		record := &contactGroupRecord{
			ID:        uuid.NewString(),
			Name:      group.ID.Name,
			Notes:     group.Notes,
			CreatedAt: now,
		}
		if _, err := s.groups.Create(ctx, record); err != nil {
			return core.NewSaveError(err, core.ChangeErrorUnableToCreateContactGroup)
		}
	}
	return nil
}

func internalID(id core.ContactID) (string, error) {
	internal, ok := id.(core.InternalContactID)
	if !ok {
		return "", fmt.Errorf("sqlstore: contact id %s is not an internal id", core.ContactIDString(id))
	}
	return internal.UUID.String(), nil
}
