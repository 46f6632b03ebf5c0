package core

import (
	"context"
	"fmt"

	glog "github.com/goliatone/go-logger/glog"
)

type SaveServiceOption func(*SaveService)

func WithSaveValidator(validator Validator) SaveServiceOption {
	return func(s *SaveService) {
		if s == nil || validator == nil {
			return
		}
		s.validator = validator
	}
}

func WithSaveLogger(logger Logger) SaveServiceOption {
	return func(s *SaveService) {
		if s == nil || logger == nil {
			return
		}
		s.logger = logger
	}
}

// WithSaveAccount sets the account used when groups are created in the
// public store.
func WithSaveAccount(account string) SaveServiceOption {
	return func(s *SaveService) {
		if s == nil {
			return
		}
		s.account = account
	}
}

// SaveService validates contacts and routes writes, loads and deletes to the
// store that owns the contact type or id family.
type SaveService struct {
	secret           ContactStore
	public           ContactStore
	secretReconciler *ExistenceReconciler
	publicReconciler *ExistenceReconciler
	validator        Validator
	logger           Logger
	account          string
}

func NewSaveService(secret ContactStore, public ContactStore, opts ...SaveServiceOption) (*SaveService, error) {
	if secret == nil && public == nil {
		return nil, fmt.Errorf("core: at least one contact store is required")
	}
	_, logger := glog.Resolve("save", nil, nil)
	s := &SaveService{
		secret:    secret,
		public:    public,
		validator: DefaultValidator{},
		logger:    glog.Ensure(logger),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if secret != nil {
		s.secretReconciler, _ = NewExistenceReconciler(secret, WithReconcilerLogger(s.logger))
	}
	if public != nil {
		s.publicReconciler, _ = NewExistenceReconciler(public, WithReconcilerLogger(s.logger))
	}
	return s, nil
}

// StoreFor returns the store holding contacts of contactType, or nil.
func (s *SaveService) StoreFor(contactType ContactType) ContactStore {
	if s == nil {
		return nil
	}
	if contactType == ContactTypePublic {
		return s.public
	}
	return s.secret
}

func (s *SaveService) storeForFamily(family IDFamily) (ContactStore, *ExistenceReconciler) {
	if family == IDFamilyExternal {
		return s.public, s.publicReconciler
	}
	return s.secret, s.secretReconciler
}

func (s *SaveService) LoadContact(ctx context.Context, id ContactID) (*Contact, error) {
	if s == nil {
		return nil, fmt.Errorf("core: save service is not configured")
	}
	if id == nil {
		return nil, fmt.Errorf("core: contact id is required")
	}
	store, _ := s.storeForFamily(id.Family())
	if store == nil {
		return nil, fmt.Errorf("core: no store configured for %s contacts", id.Family())
	}
	return store.LoadContact(ctx, id)
}

// ContactsExist asks each store about the ids of its family and merges the
// answers.
func (s *SaveService) ContactsExist(ctx context.Context, ids []ContactID) (map[ContactID]bool, error) {
	if s == nil {
		return nil, fmt.Errorf("core: save service is not configured")
	}
	out := make(map[ContactID]bool, len(ids))
	internal, external := SplitContactIDs(ids)
	for _, group := range []struct {
		family IDFamily
		ids    []ContactID
	}{
		{family: IDFamilyInternal, ids: internal},
		{family: IDFamilyExternal, ids: external},
	} {
		if len(group.ids) == 0 {
			continue
		}
		store, _ := s.storeForFamily(group.family)
		if store == nil {
			return nil, fmt.Errorf("core: no store configured for %s contacts", group.family)
		}
		existing, err := store.ContactsExist(ctx, group.ids)
		if err != nil {
			return nil, err
		}
		for id, exists := range existing {
			out[id] = exists
		}
	}
	return out, nil
}

// Validate runs the configured validator without touching any store.
func (s *SaveService) Validate(ctx context.Context, contact *Contact) []ValidationError {
	if s == nil || s.validator == nil {
		return nil
	}
	return s.validator.Validate(ctx, contact)
}

// SaveContact validates contact and writes it to the store of its type. The
// caller's snapshot is not modified; the result carries the stored id.
func (s *SaveService) SaveContact(ctx context.Context, contact *Contact) ChangeResult {
	if contact == nil {
		return Failure(ChangeErrorUnableToResolveContact)
	}
	if s == nil {
		return Failure(ChangeErrorUnableToSaveContact)
	}
	if errs := s.Validate(ctx, contact); len(errs) > 0 {
		return ValidationFailure(errs...)
	}

	work := contact.Clone()
	EnforceContinuousSortOrder(work.ContactData)

	store := s.StoreFor(work.Type)
	if store == nil {
		s.logger.WithContext(ctx).Error("no store configured for contact type", "contact_type", string(work.Type))
		return Failure(ChangeErrorUnableToSaveContact)
	}

	create := work.IsNew
	family := work.Type.IDFamily()
	if work.ID == nil || work.ID.Family() != family {
		if family == IDFamilyInternal {
			work.ID = NewInternalContactID()
		} else {
			work.ID = nil
		}
		work.ChangeDataIDs(family)
		create = true
	}

	// Group creation is best effort: the contact is written either way and a
	// group failure is reported as a warning on the result.
	var warnings []ChangeError
	if len(work.Groups) > 0 {
		if err := store.CreateMissingGroups(ctx, work.Groups, s.accountFor(work.Type)); err != nil {
			s.logger.WithContext(ctx).Warn("group creation failed, saving contact without it",
				"contact_type", string(work.Type),
				"error", err,
			)
			warnings = append(warnings, ChangeErrorUnableToCreateContactGroup)
		}
	}

	var err error
	if create {
		err = store.CreateContact(ctx, work)
	} else {
		err = store.UpdateContact(ctx, work.ID, work)
	}
	if err != nil {
		return Failure(ChangeErrorsOf(err, ChangeErrorUnableToSaveContact)...).WithWarnings(warnings...)
	}
	return Success(work.ID).WithWarnings(warnings...)
}

// SaveContacts creates the groups of all contacts once per store, then saves
// each contact. Results are keyed by the caller's contact ids.
func (s *SaveService) SaveContacts(ctx context.Context, contacts []*Contact) BatchChangeResult[ContactID] {
	result := NewBatchChangeResult[ContactID]()
	groupsByType := map[ContactType][]ContactGroup{}
	for _, contact := range contacts {
		if contact == nil {
			continue
		}
		groupsByType[contact.Type] = append(groupsByType[contact.Type], contact.Groups...)
	}
	for contactType, groups := range groupsByType {
		store := s.StoreFor(contactType)
		if store == nil || len(groups) == 0 {
			continue
		}
		if err := store.CreateMissingGroups(ctx, groups, s.accountFor(contactType)); err != nil {
			s.logger.WithContext(ctx).Warn("group creation before batch save failed",
				"contact_type", string(contactType),
				"error", err,
			)
		}
	}

	for _, contact := range contacts {
		if contact == nil {
			continue
		}
		outcome := s.SaveContact(ctx, contact)
		key := contact.ID
		if key == nil {
			key = outcome.ContactID
		}
		switch outcome.Outcome {
		case ChangeOutcomeSuccess:
			result.AddSuccess(key)
		case ChangeOutcomeValidationFailure:
			result.AddValidationFailure(key, ChangeErrorUnableToSaveContact, outcome.ValidationErrors...)
		default:
			result.AddFailure(key, outcome.Errors...)
		}
	}
	return result
}

// DeleteContacts deletes ids from the store of their family and reports the
// per-id outcome by existence, since batch deletes give no per-id result.
func (s *SaveService) DeleteContacts(ctx context.Context, ids []ContactID) BatchChangeResult[ContactID] {
	result := NewBatchChangeResult[ContactID]()
	internal, external := SplitContactIDs(ids)
	for _, group := range []struct {
		family IDFamily
		ids    []ContactID
	}{
		{family: IDFamilyInternal, ids: internal},
		{family: IDFamilyExternal, ids: external},
	} {
		if len(group.ids) == 0 {
			continue
		}
		if s == nil {
			for _, id := range group.ids {
				result.AddFailure(id, ChangeErrorUnableToDeleteContact)
			}
			continue
		}
		store, reconciler := s.storeForFamily(group.family)
		if store == nil {
			for _, id := range group.ids {
				result.AddFailure(id, ChangeErrorUnableToDeleteContact)
			}
			continue
		}
		result = result.Combine(reconciler.DeleteAndReconcile(ctx, group.ids, store.DeleteContacts))
	}
	return result
}

// DeleteContact deletes a single contact.
func (s *SaveService) DeleteContact(ctx context.Context, id ContactID) ChangeResult {
	if id == nil {
		return Failure(ChangeErrorUnableToResolveContact)
	}
	batch := s.DeleteContacts(ctx, []ContactID{id})
	if batch.CompletelySuccessful() {
		return Success(id)
	}
	errs := distinctChangeErrors(batch.Failed[id])
	if len(errs) == 0 {
		errs = []ChangeError{ChangeErrorUnableToDeleteContact}
	}
	return Failure(errs...)
}

func (s *SaveService) accountFor(contactType ContactType) string {
	if contactType == ContactTypePublic {
		return s.account
	}
	return ""
}

func distinctChangeErrors(codes []ChangeError) []ChangeError {
	seen := make(map[ChangeError]struct{}, len(codes))
	out := make([]ChangeError, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
