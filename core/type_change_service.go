package core

import (
	"context"
	"fmt"

	glog "github.com/goliatone/go-logger/glog"
)

type TypeChangeServiceOption func(*TypeChangeService)

func WithTypeChangeLogger(logger Logger) TypeChangeServiceOption {
	return func(s *TypeChangeService) {
		if s == nil || logger == nil {
			return
		}
		s.logger = logger
	}
}

// WithGroupPreparation toggles creating missing groups in the target store
// before the migrated contact is saved.
func WithGroupPreparation(enabled bool) TypeChangeServiceOption {
	return func(s *TypeChangeService) {
		if s == nil {
			return
		}
		s.prepareGroups = enabled
	}
}

func WithTypeChangeAccount(account string) TypeChangeServiceOption {
	return func(s *TypeChangeService) {
		if s == nil {
			return
		}
		s.account = account
	}
}

// TypeChangeService moves contacts between the secret and the public store.
type TypeChangeService struct {
	saver         *SaveService
	logger        Logger
	prepareGroups bool
	account       string
}

func NewTypeChangeService(saver *SaveService, opts ...TypeChangeServiceOption) (*TypeChangeService, error) {
	if saver == nil {
		return nil, fmt.Errorf("core: save service is required for type changes")
	}
	_, logger := glog.Resolve("migration", nil, nil)
	s := &TypeChangeService{
		saver:         saver,
		logger:        glog.Ensure(logger),
		prepareGroups: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// ChangeType stores contact under target. When target is the current type
// this is a normal save. Otherwise the contact is re-created in the target
// store and, only once that succeeded, deleted from the source store.
//
// A failed source delete leaves the contact in both stores; the result is a
// failure tagged UNABLE_TO_DELETE_CONTACT_WITH_OLD_TYPE.
func (s *TypeChangeService) ChangeType(ctx context.Context, contact *Contact, target ContactType) ChangeResult {
	if contact == nil {
		return Failure(ChangeErrorUnableToResolveContact)
	}
	if s == nil || s.saver == nil {
		return Failure(ChangeErrorUnableToSaveContact)
	}
	if !target.Valid() {
		return Failure(ChangeErrorUnknown)
	}
	if target == contact.Type {
		return s.saver.SaveContact(ctx, contact)
	}

	strategy := SelectStrategy(target, s.saver.StoreFor(target), s.account)
	if !strategy.Supported() {
		return Failure(strategy.Unsupported)
	}

	prepared := strategy.Prepare(contact)
	if errs := s.saver.Validate(ctx, prepared); len(errs) > 0 {
		return ValidationFailure(errs...)
	}
	var warnings []ChangeError
	if s.prepareGroups {
		if err := strategy.PrepareGroups(ctx, prepared); err != nil {
			s.logger.WithContext(ctx).Warn("group preparation failed, continuing with migration",
				"contact_id", ContactIDString(contact.ID),
				"target_type", string(target),
				"error", err,
			)
			warnings = append(warnings, ChangeErrorUnableToCreateContactGroup)
		}
	}

	saved := s.saver.SaveContact(ctx, prepared)
	warnings = distinctChangeErrors(append(warnings, saved.Warnings...))
	switch saved.Outcome {
	case ChangeOutcomeValidationFailure:
		return saved
	case ChangeOutcomeFailure:
		return Failure(append(
			[]ChangeError{ChangeErrorUnableToCreateContactWithNewType},
			saved.Errors...,
		)...).WithWarnings(warnings...)
	}

	if contact.IsNew || contact.ID == nil {
		return Success(saved.ContactID).WithWarnings(warnings...)
	}
	deleted := s.saver.DeleteContact(ctx, contact.ID)
	if !deleted.Successful() {
		return Failure(append(
			[]ChangeError{ChangeErrorUnableToDeleteContactWithOldType},
			deleted.Errors...,
		)...).WithWarnings(warnings...)
	}
	return Success(saved.ContactID).WithWarnings(warnings...)
}

// ChangeTypes migrates contacts one after another. Results are keyed by the
// source contact ids.
func (s *TypeChangeService) ChangeTypes(ctx context.Context, contacts []*Contact, target ContactType) BatchChangeResult[ContactID] {
	result := NewBatchChangeResult[ContactID]()
	for _, contact := range contacts {
		if contact == nil || contact.ID == nil {
			continue
		}
		outcome := s.ChangeType(ctx, contact, target)
		switch outcome.Outcome {
		case ChangeOutcomeSuccess:
			result.AddSuccess(contact.ID)
		case ChangeOutcomeValidationFailure:
			result.AddValidationFailure(contact.ID, ChangeErrorUnableToCreateContactWithNewType, outcome.ValidationErrors...)
		default:
			result.AddFailure(contact.ID, outcome.Errors...)
		}
	}
	return result
}
