package core

import (
	"context"
	"fmt"

	glog "github.com/goliatone/go-logger/glog"
)

type ExistenceReconcilerOption func(*ExistenceReconciler)

func WithReconcilerLogger(logger Logger) ExistenceReconcilerOption {
	return func(r *ExistenceReconciler) {
		if r == nil || logger == nil {
			return
		}
		r.logger = logger
	}
}

// ExistenceReconciler recovers per-id outcomes of a batch delete by asking
// the store which ids still exist afterwards.
//
// The answer is approximate. An id that never existed reads the same as one
// that was deleted, and both count as succeeded. Batch deletes are not
// atomic, so a cancelled or failed batch may leave any subset deleted; this
// is the only recovery path for that state.
type ExistenceReconciler struct {
	reader ContactReader
	logger Logger
}

func NewExistenceReconciler(reader ContactReader, opts ...ExistenceReconcilerOption) (*ExistenceReconciler, error) {
	if reader == nil {
		return nil, fmt.Errorf("core: contact reader is required for reconciliation")
	}
	_, logger := glog.Resolve("reconcile", nil, nil)
	r := &ExistenceReconciler{
		reader: reader,
		logger: glog.Ensure(logger),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Reconcile reports ids that no longer exist as succeeded and ids that still
// exist as failed with codes (UNABLE_TO_DELETE_CONTACT when none are given).
// Ids the store leaves out of its answer are treated as still existing.
// When the existence check itself fails every id is reported as failed.
func (r *ExistenceReconciler) Reconcile(ctx context.Context, ids []ContactID, codes ...ChangeError) BatchChangeResult[ContactID] {
	result := NewBatchChangeResult[ContactID]()
	if len(ids) == 0 {
		return result
	}
	if len(codes) == 0 {
		codes = []ChangeError{ChangeErrorUnableToDeleteContact}
	}
	if r == nil || r.reader == nil {
		for _, id := range ids {
			result.AddFailure(id, codes...)
		}
		return result
	}

	existing, err := r.reader.ContactsExist(ctx, ids)
	if err != nil {
		r.logger.WithContext(ctx).Error("existence check failed after batch operation",
			"count", len(ids),
			"error", err,
		)
		for _, id := range ids {
			result.AddFailure(id, codes...)
		}
		return result
	}

	for _, id := range ids {
		stillThere, answered := existing[id]
		if answered && !stillThere {
			result.AddSuccess(id)
			continue
		}
		result.AddFailure(id, codes...)
	}
	return result
}

// DeleteAndReconcile runs deleteFn and reconciles ids regardless of its
// outcome. Codes carried by a *SaveError from deleteFn tag the ids that
// survive.
func (r *ExistenceReconciler) DeleteAndReconcile(
	ctx context.Context,
	ids []ContactID,
	deleteFn func(ctx context.Context, ids []ContactID) error,
) BatchChangeResult[ContactID] {
	if len(ids) == 0 {
		return NewBatchChangeResult[ContactID]()
	}
	var codes []ChangeError
	if deleteFn != nil {
		if err := deleteFn(ctx, ids); err != nil {
			codes = ChangeErrorsOf(err, ChangeErrorUnableToDeleteContact)
			if r != nil && r.logger != nil {
				r.logger.WithContext(ctx).Warn("batch delete reported an error, reconciling by existence",
					"count", len(ids),
					"error", err,
				)
			}
		}
	}
	return r.Reconcile(ctx, ids, codes...)
}
