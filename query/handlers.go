package query

import (
	"context"

	"github.com/goliatone/go-contacts/core"
	"github.com/goliatone/go-contacts/diff"
)

// ContactReader is the read side of core.Service.
type ContactReader interface {
	LoadContact(ctx context.Context, id core.ContactID) (*core.Contact, error)
	ContactsExist(ctx context.Context, ids []core.ContactID) (map[core.ContactID]bool, error)
}

type LoadContactQuery struct {
	reader ContactReader
}

func NewLoadContactQuery(reader ContactReader) *LoadContactQuery {
	return &LoadContactQuery{reader: reader}
}

func (q *LoadContactQuery) Query(ctx context.Context, msg LoadContactMessage) (*core.Contact, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: contact reader is required")
	}
	return q.reader.LoadContact(ctx, msg.ID)
}

type ComputeDiffQuery struct {
	reader ContactReader
}

// NewComputeDiffQuery accepts a nil reader when every message carries both
// snapshots.
func NewComputeDiffQuery(reader ContactReader) *ComputeDiffQuery {
	return &ComputeDiffQuery{reader: reader}
}

func (q *ComputeDiffQuery) Query(ctx context.Context, msg ComputeDiffMessage) (diff.Diff, error) {
	if q == nil {
		return diff.Diff{}, queryDependencyError("query: diff query is nil")
	}
	if err := msg.Validate(); err != nil {
		return diff.Diff{}, err
	}
	before := msg.Before
	if before == nil {
		if q.reader == nil {
			return diff.Diff{}, queryDependencyError("query: contact reader is required to load the stored snapshot")
		}
		stored, err := q.reader.LoadContact(ctx, msg.After.ID)
		if err != nil {
			return diff.Diff{}, err
		}
		before = stored
	}
	return diff.Compute(before, msg.After), nil
}

type ContactsExistQuery struct {
	reader ContactReader
}

func NewContactsExistQuery(reader ContactReader) *ContactsExistQuery {
	return &ContactsExistQuery{reader: reader}
}

func (q *ContactsExistQuery) Query(ctx context.Context, msg ContactsExistMessage) (map[core.ContactID]bool, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: contact reader is required")
	}
	return q.reader.ContactsExist(ctx, msg.IDs)
}
