// Package public adapts the shared provider contact store to the
// core.ContactStore contract. The provider speaks in numeric ids, flat rows
// and free-text labels; the Store translates between that and contacts.
package public

import (
	"context"
	"errors"
)

var ErrRecordNotFound = errors.New("public: record not found")

// Row is one data line of a provider record. ID is zero until the provider
// stores the row.
type Row struct {
	ID        int64
	Kind      string
	Label     string
	Value     string
	SortOrder int
}

// Record is a provider contact. ID and LookupKey are assigned by the
// provider on insert.
type Record struct {
	ID        int64
	LookupKey string
	FirstName string
	LastName  string
	Nickname  string
	Notes     string
	Thumbnail []byte
	Photo     []byte
	Rows      []Row
	Groups    []string
}

type GroupRecord struct {
	ID      int64
	Title   string
	Notes   string
	Account string
}

// Provider is the narrow API of the provider store.
//
// Update replaces the row set of a record: rows with a zero id are inserted
// and stored rows missing from the update are removed. Delete is not atomic
// and may fail after removing a prefix of ids.
type Provider interface {
	Load(ctx context.Context, id int64) (Record, error)
	Exists(ctx context.Context, ids []int64) (map[int64]bool, error)
	Insert(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) (Record, error)
	Delete(ctx context.Context, ids []int64) error
	ListGroups(ctx context.Context, account string) ([]GroupRecord, error)
	InsertGroups(ctx context.Context, groups []GroupRecord) error
}
