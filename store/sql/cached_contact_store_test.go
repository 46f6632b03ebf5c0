package sqlstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-contacts/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

type stubContactStore struct {
	mu          sync.Mutex
	contacts    map[core.ContactID]*core.Contact
	loadCalls   int
	existCalls  int
	deleteCalls int
	loadErr     error
	deleteErr   error
}

func newStubContactStore(contacts ...*core.Contact) *stubContactStore {
	store := &stubContactStore{contacts: map[core.ContactID]*core.Contact{}}
	for _, contact := range contacts {
		store.contacts[contact.ID] = contact.Clone()
	}
	return store
}

func (s *stubContactStore) LoadContact(_ context.Context, id core.ContactID) (*core.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCalls++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	contact, ok := s.contacts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return contact.Clone(), nil
}

func (s *stubContactStore) ContactsExist(_ context.Context, ids []core.ContactID) (map[core.ContactID]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existCalls++
	out := map[core.ContactID]bool{}
	for _, id := range ids {
		_, ok := s.contacts[id]
		out[id] = ok
	}
	return out, nil
}

func (s *stubContactStore) CreateContact(_ context.Context, contact *core.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[contact.ID] = contact.Clone()
	return nil
}

func (s *stubContactStore) UpdateContact(_ context.Context, id core.ContactID, contact *core.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[id] = contact.Clone()
	return nil
}

func (s *stubContactStore) DeleteContacts(_ context.Context, ids []core.ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	// the first id is always removed, mimicking a batch that dies midway
	for index, id := range ids {
		if s.deleteErr != nil && index > 0 {
			return s.deleteErr
		}
		delete(s.contacts, id)
	}
	return s.deleteErr
}

func (s *stubContactStore) CreateMissingGroups(context.Context, []core.ContactGroup, string) error {
	return nil
}

func secretContact(name string) *core.Contact {
	contact := core.NewContact(core.ContactTypeSecret)
	contact.FirstName = name
	contact.IsNew = false
	return contact
}

func TestCachedContactStore_LoadMissFetchThenHit(t *testing.T) {
	contact := secretContact("Ada")
	base := newStubContactStore(contact)
	store, err := NewCachedContactStore(base, newTestCacheService(t))
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}

	first, err := store.LoadContact(context.Background(), contact.ID)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	first.FirstName = "mutated by caller"

	second, err := store.LoadContact(context.Background(), contact.ID)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if base.loadCalls != 1 {
		t.Fatalf("expected second load to be a cache hit, base load calls=%d", base.loadCalls)
	}
	if second.FirstName != "Ada" {
		t.Fatalf("cached contact must not share state with callers, got %q", second.FirstName)
	}
}

func TestCachedContactStore_UpdateInvalidatesLoad(t *testing.T) {
	contact := secretContact("Ada")
	base := newStubContactStore(contact)
	store, err := NewCachedContactStore(base, newTestCacheService(t))
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}
	ctx := context.Background()
	if _, err := store.LoadContact(ctx, contact.ID); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	updated := contact.Clone()
	updated.FirstName = "Augusta"
	if err := store.UpdateContact(ctx, updated.ID, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	loaded, err := store.LoadContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("load after update: %v", err)
	}
	if base.loadCalls != 2 || loaded.FirstName != "Augusta" {
		t.Fatalf("expected fresh load after update, calls=%d name=%q", base.loadCalls, loaded.FirstName)
	}
}

func TestCachedContactStore_FailedDeleteStillInvalidatesExistence(t *testing.T) {
	first, second := secretContact("Ada"), secretContact("Grace")
	base := newStubContactStore(first, second)
	store, err := NewCachedContactStore(base, newTestCacheService(t))
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}
	ctx := context.Background()
	ids := []core.ContactID{first.ID, second.ID}

	existing, err := store.ContactsExist(ctx, ids)
	if err != nil {
		t.Fatalf("prime existence: %v", err)
	}
	if !existing[first.ID] || !existing[second.ID] {
		t.Fatalf("expected both contacts to exist, got %#v", existing)
	}
	if _, err := store.ContactsExist(ctx, ids); err != nil {
		t.Fatalf("cached existence: %v", err)
	}
	if base.existCalls != 2 {
		t.Fatalf("expected one base call per id, got %d", base.existCalls)
	}

	base.deleteErr = errors.New("connection reset")
	reconciler, err := core.NewExistenceReconciler(store)
	if err != nil {
		t.Fatalf("new reconciler: %v", err)
	}
	result := reconciler.DeleteAndReconcile(ctx, ids, store.DeleteContacts)
	if len(result.Successful) != 1 || result.Successful[0] != first.ID {
		t.Fatalf("expected first id to be reconciled as deleted, got %#v", result.Successful)
	}
	if _, failed := result.Failed[second.ID]; !failed {
		t.Fatalf("expected second id to be reported as failed")
	}
}

func TestContactCacheKey_Contract(t *testing.T) {
	id := core.ExternalContactID{Number: 42, LookupKey: "a/b c"}
	key, err := ContactCacheKey(id)
	if err != nil {
		t.Fatalf("build cache key: %v", err)
	}
	const expected = "go-contacts::contact::v1::external:42:a%2Fb%20c"
	if key != expected {
		t.Fatalf("unexpected cache key: got %q want %q", key, expected)
	}
	if _, err := ExistenceCacheKey(nil); err == nil {
		t.Fatalf("expected nil id to be rejected")
	}
}

func TestCachedContactStore_PropagatesBaseErrors(t *testing.T) {
	base := newStubContactStore()
	base.loadErr = errors.New("disk on fire")
	store, err := NewCachedContactStore(base, newTestCacheService(t))
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}
	if _, err := store.LoadContact(context.Background(), core.NewInternalContactID()); !errors.Is(err, base.loadErr) {
		t.Fatalf("expected base error propagation, got %v", err)
	}
}

func newTestCacheService(t *testing.T) repositorycache.CacheService {
	t.Helper()
	config := repositorycache.DefaultConfig()
	config.TTL = time.Minute
	service, err := repositorycache.NewCacheService(config)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return service
}
