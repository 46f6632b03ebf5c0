package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-contacts/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const (
	contactCacheKeyPrefix   = "go-contacts::contact::v1"
	existenceCacheKeyPrefix = "go-contacts::contact_exists::v1"
)

// CachedContactStore puts a read-through cache in front of a contact store.
// Loads and existence checks are cached per id; every write drops the
// entries of the ids it touched, whether the write succeeded or not.
type CachedContactStore struct {
	base  core.ContactStore
	cache repositorycache.CacheService
}

func NewCachedContactStore(base core.ContactStore, cacheService repositorycache.CacheService) (*CachedContactStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base contact store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: contact cache service is required")
	}
	return &CachedContactStore{base: base, cache: cacheService}, nil
}

// ContactCacheKey returns go-contacts::contact::v1::<id> with the id
// URL-path escaped.
func ContactCacheKey(id core.ContactID) (string, error) {
	return cacheKey(contactCacheKeyPrefix, id)
}

// ExistenceCacheKey returns go-contacts::contact_exists::v1::<id>.
func ExistenceCacheKey(id core.ContactID) (string, error) {
	return cacheKey(existenceCacheKeyPrefix, id)
}

func cacheKey(prefix string, id core.ContactID) (string, error) {
	raw := strings.TrimSpace(core.ContactIDString(id))
	if raw == "" {
		return "", fmt.Errorf("sqlstore: contact id is required for cache key")
	}
	return prefix + "::" + url.PathEscape(raw), nil
}

type cachedExistence struct {
	Exists   bool
	Answered bool
}

func (s *CachedContactStore) LoadContact(ctx context.Context, id core.ContactID) (*core.Contact, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached contact store is not configured")
	}
	key, err := ContactCacheKey(id)
	if err != nil {
		return nil, err
	}
	contact, err := repositorycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (*core.Contact, error) {
		return s.base.LoadContact(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return contact.Clone(), nil
}

// ContactsExist resolves each id through its own cache entry. Ids the base
// store leaves unanswered stay missing from the result.
func (s *CachedContactStore) ContactsExist(ctx context.Context, ids []core.ContactID) (map[core.ContactID]bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached contact store is not configured")
	}
	out := make(map[core.ContactID]bool, len(ids))
	for _, id := range ids {
		key, err := ExistenceCacheKey(id)
		if err != nil {
			return nil, err
		}
		answer, err := repositorycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (cachedExistence, error) {
			existing, fetchErr := s.base.ContactsExist(ctx, []core.ContactID{id})
			if fetchErr != nil {
				return cachedExistence{}, fetchErr
			}
			exists, answered := existing[id]
			return cachedExistence{Exists: exists, Answered: answered}, nil
		})
		if err != nil {
			return nil, err
		}
		if answer.Answered {
			out[id] = answer.Exists
		}
	}
	return out, nil
}

func (s *CachedContactStore) CreateContact(ctx context.Context, contact *core.Contact) error {
	if s == nil || s.base == nil || s.cache == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: cached contact store is not configured"), core.ChangeErrorUnableToSaveContact)
	}
	err := s.base.CreateContact(ctx, contact)
	if contact != nil {
		if invalidateErr := s.invalidate(ctx, contact.ID); invalidateErr != nil && err == nil {
			err = invalidateErr
		}
	}
	return err
}

func (s *CachedContactStore) UpdateContact(ctx context.Context, id core.ContactID, contact *core.Contact) error {
	if s == nil || s.base == nil || s.cache == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: cached contact store is not configured"), core.ChangeErrorUnableToSaveContact)
	}
	err := s.base.UpdateContact(ctx, id, contact)
	if invalidateErr := s.invalidate(ctx, id); invalidateErr != nil && err == nil {
		err = invalidateErr
	}
	return err
}

func (s *CachedContactStore) DeleteContacts(ctx context.Context, ids []core.ContactID) error {
	if s == nil || s.base == nil || s.cache == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: cached contact store is not configured"), core.ChangeErrorUnableToDeleteContact)
	}
	err := s.base.DeleteContacts(ctx, ids)
	for _, id := range ids {
		if invalidateErr := s.invalidate(ctx, id); invalidateErr != nil && err == nil {
			err = invalidateErr
		}
	}
	return err
}

func (s *CachedContactStore) CreateMissingGroups(ctx context.Context, groups []core.ContactGroup, account string) error {
	if s == nil || s.base == nil {
		return core.NewSaveError(fmt.Errorf("sqlstore: cached contact store is not configured"), core.ChangeErrorUnableToCreateContactGroup)
	}
	return s.base.CreateMissingGroups(ctx, groups, account)
}

func (s *CachedContactStore) invalidate(ctx context.Context, id core.ContactID) error {
	if id == nil {
		return nil
	}
	for _, build := range []func(core.ContactID) (string, error){ContactCacheKey, ExistenceCacheKey} {
		key, err := build(id)
		if err != nil {
			return err
		}
		if err := s.cache.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

var _ core.ContactStore = (*CachedContactStore)(nil)
