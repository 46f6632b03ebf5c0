package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-contacts/core"
	contactmigrations "github.com/goliatone/go-contacts/migrations"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

type FactoryOption func(*RepositoryFactory)

// WithCacheService fronts the built store with cacheService regardless of the
// configured ttl.
func WithCacheService(cacheService repositorycache.CacheService) FactoryOption {
	return func(f *RepositoryFactory) {
		f.cacheService = cacheService
	}
}

func WithFactoryLogger(logger core.Logger) FactoryOption {
	return func(f *RepositoryFactory) {
		f.logger = logger
	}
}

// RepositoryFactory builds the SECRET contact store from a persistence
// client. It is handed to core.WithRepositoryFactory.
type RepositoryFactory struct {
	db           *bun.DB
	logger       core.Logger
	cacheTTL     time.Duration
	cacheService repositorycache.CacheService

	contactStore *ContactStore
	store        core.ContactStore
}

func NewRepositoryFactory(opts ...FactoryOption) *RepositoryFactory {
	factory := &RepositoryFactory{}
	for _, opt := range opts {
		if opt != nil {
			opt(factory)
		}
	}
	return factory
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, opts ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

// NewMigratedRepositoryFactory applies the embedded schema for the client's
// dialect before building the stores.
func NewMigratedRepositoryFactory(ctx context.Context, client *persistence.Client, opts ...FactoryOption) (*RepositoryFactory, error) {
	if client == nil {
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	}
	if err := contactmigrations.Apply(ctx, client, ""); err != nil {
		return nil, err
	}
	return NewRepositoryFactoryFromPersistence(client, opts...)
}

func NewRepositoryFactoryFromDB(db *bun.DB, opts ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

// ConfigureExistenceCache sets the ttl of the cache built by BuildStores. It
// has no effect once the store is built.
func (f *RepositoryFactory) ConfigureExistenceCache(ttl time.Duration) {
	if f == nil {
		return
	}
	f.cacheTTL = ttl
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.ContactStore, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.store != nil {
		return f.store, nil
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	contactStore, err := NewContactStore(f.db, WithLogger(f.logger))
	if err != nil {
		return nil, err
	}
	f.contactStore = contactStore
	f.store = contactStore

	cacheService := f.cacheService
	if cacheService == nil && f.cacheTTL > 0 {
		config := repositorycache.DefaultConfig()
		config.TTL = f.cacheTTL
		cacheService, err = repositorycache.NewCacheService(config)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: build contact cache: %w", err)
		}
	}
	if cacheService != nil {
		cached, cacheErr := NewCachedContactStore(contactStore, cacheService)
		if cacheErr != nil {
			return nil, cacheErr
		}
		f.store = cached
	}
	return f.store, nil
}

// ContactStore returns the uncached store.
func (f *RepositoryFactory) ContactStore() *ContactStore {
	if f == nil {
		return nil
	}
	return f.contactStore
}

// Store returns the store handed to the service, cached when configured.
func (f *RepositoryFactory) Store() core.ContactStore {
	if f == nil {
		return nil
	}
	return f.store
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
