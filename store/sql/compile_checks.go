package sqlstore

import "github.com/goliatone/go-contacts/core"

var (
	_ core.ContactStore             = (*ContactStore)(nil)
	_ core.RepositoryStoreFactory   = (*RepositoryFactory)(nil)
	_ core.ExistenceCacheConfigurer = (*RepositoryFactory)(nil)
)
