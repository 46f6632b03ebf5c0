package contacts

import (
	"embed"
	"io/fs"
)

// migrationsFS holds the secret store schema. Postgres files live in
// data/sql/migrations and their sqlite alternatives in the sqlite subfolder.
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var migrationsFS embed.FS

func GetMigrationsFS() fs.FS {
	return migrationsFS
}
