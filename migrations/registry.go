// Package migrations applies the embedded secret store schema. Postgres
// files sit at the root of the tree and their sqlite variants in a sqlite
// subfolder.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	contacts "github.com/goliatone/go-contacts"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const root = "data/sql/migrations"

// Filesystem returns the migration files of dialect. It fails when the tree
// has no up migrations for it.
func Filesystem(name string) (fs.FS, error) {
	name = normalizeDialect(name)
	base, err := fs.Sub(contacts.GetMigrationsFS(), root)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s: %w", root, err)
	}
	var fsys fs.FS
	switch name {
	case DialectPostgres:
		fsys = base
	case DialectSQLite:
		if fsys, err = fs.Sub(base, "sqlite"); err != nil {
			return nil, fmt.Errorf("migrations: resolve sqlite filesystem: %w", err)
		}
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", name)
	}

	matches, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: glob %s: %w", name, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("migrations: %s filesystem has no *.up.sql files", name)
	}
	return fsys, nil
}

// DialectOf maps the bun dialect of db onto a migration dialect.
func DialectOf(db *bun.DB) (string, error) {
	if db == nil {
		return "", fmt.Errorf("migrations: bun db is required")
	}
	switch db.Dialect().Name() {
	case dialect.PG:
		return DialectPostgres, nil
	case dialect.SQLite:
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("migrations: unsupported bun dialect %s", db.Dialect().Name())
	}
}

// Apply registers the files of dialect with client and runs every pending
// migration. An empty dialect is detected from the client's bun db.
func Apply(ctx context.Context, client *persistence.Client, name string) error {
	if client == nil {
		return fmt.Errorf("migrations: persistence client is required")
	}
	name = normalizeDialect(name)
	if name == "" {
		detected, err := DialectOf(client.DB())
		if err != nil {
			return err
		}
		name = detected
	}
	fsys, err := Filesystem(name)
	if err != nil {
		return err
	}
	client.RegisterSQLMigrations(fsys)
	if err := client.Migrate(ctx); err != nil {
		return fmt.Errorf("migrations: apply %s: %w", name, err)
	}
	return nil
}

func normalizeDialect(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	switch name {
	case "pg", "postgresql":
		return DialectPostgres
	case "sqlite3":
		return DialectSQLite
	}
	return name
}
