package gateway

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	name    string
	up      string
}

func loadMigrations(dialect Dialect) ([]migration, error) {
	dir := "migrations/" + dialect.migrationDir()
	files, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("could not list migrations: %w", err)
	}
	var migrations []migration
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := migrationsFS.ReadFile(dir + "/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("could not read migration %s: %w", f.Name(), err)
		}
		var v int
		if _, err := fmt.Sscanf(f.Name(), "%d_", &v); err != nil {
			return nil, fmt.Errorf("invalid migration filename %s: %w", f.Name(), err)
		}
		migrations = append(migrations, migration{version: v, name: f.Name(), up: string(data)})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].version < migrations[j].version })
	return migrations, nil
}

// Migrate applies the embedded migrations not yet recorded in schema_version.
// It returns the schema version after the run.
func (s *SQLStore) Migrate(ctx context.Context) (int, error) {
	migrations, err := loadMigrations(s.dialect)
	if err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin migration: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("could not create schema_version: %w", err)
	}
	var current int
	err = tx.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return 0, fmt.Errorf("could not init schema_version: %w", err)
		}
	} else if err != nil {
		return 0, fmt.Errorf("could not read schema_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.up); err != nil {
			return 0, fmt.Errorf("could not apply migration %s: %w", m.name, err)
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`UPDATE schema_version SET version = ?`), m.version); err != nil {
			return 0, fmt.Errorf("could not update schema_version: %w", err)
		}
		current = m.version
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit migrations: %w", err)
	}
	return current, nil
}
