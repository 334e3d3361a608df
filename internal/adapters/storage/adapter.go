// Package storage opens the SQL backends behind the item repository and
// applies the embedded schema migrations.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/migrate"

	"github.com/goliatone/go-cms-modules/internal/runtimeconfig"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MigrationsRoot is the directory inside the embedded migrations filesystem.
const MigrationsRoot = "data/sql/migrations"

var (
	ErrDriverUnsupported = errors.New("storage: driver unsupported")
	ErrDSNRequired       = errors.New("storage: dsn required")
)

// Normalize maps driver aliases to their canonical name.
func Normalize(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return DriverMemory
	case DriverSQLite, "sqlite3":
		return DriverSQLite
	case DriverPostgres, "postgresql", "pg":
		return DriverPostgres
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}

// Open connects to the configured SQL backend. The memory driver has no
// database and is rejected.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	driver := Normalize(cfg.Driver)
	if driver != DriverMemory && dsn == "" {
		return nil, fmt.Errorf("%w: %s", ErrDSNRequired, driver)
	}

	switch driver {
	case DriverSQLite:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		// sqlite serialises writers; one connection keeps in-memory databases shared.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case DriverPostgres:
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrDriverUnsupported, cfg.Driver)
	}
}

// DialectDir returns the migrations sub directory matching the database dialect.
func DialectDir(db *bun.DB) string {
	if db != nil && db.Dialect().Name().String() == "pg" {
		return DriverPostgres
	}
	return DriverSQLite
}

// Migrate applies pending migrations found under MigrationsRoot/<dialect> in
// fsys and returns the names applied by this call.
func Migrate(ctx context.Context, db *bun.DB, fsys fs.FS) ([]string, error) {
	if db == nil {
		return nil, errors.New("storage: database required")
	}
	sub, err := fs.Sub(fsys, MigrationsRoot+"/"+DialectDir(db))
	if err != nil {
		return nil, fmt.Errorf("storage: migrations dir: %w", err)
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(sub); err != nil {
		return nil, fmt.Errorf("storage: discover migrations: %w", err)
	}

	migrator := migrate.NewMigrator(db, migrations,
		migrate.WithTableName("module_migrations"),
		migrate.WithLocksTableName("module_migration_locks"),
	)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("storage: init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("storage: lock migrations: %w", err)
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	applied := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		applied = append(applied, m.Name)
	}
	return applied, nil
}
