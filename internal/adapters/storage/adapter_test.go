package storage_test

import (
	"context"
	"errors"
	"testing"

	modules "github.com/goliatone/go-cms-modules"
	"github.com/goliatone/go-cms-modules/internal/adapters/storage"
	"github.com/goliatone/go-cms-modules/internal/runtimeconfig"
	"github.com/goliatone/go-cms-modules/pkg/testsupport"
)

func TestOpenRejectsUnsupportedConfig(t *testing.T) {
	if _, err := storage.Open(runtimeconfig.StorageConfig{Driver: "sqlite"}); !errors.Is(err, storage.ErrDSNRequired) {
		t.Fatalf("expected ErrDSNRequired, got %v", err)
	}
	if _, err := storage.Open(runtimeconfig.StorageConfig{Driver: "oracle", DSN: "x"}); !errors.Is(err, storage.ErrDriverUnsupported) {
		t.Fatalf("expected ErrDriverUnsupported, got %v", err)
	}
	if _, err := storage.Open(runtimeconfig.StorageConfig{Driver: "memory"}); !errors.Is(err, storage.ErrDriverUnsupported) {
		t.Fatalf("expected memory driver to be rejected, got %v", err)
	}
}

func TestNormalizeAliases(t *testing.T) {
	cases := map[string]string{
		"":           storage.DriverMemory,
		"SQLite3":    storage.DriverSQLite,
		"postgresql": storage.DriverPostgres,
		" pg ":       storage.DriverPostgres,
	}
	for input, want := range cases {
		if got := storage.Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMigrateAppliesEmbeddedSQLiteSchemaOnce(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewSQLiteDB(t)

	if got := storage.DialectDir(db); got != storage.DriverSQLite {
		t.Fatalf("expected sqlite dialect dir, got %q", got)
	}

	applied, err := storage.Migrate(ctx, db, modules.GetMigrationsFS())
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if len(applied) != 1 {
		t.Fatalf("expected one migration applied, got %v", applied)
	}

	again, err := storage.Migrate(ctx, db, modules.GetMigrationsFS())
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no pending migrations, got %v", again)
	}

	insert := `INSERT INTO module_items (id, module_type, rel_type, rel_id, position, fields) VALUES (?, 'slider', 'page', '1', 0, '{}')`
	if _, err := db.ExecContext(ctx, insert, "a"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.ExecContext(ctx, insert, "b"); err == nil {
		t.Fatalf("expected unique position index to reject duplicate position")
	}
}
