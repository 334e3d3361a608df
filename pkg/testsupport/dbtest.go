// Package testsupport opens throwaway databases for integration tests.
package testsupport

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-modules/internal/adapters/storage"
	"github.com/goliatone/go-cms-modules/internal/runtimeconfig"
)

// SQLiteMemoryDSN names a private in-memory sqlite database for t. Every call
// yields a new database.
func SQLiteMemoryDSN(t testing.TB) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])
}

// NewSQLiteDB opens the database behind SQLiteMemoryDSN and closes it when
// the test ends.
func NewSQLiteDB(t testing.TB) *bun.DB {
	t.Helper()
	db, err := storage.Open(runtimeconfig.StorageConfig{Driver: storage.DriverSQLite, DSN: SQLiteMemoryDSN(t)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewMigratedSQLiteDB is NewSQLiteDB with the migrations found in fsys applied.
func NewMigratedSQLiteDB(t testing.TB, fsys fs.FS) *bun.DB {
	t.Helper()
	db := NewSQLiteDB(t)
	if _, err := storage.Migrate(context.Background(), db, fsys); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}
