package di_test

import (
	"context"
	"errors"
	"testing"

	modules "github.com/goliatone/go-cms-modules"
	"github.com/goliatone/go-cms-modules/internal/di"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/relation"
	"github.com/goliatone/go-cms-modules/internal/runtimeconfig"
	"github.com/goliatone/go-cms-modules/pkg/testsupport"
)

func TestContainerOpensAndMigratesSQLite(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = testsupport.SQLiteMemoryDSN(t)
	cfg.Cache.Enabled = true

	container, err := di.NewContainer(cfg, di.WithMigrations(modules.GetMigrationsFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DB() == nil {
		t.Fatal("expected container to open a database")
	}
	if _, ok := container.ItemRepository().(*items.BunItemRepository); !ok {
		t.Fatalf("expected bun repository, got %T", container.ItemRepository())
	}

	ctx := context.Background()
	scope := items.NewScope("tabs", relation.Post("42"))
	svc := container.ItemService()
	first, err := svc.Create(ctx, items.CreateItemInput{Scope: scope, Fields: map[string]any{"title": "One"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, items.CreateItemInput{Scope: scope, Fields: map[string]any{"title": "Two"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Position != 0 || second.Position != 1 {
		t.Fatalf("unexpected positions %d, %d", first.Position, second.Position)
	}

	list, err := svc.List(ctx, scope)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestContainerRequiresDSNForSQLDrivers(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "postgres"

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}
