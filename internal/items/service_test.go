package items_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-modules/internal/catalog"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/relation"
	"github.com/goliatone/go-cms-modules/internal/validation"
)

func sequentialIDs(n int) items.IDGenerator {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1))
	}
	next := 0
	return func() uuid.UUID {
		id := ids[next%len(ids)]
		next++
		return id
	}
}

func newService(t *testing.T, opts ...items.ServiceOption) items.Service {
	t.Helper()
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	base := []items.ServiceOption{
		items.WithClock(func() time.Time { return now }),
		items.WithIDGenerator(sequentialIDs(64)),
	}
	return items.NewService(items.NewMemoryItemRepository(), catalog.NewDefaultRegistry(), append(base, opts...)...)
}

var accordionOnPost = items.NewScope(catalog.TypeAccordion, relation.Post("42"))

func mustCreate(t *testing.T, svc items.Service, scope items.Scope, title string) *items.Item {
	t.Helper()
	item, err := svc.Create(context.Background(), items.CreateItemInput{Scope: scope, Fields: map[string]any{"title": title}})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return item
}

func positions(records []*items.Item) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Position
	}
	return out
}

func assertStrictOrder(t *testing.T, records []*items.Item) {
	t.Helper()
	for i := 1; i < len(records); i++ {
		if records[i].Position <= records[i-1].Position {
			t.Fatalf("positions not strictly increasing: %v", positions(records))
		}
	}
}

func TestEndToEndPostScenario(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	a := mustCreate(t, svc, accordionOnPost, "X")
	b := mustCreate(t, svc, accordionOnPost, "Y")
	if a.Position != 0 || b.Position != 1 {
		t.Fatalf("expected positions 0 and 1, got %d and %d", a.Position, b.Position)
	}

	reordered, err := svc.Reorder(ctx, accordionOnPost, []uuid.UUID{b.ID, a.ID})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if reordered[0].ID != b.ID || reordered[0].Position != 0 || reordered[1].ID != a.ID || reordered[1].Position != 1 {
		t.Fatalf("unexpected order after reorder: %+v", reordered)
	}

	c, err := svc.Duplicate(ctx, accordionOnPost, b.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if c.ID == b.ID || c.Position != 2 {
		t.Fatalf("expected new id at position 2, got %s at %d", c.ID, c.Position)
	}
	if c.Fields["title"] != "Y" || c.Fields["content"] != b.Fields["content"] {
		t.Fatalf("expected duplicated fields, got %v", c.Fields)
	}

	listed, err := svc.List(ctx, accordionOnPost)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 || listed[0].ID != b.ID || listed[1].ID != a.ID || listed[2].ID != c.ID {
		t.Fatalf("unexpected list %v", positions(listed))
	}
}

func TestCreateAppliesDefaultsAndRejectsMissingTitle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	item := mustCreate(t, svc, accordionOnPost, "Shipping")
	if item.Fields["content"] != "Content" {
		t.Fatalf("expected default content, got %v", item.Fields["content"])
	}

	_, err := svc.Create(ctx, items.CreateItemInput{Scope: accordionOnPost, Fields: map[string]any{"content": "orphan"}})
	if !errors.Is(err, validation.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validation.FieldMap(err)["title"] == "" {
		t.Fatalf("expected title field error, got %v", err)
	}
	if n, _ := svc.Count(ctx, accordionOnPost); n != 1 {
		t.Fatalf("expected rejected create not to persist, count=%d", n)
	}
}

func TestListIsEmptyForUnknownKey(t *testing.T) {
	listed, err := newService(t).List(context.Background(), items.NewScope(catalog.TypeTabs, relation.Page("missing")))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if listed == nil || len(listed) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", listed)
	}
}

func TestScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	tabsOnPost := items.NewScope(catalog.TypeTabs, relation.Post("42"))
	accordionOnPage := items.NewScope(catalog.TypeAccordion, relation.Page("42"))

	mustCreate(t, svc, accordionOnPost, "a")
	tab := mustCreate(t, svc, tabsOnPost, "tab")
	page := mustCreate(t, svc, accordionOnPage, "page")
	if tab.Position != 0 || page.Position != 0 {
		t.Fatalf("expected independent position sequences, got %d and %d", tab.Position, page.Position)
	}

	_, err := svc.Update(ctx, items.UpdateItemInput{Scope: accordionOnPost, ID: page.ID, Fields: map[string]any{"title": "hijack"}})
	if !errors.Is(err, items.ErrNotFound) {
		t.Fatalf("expected NotFound for foreign item, got %v", err)
	}
	if _, err := svc.Duplicate(ctx, accordionOnPost, tab.ID); !errors.Is(err, items.ErrNotFound) {
		t.Fatalf("expected NotFound duplicating foreign item, got %v", err)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	item := mustCreate(t, svc, accordionOnPost, "Before")

	updated, err := svc.Update(ctx, items.UpdateItemInput{Scope: accordionOnPost, ID: item.ID, Fields: map[string]any{"icon": "star"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Fields["title"] != "Before" || updated.Fields["icon"] != "star" {
		t.Fatalf("expected merge, got %v", updated.Fields)
	}
	if updated.Position != item.Position {
		t.Fatalf("update must not move the item")
	}

	_, err = svc.Update(ctx, items.UpdateItemInput{Scope: accordionOnPost, ID: item.ID, Fields: map[string]any{"title": ""}})
	if !errors.Is(err, validation.ErrValidation) {
		t.Fatalf("expected blank title to be rejected, got %v", err)
	}
}

func TestDeleteIsIdempotentAndBulkDeleteCounts(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustCreate(t, svc, accordionOnPost, "a")
	b := mustCreate(t, svc, accordionOnPost, "b")
	c := mustCreate(t, svc, accordionOnPost, "c")

	if err := svc.Delete(ctx, accordionOnPost, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, accordionOnPost, a.ID); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}

	deleted, err := svc.BulkDelete(ctx, accordionOnPost, []uuid.UUID{a.ID, b.ID, uuid.New()})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deletion, got %d", deleted)
	}

	d := mustCreate(t, svc, accordionOnPost, "d")
	if d.Position != c.Position+1 {
		t.Fatalf("expected append after remaining max %d, got %d", c.Position, d.Position)
	}
}

func TestReorderRejectsNonPermutationWithoutWriting(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustCreate(t, svc, accordionOnPost, "a")
	b := mustCreate(t, svc, accordionOnPost, "b")
	c := mustCreate(t, svc, accordionOnPost, "c")

	cases := map[string][]uuid.UUID{
		"missing":   {c.ID, a.ID},
		"extra":     {c.ID, b.ID, a.ID, uuid.New()},
		"duplicate": {c.ID, c.ID, a.ID},
	}
	for name, ids := range cases {
		_, err := svc.Reorder(ctx, accordionOnPost, ids)
		if !errors.Is(err, items.ErrInvalidOrder) {
			t.Fatalf("%s: expected ErrInvalidOrder, got %v", name, err)
		}
		var detail *items.InvalidOrderError
		if !errors.As(err, &detail) {
			t.Fatalf("%s: expected InvalidOrderError detail", name)
		}
	}

	listed, _ := svc.List(ctx, accordionOnPost)
	if listed[0].ID != a.ID || listed[1].ID != b.ID || listed[2].ID != c.ID {
		t.Fatalf("expected order untouched, got %v", listed)
	}
	if got := positions(listed); got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("expected positions untouched, got %v", got)
	}
}

func TestOrderingInvariantAcrossMixedOperations(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	var ids []uuid.UUID
	for i := range 6 {
		ids = append(ids, mustCreate(t, svc, accordionOnPost, fmt.Sprintf("item %d", i)).ID)
	}
	if _, err := svc.BulkDelete(ctx, accordionOnPost, []uuid.UUID{ids[1], ids[4]}); err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if _, err := svc.Reorder(ctx, accordionOnPost, []uuid.UUID{ids[5], ids[0], ids[3], ids[2]}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if _, err := svc.Duplicate(ctx, accordionOnPost, ids[3]); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	mustCreate(t, svc, accordionOnPost, "tail")

	listed, _ := svc.List(ctx, accordionOnPost)
	if len(listed) != 6 {
		t.Fatalf("expected 6 items, got %d", len(listed))
	}
	assertStrictOrder(t, listed)
	if listed[0].ID != ids[5] {
		t.Fatalf("expected reordered head, got %s", listed[0].ID)
	}
}

func TestSetTranslationStoresOverrides(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	item := mustCreate(t, svc, accordionOnPost, "Hello")

	updated, err := svc.SetTranslation(ctx, items.SetTranslationInput{
		Scope: accordionOnPost, ID: item.ID, Locale: " ES ", Fields: map[string]any{"title": "Hola"},
	})
	if err != nil {
		t.Fatalf("set translation: %v", err)
	}
	if got := updated.Localized("es"); got["title"] != "Hola" || got["content"] != "Content" {
		t.Fatalf("unexpected localized fields %v", got)
	}
	if got := updated.Localized("fr"); got["title"] != "Hello" {
		t.Fatalf("expected base fields for unknown locale, got %v", got)
	}

	cleared, err := svc.SetTranslation(ctx, items.SetTranslationInput{
		Scope: accordionOnPost, ID: item.ID, Locale: "de", Fields: map[string]any{"icon": " "},
	})
	if err != nil {
		t.Fatalf("set blank translation: %v", err)
	}
	if _, ok := cleared.Translations["de"]; ok {
		t.Fatalf("expected blank-only overrides to be dropped")
	}
	if cleared.Translations["es"]["title"] != "Hola" {
		t.Fatalf("expected other locales to be kept, got %v", cleared.Translations)
	}

	if _, err := svc.SetTranslation(ctx, items.SetTranslationInput{Scope: accordionOnPost, ID: item.ID, Fields: map[string]any{"title": "x"}}); !errors.Is(err, items.ErrLocaleRequired) {
		t.Fatalf("expected ErrLocaleRequired, got %v", err)
	}

	disabled := newService(t, items.WithTranslations(false))
	if _, err := disabled.SetTranslation(ctx, items.SetTranslationInput{}); !errors.Is(err, items.ErrTranslationsDisabled) {
		t.Fatalf("expected ErrTranslationsDisabled, got %v", err)
	}
}

func TestDeleteByKeyClearsOnlyThatScope(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	other := items.NewScope(catalog.TypeAccordion, relation.Post("43"))
	mustCreate(t, svc, accordionOnPost, "a")
	mustCreate(t, svc, accordionOnPost, "b")
	mustCreate(t, svc, other, "keep")

	deleted, err := svc.DeleteByKey(ctx, accordionOnPost)
	if err != nil || deleted != 2 {
		t.Fatalf("expected 2 deletions, got %d (%v)", deleted, err)
	}
	if n, _ := svc.Count(ctx, other); n != 1 {
		t.Fatalf("expected other scope untouched, got %d", n)
	}
}

func TestScopeValidation(t *testing.T) {
	svc := newService(t)
	_, err := svc.List(context.Background(), items.Scope{ModuleType: "accordion", Key: relation.Key{Kind: "category", ID: "1"}})
	if !errors.Is(err, items.ErrScopeInvalid) || !errors.Is(err, relation.ErrKindUnknown) {
		t.Fatalf("expected scope error wrapping relation error, got %v", err)
	}
	_, err = svc.List(context.Background(), items.NewScope("carousel", relation.Post("1")))
	if !errors.Is(err, catalog.ErrTypeUnknown) {
		t.Fatalf("expected unknown module type, got %v", err)
	}
}
