package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-modules/internal/catalog"
	itemscmd "github.com/goliatone/go-cms-modules/internal/commands/items"
	"github.com/goliatone/go-cms-modules/internal/generation"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/providers/fixture"
	"github.com/goliatone/go-cms-modules/internal/table"
)

type itemsResponse struct {
	Outcome     string            `json:"outcome"`
	Item        *items.Item       `json:"item"`
	Items       []*items.Item     `json:"items"`
	Count       int               `json:"count"`
	FieldErrors map[string]string `json:"field_errors"`
}

func TestAdminAPI_ItemLifecycle(t *testing.T) {
	handler := setupAdminAPI(t, nil)
	base := "/admin/api/modules/accordion/post/42/items"

	var a, b itemsResponse
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodPost, base, map[string]any{"fields": map[string]any{"title": "X"}}, http.StatusCreated), &a)
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodPost, base, map[string]any{"fields": map[string]any{"title": "Y"}}, http.StatusCreated), &b)
	if a.Item.Position != 0 || b.Item.Position != 1 {
		t.Fatalf("expected positions 0 and 1, got %d and %d", a.Item.Position, b.Item.Position)
	}

	var reordered itemsResponse
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodPost, base+"/reorder",
		map[string]any{"ordered_ids": []uuid.UUID{b.Item.ID, a.Item.ID}}, http.StatusOK), &reordered)
	if reordered.Items[0].ID != b.Item.ID {
		t.Fatalf("expected B first after reorder")
	}

	var copied itemsResponse
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodPost, base+"/"+b.Item.ID.String()+"/duplicate", nil, http.StatusCreated), &copied)
	if copied.Item.Position != 2 || copied.Item.Fields["title"] != "Y" {
		t.Fatalf("unexpected copy %+v", copied.Item)
	}

	doJSONRequest(t, handler, http.MethodPut, base+"/"+a.Item.ID.String(), map[string]any{"fields": map[string]any{"icon": "star"}}, http.StatusOK)
	doJSONRequest(t, handler, http.MethodDelete, base+"/"+uuid.NewString(), nil, http.StatusOK)

	var bulk itemsResponse
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodPost, base+"/bulk-delete",
		map[string]any{"ids": []uuid.UUID{a.Item.ID, copied.Item.ID, uuid.New()}}, http.StatusOK), &bulk)
	if bulk.Count != 2 {
		t.Fatalf("expected 2 deleted, got %d", bulk.Count)
	}

	var list itemsResponse
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodGet, base, nil, http.StatusOK), &list)
	if list.Count != 1 || list.Items[0].ID != b.Item.ID {
		t.Fatalf("expected only B to remain, got %+v", list)
	}
}

func TestAdminAPI_ErrorStatuses(t *testing.T) {
	handler := setupAdminAPI(t, nil)
	base := "/admin/api/modules/slider/page/home/items"

	var invalid itemsResponse
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodPost, base, map[string]any{"fields": map[string]any{}}, http.StatusBadRequest), &invalid)
	if invalid.FieldErrors["title"] == "" {
		t.Fatalf("expected title error, got %+v", invalid)
	}

	doJSONRequest(t, handler, http.MethodPut, base+"/"+uuid.NewString(), map[string]any{"fields": map[string]any{"title": "x"}}, http.StatusNotFound)
	doJSONRequest(t, handler, http.MethodPost, base+"/reorder", map[string]any{"ordered_ids": []uuid.UUID{uuid.New()}}, http.StatusBadRequest)
	doJSONRequest(t, handler, http.MethodGet, "/admin/api/modules/carousel/page/home/items", nil, http.StatusNotFound)
	doJSONRequest(t, handler, http.MethodGet, "/admin/api/modules/slider/category/home/items", nil, http.StatusBadRequest)
	doJSONRequest(t, handler, http.MethodPut, base+"/not-a-uuid", map[string]any{}, http.StatusBadRequest)
}

func TestAdminAPI_Generate(t *testing.T) {
	handler := setupAdminAPI(t, fixture.NewStructured(fixture.FailOn(3)))
	base := "/admin/api/modules/tabs/module/7/items"

	var res itemsResponse
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodPost, base+"/generate", map[string]any{"subject": "Pricing", "count": 3}, http.StatusCreated), &res)
	if res.Count != 2 {
		t.Fatalf("expected 2 generated, got %d", res.Count)
	}

	doJSONRequest(t, handler, http.MethodPost, base+"/generate", map[string]any{"subject": "Pricing", "count": 11}, http.StatusBadRequest)

	failing := setupAdminAPI(t, fixture.NewStructured(fixture.FailAlways()))
	doJSONRequest(t, failing, http.MethodPost, base+"/generate", map[string]any{"subject": "Pricing", "count": 2}, http.StatusUnprocessableEntity)
}

func TestAdminAPI_ListTypes(t *testing.T) {
	handler := setupAdminAPI(t, nil)
	var types []typeResponse
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodGet, "/admin/api/modules/types", nil, http.StatusOK), &types)
	if len(types) != 6 || types[0].Type != "accordion" {
		t.Fatalf("expected 6 sorted types, got %+v", types)
	}
}

func setupAdminAPI(t *testing.T, provider *fixture.Structured) http.Handler {
	t.Helper()
	registry := catalog.NewDefaultRegistry()
	service := items.NewService(items.NewMemoryItemRepository(), registry)
	var gen generation.Service
	if provider != nil {
		gen = generation.NewService(service, registry, provider)
	}
	handlers := itemscmd.NewHandlers(service, gen, nil, itemscmd.FeatureGates{})
	api := NewAdminAPI(table.NewFactory(service, handlers, registry), registry)
	return api.Handler()
}

func doJSONRequest(t *testing.T, handler http.Handler, method, path string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("%s %s: expected status %d got %d (%s)", method, path, wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestAdminAPI_OpenAPIDocument(t *testing.T) {
	handler := setupAdminAPI(t, nil)
	var doc struct {
		OpenAPI    string         `json:"openapi"`
		Paths      map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodGet, "/admin/api/modules/openapi.json", nil, http.StatusOK), &doc)
	if doc.OpenAPI != "3.0.3" {
		t.Fatalf("unexpected openapi version %q", doc.OpenAPI)
	}
	if _, ok := doc.Components.Schemas["TestimonialsFields"]; !ok {
		t.Fatalf("expected testimonials schema, got %v", doc.Components.Schemas)
	}
	if _, ok := doc.Paths["/admin/api/modules/{type}/{relType}/{relID}/items/generate"]; !ok {
		t.Fatalf("expected generate path")
	}
}
