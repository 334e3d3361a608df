package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/internal/openapi"
	"github.com/goliatone/go-cms-modules/internal/relation"
	"github.com/goliatone/go-cms-modules/internal/schema"
	"github.com/goliatone/go-cms-modules/internal/table"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// TypeLister lists registered module types.
type TypeLister interface {
	List() []*schema.Descriptor
}

// AdminAPI registers the item table endpoints.
type AdminAPI struct {
	basePath string
	tables   *table.Factory
	types    TypeLister
	logger   interfaces.Logger
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(tables *table.Factory, types TypeLister, opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: "/admin/api/modules",
		tables:   tables,
		types:    types,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/admin/api/modules").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Handler returns a standalone chi router serving the API.
func (api *AdminAPI) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(api.requestFields)
	if err := api.Register(r); err != nil {
		panic(err)
	}
	return r
}

// Register attaches the endpoints to r.
func (api *AdminAPI) Register(r chi.Router) error {
	if r == nil {
		return fmt.Errorf("http: router is required")
	}
	if api.tables == nil {
		return fmt.Errorf("http: table factory is required")
	}

	r.Route(joinPath(api.basePath, ""), func(r chi.Router) {
		r.Get("/types", api.listTypes)
		r.Get("/openapi.json", api.openAPI)
		r.Route("/{type}/{relType}/{relID}/items", func(r chi.Router) {
			r.Get("/", api.withTable(api.listItems))
			r.Post("/", api.withTable(api.createItem))
			r.Post("/bulk-delete", api.withTable(api.bulkDelete))
			r.Post("/reorder", api.withTable(api.reorder))
			r.Post("/generate", api.withTable(api.generate))
			r.Put("/{id}", api.withTable(api.updateItem))
			r.Delete("/{id}", api.withTable(api.deleteItem))
			r.Post("/{id}/duplicate", api.withTable(api.duplicate))
			r.Put("/{id}/translations/{locale}", api.withTable(api.translate))
		})
	})
	return nil
}

func (api *AdminAPI) requestFields(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logging.ContextWithFields(r.Context(), map[string]any{"request_id": id}))
		}
		next.ServeHTTP(w, r)
	})
}

type tableHandler func(w http.ResponseWriter, r *http.Request, tbl *table.Table)

func (api *AdminAPI) withTable(fn tableHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := relation.Parse(chi.URLParam(r, "relType"), chi.URLParam(r, "relID"))
		if err != nil {
			writeError(w, err)
			return
		}
		tbl, err := api.tables.For(chi.URLParam(r, "type"), key)
		if err != nil {
			writeError(w, err)
			return
		}
		fn(w, r, tbl)
	}
}

func (api *AdminAPI) respond(w http.ResponseWriter, r *http.Request, res *table.ActionResult, err error, success int) {
	if err != nil && res != nil && res.Report != nil && res.Report.Cancelled {
		api.logger.WithContext(r.Context()).Warn("http.request.partial", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, resultStatus(res, success), res)
		return
	}
	if err != nil {
		api.logger.WithContext(r.Context()).Error("http.request.failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, resultStatus(res, success), res)
}

type typeResponse struct {
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	ImageField string         `json:"image_field,omitempty"`
	Fields     []schema.Field `json:"fields"`
}

func (api *AdminAPI) listTypes(w http.ResponseWriter, r *http.Request) {
	if api.types == nil {
		writeJSON(w, http.StatusOK, []typeResponse{})
		return
	}
	descs := api.types.List()
	out := make([]typeResponse, 0, len(descs))
	for _, d := range descs {
		out = append(out, typeResponse{Type: d.Type, Label: d.Label, ImageField: d.ImageField, Fields: d.Fields})
	}
	writeJSON(w, http.StatusOK, out)
}

func (api *AdminAPI) openAPI(w http.ResponseWriter, r *http.Request) {
	var descs []*schema.Descriptor
	if api.types != nil {
		descs = api.types.List()
	}
	writeJSON(w, http.StatusOK, openapi.Build("Content modules admin API", "1.0.0", api.basePath, descs))
}

func (api *AdminAPI) listItems(w http.ResponseWriter, r *http.Request, tbl *table.Table) {
	res, err := tbl.List(r.Context())
	api.respond(w, r, res, err, http.StatusOK)
}

type fieldsRequest struct {
	Fields map[string]any `json:"fields"`
}

func (api *AdminAPI) createItem(w http.ResponseWriter, r *http.Request, tbl *table.Table) {
	var req fieldsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	res, err := tbl.Create(r.Context(), req.Fields)
	api.respond(w, r, res, err, http.StatusCreated)
}

func (api *AdminAPI) updateItem(w http.ResponseWriter, r *http.Request, tbl *table.Table) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req fieldsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	res, err := tbl.Edit(r.Context(), id, req.Fields)
	api.respond(w, r, res, err, http.StatusOK)
}

func (api *AdminAPI) deleteItem(w http.ResponseWriter, r *http.Request, tbl *table.Table) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	res, err := tbl.Delete(r.Context(), id)
	api.respond(w, r, res, err, http.StatusOK)
}

func (api *AdminAPI) duplicate(w http.ResponseWriter, r *http.Request, tbl *table.Table) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	res, err := tbl.Duplicate(r.Context(), id)
	api.respond(w, r, res, err, http.StatusCreated)
}

func (api *AdminAPI) translate(w http.ResponseWriter, r *http.Request, tbl *table.Table) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req fieldsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	res, err := tbl.Translate(r.Context(), id, chi.URLParam(r, "locale"), req.Fields)
	api.respond(w, r, res, err, http.StatusOK)
}

type idsRequest struct {
	IDs        []uuid.UUID `json:"ids"`
	OrderedIDs []uuid.UUID `json:"ordered_ids"`
}

func (api *AdminAPI) bulkDelete(w http.ResponseWriter, r *http.Request, tbl *table.Table) {
	var req idsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	res, err := tbl.BulkDelete(r.Context(), req.IDs)
	api.respond(w, r, res, err, http.StatusOK)
}

func (api *AdminAPI) reorder(w http.ResponseWriter, r *http.Request, tbl *table.Table) {
	var req idsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	res, err := tbl.Reorder(r.Context(), req.OrderedIDs)
	api.respond(w, r, res, err, http.StatusOK)
}

func (api *AdminAPI) generate(w http.ResponseWriter, r *http.Request, tbl *table.Table) {
	var req table.GenerateInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	// The batch outlives slow clients; the command handler bounds it.
	ctx := context.WithoutCancel(r.Context())
	res, err := tbl.CreateWithAI(ctx, req)
	api.respond(w, r, res, err, http.StatusCreated)
}

func itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid item id", errBadRequest))
		return uuid.Nil, false
	}
	return id, true
}
