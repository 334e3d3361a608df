// Package http provides the optional chi adapter for the item table API.
//
// Routes mount under /admin/api/modules:
//   - Types: /types, /openapi.json
//   - Items: /{type}/{relType}/{relID}/items, /{type}/{relType}/{relID}/items/{id}
//   - Row actions: .../items/{id}/duplicate, .../items/{id}/translations/{locale}
//   - Bulk actions: .../items/bulk-delete, .../items/reorder, .../items/generate
//
// Host applications can mount the router on their own mux.
package http
