// Package openapi describes the admin API and the registered module types as
// an OpenAPI 3 document.
package openapi

import (
	"strings"

	"github.com/goliatone/go-cms-modules/internal/schema"
)

// Document represents a minimal OpenAPI document.
type Document struct {
	OpenAPI    string         `json:"openapi"`
	Info       Info           `json:"info"`
	Paths      map[string]any `json:"paths"`
	Components Components     `json:"components"`
}

// Info captures OpenAPI metadata.
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Components aggregates schema components.
type Components struct {
	Schemas map[string]any `json:"schemas,omitempty"`
}

// NewDocument constructs an empty document.
func NewDocument(title, version string) *Document {
	return &Document{
		OpenAPI:    "3.0.3",
		Info:       Info{Title: title, Version: version},
		Paths:      map[string]any{},
		Components: Components{Schemas: map[string]any{}},
	}
}

// AddSchema registers a component schema.
func (d *Document) AddSchema(name string, schema map[string]any) {
	if d == nil || name == "" || schema == nil {
		return
	}
	d.Components.Schemas[name] = schema
}

// SchemaName is the component name holding the fields of moduleType.
func SchemaName(moduleType string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(moduleType, func(r rune) bool { return r == '_' || r == '-' || r == ' ' }) {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	b.WriteString("Fields")
	return b.String()
}

// Build describes the item endpoints under basePath with one field schema
// per descriptor.
func Build(title, version, basePath string, descriptors []*schema.Descriptor) *Document {
	doc := NewDocument(title, version)
	base := strings.TrimRight(basePath, "/")

	typeNames := make([]any, 0, len(descriptors))
	fieldRefs := make([]any, 0, len(descriptors))
	for _, desc := range descriptors {
		name := SchemaName(desc.Type)
		fields := desc.JSONSchema()
		delete(fields, "$schema")
		fields["x-module-type"] = desc.Type
		doc.AddSchema(name, fields)
		typeNames = append(typeNames, desc.Type)
		fieldRefs = append(fieldRefs, ref(name))
	}

	doc.AddSchema("Item", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "format": "uuid"},
			"module_type": map[string]any{"type": "string", "enum": typeNames},
			"rel_type":    map[string]any{"type": "string"},
			"rel_id":      map[string]any{"type": "string"},
			"position":    map[string]any{"type": "integer", "minimum": 0},
			"fields":      map[string]any{"oneOf": fieldRefs},
		},
	})
	doc.AddSchema("ActionResult", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"outcome":      map[string]any{"type": "string"},
			"item":         ref("Item"),
			"items":        map[string]any{"type": "array", "items": ref("Item")},
			"count":        map[string]any{"type": "integer"},
			"field_errors": map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
		},
	})
	doc.AddSchema("GenerateInput", map[string]any{
		"type":     "object",
		"required": []any{"subject", "count"},
		"properties": map[string]any{
			"subject":     map[string]any{"type": "string", "minLength": 1},
			"count":       map[string]any{"type": "integer", "minimum": 1},
			"with_images": map[string]any{"type": "boolean"},
			"locale":      map[string]any{"type": "string"},
		},
	})

	fieldsBody := map[string]any{
		"type":       "object",
		"properties": map[string]any{"fields": map[string]any{"type": "object"}},
	}
	idList := map[string]any{"type": "array", "items": map[string]any{"type": "string", "format": "uuid"}}

	params := []any{
		pathParam("type", typeNames),
		pathParam("relType", nil),
		pathParam("relID", nil),
	}
	items := base + "/{type}/{relType}/{relID}/items"
	doc.Paths[base+"/types"] = map[string]any{
		"get": operation("listModuleTypes", "List registered module types", nil, nil),
	}
	doc.Paths[items] = map[string]any{
		"get":  operation("listItems", "List items in position order", params, nil),
		"post": operation("createItem", "Append an item", params, fieldsBody),
	}
	doc.Paths[items+"/reorder"] = map[string]any{
		"post": operation("reorderItems", "Rewrite positions to match the given order", params, map[string]any{
			"type":       "object",
			"properties": map[string]any{"ordered_ids": idList},
		}),
	}
	doc.Paths[items+"/generate"] = map[string]any{
		"post": operation("generateItems", "Create items with the generative provider", params, ref("GenerateInput")),
	}
	doc.Paths[items+"/bulk-delete"] = map[string]any{
		"post": operation("bulkDeleteItems", "Delete several items", params, map[string]any{
			"type":       "object",
			"properties": map[string]any{"ids": idList},
		}),
	}
	withID := append(append([]any{}, params...), pathParam("id", nil))
	doc.Paths[items+"/{id}"] = map[string]any{
		"put":    operation("updateItem", "Replace item fields", withID, fieldsBody),
		"delete": operation("deleteItem", "Delete an item", withID, nil),
	}
	doc.Paths[items+"/{id}/duplicate"] = map[string]any{
		"post": operation("duplicateItem", "Copy an item to the end of its list", withID, nil),
	}
	doc.Paths[items+"/{id}/translations/{locale}"] = map[string]any{
		"put": operation("translateItem", "Store locale overrides", append(withID, pathParam("locale", nil)), fieldsBody),
	}
	return doc
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func pathParam(name string, enum []any) map[string]any {
	s := map[string]any{"type": "string"}
	if len(enum) > 0 {
		s["enum"] = enum
	}
	return map[string]any{"name": name, "in": "path", "required": true, "schema": s}
}

func operation(id, summary string, params []any, body map[string]any) map[string]any {
	op := map[string]any{
		"operationId": id,
		"summary":     summary,
		"responses": map[string]any{
			"200": map[string]any{
				"description": "OK",
				"content":     map[string]any{"application/json": map[string]any{"schema": ref("ActionResult")}},
			},
		},
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	if body != nil {
		op["requestBody"] = map[string]any{
			"required": true,
			"content":  map[string]any{"application/json": map[string]any{"schema": body}},
		}
	}
	return op
}
