package schema

import (
	"errors"
	"testing"
)

func sliderDescriptor(t *testing.T) *Descriptor {
	t.Helper()
	desc, err := New("slider").
		Text("title", Required(), Default("Slide title")).
		Textarea("description", Default("Slide description")).
		Image("image").
		Text("button_text", Default("Read more")).
		URL("url").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return desc
}

func TestBuilderDerivesLabelsAndImageField(t *testing.T) {
	desc := sliderDescriptor(t)
	if desc.Label != "Slider" {
		t.Fatalf("expected derived label, got %q", desc.Label)
	}
	if desc.ImageField != "image" {
		t.Fatalf("expected image field, got %q", desc.ImageField)
	}
	field, ok := desc.Field("button_text")
	if !ok || field.Label != "Button Text" {
		t.Fatalf("expected humanised field label, got %+v", field)
	}
	names := desc.FieldNames()
	if len(names) != 5 || names[0] != "title" || names[4] != "url" {
		t.Fatalf("unexpected field order %v", names)
	}
}

func TestBuildRejectsInvalidDescriptors(t *testing.T) {
	cases := map[string]*Builder{
		"empty type":      New(" ").Text("title"),
		"no fields":       New("tabs"),
		"duplicate field": New("tabs").Text("title").Textarea("title"),
		"blank name":      New("tabs").Text(""),
	}
	for name, b := range cases {
		if _, err := b.Build(); !errors.Is(err, ErrDescriptorInvalid) {
			t.Fatalf("%s: expected ErrDescriptorInvalid, got %v", name, err)
		}
	}

	desc := Descriptor{Type: "pictures", Fields: []Field{{Name: "image", Kind: KindText}}, ImageField: "image"}
	if err := desc.Validate(); !errors.Is(err, ErrDescriptorInvalid) {
		t.Fatalf("expected image field kind to be enforced, got %v", err)
	}
}

func TestJSONSchemaListsRequiredFields(t *testing.T) {
	doc := sliderDescriptor(t).JSONSchema()
	if doc["type"] != "object" || doc["additionalProperties"] != false {
		t.Fatalf("unexpected schema root %v", doc)
	}
	required, _ := doc["required"].([]any)
	if len(required) != 1 || required[0] != "title" {
		t.Fatalf("expected title to be required, got %v", doc["required"])
	}
	props := doc["properties"].(map[string]any)
	if len(props) != 5 {
		t.Fatalf("expected 5 properties, got %d", len(props))
	}
}

func TestApplyDefaultsFillsBlanksAndDropsUnknownKeys(t *testing.T) {
	desc := sliderDescriptor(t)
	got := desc.ApplyDefaults(map[string]any{
		"title":       "  ",
		"description": "Custom",
		"url":         "",
		"legacy":      "dropped",
	})
	if got["title"] != "Slide title" {
		t.Fatalf("expected blank title to take default, got %v", got["title"])
	}
	if got["description"] != "Custom" {
		t.Fatalf("expected provided value to win, got %v", got["description"])
	}
	if got["button_text"] != "Read more" {
		t.Fatalf("expected absent field default, got %v", got["button_text"])
	}
	if v, ok := got["url"]; !ok || v != "" {
		t.Fatalf("expected blank url without default to be kept, got %v", got["url"])
	}
	if _, ok := got["legacy"]; ok {
		t.Fatalf("expected unknown key to be dropped")
	}
	if _, ok := got["image"]; ok {
		t.Fatalf("expected absent field without default to stay absent")
	}
}
