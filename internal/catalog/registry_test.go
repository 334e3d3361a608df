package catalog

import (
	"errors"
	"testing"

	"github.com/goliatone/go-cms-modules/internal/schema"
)

func TestDefaultRegistryServesBuiltins(t *testing.T) {
	r := NewDefaultRegistry()
	list := r.List()
	if len(list) != 6 {
		t.Fatalf("expected 6 built-in types, got %d", len(list))
	}
	want := []string{TypeAccordion, TypePictures, TypeSlider, TypeTabs, TypeTeamCard, TypeTestimonials}
	for i, desc := range list {
		if desc.Type != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], desc.Type)
		}
	}

	slider, err := r.Get(" Slider ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if slider.ImageField != "image" {
		t.Fatalf("expected slider image field, got %q", slider.ImageField)
	}
	if f, _ := slider.Field("button_text"); f.Default != "Read more" {
		t.Fatalf("unexpected button_text default %v", f.Default)
	}
}

func TestEveryBuiltinHasDefaultForRequiredFields(t *testing.T) {
	for _, desc := range Builtin() {
		for _, f := range desc.Fields {
			if f.Required && f.Default == nil {
				t.Fatalf("%s.%s is required without default", desc.Type, f.Name)
			}
		}
	}
}

func TestGetUnknownType(t *testing.T) {
	if _, err := NewDefaultRegistry().Get("carousel"); !errors.Is(err, ErrTypeUnknown) {
		t.Fatalf("expected ErrTypeUnknown, got %v", err)
	}
}

func TestRegisterRejectsDuplicatesAndNormalises(t *testing.T) {
	r := NewRegistry()
	desc := schema.New("Price Table").Text("plan", schema.Required()).MustBuild()
	if err := r.Register(desc); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(desc); !errors.Is(err, ErrTypeRegistered) {
		t.Fatalf("expected ErrTypeRegistered, got %v", err)
	}
	got, err := r.Get("price table")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Type == "Price Table" {
		t.Fatalf("expected stored type to be normalised")
	}
}

func TestGetReturnsCopies(t *testing.T) {
	r := NewDefaultRegistry()
	first, _ := r.Get(TypeTabs)
	first.Fields[0].Default = "mutated"
	second, _ := r.Get(TypeTabs)
	if second.Fields[0].Default != "Tab title" {
		t.Fatalf("expected registry to be isolated from caller mutation")
	}
}
