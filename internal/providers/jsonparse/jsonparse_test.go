package jsonparse

import (
	"errors"
	"testing"
)

func TestObjectHandlesModelQuirks(t *testing.T) {
	cases := map[string]string{
		"plain":          `{"title": "Hello"}`,
		"fenced":         "Here you go:\n```json\n{\"title\": \"Hello\"}\n```",
		"trailing comma": `{"title": "Hello",}`,
		"embedded":       `Sure! {"title": "Hello", "note": "uses {braces}"} Hope that helps.`,
	}
	for name, input := range cases {
		got, err := Object(input)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got["title"] != "Hello" {
			t.Fatalf("%s: unexpected result %v", name, got)
		}
	}
}

func TestObjectRejectsNonObjects(t *testing.T) {
	for _, input := range []string{"", "no json here", `["a", "b"]`, `{"unterminated": `} {
		if _, err := Object(input); !errors.Is(err, ErrNoObject) {
			t.Fatalf("%q: expected ErrNoObject, got %v", input, err)
		}
	}
}
