package relation

import (
	"errors"
	"testing"
)

func TestParseNormalisesInput(t *testing.T) {
	key, err := Parse(" POST ", " 42 ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if key != Post("42") {
		t.Fatalf("expected post:42, got %s", key)
	}
	if key.String() != "post:42" {
		t.Fatalf("unexpected string form %q", key.String())
	}
}

func TestParseRejectsUnknownKind(t *testing.T) {
	if _, err := Parse("category", "1"); !errors.Is(err, ErrKindUnknown) {
		t.Fatalf("expected ErrKindUnknown, got %v", err)
	}
}

func TestParseRequiresID(t *testing.T) {
	if _, err := Parse("page", "   "); !errors.Is(err, ErrIDRequired) {
		t.Fatalf("expected ErrIDRequired, got %v", err)
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	original := Module("hero-block")
	parsed, err := ParseString(original.String())
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if parsed != original {
		t.Fatalf("expected %v, got %v", original, parsed)
	}
	if _, err := ParseString("no-separator"); !errors.Is(err, ErrKindUnknown) {
		t.Fatalf("expected ErrKindUnknown for malformed value, got %v", err)
	}
}

func TestKeysAreComparable(t *testing.T) {
	seen := map[Key]int{}
	seen[Page("1")]++
	seen[Page("1")]++
	seen[Post("1")]++
	if seen[Page("1")] != 2 || len(seen) != 2 {
		t.Fatalf("expected keys to compare by value, got %v", seen)
	}
}
