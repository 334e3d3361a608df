// Package jsonparse extracts a JSON object from loosely formatted model output.
package jsonparse

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var ErrNoObject = errors.New("jsonparse: no JSON object found")

var (
	codeFence     = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)\\n?```")
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// Object returns the first JSON object in text. It tries, in order: the raw
// text, the contents of a code fence, the same with trailing commas removed,
// and finally the first balanced {...} span.
func Object(text string) (map[string]any, error) {
	candidates := []string{strings.TrimSpace(text)}
	if m := codeFence.FindStringSubmatch(text); len(m) == 2 {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	for _, c := range candidates {
		if out, ok := decode(c); ok {
			return out, nil
		}
		if out, ok := decode(trailingComma.ReplaceAllString(c, "$1")); ok {
			return out, nil
		}
	}
	for _, c := range candidates {
		span := balanced(c)
		if span == "" {
			continue
		}
		if out, ok := decode(span); ok {
			return out, nil
		}
		if out, ok := decode(trailingComma.ReplaceAllString(span, "$1")); ok {
			return out, nil
		}
	}
	return nil, ErrNoObject
}

func decode(s string) (map[string]any, bool) {
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, false
	}
	return out, true
}

// balanced returns the first {...} span with matching braces, skipping
// braces inside string literals.
func balanced(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
