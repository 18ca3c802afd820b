package render

import "testing"

func TestStringSubstitutesVars(t *testing.T) {
	got := String("{{category}}_{{version}}", map[string]any{
		"category": "foo",
		"version":  2,
	})
	if got != "foo_2" {
		t.Fatalf("got %q", got)
	}
}

func TestStringMissingVarRendersEmpty(t *testing.T) {
	got := String("{{undefinedVar}}", map[string]any{})
	if got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestStringUnclosedPlaceholderFallsBack(t *testing.T) {
	tpl := "hello {{world"
	got := String(tpl, map[string]any{"world": "x"})
	if got != tpl {
		t.Fatalf("got %q, want raw template %q", got, tpl)
	}
}

func TestStringIdempotentWhenNoPlaceholders(t *testing.T) {
	vars := map[string]any{"a": "b"}
	got := String("plain text", vars)
	again := String(got, vars)
	if got != again {
		t.Fatalf("rendering not idempotent: %q vs %q", got, again)
	}
}

func TestStringDottedPath(t *testing.T) {
	vars := map[string]any{
		"user": map[string]any{"name": "ada"},
	}
	got := String("{{user.name}}", vars)
	if got != "ada" {
		t.Fatalf("got %q", got)
	}
}
