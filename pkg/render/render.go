// Package render implements the {{var}} substitution grammar shared by
// metric-name templating (pkg/assert's Metric rendering) and
// prompt/resolver templating (pkg/eval, pkg/resolvers). It never panics: malformed template syntax
// falls back to the raw template string, and undefined variables render to
// the empty string.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// varPattern matches "{{ name }}" or "{{ name.path }}" placeholders. It
// intentionally does not match unclosed "{{" sequences, which is what
// gives us the "fall back to raw template" behavior for free: an
// unterminated placeholder simply never matches and is left untouched.
var varPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)*)\s*\}\}`)

// String substitutes every "{{name}}" occurrence in tpl with the string
// coercion of vars[name]. Missing variables render to "". Dotted paths
// index into nested maps (vars["a.b"] looks up vars["a"]["b"]).
//
// Rendering never fails: if tpl contains no recognizable placeholder at
// all (e.g. an unclosed "{{"), it is returned unchanged.
func String(tpl string, vars map[string]any) string {
	if !strings.Contains(tpl, "{{") {
		return tpl
	}
	return varPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		sub := varPattern.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		return coerce(lookup(vars, sub[1]))
	})
}

// lookup resolves a (possibly dotted) path against vars. Missing keys at
// any level return nil, never an error.
func lookup(vars map[string]any, path string) any {
	parts := strings.Split(path, ".")
	var cur any = vars
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[p]
		if !ok {
			return nil
		}
	}
	return cur
}

// coerce stringifies an arbitrary JSON-ish value the way a templated
// metric name or rendered prompt variable is expected to read: strings
// pass through, scalars use their natural formatting, everything else is
// JSON-serialized. Undefined (nil) coerces to "".
func coerce(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
