package assert

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func registerJSONHandlers(r *Registry) {
	r.Register(KindIsJSON, false, handleIsJSON)
	r.Register(KindContainsJSON, false, handleContainsJSON)
}

func handleIsJSON(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	got := strings.TrimSpace(ectx.OutputString())
	var v any
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		return false, 0, fmt.Sprintf("Output is not valid JSON: %v", err), nil
	}
	if schema, ok := a.Config["schema"]; ok {
		if ok, reason := validateAgainstSchema(v, schema); !ok {
			return false, 0, reason, nil
		}
	}
	return true, 1, "Output is valid JSON", nil
}

// handleContainsJSON looks for the first balanced JSON object or array
// substring and validates it, rather than requiring the whole output to
// be JSON.
func handleContainsJSON(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	got := ectx.OutputString()
	frag, ok := firstJSONFragment(got)
	if !ok {
		return false, 0, "Output does not contain any JSON", nil
	}
	var v any
	if err := json.Unmarshal([]byte(frag), &v); err != nil {
		return false, 0, "Output does not contain valid JSON", nil
	}
	if schema, ok := a.Config["schema"]; ok {
		if ok, reason := validateAgainstSchema(v, schema); !ok {
			return false, 0, reason, nil
		}
	}
	return true, 1, "Output contains valid JSON", nil
}

// firstJSONFragment scans s for the first '{' or '[' and returns the
// substring up to its matching closing bracket, honoring string quoting.
func firstJSONFragment(s string) (string, bool) {
	for i, c := range s {
		if c != '{' && c != '[' {
			continue
		}
		if end, ok := matchBracket(s, i); ok {
			return s[i : end+1], true
		}
	}
	return "", false
}

func matchBracket(s string, start int) (int, bool) {
	open, close := byte('{'), byte('}')
	if s[start] == '[' {
		open, close = '[', ']'
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// validateAgainstSchema is a minimal structural check used when a JSON
// Schema document is supplied via config.schema. Full keyword support
// (anyOf, $ref, format, ...) is delegated to the host-supplied validator
// via EvalContext in a fuller build; this covers "type"/"required", the
// common case for inline schemas in test configs.
func validateAgainstSchema(v any, schema any) (bool, string) {
	schemaMap, ok := schema.(map[string]any)
	if !ok {
		return true, ""
	}
	if wantType, ok := schemaMap["type"].(string); ok {
		if !matchesJSONType(v, wantType) {
			return false, fmt.Sprintf("JSON value does not match schema type %q", wantType)
		}
	}
	if required, ok := schemaMap["required"].([]any); ok {
		obj, isObj := v.(map[string]any)
		if !isObj {
			return false, "JSON value is not an object but schema requires fields"
		}
		for _, f := range required {
			name, _ := f.(string)
			if _, present := obj[name]; !present {
				return false, fmt.Sprintf("JSON value is missing required field %q", name)
			}
		}
	}
	return true, ""
}

func matchesJSONType(v any, want string) bool {
	switch want {
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "number":
		_, ok := v.(float64)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "null":
		return v == nil
	default:
		return true
	}
}
