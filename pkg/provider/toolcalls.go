package provider

import "encoding/json"

// ExtractToolCallNames recovers the set of tool names a provider's output
// claims to have called, regardless of which vendor shape the output
// happens to be in. This is deliberately permissive: the `tool-call-f1`
// assertion (§4.2) must work whether Output is already a decoded Go value
// (map[string]any, []any) or a raw JSON string, and whether the tool-call
// shape is OpenAI's `tool_calls[].function.name`, Anthropic's `tool_use`
// content blocks, Google's `functionCall.name`, a bare `["name", ...]`
// array, or Anthropic's mixed text+embedded-JSON string form. Duplicates
// collapse into the returned set.
func ExtractToolCallNames(output any) map[string]bool {
	names := make(map[string]bool)
	extractInto(output, names)
	return names
}

func extractInto(v any, names map[string]bool) {
	switch t := v.(type) {
	case nil:
		return
	case string:
		extractFromString(t, names)
	case []any:
		for _, e := range t {
			extractInto(e, names)
		}
	case []string:
		for _, s := range t {
			names[s] = true
		}
	case map[string]any:
		extractFromObject(t, names)
	}
}

func extractFromString(s string, names map[string]bool) {
	// Try whole-string JSON first (a JSON-stringified tool_calls array or
	// object), then fall back to scanning for embedded JSON objects
	// inside prose (Anthropic's mixed text+JSON transcript form).
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err == nil {
		extractInto(decoded, names)
		return
	}
	for _, obj := range extractEmbeddedJSONObjects(s) {
		var decoded any
		if err := json.Unmarshal([]byte(obj), &decoded); err == nil {
			extractInto(decoded, names)
		}
	}
}

// extractEmbeddedJSONObjects finds balanced-brace `{...}` substrings in s.
// It is a best-effort scanner, not a JSON parser: it exists only to find
// candidate spans worth attempting to unmarshal.
func extractEmbeddedJSONObjects(s string) []string {
	var out []string
	depth := 0
	start := -1
	for i, r := range s {
		switch r {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return out
}

func extractFromObject(m map[string]any, names map[string]bool) {
	// OpenAI: {"function": {"name": "..."}}
	if fn, ok := m["function"].(map[string]any); ok {
		if name, ok := fn["name"].(string); ok && name != "" {
			names[name] = true
		}
	}
	// Google: {"functionCall": {"name": "..."}}
	if fc, ok := m["functionCall"].(map[string]any); ok {
		if name, ok := fc["name"].(string); ok && name != "" {
			names[name] = true
		}
	}
	// Anthropic content block: {"type": "tool_use", "name": "..."}
	if t, ok := m["type"].(string); ok && t == "tool_use" {
		if name, ok := m["name"].(string); ok && name != "" {
			names[name] = true
		}
	}
	// Bare {"name": "..."} shape (no type/function wrapper), only treated
	// as a tool call when no other recognizable key is present alongside.
	if _, hasFunction := m["function"]; !hasFunction {
		if _, hasFC := m["functionCall"]; !hasFC {
			if _, hasType := m["type"]; !hasType {
				if name, ok := m["name"].(string); ok && name != "" {
					names[name] = true
				}
			}
		}
	}
	// Recurse into common containers carrying nested tool calls.
	for _, key := range []string{"tool_calls", "tool_use", "content", "candidates", "parts"} {
		if nested, ok := m[key]; ok {
			extractInto(nested, names)
		}
	}
}
