package config

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/evalforge/evalforge/pkg/assert"
)

// assertionShapeSchema enforces the value-shape rules that are awkward to
// express as static Go struct tags — contains-any/contains-all need a
// list value, regex/javascript/python/webhook need a non-empty string
// body or URL. Modeled on blackcoderx-falcon's schema-validation tool
// (pkg/core/tools/schema.go), which runs gojsonschema as a second pass
// over an already-parsed value rather than at the wire boundary.
const assertionShapeSchema = `{
  "type": "object",
  "properties": {
    "kind": {"type": "string"},
    "value": {}
  },
  "required": ["kind"],
  "allOf": [
    {
      "if": {"properties": {"kind": {"enum": ["contains-any", "contains-all"]}}},
      "then": {"properties": {"value": {"type": "array", "minItems": 1}}}
    },
    {
      "if": {"properties": {"kind": {"enum": ["javascript", "python", "webhook", "regex", "not-regex"]}}},
      "then": {"properties": {"value": {"type": "string", "minLength": 1}}}
    }
  ]
}`

var assertionShapeLoader = gojsonschema.NewStringLoader(assertionShapeSchema)

// validateAssertionShape runs the JSON-Schema second pass over one leaf
// assertion's {kind, value} shape, recursing into and/or/assert-set
// children. weight:0 assertions (always-pass, §3 invariant 3) still get
// their shape checked — the invariant only exempts them from dispatch.
func validateAssertionShape(a assert.Assertion, path string) error {
	if a.IsCombinator() {
		for i, child := range a.Children {
			if err := validateAssertionShape(child, fmt.Sprintf("%s.assert[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	}

	doc := map[string]any{"kind": string(a.BaseKind()), "value": a.Value}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: marshaling assertion for shape validation: %w", path, err)
	}

	result, err := gojsonschema.Validate(assertionShapeLoader, gojsonschema.NewBytesLoader(docJSON))
	if err != nil {
		return fmt.Errorf("%s: running shape validation: %w", path, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w at %s: %v", ErrInvalidAssertionShape, path, msgs)
	}
	return nil
}
