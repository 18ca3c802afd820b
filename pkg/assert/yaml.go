package assert

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// assertionYAML mirrors the structured form of an Assertion/CombinatorAssertion
// (§3) for YAML decoding: either a bare shorthand string or a mapping with
// this shape. The "assert" key holds a combinator's children, matching the
// spec's own field name for CombinatorAssertion.assert.
type assertionYAML struct {
	Kind         Kind             `yaml:"kind"`
	Value        any              `yaml:"value"`
	Threshold    *float64         `yaml:"threshold"`
	Weight       *float64         `yaml:"weight"`
	Metric       string           `yaml:"metric"`
	Config       map[string]any   `yaml:"config"`
	Name         string           `yaml:"name"`
	Assert       []assertionYAML  `yaml:"assert"`
	ShortCircuit *bool            `yaml:"shortCircuit"`
}

// UnmarshalYAML decodes either a bare shorthand string ("contains:foo") or a
// structured mapping into an Assertion, recursing into "assert" for the
// and/or/assert-set combinators (§4.1/§4.3).
func (a *Assertion) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		shorthand := node.Value
		parsed, err := Parse(shorthand)
		if err != nil {
			return fmt.Errorf("parsing assertion shorthand %q: %w", shorthand, err)
		}
		*a = parsed
		return nil
	}

	var raw assertionYAML
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decoding assertion: %w", err)
	}

	out := Assertion{
		Kind:         raw.Kind,
		Value:        raw.Value,
		Threshold:    raw.Threshold,
		Weight:       raw.Weight,
		Metric:       raw.Metric,
		Config:       raw.Config,
		Name:         raw.Name,
		ShortCircuit: raw.ShortCircuit,
	}
	if len(raw.Assert) > 0 {
		out.Children = make([]Assertion, len(raw.Assert))
		for i, child := range raw.Assert {
			converted, err := child.toAssertion()
			if err != nil {
				return err
			}
			out.Children[i] = converted
		}
	}
	if out.Kind == "" {
		out.Kind = KindEquals
	}
	*a = out
	return nil
}

func (raw assertionYAML) toAssertion() (Assertion, error) {
	out := Assertion{
		Kind:         raw.Kind,
		Value:        raw.Value,
		Threshold:    raw.Threshold,
		Weight:       raw.Weight,
		Metric:       raw.Metric,
		Config:       raw.Config,
		Name:         raw.Name,
		ShortCircuit: raw.ShortCircuit,
	}
	if out.Kind == "" {
		out.Kind = KindEquals
	}
	if len(raw.Assert) > 0 {
		out.Children = make([]Assertion, len(raw.Assert))
		for i, child := range raw.Assert {
			converted, err := child.toAssertion()
			if err != nil {
				return Assertion{}, err
			}
			out.Children[i] = converted
		}
	}
	return out, nil
}
