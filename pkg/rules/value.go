package rules

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind identifies which member of the value sum type a Value holds.
type Kind int

const (
	// KindInvalid is the zero Value. It compares equal to nothing.
	KindInvalid Kind = iota

	// KindBool is a boolean fact value.
	KindBool

	// KindNumber is a numeric fact value. All numbers are carried as
	// float64, matching the YAML/JSON decode types.
	KindNumber

	// KindText is a string fact value.
	KindText
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// Value is a fact or condition value: exactly one of boolean, number, or
// text. The zero Value is invalid and never matches anything.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Text returns a string Value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the boolean member. Only meaningful when Kind is KindBool.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the numeric member. Only meaningful when Kind is KindNumber.
func (v Value) AsNumber() float64 { return v.n }

// AsText returns the text member. Only meaningful when Kind is KindText.
func (v Value) AsText() string { return v.s }

// String formats the value for display and logging.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindText:
		return v.s
	default:
		return "<invalid>"
	}
}

// UnmarshalYAML decodes a scalar YAML node into a Value. Sequences,
// mappings, and nulls are rejected so malformed catalogs and snapshots
// fail at the decode boundary instead of inside the evaluator.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("fact value must be a scalar, got %s", yamlKindName(node.Kind))
	}

	switch node.Tag {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = Bool(b)
	case "!!int", "!!float":
		var n float64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*v = Number(n)
	case "!!str":
		*v = Text(node.Value)
	default:
		return fmt.Errorf("unsupported fact value type %q", node.Tag)
	}

	return nil
}

// MarshalYAML encodes the value back to its natural scalar form.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindNumber:
		return v.n, nil
	case KindText:
		return v.s, nil
	default:
		return nil, fmt.Errorf("cannot marshal invalid value")
	}
}

// UnmarshalJSON decodes a JSON scalar into a Value. JSON null, arrays, and
// objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case bool:
		*v = Bool(val)
	case float64:
		*v = Number(val)
	case string:
		*v = Text(val)
	default:
		return fmt.Errorf("unsupported fact value type %T", raw)
	}

	return nil
}

// MarshalJSON encodes the value as its natural JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindText:
		return json.Marshal(v.s)
	default:
		return nil, fmt.Errorf("cannot marshal invalid value")
	}
}

func yamlKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// Facts is a snapshot of named sensor readings. It is supplied fresh per
// evaluation and never mutated by the engine.
type Facts map[string]Value
