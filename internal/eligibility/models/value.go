package models

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Kind is the type of a profile field or rule value.
type Kind string

const (
	KindNumber Kind = "number"
	KindBool   Kind = "boolean"
	KindText   Kind = "text"
)

// Value is a number, boolean or short enumerated string. The zero Value has
// no kind and stands for "absent".
type Value struct {
	Kind   Kind
	Number float64
	Bool   bool
	Text   string
}

// Number returns a numeric Value.
func Number(v float64) Value { return Value{Kind: KindNumber, Number: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// Text returns an enumerated string Value.
func Text(v string) Value { return Value{Kind: KindText, Text: v} }

// IsZero reports whether the value is absent.
func (v Value) IsZero() bool { return v.Kind == "" }

// Native returns the value as float64, bool, string, or nil.
func (v Value) Native() any {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindBool:
		return v.Bool
	case KindText:
		return v.Text
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindText:
		return strconv.Quote(v.Text)
	default:
		return "<none>"
	}
}

// MarshalJSON writes the value as a bare JSON number, boolean or string.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// UnmarshalJSON accepts a JSON number, boolean, string or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Value{}
	case bytes.Equal(data, []byte("true")):
		*v = Bool(true)
	case bytes.Equal(data, []byte("false")):
		*v = Bool(false)
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("rule value: %w", err)
		}
		*v = Text(s)
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("rule value %s: must be a number, boolean or string", data)
		}
		*v = Number(n)
	}
	return nil
}

// MarshalYAML writes the value as a plain scalar.
func (v Value) MarshalYAML() (any, error) {
	return v.Native(), nil
}

// UnmarshalYAML accepts a scalar number, boolean, string or null.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("rule value at line %d: must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*v = Value{}
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = Bool(b)
	case "!!int", "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("rule value at line %d: %w", node.Line, err)
		}
		*v = Number(n)
	default:
		*v = Text(node.Value)
	}
	return nil
}
