package timeline

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Value is an animation target value: either a number (continuous
// properties) or a string (colors, enum-like attributes).
type Value struct {
	num     float64
	str     string
	numeric bool
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{num: f, numeric: true}
}

// String returns a string Value.
func String(s string) Value {
	return Value{str: s}
}

// Numeric reports the value as a float64. String values that parse as
// floats count as numeric, since authoring tools emit both forms.
func (v Value) Numeric() (float64, bool) {
	if v.numeric {
		return v.num, true
	}
	if f, err := strconv.ParseFloat(v.str, 64); err == nil {
		return f, true
	}
	return 0, false
}

// Text formats the value for use as an attribute.
func (v Value) Text() string {
	if v.numeric {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.str
}

// IsZero reports whether the value is the unset zero Value.
func (v Value) IsZero() bool {
	return !v.numeric && v.str == ""
}

func (v *Value) fromAny(raw any) error {
	switch t := raw.(type) {
	case int:
		*v = Number(float64(t))
	case int64:
		*v = Number(float64(t))
	case float64:
		*v = Number(t)
	case string:
		*v = String(t)
	default:
		return fmt.Errorf("unsupported value type %T", raw)
	}
	return nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return v.fromAny(raw)
}

func (v Value) MarshalYAML() (any, error) {
	if v.numeric {
		return v.num, nil
	}
	return v.str, nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return v.fromAny(raw)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}
