package zerv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Component is one entry of a schema section.  It is a closed sum type: the only
// implementations are Str, Int, Var, and Timestamp.
type Component interface {
	isComponent()
	// Tag is the stable variant name used in the serialized form.
	Tag() string
}

// Str is a literal string component.
type Str string

// Int is a literal integer component.
type Int uint64

// Var references a named variable, such as "major" or "custom.build_id".
type Var string

// Timestamp renders a timestamp variable with a pattern, such as "YYYY" or "%Y%m%d".
type Timestamp string

func (Str) isComponent()       {}
func (Int) isComponent()       {}
func (Var) isComponent()       {}
func (Timestamp) isComponent() {}

func (Str) Tag() string       { return "str" }
func (Int) Tag() string       { return "int" }
func (Var) Tag() string       { return "var" }
func (Timestamp) Tag() string { return "ts" }

// IsLiteral reports whether c is a Str or Int component.
func IsLiteral(c Component) bool {
	switch c.(type) {
	case Str, Int:
		return true
	default:
		return false
	}
}

// Components is a schema section.  It serializes as a list of single-key objects, the key
// being the variant tag: `[{var: major}, {str: build}, {int: 5}, {ts: YYYY}]`.
type Components []Component

func (cs Components) MarshalJSON() ([]byte, error) {
	if len(cs) == 0 {
		return []byte("[]"), nil
	}
	items := make([]map[string]interface{}, 0, len(cs))
	for _, c := range cs {
		var val interface{}
		switch c := c.(type) {
		case Str:
			val = string(c)
		case Int:
			val = uint64(c)
		case Var:
			val = string(c)
		case Timestamp:
			val = string(c)
		default:
			return nil, fmt.Errorf("unknown component type %T", c)
		}
		items = append(items, map[string]interface{}{c.Tag(): val})
	}
	return json.Marshal(items)
}

func (cs *Components) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*cs = nil
		return nil
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	var ret Components
	for i, item := range items {
		if len(item) != 1 {
			return fmt.Errorf("component %d: expected exactly one of str, int, var, ts; got %d keys", i, len(item))
		}
		for tag, raw := range item {
			c, err := unmarshalComponent(tag, raw)
			if err != nil {
				return fmt.Errorf("component %d: %w", i, err)
			}
			ret = append(ret, c)
		}
	}
	*cs = ret
	return nil
}

func unmarshalComponent(tag string, raw json.RawMessage) (Component, error) {
	if tag == "int" {
		// Accept both 5 and "5".
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			var str string
			if err := json.Unmarshal(raw, &str); err != nil {
				return nil, fmt.Errorf("int: %w", err)
			}
			num = json.Number(str)
		}
		n, err := strconv.ParseUint(num.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("int: %w", err)
		}
		return Int(n), nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		// An unquoted `str: 123` arrives as a number; keep its text.
		var num json.Number
		if tag != "str" || json.Unmarshal(raw, &num) != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		str = num.String()
	}
	switch tag {
	case "str":
		return Str(str), nil
	case "var":
		return Var(str), nil
	case "ts":
		return Timestamp(str), nil
	default:
		return nil, fmt.Errorf("unknown component type %q", tag)
	}
}
