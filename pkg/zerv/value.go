package zerv

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is what a component resolves to: an integer or a string.  Text, when set, is the
// exact rendering of a numeric value (it may carry zero-padding that Num cannot).
type Value struct {
	IsNum bool
	Num   uint64
	Text  string
}

// NumValue returns a numeric Value.
func NumValue(n uint64) Value {
	return Value{IsNum: true, Num: n}
}

// StrValue returns a string Value.
func StrValue(s string) Value {
	return Value{Text: s}
}

func (v Value) String() string {
	if v.IsNum && v.Text == "" {
		return strconv.FormatUint(v.Num, 10)
	}
	return v.Text
}

func (v Value) GoString() string {
	if v.IsNum {
		return fmt.Sprintf("zerv.NumValue(%d)", v.Num)
	}
	return fmt.Sprintf("zerv.StrValue(%q)", v.Text)
}

// scalarValue converts a custom-map value to a Value; nested objects and lists do not
// resolve.
func scalarValue(val interface{}) (Value, bool) {
	switch val := val.(type) {
	case string:
		return StrValue(val), true
	case bool:
		return StrValue(strconv.FormatBool(val)), true
	case json.Number:
		if n, err := strconv.ParseUint(val.String(), 10, 64); err == nil {
			return NumValue(n), true
		}
		return StrValue(val.String()), true
	case float64:
		if val >= 0 && val == float64(uint64(val)) {
			return NumValue(uint64(val)), true
		}
		return StrValue(strconv.FormatFloat(val, 'f', -1, 64)), true
	case int:
		if val >= 0 {
			return NumValue(uint64(val)), true
		}
		return StrValue(strconv.Itoa(val)), true
	case uint64:
		return NumValue(val), true
	default:
		return Value{}, false
	}
}
