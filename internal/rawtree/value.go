// Package rawtree holds the dynamically shaped configuration document as an
// order-preserving tree of values. It is the input of the schema compiler and
// the unit the backing store loads and saves.
package rawtree

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	List
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one node of a raw tree. The zero value is null.
//
// Numbers keep their literal JSON text so re-encoding never changes them.
type Value struct {
	kind  Kind
	b     bool
	s     string
	items []*Value
	m     *OrderedMap
}

// NullValue returns a null value
func NullValue() *Value { return &Value{kind: Null} }

// BoolValue wraps a boolean
func BoolValue(b bool) *Value { return &Value{kind: Bool, b: b} }

// StringValue wraps a string
func StringValue(s string) *Value { return &Value{kind: String, s: s} }

// NumberValue wraps a JSON number literal. The literal is not validated.
func NumberValue(literal string) *Value { return &Value{kind: Number, s: literal} }

// IntValue wraps an integer
func IntValue(n int64) *Value { return NumberValue(strconv.FormatInt(n, 10)) }

// FloatValue wraps a float
func FloatValue(f float64) *Value { return NumberValue(strconv.FormatFloat(f, 'g', -1, 64)) }

// ListValue wraps a list of values
func ListValue(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: List, items: items}
}

// MapValue wraps an ordered map. A nil map becomes an empty one.
func MapValue(m *OrderedMap) *Value {
	if m == nil {
		m = NewMap()
	}
	return &Value{kind: Map, m: m}
}

// Kind returns the variant of v; a nil Value is null
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// IsNull reports whether v is nil or null
func (v *Value) IsNull() bool { return v.Kind() == Null }

// Bool returns the boolean payload
func (v *Value) Bool() bool { return v != nil && v.b }

// Str returns the string payload of a String value
func (v *Value) Str() string {
	if v == nil || v.kind != String {
		return ""
	}
	return v.s
}

// Number returns the literal text of a Number value
func (v *Value) Number() string {
	if v == nil || v.kind != Number {
		return ""
	}
	return v.s
}

// Int parses a Number value as an int64. It fails for fractional or
// out-of-range literals.
func (v *Value) Int() (int64, bool) {
	if v.Kind() != Number {
		return 0, false
	}
	n, err := strconv.ParseInt(v.s, 10, 64)
	return n, err == nil
}

// Float parses a Number value as a float64
func (v *Value) Float() (float64, bool) {
	if v.Kind() != Number {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	return f, err == nil
}

// Items returns the elements of a List value
func (v *Value) Items() []*Value {
	if v == nil || v.kind != List {
		return nil
	}
	return v.items
}

// Map returns the mapping of a Map value, or nil
func (v *Value) Map() *OrderedMap {
	if v == nil || v.kind != Map {
		return nil
	}
	return v.m
}

// Clone returns a deep copy of v
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := *v
	switch v.kind {
	case List:
		c.items = make([]*Value, len(v.items))
		for i, item := range v.items {
			c.items[i] = item.Clone()
		}
	case Map:
		c.m = v.m.Clone()
	}
	return &c
}

// ToAny converts v into the plain Go shapes produced by encoding/json:
// nil, bool, float64, string, []any and map[string]any. Key order is lost.
func (v *Value) ToAny() any {
	switch v.Kind() {
	case Bool:
		return v.b
	case Number:
		f, _ := strconv.ParseFloat(v.s, 64)
		return f
	case String:
		return v.s
	case List:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.ToAny()
		}
		return out
	case Map:
		return v.m.ToAny()
	default:
		return nil
	}
}

// FromAny converts plain Go values into a raw tree. Go maps carry no order,
// so their keys are inserted sorted.
func FromAny(x any) (*Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case *Value:
		return t.Clone(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case float32:
		return FloatValue(float64(t)), nil
	case float64:
		return FloatValue(t), nil
	case []any:
		items := make([]*Value, 0, len(t))
		for _, e := range t {
			item, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return ListValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			val, err := FromAny(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m.Set(k, val)
		}
		return MapValue(m), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", x)
	}
}
