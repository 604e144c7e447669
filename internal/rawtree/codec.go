package rawtree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

var (
	// ErrEmpty is returned when the input holds no JSON value
	ErrEmpty = errors.New("empty document")
	// ErrNotMapping is returned when a document's top-level value is not an object
	ErrNotMapping = errors.New("top-level value is not an object")
)

// Parse decodes a single JSON value, keeping object key order. Duplicate
// names are accepted; the last value wins and keeps the first position.
func Parse(data []byte) (*Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	dec := jsontext.NewDecoder(bytes.NewReader(data), jsontext.AllowDuplicateNames(true))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.ReadToken(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

// ParseMap decodes a JSON document whose top-level value must be an object
func ParseMap(data []byte) (*OrderedMap, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if v.Kind() != Map {
		return nil, fmt.Errorf("%w (got %s)", ErrNotMapping, v.Kind())
	}
	return v.Map(), nil
}

// ParseScalar interprets command-line input: valid JSON is decoded, anything
// else is taken as a plain string.
func ParseScalar(text string) *Value {
	if v, err := Parse([]byte(text)); err == nil {
		return v
	}
	return StringValue(text)
}

func decodeValue(dec *jsontext.Decoder) (*Value, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}

	switch tok.Kind() {
	case 'n':
		return NullValue(), nil
	case 't', 'f':
		return BoolValue(tok.Bool()), nil
	case '"':
		return StringValue(tok.String()), nil
	case '0':
		return NumberValue(tok.String()), nil
	case '[':
		items := []*Value{}
		for dec.PeekKind() != ']' {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return ListValue(items...), nil
	case '{':
		m := NewMap()
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			// a token is voided by the next read
			key := name.String()
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return MapValue(m), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok.Kind())
	}
}

// Marshal encodes v as JSON. With indent set the output is pretty-printed
// with two spaces and ends in a newline; otherwise it is a single line
// without a trailing newline.
func Marshal(v *Value, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	var opts []jsontext.Options
	if indent {
		opts = append(opts, jsontext.Expand(true), jsontext.WithIndent("  "))
	}

	enc := jsontext.NewEncoder(&buf, opts...)
	if err := encodeValue(enc, v); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if !indent {
		out = bytes.TrimRight(out, "\n")
	}
	return out, nil
}

// MarshalMap encodes an ordered map as a JSON object
func MarshalMap(m *OrderedMap, indent bool) ([]byte, error) {
	if m == nil {
		m = NewMap()
	}
	return Marshal(MapValue(m), indent)
}

func encodeValue(enc *jsontext.Encoder, v *Value) error {
	switch v.Kind() {
	case Null:
		return enc.WriteToken(jsontext.Null)
	case Bool:
		return enc.WriteToken(jsontext.Bool(v.b))
	case String:
		return enc.WriteToken(jsontext.String(v.s))
	case Number:
		return enc.WriteValue(jsontext.Value(v.s))
	case List:
		if err := enc.WriteToken(jsontext.ArrayStart); err != nil {
			return err
		}
		for _, item := range v.items {
			if err := encodeValue(enc, item); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ArrayEnd)
	case Map:
		if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
			return err
		}
		for _, e := range v.m.Entries() {
			if err := enc.WriteToken(jsontext.String(e.Key)); err != nil {
				return err
			}
			if err := encodeValue(enc, e.Value); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ObjectEnd)
	default:
		return fmt.Errorf("cannot encode %s", v.Kind())
	}
}
