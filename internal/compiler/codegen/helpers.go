package codegen

import "strings"

// helperSource is appended to every artifact. Each field helper returns cur
// when key is absent, nil when the value is null and the converted value when
// it has the declared shape. A value of any other shape leaves cur in place
// and is kept verbatim in unmatched under its key.
var helperSource = strings.TrimLeft(`
func ptr[T any](v T) *T {
	return &v
}

func note(unmatched *map[string]any, key string, v any, ok bool) {
	if ok {
		delete(*unmatched, key)
		return
	}
	if *unmatched == nil {
		*unmatched = make(map[string]any)
	}
	(*unmatched)[key] = v
}

func boolField(raw map[string]any, key string, cur *bool, unmatched *map[string]any) *bool {
	v, ok := raw[key]
	if !ok {
		return cur
	}
	switch t := v.(type) {
	case nil:
		note(unmatched, key, v, true)
		return nil
	case bool:
		note(unmatched, key, v, true)
		return &t
	}
	note(unmatched, key, v, false)
	return cur
}

func intField(raw map[string]any, key string, cur *int64, unmatched *map[string]any) *int64 {
	v, ok := raw[key]
	if !ok {
		return cur
	}
	var n int64
	switch t := v.(type) {
	case nil:
		note(unmatched, key, v, true)
		return nil
	case int:
		n, ok = int64(t), true
	case int64:
		n, ok = t, true
	case float64:
		n, ok = int64(t), t == math.Trunc(t) && t >= math.MinInt64 && t < math.MaxInt64
	case json.Number:
		var err error
		n, err = t.Int64()
		ok = err == nil
	default:
		ok = false
	}
	note(unmatched, key, v, ok)
	if !ok {
		return cur
	}
	return &n
}

func floatField(raw map[string]any, key string, cur *float64, unmatched *map[string]any) *float64 {
	v, ok := raw[key]
	if !ok {
		return cur
	}
	var f float64
	switch t := v.(type) {
	case nil:
		note(unmatched, key, v, true)
		return nil
	case float64:
		f, ok = t, true
	case int:
		f, ok = float64(t), true
	case int64:
		f, ok = float64(t), true
	case json.Number:
		var err error
		f, err = t.Float64()
		ok = err == nil
	default:
		ok = false
	}
	note(unmatched, key, v, ok)
	if !ok {
		return cur
	}
	return &f
}

func stringField(raw map[string]any, key string, cur *string, unmatched *map[string]any) *string {
	v, ok := raw[key]
	if !ok {
		return cur
	}
	switch t := v.(type) {
	case nil:
		note(unmatched, key, v, true)
		return nil
	case string:
		note(unmatched, key, v, true)
		return &t
	}
	note(unmatched, key, v, false)
	return cur
}

func anyField(raw map[string]any, key string, cur any) any {
	if v, ok := raw[key]; ok {
		return v
	}
	return cur
}

func listField(raw map[string]any, key string, cur []any, unmatched *map[string]any) []any {
	v, ok := raw[key]
	if !ok {
		return cur
	}
	switch t := v.(type) {
	case nil:
		note(unmatched, key, v, true)
		return nil
	case []any:
		note(unmatched, key, v, true)
		return t
	}
	note(unmatched, key, v, false)
	return cur
}

func objectField[T any](raw map[string]any, key string, cur *T, build func(map[string]any) *T, unmatched *map[string]any) *T {
	v, ok := raw[key]
	if !ok {
		return cur
	}
	m, ok := v.(map[string]any)
	note(unmatched, key, v, ok || v == nil)
	if !ok && v != nil {
		return cur
	}
	return build(m)
}

func objectListField[T any](raw map[string]any, key string, cur []*T, build func(map[string]any) *T, unmatched *map[string]any) []*T {
	v, ok := raw[key]
	if !ok {
		return cur
	}
	if v == nil {
		note(unmatched, key, v, true)
		return nil
	}
	items, ok := v.([]any)
	note(unmatched, key, v, ok)
	if !ok {
		return cur
	}
	out := make([]*T, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]any)
		out = append(out, build(m))
	}
	return out
}
`, "\n")

func (g *Generator) generateHelpers() {
	g.buf.WriteString(helperSource)
}
