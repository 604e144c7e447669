package rawtree

import (
	"fmt"
	"strings"
)

// Entry is one key/value pair of an OrderedMap
type Entry struct {
	Key   string
	Value *Value
}

// OrderedMap is a string-keyed mapping that remembers insertion order
type OrderedMap struct {
	entries []Entry
	index   map[string]int
}

// NewMap creates an empty ordered map
func NewMap() *OrderedMap {
	return &OrderedMap{index: make(map[string]int)}
}

// Len returns the number of keys
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the keys in insertion order
func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the pairs in insertion order. The slice must not be modified.
func (m *OrderedMap) Entries() []Entry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Get returns the value stored under key
func (m *OrderedMap) Get(key string) (*Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present
func (m *OrderedMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. An existing key keeps its position.
func (m *OrderedMap) Set(key string, value *Value) {
	if value == nil {
		value = NullValue()
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Delete removes key, preserving the order of the remaining keys
func (m *OrderedMap) Delete(key string) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}
	return true
}

// Update copies every pair of other into m, top level only
func (m *OrderedMap) Update(other *OrderedMap) {
	for _, e := range other.Entries() {
		m.Set(e.Key, e.Value)
	}
}

// Clone returns a deep copy of m
func (m *OrderedMap) Clone() *OrderedMap {
	c := NewMap()
	for _, e := range m.Entries() {
		c.Set(e.Key, e.Value.Clone())
	}
	return c
}

// ToAny converts m into a map[string]any
func (m *OrderedMap) ToAny() map[string]any {
	out := make(map[string]any, m.Len())
	for _, e := range m.Entries() {
		out[e.Key] = e.Value.ToAny()
	}
	return out
}

// GetPath looks up a dotted path such as "server.tls.cert"
func GetPath(m *OrderedMap, path string) (*Value, bool) {
	parts := strings.Split(path, ".")
	cur := m
	for i, part := range parts {
		v, ok := cur.Get(part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		cur = v.Map()
		if cur == nil {
			return nil, false
		}
	}
	return nil, false
}

// SetPath stores value at a dotted path, creating intermediate maps.
// It fails when an intermediate segment holds a non-map value.
func SetPath(m *OrderedMap, path string, value *Value) error {
	if path == "" {
		return fmt.Errorf("empty key path")
	}
	parts := strings.Split(path, ".")
	cur := m
	for _, part := range parts[:len(parts)-1] {
		if part == "" {
			return fmt.Errorf("invalid key path %q", path)
		}
		next, ok := cur.Get(part)
		if !ok {
			child := NewMap()
			cur.Set(part, MapValue(child))
			cur = child
			continue
		}
		if next.Kind() != Map {
			return fmt.Errorf("key %q holds a %s, not a map", part, next.Kind())
		}
		cur = next.Map()
	}
	last := parts[len(parts)-1]
	if last == "" {
		return fmt.Errorf("invalid key path %q", path)
	}
	cur.Set(last, value)
	return nil
}
