package rawtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap_SetKeepsPosition(t *testing.T) {
	m := NewMap()
	m.Set("a", IntValue(1))
	m.Set("b", IntValue(2))
	m.Set("a", IntValue(3))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, "3", v.Number())
}

func TestOrderedMap_Delete(t *testing.T) {
	m := NewMap()
	for _, k := range []string{"a", "b", "c"} {
		m.Set(k, NullValue())
	}

	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("missing"))
	assert.Equal(t, []string{"a", "c"}, m.Keys())
	assert.True(t, m.Has("c"))

	m.Set("b", NullValue())
	assert.Equal(t, []string{"a", "c", "b"}, m.Keys())
}

func TestOrderedMap_Update(t *testing.T) {
	m := NewMap()
	m.Set("a", IntValue(1))
	m.Set("b", IntValue(2))

	other := NewMap()
	other.Set("b", StringValue("two"))
	other.Set("c", BoolValue(true))

	m.Update(other)
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	b, _ := m.Get("b")
	assert.Equal(t, "two", b.Str())
}

func TestOrderedMap_CloneIsDeep(t *testing.T) {
	inner := NewMap()
	inner.Set("x", IntValue(1))
	m := NewMap()
	m.Set("inner", MapValue(inner))

	c := m.Clone()
	inner.Set("y", IntValue(2))

	cv, _ := c.Get("inner")
	assert.Equal(t, []string{"x"}, cv.Map().Keys())
}

func TestSetPathAndGetPath(t *testing.T) {
	m := NewMap()
	require.NoError(t, SetPath(m, "server.tls.cert", StringValue("/etc/cert.pem")))
	require.NoError(t, SetPath(m, "server.port", IntValue(443)))

	v, ok := GetPath(m, "server.tls.cert")
	require.True(t, ok)
	assert.Equal(t, "/etc/cert.pem", v.Str())

	server, _ := m.Get("server")
	assert.Equal(t, []string{"tls", "port"}, server.Map().Keys())

	_, ok = GetPath(m, "server.missing")
	assert.False(t, ok)

	err := SetPath(m, "server.port.value", IntValue(1))
	assert.Error(t, err)

	assert.Error(t, SetPath(m, "", IntValue(1)))
	assert.Error(t, SetPath(m, "a..b", IntValue(1)))
}

func TestFromAnyAndToAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"b": []any{1, "x", nil},
		"a": map[string]any{"on": true},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, v.Map().Keys())

	back := v.ToAny().(map[string]any)
	assert.Equal(t, []any{1.0, "x", nil}, back["b"])
	assert.Equal(t, map[string]any{"on": true}, back["a"])

	_, err = FromAny(struct{}{})
	assert.Error(t, err)
}
