package fragments

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/configkeys/internal/rawtree"
)

// ContentKey holds the raw text of a template that has no recognizable
// structure
const ContentKey = "content"

// ParseFragment interprets a module template. Formats are tried in order:
// a JSON value, a YAML mapping, key=value lines. Text matching none of them
// is kept whole under ContentKey. Empty content yields an empty mapping.
func ParseFragment(content []byte) *rawtree.Value {
	text := strings.TrimSpace(string(content))
	if text == "" {
		return rawtree.MapValue(rawtree.NewMap())
	}

	if v, err := rawtree.Parse([]byte(text)); err == nil {
		if v.IsNull() {
			return rawtree.MapValue(rawtree.NewMap())
		}
		return v
	}

	if m, ok := parseYAMLMapping([]byte(text)); ok {
		return rawtree.MapValue(m)
	}

	if m := parseKeyValues(text); m.Len() > 0 {
		return rawtree.MapValue(m)
	}

	m := rawtree.NewMap()
	m.Set(ContentKey, rawtree.StringValue(text))
	return rawtree.MapValue(m)
}

// parseKeyValues reads "key=value" lines. Blank lines, comments and lines
// without "=" are skipped; keys and values are trimmed.
func parseKeyValues(text string) *rawtree.OrderedMap {
	m := rawtree.NewMap()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		m.Set(strings.TrimSpace(key), rawtree.StringValue(strings.TrimSpace(value)))
	}
	return m
}

func parseYAMLMapping(data []byte) (*rawtree.OrderedMap, bool) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, false
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, false
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, false
	}

	v, err := fromYAML(root)
	if err != nil {
		return nil, false
	}
	return v.Map(), true
}

// fromYAML converts a YAML node, keeping mapping key order
func fromYAML(node *yaml.Node) (*rawtree.Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return fromYAML(node.Alias)

	case yaml.MappingNode:
		m := rawtree.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := fromYAML(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, v)
		}
		return rawtree.MapValue(m), nil

	case yaml.SequenceNode:
		items := make([]*rawtree.Value, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return rawtree.ListValue(items...), nil

	case yaml.ScalarNode:
		return scalarFromYAML(node), nil

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}

func scalarFromYAML(node *yaml.Node) *rawtree.Value {
	switch node.ShortTag() {
	case "!!null":
		return rawtree.NullValue()
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err == nil {
			return rawtree.BoolValue(b)
		}
	case "!!int":
		var n int64
		if err := node.Decode(&n); err == nil {
			return rawtree.IntValue(n)
		}
	case "!!float":
		var f float64
		if err := node.Decode(&f); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return rawtree.FloatValue(f)
		}
	}
	return rawtree.StringValue(node.Value)
}
