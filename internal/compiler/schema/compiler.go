package schema

import (
	"github.com/conduit-lang/configkeys/internal/compiler/naming"
	"github.com/conduit-lang/configkeys/internal/rawtree"
)

// DefaultRootName is the name of the root record when none is configured
const DefaultRootName = "ConfigKeys"

// Methods every generated record declares; no field may take their names
const (
	PopulateMethod  = "Populate"
	UnmatchedMethod = "Unmatched"
)

// Options configures a compilation
type Options struct {
	// RootName names the root record (default DefaultRootName)
	RootName string
	// Reserved lists package-level identifiers the emitter declares itself
	Reserved []string
}

// Compile walks root once and returns its record forest. A root that is not a
// mapping compiles as an empty mapping. Compilation never fails: shapes that
// cannot be typed fall back to opaque lists or untyped fields.
func Compile(root *rawtree.Value, opts Options) *Forest {
	m := root.Map()
	if m == nil {
		m = rawtree.NewMap()
	}
	return CompileMap(m, opts)
}

// CompileMap is Compile for a mapping root
func CompileMap(m *rawtree.OrderedMap, opts Options) *Forest {
	if m == nil {
		m = rawtree.NewMap()
	}
	rootName := opts.RootName
	if rootName == "" {
		rootName = DefaultRootName
	}

	c := &compiler{
		reg:     naming.NewRegistry(opts.Reserved...),
		records: make(map[string]*Record),
		forest:  &Forest{Snapshot: m},
	}
	c.forest.Root = c.compileRecord(rootName, "", []string{rootName}, m)
	return c.forest
}

type compiler struct {
	reg     *naming.Registry
	records map[string]*Record
	forest  *Forest
}

// compileRecord appends the record before visiting its fields so the forest
// lists records in pre-order
func (c *compiler) compileRecord(name, key string, path []string, m *rawtree.OrderedMap) *Record {
	rec := &Record{
		Name:   name,
		Ident:  c.reg.Ident(path),
		Path:   path,
		Key:    key,
		IsRoot: len(path) == 1,
	}
	c.reg.Mark(path)
	c.records[naming.PathKey(path)] = rec
	c.forest.Records = append(c.forest.Records, rec)

	fields := naming.NewFieldNamer(PopulateMethod, UnmatchedMethod)
	for _, e := range m.Entries() {
		rec.Fields = append(rec.Fields, Field{
			Key:    e.Key,
			GoName: fields.Name(e.Key),
			Node:   c.classify(rec, e.Key, e.Value),
		})
	}
	return rec
}

func (c *compiler) classify(parent *Record, key string, v *rawtree.Value) Node {
	switch v.Kind() {
	case rawtree.Map:
		return Node{
			Kind:   NodeObject,
			Record: c.nested(parent, key, naming.KindObject, v.Map()),
		}
	case rawtree.List:
		items := v.Items()
		if len(items) == 0 || !allMappings(items) {
			return Node{Kind: NodeOpaqueList}
		}
		return Node{
			Kind:   NodeListOfObjects,
			Record: c.nested(parent, key, naming.KindListItem, Union(items)),
		}
	default:
		return scalarNode(v)
	}
}

// nested names and compiles a record introduced by parent's field key. A
// record whose fully-qualified path was already compiled is reused.
func (c *compiler) nested(parent *Record, key string, kind naming.Kind, m *rawtree.OrderedMap) *Record {
	name := c.reg.Resolve(naming.Request{
		Parent:       naming.PathKey(parent.Path),
		Key:          key,
		Kind:         kind,
		ParentIsRoot: parent.IsRoot,
	})

	path := make([]string, len(parent.Path), len(parent.Path)+1)
	copy(path, parent.Path)
	path = append(path, name)

	if c.reg.Seen(path) {
		return c.records[naming.PathKey(path)]
	}
	rec := c.compileRecord(name, key, path, m)
	rec.ListItem = kind == naming.KindListItem
	return rec
}

func scalarNode(v *rawtree.Value) Node {
	n := Node{Kind: NodeScalar, Scalar: ScalarNull}
	switch v.Kind() {
	case rawtree.Bool:
		n.Scalar = ScalarBool
	case rawtree.Number:
		if _, ok := v.Int(); ok {
			n.Scalar = ScalarInt
		} else {
			n.Scalar = ScalarFloat
		}
	case rawtree.String:
		n.Scalar = ScalarString
	default:
		return n
	}
	n.Sample = v
	return n
}

func allMappings(items []*rawtree.Value) bool {
	for _, item := range items {
		if item.Kind() != rawtree.Map {
			return false
		}
	}
	return true
}

// Union merges the elements of a list of mappings into one sample mapping.
// Keys appear in first-seen order across the elements. Each key's sample is
// taken from the first element holding a non-null value for it; keys that
// are null or missing everywhere else stay null. An integer sample widens to
// a float when a later element holds a fractional number for the same key.
func Union(items []*rawtree.Value) *rawtree.OrderedMap {
	union := rawtree.NewMap()
	for _, item := range items {
		for _, e := range item.Map().Entries() {
			cur, seen := union.Get(e.Key)
			switch {
			case !seen || (cur.IsNull() && !e.Value.IsNull()):
				union.Set(e.Key, e.Value)
			case widens(cur, e.Value):
				union.Set(e.Key, rawtree.NumberValue(cur.Number()+".0"))
			}
		}
	}
	return union
}

// widens reports whether an integer sample must become a float to hold next
func widens(sample, next *rawtree.Value) bool {
	if sample.Kind() != rawtree.Number || next.Kind() != rawtree.Number {
		return false
	}
	_, sampleInt := sample.Int()
	_, nextInt := next.Int()
	return sampleInt && !nextInt
}
