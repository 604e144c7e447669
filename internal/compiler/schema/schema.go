// Package schema compiles a raw configuration tree into a forest of record
// schemas, one per distinct object shape, ready for code emission.
package schema

import (
	"fmt"

	"github.com/conduit-lang/configkeys/internal/rawtree"
)

// NodeKind classifies the value of one field
type NodeKind int

const (
	// NodeScalar is a null, boolean, number or string value
	NodeScalar NodeKind = iota
	// NodeOpaqueList is a list whose element type is not inferred
	NodeOpaqueList
	// NodeObject is a nested mapping with its own record
	NodeObject
	// NodeListOfObjects is a list of mappings sharing one item record
	NodeListOfObjects
)

func (k NodeKind) String() string {
	switch k {
	case NodeScalar:
		return "scalar"
	case NodeOpaqueList:
		return "list"
	case NodeObject:
		return "object"
	case NodeListOfObjects:
		return "object list"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// ScalarKind is the inferred type of a scalar field
type ScalarKind int

const (
	// ScalarNull is an untyped field whose only sample was null
	ScalarNull ScalarKind = iota
	ScalarBool
	ScalarInt
	ScalarFloat
	ScalarString
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarNull:
		return "null"
	case ScalarBool:
		return "bool"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarString:
		return "string"
	default:
		return fmt.Sprintf("ScalarKind(%d)", int(k))
	}
}

// Node is the schema of one field's value
type Node struct {
	Kind NodeKind
	// Scalar is set for NodeScalar
	Scalar ScalarKind
	// Sample is the value the scalar type was inferred from; it becomes the
	// field's default. Nil for untyped fields and non-scalars.
	Sample *rawtree.Value
	// Record is the nested record for NodeObject, or the item record for
	// NodeListOfObjects
	Record *Record
}

// TypeName describes the node for listings
func (n Node) TypeName() string {
	switch n.Kind {
	case NodeScalar:
		return n.Scalar.String()
	case NodeObject:
		return n.Record.Ident
	case NodeListOfObjects:
		return "[]" + n.Record.Ident
	default:
		return n.Kind.String()
	}
}

// Field is one entry of a record
type Field struct {
	// Key is the raw mapping key
	Key string
	// GoName is the exported struct field name
	GoName string
	Node   Node
}

// Record is the compiled shape of one mapping
type Record struct {
	// Name is the short name, unique among its siblings
	Name string
	// Ident is the package-unique Go identifier
	Ident string
	// Path is the chain of record names from the root down to this record
	Path []string
	// Key is the field key that introduced the record; empty for the root
	Key    string
	IsRoot bool
	// ListItem is set for the item record of a list of mappings
	ListItem bool
	Fields   []Field
}

// Forest is the output of one compilation
type Forest struct {
	Root *Record
	// Records lists every record in emission order: each record is followed
	// by the records its fields introduce, in field order.
	Records []*Record
	// Snapshot is the raw tree the forest was compiled from
	Snapshot *rawtree.OrderedMap
}

// Lookup returns the record with the given Go identifier
func (f *Forest) Lookup(ident string) (*Record, bool) {
	for _, r := range f.Records {
		if r.Ident == ident {
			return r, true
		}
	}
	return nil, false
}
