package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/conduit-lang/configkeys/internal/compiler/schema"
)

// unmatchedField holds the raw values that did not fit their declared field
const unmatchedField = "unmatched"

// generateRecord emits the struct, constructor, Populate and Unmatched
// methods of rec
func (g *Generator) generateRecord(rec *schema.Record) {
	g.generateStruct(rec)
	g.generateConstructor(rec)
	g.generatePopulate(rec)
	g.generateUnmatched(rec)
}

func (g *Generator) generateStruct(rec *schema.Record) {
	switch {
	case rec.IsRoot:
		g.writeLine("// %s is the root configuration record.", rec.Ident)
	case rec.ListItem:
		g.writeLine("// %s is one element of the %q list.", rec.Ident, rec.Key)
	default:
		g.writeLine("// %s holds the %q object.", rec.Ident, rec.Key)
	}

	if len(rec.Fields) == 0 {
		g.writeLine("type %s struct{}", rec.Ident)
		g.writeLine("")
		return
	}

	g.writeLine("type %s struct {", rec.Ident)
	g.indent++
	for _, f := range rec.Fields {
		if tag := jsonTag(f.Key); tag != "" {
			g.writeLine("%s %s %s", f.GoName, goType(f.Node), tag)
		} else {
			g.writeLine("%s %s", f.GoName, goType(f.Node))
		}
	}
	g.writeLine("")
	g.writeLine("%s map[string]any", unmatchedField)
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

// generateConstructor emits the build-from-raw function. The root starts from
// the embedded snapshot; other records start from their sample values.
func (g *Generator) generateConstructor(rec *schema.Record) {
	recv := receiverName(rec.Ident)

	if rec.IsRoot {
		g.writeLine("// New%s builds a %s from the generation-time snapshot, then", rec.Ident, rec.Ident)
		g.writeLine("// overlays the keys present in raw. A nil raw yields the snapshot itself.")
	} else {
		g.writeLine("// New%s builds a %s from raw. A nil raw yields the defaults.", rec.Ident, rec.Ident)
	}
	g.writeLine("func New%s(raw map[string]any) *%s {", rec.Ident, rec.Ident)
	g.indent++

	defaults := defaultValues(rec)
	if len(defaults) == 0 {
		g.writeLine("%s := &%s{}", recv, rec.Ident)
	} else {
		g.writeLine("%s := &%s{", recv, rec.Ident)
		g.indent++
		for _, d := range defaults {
			g.writeLine("%s: %s,", d.name, d.expr)
		}
		g.indent--
		g.writeLine("}")
	}

	if rec.IsRoot {
		g.writeLine("%s.Populate(%s())", recv, snapshotFunc)
	}
	g.writeLine("%s.Populate(raw)", recv)
	g.writeLine("return %s", recv)
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

// generatePopulate emits the method that copies raw values into the declared
// fields. Keys missing from raw keep the current value.
func (g *Generator) generatePopulate(rec *schema.Record) {
	recv := receiverName(rec.Ident)

	g.writeLine("// %s overwrites the fields whose keys are present in raw.", schema.PopulateMethod)
	if len(rec.Fields) == 0 {
		g.writeLine("func (%s *%s) %s(raw map[string]any) {}", recv, rec.Ident, schema.PopulateMethod)
		g.writeLine("")
		return
	}

	g.writeLine("func (%s *%s) %s(raw map[string]any) {", recv, rec.Ident, schema.PopulateMethod)
	g.indent++
	unmatched := "&" + recv + "." + unmatchedField
	for _, f := range rec.Fields {
		target := recv + "." + f.GoName
		key := strconv.Quote(f.Key)
		switch {
		case f.Node.Kind == schema.NodeObject:
			g.writeLine("%s = objectField(raw, %s, %s, New%s, %s)", target, key, target, f.Node.Record.Ident, unmatched)
		case f.Node.Kind == schema.NodeListOfObjects:
			g.writeLine("%s = objectListField(raw, %s, %s, New%s, %s)", target, key, target, f.Node.Record.Ident, unmatched)
		case f.Node.Kind == schema.NodeOpaqueList:
			g.writeLine("%s = listField(raw, %s, %s, %s)", target, key, target, unmatched)
		case f.Node.Scalar == schema.ScalarNull:
			g.writeLine("%s = anyField(raw, %s, %s)", target, key, target)
		default:
			g.writeLine("%s = %s(raw, %s, %s, %s)", target, scalarHelper(f.Node.Scalar), key, target, unmatched)
		}
	}
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

// generateUnmatched emits the accessor of the values Populate could not
// assign. Records without fields never hold any.
func (g *Generator) generateUnmatched(rec *schema.Record) {
	recv := receiverName(rec.Ident)

	g.writeLine("// %s returns the raw values, by key, whose shape did not fit their", schema.UnmatchedMethod)
	g.writeLine("// field. Such fields keep their previous value.")
	if len(rec.Fields) == 0 {
		g.writeLine("func (%s *%s) %s() map[string]any { return nil }", recv, rec.Ident, schema.UnmatchedMethod)
	} else {
		g.writeLine("func (%s *%s) %s() map[string]any { return %s.%s }", recv, rec.Ident, schema.UnmatchedMethod, recv, unmatchedField)
	}
	g.writeLine("")
}

type defaultValue struct {
	name string
	expr string
}

// defaultValues lists the non-nil field defaults of a fresh instance.
// Nested objects default to their own fresh instance; lists and untyped
// fields default to nil. The root takes its defaults from the snapshot.
func defaultValues(rec *schema.Record) []defaultValue {
	if rec.IsRoot {
		return nil
	}
	var out []defaultValue
	for _, f := range rec.Fields {
		var expr string
		switch f.Node.Kind {
		case schema.NodeObject:
			expr = fmt.Sprintf("New%s(nil)", f.Node.Record.Ident)
		case schema.NodeScalar:
			expr = scalarLiteral(f.Node)
		}
		if expr != "" {
			out = append(out, defaultValue{name: f.GoName, expr: expr})
		}
	}
	return out
}

func scalarLiteral(n schema.Node) string {
	if n.Sample == nil {
		return ""
	}
	switch n.Scalar {
	case schema.ScalarBool:
		return fmt.Sprintf("ptr(%t)", n.Sample.Bool())
	case schema.ScalarInt:
		i, ok := n.Sample.Int()
		if !ok {
			return ""
		}
		return fmt.Sprintf("ptr(int64(%d))", i)
	case schema.ScalarFloat:
		f, ok := n.Sample.Float()
		if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
			return ""
		}
		return fmt.Sprintf("ptr(float64(%s))", strconv.FormatFloat(f, 'g', -1, 64))
	case schema.ScalarString:
		return fmt.Sprintf("ptr(%s)", strconv.Quote(n.Sample.Str()))
	default:
		return ""
	}
}

func goType(n schema.Node) string {
	switch n.Kind {
	case schema.NodeObject:
		return "*" + n.Record.Ident
	case schema.NodeListOfObjects:
		return "[]*" + n.Record.Ident
	case schema.NodeOpaqueList:
		return "[]any"
	}
	switch n.Scalar {
	case schema.ScalarBool:
		return "*bool"
	case schema.ScalarInt:
		return "*int64"
	case schema.ScalarFloat:
		return "*float64"
	case schema.ScalarString:
		return "*string"
	default:
		return "any"
	}
}

func scalarHelper(k schema.ScalarKind) string {
	switch k {
	case schema.ScalarBool:
		return "boolField"
	case schema.ScalarInt:
		return "intField"
	case schema.ScalarFloat:
		return "floatField"
	case schema.ScalarString:
		return "stringField"
	default:
		return "anyField"
	}
}

func receiverName(ident string) string {
	r, _ := utf8.DecodeRuneInString(ident)
	return string(unicode.ToLower(r))
}

// jsonTag returns the struct tag for key, or "" when encoding/json cannot
// express the key as a tag name
func jsonTag(key string) string {
	if !validTagName(key) {
		return ""
	}
	if key == "-" {
		return "`json:\"-,\"`"
	}
	return "`json:\"" + key + "\"`"
}

// validTagName mirrors the tag name rules of encoding/json
func validTagName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", c):
		case !unicode.IsLetter(c) && !unicode.IsDigit(c):
			return false
		}
	}
	return true
}
