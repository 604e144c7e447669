// Package codegen renders a compiled record forest as a Go source file.
// Every record becomes a struct with nullable fields, a New<Record>
// constructor that never fails, and a Populate method that copies matching
// keys out of a raw map.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"

	"github.com/conduit-lang/configkeys/internal/compiler/schema"
	"github.com/conduit-lang/configkeys/internal/rawtree"
)

const (
	// DefaultPackage is the package clause of the artifact when none is set
	DefaultPackage = "configkeys"

	snapshotConst = "configSnapshot"
	snapshotFunc  = "Snapshot"
)

// ReservedIdents are the exported package-level names the artifact declares
// besides the records; the schema compiler must not hand them out.
var ReservedIdents = []string{snapshotFunc}

// Options configures the emitted file
type Options struct {
	// Package is the package clause of the artifact
	Package string
	// Source names the backing store in the header comment
	Source string
}

// Generator transforms a record forest into Go code
type Generator struct {
	buf    *bytes.Buffer
	indent int
	opts   Options
}

// NewGenerator creates a new code generator
func NewGenerator(opts Options) *Generator {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	return &Generator{
		buf:  &bytes.Buffer{},
		opts: opts,
	}
}

// Generate renders the forest. The output is gofmt-formatted and identical
// for identical forests. When formatting fails the unformatted source is
// returned along with the error.
func (g *Generator) Generate(forest *schema.Forest) ([]byte, error) {
	g.reset()

	snapshot, err := rawtree.MarshalMap(forest.Snapshot, false)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	g.generateHeader()
	g.generateSnapshot(string(snapshot))

	for _, rec := range forest.Records {
		g.generateRecord(rec)
	}

	g.generateHelpers()

	formatted, err := format.Source(g.buf.Bytes())
	if err != nil {
		return g.buf.Bytes(), fmt.Errorf("failed to format generated code: %w", err)
	}
	return formatted, nil
}

func (g *Generator) generateHeader() {
	source := g.opts.Source
	if source == "" {
		source = "raw configuration"
	}
	g.writeLine("// Code generated by configkeys from %s. DO NOT EDIT.", oneLine(source))
	g.writeLine("")
	g.writeLine("package %s", g.opts.Package)
	g.writeLine("")
	g.writeLine("import (")
	g.indent++
	g.writeLine("%q", "encoding/json")
	g.writeLine("%q", "math")
	g.writeLine("%q", "strings")
	g.indent--
	g.writeLine(")")
	g.writeLine("")
}

// generateSnapshot embeds the raw tree as a JSON constant decoded on demand
func (g *Generator) generateSnapshot(snapshotJSON string) {
	g.writeLine("// %s holds the raw configuration this file was generated from", snapshotConst)
	g.writeLine("const %s = `%s`", snapshotConst, escapeRawString(snapshotJSON))
	g.writeLine("")

	g.writeLine("// %s decodes the raw configuration this file was generated from.", snapshotFunc)
	g.writeLine("// Every call returns a fresh map. Numbers are json.Number values.")
	g.writeLine("func %s() map[string]any {", snapshotFunc)
	g.indent++
	g.writeLine("dec := json.NewDecoder(strings.NewReader(%s))", snapshotConst)
	g.writeLine("dec.UseNumber()")
	g.writeLine("var raw map[string]any")
	g.writeLine("if err := dec.Decode(&raw); err != nil || raw == nil {")
	g.indent++
	g.writeLine("return map[string]any{}")
	g.indent--
	g.writeLine("}")
	g.writeLine("return raw")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

// reset clears the buffer for a new file
func (g *Generator) reset() {
	g.buf.Reset()
	g.indent = 0
}

// writeLine writes a formatted line with proper indentation
func (g *Generator) writeLine(format string, args ...interface{}) {
	if format == "" {
		g.buf.WriteString("\n")
		return
	}

	for i := 0; i < g.indent; i++ {
		g.buf.WriteString("\t")
	}

	if len(args) > 0 {
		g.buf.WriteString(fmt.Sprintf(format, args...))
	} else {
		g.buf.WriteString(format)
	}
	g.buf.WriteString("\n")
}

// escapeRawString makes s safe inside a Go raw string literal. Backticks and
// byte order marks cannot appear there, so they are spliced in as
// interpreted string literals.
func escapeRawString(s string) string {
	s = strings.ReplaceAll(s, "`", "` + \"`\" + `")
	s = strings.ReplaceAll(s, "\uFEFF", "` + \"\\uFEFF\" + `")
	return s
}

func oneLine(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
