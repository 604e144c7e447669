package codegen

import (
	"go/ast"
	"go/constant"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/configkeys/internal/compiler/schema"
	"github.com/conduit-lang/configkeys/internal/rawtree"
)

const workedExample = `{
	"server": {"port": 8080, "hosts": ["a", "b"]},
	"plugins": [{"id": 1, "name": "x"}, {"id": 2}]
}`

func generate(t *testing.T, src string) string {
	t.Helper()
	v, err := rawtree.Parse([]byte(src))
	require.NoError(t, err)

	forest := schema.Compile(v, schema.Options{Reserved: ReservedIdents})
	out, err := NewGenerator(Options{Source: ".config"}).Generate(forest)
	require.NoError(t, err, string(out))
	return string(out)
}

var spaces = regexp.MustCompile(`[ \t]+`)

// normalize collapses gofmt alignment so assertions can match single lines
func normalize(code string) string {
	return spaces.ReplaceAllString(code, " ")
}

// typeCheck parses and type-checks the artifact as a standalone package
func typeCheck(t *testing.T, code string) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "config_keys.go", code, parser.ParseComments)
	require.NoError(t, err, code)

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check("configkeys", fset, []*ast.File{file}, nil)
	require.NoError(t, err, code)
	return pkg
}

func TestGenerate_WorkedExample(t *testing.T) {
	code := generate(t, workedExample)
	n := normalize(code)

	assert.True(t, strings.HasPrefix(code, "// Code generated by configkeys from .config. DO NOT EDIT.\n"))
	assert.Contains(t, n, "package configkeys")

	assert.Contains(t, n, "type ConfigKeys struct {\n Server *Server `json:\"server\"`\n Plugins []*PluginsItem `json:\"plugins\"`\n\n unmatched map[string]any\n}")
	assert.Contains(t, n, "type Server struct {\n Port *int64 `json:\"port\"`\n Hosts []any `json:\"hosts\"`\n\n unmatched map[string]any\n}")
	assert.Contains(t, n, "type PluginsItem struct {\n Id *int64 `json:\"id\"`\n Name *string `json:\"name\"`\n\n unmatched map[string]any\n}")

	assert.Contains(t, n, "func NewServer(raw map[string]any) *Server {")
	assert.Contains(t, n, "Port: ptr(int64(8080)),")
	assert.Contains(t, n, "Name: ptr(\"x\"),")
	assert.Contains(t, n, "Id: ptr(int64(1)),")

	assert.Contains(t, n, "c.Server = objectField(raw, \"server\", c.Server, NewServer, &c.unmatched)")
	assert.Contains(t, n, "c.Plugins = objectListField(raw, \"plugins\", c.Plugins, NewPluginsItem, &c.unmatched)")
	assert.Contains(t, n, "s.Hosts = listField(raw, \"hosts\", s.Hosts, &s.unmatched)")
	assert.Contains(t, n, "c.Populate(Snapshot())")

	assert.Contains(t, code,
		"const configSnapshot = `{\"server\":{\"port\":8080,\"hosts\":[\"a\",\"b\"]},\"plugins\":[{\"id\":1,\"name\":\"x\"},{\"id\":2}]}`")

	typeCheck(t, code)
}

func TestGenerate_DeclarationOrder(t *testing.T) {
	code := generate(t, `{"a": {"a1": {"x": 1}}, "b": [{"y": 2}], "c": {"z": 3}}`)

	order := []string{
		"type ConfigKeys struct",
		"type A struct",
		"type AA1 struct",
		"type BItem struct",
		"type C struct",
	}
	last := -1
	for _, decl := range order {
		idx := strings.Index(code, decl)
		require.NotEqual(t, -1, idx, decl)
		assert.Greater(t, idx, last, decl)
		last = idx
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	src := `{"z": {"y": [{"x": null}, {"x": {"w": 1.5}}]}, "a": [1, "two"], "m": {}}`

	first := generate(t, src)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, generate(t, src))
	}
}

func TestGenerate_EmptyRoot(t *testing.T) {
	code := generate(t, `{}`)
	n := normalize(code)

	assert.Contains(t, n, "type ConfigKeys struct{}")
	assert.Contains(t, n, "func (c *ConfigKeys) Populate(raw map[string]any) {}")
	assert.Contains(t, n, "func (c *ConfigKeys) Unmatched() map[string]any { return nil }")
	assert.Contains(t, code, "const configSnapshot = `{}`")

	typeCheck(t, code)
}

func TestGenerate_AllFieldKinds(t *testing.T) {
	code := generate(t, `{
		"nothing": null,
		"flag": true,
		"count": 3,
		"ratio": 0.5,
		"label": "hi",
		"tags": ["a", 1],
		"empty": [],
		"child": {"inner": {"deep": false}},
		"rows": [{"k": "v"}, {"k": null, "extra": [1]}]
	}`)
	n := normalize(code)

	assert.Contains(t, n, "Nothing any `json:\"nothing\"`")
	assert.Contains(t, n, "Flag *bool `json:\"flag\"`")
	assert.Contains(t, n, "Count *int64 `json:\"count\"`")
	assert.Contains(t, n, "Ratio *float64 `json:\"ratio\"`")
	assert.Contains(t, n, "Label *string `json:\"label\"`")
	assert.Contains(t, n, "Tags []any `json:\"tags\"`")
	assert.Contains(t, n, "Empty []any `json:\"empty\"`")
	assert.Contains(t, n, "Child *Child `json:\"child\"`")
	assert.Contains(t, n, "Rows []*RowsItem `json:\"rows\"`")
	assert.Contains(t, n, "Inner: NewChildInner(nil),")
	assert.Contains(t, n, "Deep: ptr(false),")
	assert.Contains(t, n, "c.Nothing = anyField(raw, \"nothing\", c.Nothing)")
	assert.Contains(t, n, "r.Extra = listField(raw, \"extra\", r.Extra, &r.unmatched)")

	typeCheck(t, code)
}

func TestGenerate_SnapshotKeepsNumbers(t *testing.T) {
	code := generate(t, `{"big": 9007199254740993}`)
	n := normalize(code)

	assert.Contains(t, n, "dec := json.NewDecoder(strings.NewReader(configSnapshot))")
	assert.Contains(t, n, "dec.UseNumber()")
	assert.Contains(t, n, "Big *int64 `json:\"big\"`")
	assert.Contains(t, n, "func (c *ConfigKeys) Unmatched() map[string]any { return c.unmatched }")

	typeCheck(t, code)
}

func TestGenerate_MixedNumbersWiden(t *testing.T) {
	code := generate(t, `{"rows": [{"x": 1}, {"x": 1.5}]}`)
	n := normalize(code)

	assert.Contains(t, n, "X *float64 `json:\"x\"`")
	assert.Contains(t, n, "X: ptr(float64(1)),")
	assert.Contains(t, n, "r.X = floatField(raw, \"x\", r.X, &r.unmatched)")

	typeCheck(t, code)
}

func TestGenerate_NonASCIIRoot(t *testing.T) {
	v, err := rawtree.Parse([]byte(`{"mode": "dev"}`))
	require.NoError(t, err)
	forest := schema.Compile(v, schema.Options{RootName: "Énv", Reserved: ReservedIdents})

	out, err := NewGenerator(Options{}).Generate(forest)
	require.NoError(t, err, string(out))

	n := normalize(string(out))
	assert.Contains(t, n, "func (é *Énv) Populate(raw map[string]any) {")
	assert.Contains(t, n, "é.Mode = stringField(raw, \"mode\", é.Mode, &é.unmatched)")

	typeCheck(t, string(out))
}

func TestGenerate_AwkwardKeys(t *testing.T) {
	code := generate(t, "{\"a`b\": 1, \"-\": 2, \"x,y\": 3, \"populate\": 4, \"unmatched\": 6, \"9lives\": {\"q\": \"`tick`\"}, \"\": 5}")
	n := normalize(code)

	// backticks are spliced out of the raw snapshot literal
	assert.Contains(t, code, "` + \"`\" + `")

	assert.Contains(t, n, "Ab *int64\n")
	assert.Contains(t, n, "Field *int64 `json:\"-,\"`")
	assert.Contains(t, n, "Xy *int64\n")
	assert.Contains(t, n, "Populate2 *int64 `json:\"populate\"`")
	assert.Contains(t, n, "Unmatched2 *int64 `json:\"unmatched\"`")
	assert.Contains(t, n, "N9lives *N9lives `json:\"9lives\"`")
	assert.Contains(t, n, "Field2 *int64\n")
	assert.Contains(t, n, "Q: ptr(\"`tick`\"),")

	typeCheck(t, code)
}

func TestGenerate_SnapshotConstantRoundTrips(t *testing.T) {
	src := `{"path": "C:\\temp", "quote": "say \"hi\"", "uni": "é ✓", "n": 1.0e2}`
	code := generate(t, src)
	pkg := typeCheck(t, code)

	obj := pkg.Scope().Lookup("configSnapshot")
	require.NotNil(t, obj)
	c, ok := obj.(*types.Const)
	require.True(t, ok)

	v, err := rawtree.Parse([]byte(constant.StringVal(c.Val())))
	require.NoError(t, err)
	back, err := rawtree.Marshal(v, false)
	require.NoError(t, err)

	orig, _ := rawtree.Parse([]byte(src))
	want, _ := rawtree.Marshal(orig, false)
	assert.Equal(t, string(want), string(back))
}

func TestGenerate_CustomPackageAndRoot(t *testing.T) {
	v, err := rawtree.Parse([]byte(`{"x": 1}`))
	require.NoError(t, err)
	forest := schema.Compile(v, schema.Options{RootName: "Settings", Reserved: ReservedIdents})

	out, err := NewGenerator(Options{Package: "settings"}).Generate(forest)
	require.NoError(t, err)

	code := string(out)
	assert.Contains(t, code, "package settings")
	assert.Contains(t, code, "func NewSettings(raw map[string]any) *Settings {")
	assert.Contains(t, code, "from raw configuration. DO NOT EDIT.")
}

func TestGenerate_UnformattableFallsBack(t *testing.T) {
	v, _ := rawtree.Parse([]byte(`{"x": 1}`))
	forest := schema.Compile(v, schema.Options{})

	out, err := NewGenerator(Options{Package: "not a package"}).Generate(forest)
	assert.Error(t, err)
	assert.Contains(t, string(out), "package not a package")
}

func TestJSONTag(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"port", "`json:\"port\"`"},
		{"db.host", "`json:\"db.host\"`"},
		{"-", "`json:\"-,\"`"},
		{"a,b", ""},
		{"a\"b", ""},
		{"", ""},
		{"naïve", "`json:\"naïve\"`"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, jsonTag(tt.key))
		})
	}
}

func TestEscapeRawString(t *testing.T) {
	assert.Equal(t, "plain", escapeRawString("plain"))
	assert.Equal(t, "a` + \"`\" + `b", escapeRawString("a`b"))
	assert.Equal(t, "x` + \"\\uFEFF\" + `y", escapeRawString("x\uFEFFy"))
}
