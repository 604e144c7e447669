package codegen

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/configkeys/internal/compiler/schema"
	"github.com/conduit-lang/configkeys/internal/rawtree"
)

const runtimeStore = `{
	"server": {"port": 8080, "hosts": ["a", "b"]},
	"plugins": [{"id": 1, "name": "x"}, {"id": 2}],
	"rows": [{"x": 1}, {"x": 1.5}],
	"big": 9007199254740993,
	"label": null
}`

const runtimeMain = `package main

import "fmt"

func main() {
	c := NewConfigKeys(nil)
	fmt.Printf("port=%d\n", *c.Server.Port)
	fmt.Printf("hosts=%v\n", c.Server.Hosts)
	fmt.Printf("plugins=%d\n", len(c.Plugins))
	fmt.Printf("plugin0=%d/%s\n", *c.Plugins[0].Id, *c.Plugins[0].Name)
	fmt.Printf("plugin1=%d/%s\n", *c.Plugins[1].Id, *c.Plugins[1].Name)
	fmt.Printf("rows=%g,%g\n", *c.Rows[0].X, *c.Rows[1].X)
	fmt.Printf("big=%d\n", *c.Big)
	fmt.Printf("label=%v\n", c.Label)
	fmt.Printf("unmatched=%d\n", len(c.Unmatched()))

	s := NewServer(nil)
	fmt.Printf("default.port=%d\n", *s.Port)
	fmt.Printf("default.hosts=%v\n", s.Hosts == nil)
	p := NewPluginsItem(nil)
	fmt.Printf("default.plugin=%d/%s\n", *p.Id, *p.Name)

	o := NewConfigKeys(map[string]any{
		"big":    1.5,
		"label":  "set",
		"server": map[string]any{"port": "eighty"},
	})
	fmt.Printf("override.big=%d\n", *o.Big)
	fmt.Printf("override.big.unmatched=%v\n", o.Unmatched()["big"])
	fmt.Printf("override.label=%v\n", o.Label)
	fmt.Printf("override.port=%d\n", *o.Server.Port)
	fmt.Printf("override.port.unmatched=%v\n", o.Server.Unmatched()["port"])

	o.Populate(map[string]any{"big": 7})
	fmt.Printf("fixed.big=%d\n", *o.Big)
	fmt.Printf("fixed.unmatched=%d\n", len(o.Unmatched()))
}
`

// TestGenerate_ArtifactRuns compiles the artifact with a small program and
// checks the values it builds at run time
func TestGenerate_ArtifactRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping go run in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not available")
	}

	v, err := rawtree.Parse([]byte(runtimeStore))
	require.NoError(t, err)
	forest := schema.Compile(v, schema.Options{Reserved: ReservedIdents})
	code, err := NewGenerator(Options{Package: "main", Source: "store.json"}).Generate(forest)
	require.NoError(t, err, string(code))

	dir := t.TempDir()
	files := map[string]string{
		"go.mod":         "module example\n\ngo 1.21\n",
		"config_keys.go": string(code),
		"main.go":        runtimeMain,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cmd := exec.CommandContext(ctx, goBin, "run", ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=", "GOTOOLCHAIN=local")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "go run failed:\n%s\n%s", out, code)

	got := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		if key, value, ok := strings.Cut(scanner.Text(), "="); ok {
			got[key] = value
		}
	}

	expected := map[string]string{
		"port":                    "8080",
		"hosts":                   "[a b]",
		"plugins":                 "2",
		"plugin0":                 "1/x",
		"plugin1":                 "2/x",
		"rows":                    "1,1.5",
		"big":                     "9007199254740993",
		"label":                   "<nil>",
		"unmatched":               "0",
		"default.port":            "8080",
		"default.hosts":           "true",
		"default.plugin":          "1/x",
		"override.big":            "9007199254740993",
		"override.big.unmatched":  "1.5",
		"override.label":          "set",
		"override.port":           "8080",
		"override.port.unmatched": "eighty",
		"fixed.big":               "7",
		"fixed.unmatched":         "0",
	}
	for key, want := range expected {
		assert.Equal(t, want, got[key], key)
	}
}
