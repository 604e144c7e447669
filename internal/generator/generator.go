// Package generator turns the raw configuration tree into the configuration
// keys artifact on disk.
package generator

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/conduit-lang/configkeys/internal/compiler/codegen"
	toolerrors "github.com/conduit-lang/configkeys/internal/compiler/errors"
	"github.com/conduit-lang/configkeys/internal/compiler/schema"
	"github.com/conduit-lang/configkeys/internal/logging"
	"github.com/conduit-lang/configkeys/internal/rawtree"
	"github.com/conduit-lang/configkeys/internal/util/files"
)

// DefaultArtifactPath is where the artifact is written when no path is set
const DefaultArtifactPath = "configkeys/config_keys.go"

// Options configures artifact generation
type Options struct {
	// ArtifactPath is the output file
	ArtifactPath string
	// Package is the package clause of the artifact
	Package string
	// RootName names the root record
	RootName string
	// Source names the backing store in the artifact header
	Source string
}

// KeysGenerator renders and writes the configuration keys artifact
type KeysGenerator struct {
	opts Options
	log  *zap.Logger
}

// New creates a generator. Empty options take their defaults.
func New(opts Options, log *zap.Logger) *KeysGenerator {
	if opts.ArtifactPath == "" {
		opts.ArtifactPath = DefaultArtifactPath
	}
	if opts.Package == "" {
		opts.Package = codegen.DefaultPackage
	}
	if opts.RootName == "" {
		opts.RootName = schema.DefaultRootName
	}
	return &KeysGenerator{
		opts: opts,
		log:  logging.OrNop(log),
	}
}

// Path returns the artifact location
func (g *KeysGenerator) Path() string {
	return g.opts.ArtifactPath
}

// Compile returns the record forest of tree
func (g *KeysGenerator) Compile(tree *rawtree.OrderedMap) *schema.Forest {
	return schema.CompileMap(tree, schema.Options{
		RootName: g.opts.RootName,
		Reserved: codegen.ReservedIdents,
	})
}

// Render compiles tree and returns the artifact source. It touches no files.
func (g *KeysGenerator) Render(tree *rawtree.OrderedMap) ([]byte, error) {
	forest := g.Compile(tree)
	src, err := codegen.NewGenerator(codegen.Options{
		Package: g.opts.Package,
		Source:  g.opts.Source,
	}).Generate(forest)
	if err != nil {
		return nil, toolerrors.NewArtifactRender(err)
	}
	return src, nil
}

// Write renders tree and replaces the artifact. The file is written to a
// temporary sibling and renamed into place, so readers never observe a
// partially written artifact.
func (g *KeysGenerator) Write(tree *rawtree.OrderedMap) error {
	src, err := g.Render(tree)
	if err != nil {
		return err
	}
	if err := files.WriteAtomic(g.opts.ArtifactPath, src, 0o644); err != nil {
		return toolerrors.NewArtifactWrite(g.opts.ArtifactPath, err)
	}
	return nil
}

// Generate writes the artifact for tree and reports success. Failures are
// logged and never returned; callers carry on with the previous artifact.
func (g *KeysGenerator) Generate(tree *rawtree.OrderedMap) bool {
	if err := g.Write(tree); err != nil {
		g.log.Error("failed to generate configuration keys",
			zap.String("path", g.opts.ArtifactPath), zap.Error(err))
		return false
	}
	g.log.Info("generated configuration keys",
		zap.String("path", g.opts.ArtifactPath), zap.Int("keys", tree.Len()))
	return true
}

// Current returns the artifact on disk, or nil when there is none
func (g *KeysGenerator) Current() ([]byte, error) {
	data, err := os.ReadFile(g.opts.ArtifactPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Stale reports whether the artifact on disk differs from a fresh render
func (g *KeysGenerator) Stale(tree *rawtree.OrderedMap) (bool, error) {
	fresh, err := g.Render(tree)
	if err != nil {
		return false, err
	}
	current, err := g.Current()
	if err != nil {
		return false, err
	}
	return current == nil || !bytes.Equal(current, fresh), nil
}
