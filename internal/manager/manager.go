// Package manager owns the configuration lifecycle: it loads the backing
// store, keeps the raw tree in memory and regenerates the configuration keys
// artifact whenever the tree is saved.
package manager

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	toolerrors "github.com/conduit-lang/configkeys/internal/compiler/errors"
	"github.com/conduit-lang/configkeys/internal/generator"
	"github.com/conduit-lang/configkeys/internal/logging"
	"github.com/conduit-lang/configkeys/internal/rawtree"
	"github.com/conduit-lang/configkeys/internal/store"
)

// DefaultStorePath is the backing store location when none is configured
const DefaultStorePath = ".config"

// Options configures a Manager
type Options struct {
	// StorePath is the backing store file
	StorePath string
	// StoreBackup keeps the previous store as a .backup sibling on save
	StoreBackup bool
	// Artifact configures the generated configuration keys
	Artifact generator.Options
}

// Manager holds the raw configuration tree. Every mutation runs
// merge, save and regenerate under one lock, so concurrent callers never
// lose updates or observe a half-written artifact.
type Manager struct {
	mu    sync.Mutex
	opts  Options
	log   *zap.Logger
	store *store.Store
	gen   *generator.KeysGenerator
	raw   *rawtree.OrderedMap
}

// New loads the backing store and generates the artifact. It never fails:
// an unusable store yields an empty tree and a failed generation is logged.
func New(opts Options, log *zap.Logger) *Manager {
	if opts.StorePath == "" {
		opts.StorePath = DefaultStorePath
	}
	if opts.Artifact.Source == "" {
		opts.Artifact.Source = opts.StorePath
	}

	log = logging.OrNop(log)
	m := &Manager{
		opts:  opts,
		log:   log,
		store: store.New(opts.StorePath, opts.StoreBackup, log.Named("store")),
		gen:   generator.New(opts.Artifact, log.Named("generator")),
	}

	m.log.Debug("initializing configuration manager", zap.String("store", opts.StorePath))
	m.raw = m.store.Load()
	m.gen.Generate(m.raw)
	return m
}

// Options returns the options the manager was built with
func (m *Manager) Options() Options {
	return m.opts
}

// Store returns the backing store
func (m *Manager) Store() *store.Store {
	return m.store
}

// Generator returns the artifact generator
func (m *Manager) Generator() *generator.KeysGenerator {
	return m.gen
}

// Raw returns a copy of the raw tree
func (m *Manager) Raw() *rawtree.OrderedMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.raw.Clone()
}

// Get returns a copy of the value at a dotted key path
func (m *Manager) Get(path string) (*rawtree.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := rawtree.GetPath(m.raw, path)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// Save merges update into the tree at the top level, writes the store and
// regenerates the artifact. A nil update saves the tree as is. When the
// store cannot be written the merged tree is kept in memory, the error is
// returned and the artifact is left alone.
func (m *Manager) Save(update *rawtree.OrderedMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if update != nil {
		m.raw.Update(update.Clone())
	}
	return m.persist()
}

// Set stores value at a dotted key path, then saves and regenerates
func (m *Manager) Set(path string, value *rawtree.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.raw.Clone()
	if err := rawtree.SetPath(next, path, value.Clone()); err != nil {
		return toolerrors.NewInvalidPath(path, err)
	}
	m.raw = next
	return m.persist()
}

// Delete removes the key at a dotted key path, then saves and regenerates.
// It reports whether the key existed.
func (m *Manager) Delete(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.raw.Clone()
	if !deletePath(next, path) {
		return false, nil
	}
	m.raw = next
	return true, m.persist()
}

// Reload re-reads the backing store and regenerates the artifact. It is
// used when the store was changed by someone else.
func (m *Manager) Reload() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.raw = m.store.Load()
	m.log.Info("reloaded configuration store", zap.String("path", m.opts.StorePath))
	return m.gen.Generate(m.raw)
}

// Regenerate writes the artifact for the current tree
func (m *Manager) Regenerate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen.Generate(m.raw)
}

// persist must be called with mu held
func (m *Manager) persist() error {
	if err := m.store.Save(m.raw); err != nil {
		m.log.Error("failed to save configuration store", zap.Error(err))
		return err
	}
	m.log.Debug("configuration saved", zap.String("path", m.opts.StorePath))
	m.gen.Generate(m.raw)
	return nil
}

func deletePath(root *rawtree.OrderedMap, path string) bool {
	parent := root
	key := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		v, ok := rawtree.GetPath(root, path[:i])
		if !ok || v.Map() == nil {
			return false
		}
		parent = v.Map()
		key = path[i+1:]
	}
	return parent.Delete(key)
}
