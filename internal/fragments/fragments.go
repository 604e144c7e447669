// Package fragments collects the configuration templates shipped by modules
// and consolidates them into the backing store, one top-level key per module.
package fragments

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	toolerrors "github.com/conduit-lang/configkeys/internal/compiler/errors"
	"github.com/conduit-lang/configkeys/internal/logging"
	"github.com/conduit-lang/configkeys/internal/rawtree"
	"github.com/conduit-lang/configkeys/internal/store"
)

// DefaultFileName is the template file looked up in every module directory
const DefaultFileName = ".config_template"

// Policy decides which side wins when templates are merged into an existing
// store
type Policy string

const (
	// PolicyExisting keeps values already in the store
	PolicyExisting Policy = "existing"
	// PolicyNew replaces stored modules with their template values
	PolicyNew Policy = "new"
)

// ParsePolicy validates a policy name
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyExisting, PolicyNew:
		return Policy(s), nil
	default:
		return "", toolerrors.NewInvalidPolicy(s)
	}
}

// Options configures an Aggregator
type Options struct {
	// ModuleRoots are the directories whose subdirectories are modules
	ModuleRoots []string
	// FileName is the template file name inside a module
	FileName string
	// StorePath is the backing store to write
	StorePath string
	// Backup keeps the previous store as a .backup sibling
	Backup bool
}

// Module is a module directory that ships a template
type Module struct {
	Name         string
	Dir          string
	TemplatePath string
}

// Aggregator consolidates module templates
type Aggregator struct {
	opts         Options
	log          *zap.Logger
	consolidated *rawtree.OrderedMap
	problems     toolerrors.ErrorList
}

// New creates an aggregator
func New(opts Options, log *zap.Logger) *Aggregator {
	if opts.FileName == "" {
		opts.FileName = DefaultFileName
	}
	return &Aggregator{
		opts:         opts,
		log:          logging.OrNop(log),
		consolidated: rawtree.NewMap(),
	}
}

// Discover lists the modules that ship a template, sorted by name. When two
// roots hold a module of the same name the later root wins.
func (a *Aggregator) Discover() []Module {
	a.log.Info("scanning modules for templates", zap.String("file", a.opts.FileName))

	byName := make(map[string]Module)
	for _, root := range a.opts.ModuleRoots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				a.log.Debug("module root does not exist", zap.String("root", root))
				continue
			}
			a.report(toolerrors.NewModuleRoot(root, err))
			continue
		}

		for _, entry := range entries {
			dir := filepath.Join(root, entry.Name())
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				continue
			}
			path := filepath.Join(dir, a.opts.FileName)
			if info, err := os.Stat(path); err != nil || info.IsDir() {
				continue
			}
			if prev, ok := byName[entry.Name()]; ok {
				a.log.Warn("module defined in several roots, using the last one",
					zap.String("module", entry.Name()),
					zap.String("ignored", prev.Dir),
					zap.String("used", dir))
			}
			byName[entry.Name()] = Module{Name: entry.Name(), Dir: dir, TemplatePath: path}
			a.log.Debug("found template", zap.String("module", entry.Name()), zap.String("path", path))
		}
	}

	modules := make([]Module, 0, len(byName))
	for _, m := range byName {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })

	if len(modules) == 0 {
		a.log.Warn("no module templates found")
	} else {
		a.log.Info("found module templates", zap.Int("count", len(modules)))
	}
	return modules
}

// Load reads and parses one module template. A read failure is reported
// and yields an empty mapping.
func (a *Aggregator) Load(mod Module) *rawtree.Value {
	data, err := os.ReadFile(mod.TemplatePath)
	if err != nil {
		a.report(toolerrors.NewFragmentRead(mod.Name, mod.TemplatePath, err))
		return rawtree.MapValue(rawtree.NewMap())
	}
	return ParseFragment(data)
}

// Consolidate maps every discovered module name to its parsed template.
// Modules whose template is empty are skipped.
func (a *Aggregator) Consolidate() *rawtree.OrderedMap {
	a.log.Info("consolidating module templates")

	out := rawtree.NewMap()
	for _, mod := range a.Discover() {
		v := a.Load(mod)
		if isEmpty(v) {
			a.report(toolerrors.NewFragmentEmpty(mod.Name, mod.TemplatePath))
			continue
		}
		out.Set(mod.Name, v)
		a.log.Info("loaded module template", zap.String("module", mod.Name), zap.Int("items", size(v)))
	}

	a.consolidated = out
	return out
}

// Run consolidates the templates, merges them with the store according to
// policy and saves the result. It reports success; failures are logged.
func (a *Aggregator) Run(policy Policy) bool {
	a.log.Info("processing module templates", zap.String("policy", string(policy)))

	fresh := a.Consolidate()
	st := store.New(a.opts.StorePath, a.opts.Backup, a.log)

	merged := fresh
	if st.Exists() {
		a.log.Info("merging with existing configuration", zap.String("path", a.opts.StorePath))
		merged = Merge(a.loadExisting(), fresh, policy)
	} else {
		a.log.Info("creating new configuration", zap.String("path", a.opts.StorePath))
	}
	a.consolidated = merged

	if err := st.Save(merged); err != nil {
		a.log.Error("failed to save consolidated configuration", zap.Error(err))
		return false
	}
	a.log.Info("configuration processing complete",
		zap.String("path", a.opts.StorePath), zap.Int("modules", merged.Len()))
	return true
}

// Summary lists the top-level keys of the last consolidation
func (a *Aggregator) Summary() []string {
	return a.consolidated.Keys()
}

// Consolidated returns the result of the last Consolidate or Run
func (a *Aggregator) Consolidated() *rawtree.OrderedMap {
	return a.consolidated
}

// Problems returns the errors and warnings collected so far
func (a *Aggregator) Problems() toolerrors.ErrorList {
	return a.problems
}

// loadExisting reads the store for merging. Content that is not a JSON
// object is read as key=value lines instead.
func (a *Aggregator) loadExisting() *rawtree.OrderedMap {
	data, err := os.ReadFile(a.opts.StorePath)
	if err != nil {
		a.log.Warn("failed to load existing configuration", zap.Error(err))
		return rawtree.NewMap()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return rawtree.NewMap()
	}
	m, err := rawtree.ParseMap(data)
	if err != nil {
		a.log.Warn("existing configuration is not a JSON object, reading key=value lines", zap.Error(err))
		return parseKeyValues(string(data))
	}
	return m
}

func (a *Aggregator) report(err *toolerrors.ToolError) {
	a.problems = append(a.problems, err)
	fields := []zap.Field{zap.String("code", string(err.Code)), zap.String("path", err.Path)}
	if err.Err != nil {
		fields = append(fields, zap.Error(err.Err))
	}
	if err.Severity == toolerrors.SeverityWarning {
		a.log.Warn(err.Message, fields...)
	} else {
		a.log.Error(err.Message, fields...)
	}
}

func isEmpty(v *rawtree.Value) bool {
	switch v.Kind() {
	case rawtree.Null:
		return true
	case rawtree.Map:
		return v.Map().Len() == 0
	case rawtree.List:
		return len(v.Items()) == 0
	case rawtree.String:
		return v.Str() == ""
	default:
		return false
	}
}

func size(v *rawtree.Value) int {
	switch v.Kind() {
	case rawtree.Map:
		return v.Map().Len()
	case rawtree.List:
		return len(v.Items())
	default:
		return 1
	}
}
