package naming

import (
	"strconv"
	"strings"

	utilstrings "github.com/conduit-lang/configkeys/internal/util/strings"
)

// ConstructorPrefix is prepended to a record identifier to name its
// build-from-raw function
const ConstructorPrefix = "New"

// Registry is the naming state of one generation run. It is not safe for
// concurrent use; a fresh Registry is created for every run.
type Registry struct {
	// compiled holds fully-qualified record paths already compiled
	compiled map[string]struct{}
	// used holds, per enclosing record path, the short names handed out
	used map[string]map[string]struct{}
	// idents holds package-level Go identifiers already taken
	idents map[string]struct{}
	// identByPath memoizes Ident
	identByPath map[string]string
}

// NewRegistry creates an empty registry. reserved lists package-level
// identifiers the generated code already declares.
func NewRegistry(reserved ...string) *Registry {
	r := &Registry{
		compiled:    make(map[string]struct{}),
		used:        make(map[string]map[string]struct{}),
		idents:      make(map[string]struct{}),
		identByPath: make(map[string]string),
	}
	for _, name := range reserved {
		r.idents[name] = struct{}{}
	}
	return r
}

// PathKey joins a record path into the key used for dedup and scoping
func PathKey(path []string) string {
	return strings.Join(path, ".")
}

// Seen reports whether the record at path was already compiled
func (r *Registry) Seen(path []string) bool {
	_, ok := r.compiled[PathKey(path)]
	return ok
}

// Mark records the record at path as compiled
func (r *Registry) Mark(path []string) {
	r.compiled[PathKey(path)] = struct{}{}
}

// Ident returns the package-unique Go identifier for the record at path.
// The root record keeps its own name; nested records concatenate the names
// below the root ("Server", "ServerTls"). The identifier and its constructor
// name are reserved together.
func (r *Registry) Ident(path []string) string {
	key := PathKey(path)
	if ident, ok := r.identByPath[key]; ok {
		return ident
	}

	base := path[0]
	if len(path) > 1 {
		base = strings.Join(path[1:], "")
	}

	ident := base
	for n := 2; r.identTaken(ident); n++ {
		ident = base + strconv.Itoa(n)
	}

	r.idents[ident] = struct{}{}
	r.idents[ConstructorPrefix+ident] = struct{}{}
	r.identByPath[key] = ident
	return ident
}

func (r *Registry) identTaken(ident string) bool {
	_, a := r.idents[ident]
	_, b := r.idents[ConstructorPrefix+ident]
	return a || b
}

func (r *Registry) usedNames(parent string) map[string]struct{} {
	set, ok := r.used[parent]
	if !ok {
		set = make(map[string]struct{})
		r.used[parent] = set
	}
	return set
}

// FieldNamer assigns Go field names within one struct
type FieldNamer struct {
	used map[string]struct{}
}

// NewFieldNamer creates a namer; reserved names (such as method names on the
// struct) are never handed out.
func NewFieldNamer(reserved ...string) *FieldNamer {
	f := &FieldNamer{used: make(map[string]struct{})}
	for _, name := range reserved {
		f.used[name] = struct{}{}
	}
	return f
}

// Name returns a unique exported field name for key
func (f *FieldNamer) Name(key string) string {
	base := utilstrings.PascalCase(utilstrings.Tokenize(key))
	if base == "" {
		base = FallbackName
	}
	if utilstrings.StartsWithDigit(base) {
		base = DigitMarker + base
	}
	name := unique(base, f.used)
	f.used[name] = struct{}{}
	return name
}
