// Package naming derives the Go type and field names used by the generated
// config keys. Names are deterministic: the same keys processed in the same
// order always produce the same names.
package naming

import (
	"strconv"
	"strings"

	utilstrings "github.com/conduit-lang/configkeys/internal/util/strings"
)

// Kind says what a nested record name is introduced for
type Kind int

const (
	// KindObject is a record built from a mapping value
	KindObject Kind = iota
	// KindListItem is the element record of a list of mappings
	KindListItem
)

const (
	// ItemSuffix distinguishes a list's element type from an object type
	// derived from the same key
	ItemSuffix = "Item"
	// DigitMarker is prepended to names that would start with a digit
	DigitMarker = "N"
	// FallbackName is used when a key contains no usable characters
	FallbackName = "Field"
)

// firstLayerSuffixes abbreviates trailing words of type names introduced by
// the root record's own fields. Deeper records keep the full words.
var firstLayerSuffixes = []struct {
	word  string
	short string
}{
	{"Manager", "Mgr"},
	{"Utility", "Util"},
	{"Plugin", "Plg"},
}

// Request describes one nested record that needs a name
type Request struct {
	// Parent is the fully-qualified path (see PathKey) of the enclosing record
	Parent string
	// Key is the field key that introduces the record
	Key string
	// Kind is KindObject or KindListItem
	Kind Kind
	// ParentIsRoot is set when the enclosing record is the root
	ParentIsRoot bool
}

// Candidate returns the name for req before collision resolution
func Candidate(req Request) string {
	name := utilstrings.PascalCase(utilstrings.Tokenize(req.Key))
	if name == "" {
		name = FallbackName
	}

	if req.Kind == KindListItem {
		name += ItemSuffix
	}

	if req.ParentIsRoot {
		name = abbreviate(name)
	}

	if utilstrings.StartsWithDigit(name) {
		name = DigitMarker + name
	}
	return name
}

// Resolve returns a name for req that is unique among the names already used
// under req.Parent, and records it as used.
func (r *Registry) Resolve(req Request) string {
	used := r.usedNames(req.Parent)
	name := unique(Candidate(req), used)
	used[name] = struct{}{}
	return name
}

func abbreviate(name string) string {
	for _, s := range firstLayerSuffixes {
		if strings.HasSuffix(name, s.word) {
			return strings.TrimSuffix(name, s.word) + s.short
		}
	}
	return name
}

// unique appends 2, 3, ... to base until the result is not in used
func unique(base string, used map[string]struct{}) string {
	if _, taken := used[base]; !taken {
		return base
	}
	for n := 2; ; n++ {
		name := base + strconv.Itoa(n)
		if _, taken := used[name]; !taken {
			return name
		}
	}
}
