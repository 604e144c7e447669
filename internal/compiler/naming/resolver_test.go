package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidate(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		expected string
	}{
		{"simple object", Request{Key: "server"}, "Server"},
		{"snake and kebab", Request{Key: "db-pool_settings"}, "DbPoolSettings"},
		{"punctuation stripped", Request{Key: "api.v2!"}, "Apiv2"},
		{"list item suffix", Request{Key: "plugins", Kind: KindListItem}, "PluginsItem"},
		{"leading digit", Request{Key: "3d_view"}, "N3dView"},
		{"numeric token kept", Request{Key: "retry_3"}, "Retry3"},
		{"empty key", Request{Key: "__"}, "Field"},
		{"empty list item", Request{Key: "--", Kind: KindListItem}, "FieldItem"},
		{"root manager", Request{Key: "cache_manager", ParentIsRoot: true}, "CacheMgr"},
		{"root utility", Request{Key: "string-utility", ParentIsRoot: true}, "StringUtil"},
		{"root plugin", Request{Key: "auth_plugin", ParentIsRoot: true}, "AuthPlg"},
		{"nested manager kept", Request{Key: "cache_manager"}, "CacheManager"},
		{"word must be a whole token", Request{Key: "taskmanager", ParentIsRoot: true}, "Taskmanager"},
		{"plural is not abbreviated", Request{Key: "plugins", ParentIsRoot: true}, "Plugins"},
		{"root list item", Request{Key: "log_manager", Kind: KindListItem, ParentIsRoot: true}, "LogManagerItem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Candidate(tt.req))
		})
	}
}

func TestResolve_SiblingCollisions(t *testing.T) {
	r := NewRegistry()

	names := []string{
		r.Resolve(Request{Parent: "Root", Key: "db_host"}),
		r.Resolve(Request{Parent: "Root", Key: "db-host"}),
		r.Resolve(Request{Parent: "Root", Key: "DB_HOST"}),
		r.Resolve(Request{Parent: "Root", Key: "other"}),
	}

	assert.Equal(t, "DbHost", names[0])
	assert.Equal(t, "DbHost2", names[1])
	assert.Equal(t, "DbHost3", names[2])
	assert.Equal(t, "Other", names[3])
}

func TestResolve_ScopedPerParent(t *testing.T) {
	r := NewRegistry()

	a := r.Resolve(Request{Parent: "Root.A", Key: "settings"})
	b := r.Resolve(Request{Parent: "Root.B", Key: "settings"})

	assert.Equal(t, "Settings", a)
	assert.Equal(t, "Settings", b)
}

func TestResolve_Deterministic(t *testing.T) {
	run := func() []string {
		r := NewRegistry()
		var out []string
		for _, key := range []string{"x", "X", "x_", "y", "x"} {
			out = append(out, r.Resolve(Request{Parent: "Root", Key: key}))
		}
		return out
	}

	first := run()
	assert.Equal(t, first, run())
	assert.Equal(t, []string{"X", "X2", "X3", "Y", "X4"}, first)
}

func TestRegistry_SeenAndMark(t *testing.T) {
	r := NewRegistry()
	path := []string{"ConfigKeys", "Server"}

	assert.False(t, r.Seen(path))
	r.Mark(path)
	assert.True(t, r.Seen(path))
	assert.False(t, r.Seen([]string{"ConfigKeys", "Other", "Server"}))
}

func TestRegistry_Ident(t *testing.T) {
	r := NewRegistry("Snapshot")

	assert.Equal(t, "ConfigKeys", r.Ident([]string{"ConfigKeys"}))
	assert.Equal(t, "Server", r.Ident([]string{"ConfigKeys", "Server"}))
	assert.Equal(t, "ServerTls", r.Ident([]string{"ConfigKeys", "Server", "Tls"}))

	// same path, same identifier
	assert.Equal(t, "Server", r.Ident([]string{"ConfigKeys", "Server"}))

	// "Server"+"Tls" and "ServerTls" flatten to the same text
	assert.Equal(t, "ServerTls2", r.Ident([]string{"ConfigKeys", "ServerTls"}))

	// a child named like the root
	assert.Equal(t, "ConfigKeys2", r.Ident([]string{"ConfigKeys", "ConfigKeys"}))

	// reserved package-level names
	assert.Equal(t, "Snapshot2", r.Ident([]string{"ConfigKeys", "Snapshot"}))
}

func TestRegistry_IdentAvoidsConstructorClash(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "NewServer", r.Ident([]string{"Root", "NewServer"}))
	// NewServer is taken, so Server cannot get a constructor named NewServer
	assert.Equal(t, "Server2", r.Ident([]string{"Root", "Server"}))
}

func TestFieldNamer(t *testing.T) {
	f := NewFieldNamer("Populate")

	assert.Equal(t, "Port", f.Name("port"))
	assert.Equal(t, "Port2", f.Name("PORT"))
	assert.Equal(t, "Populate2", f.Name("populate"))
	assert.Equal(t, "N8080", f.Name("8080"))
	assert.Equal(t, "Field", f.Name("%%"))
	assert.Equal(t, "Field2", f.Name(""))
}
