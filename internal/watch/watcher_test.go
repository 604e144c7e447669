package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_Start(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, ".config")
	if err := os.WriteFile(testFile, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	otherFile := filepath.Join(tmpDir, "other.json")

	var mu sync.Mutex
	var changes [][]string

	watcher, err := NewFileWatcher([]string{testFile}, 50*time.Millisecond, func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, files)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	time.Sleep(100 * time.Millisecond) // Allow watcher to initialize
	if err := os.WriteFile(otherFile, []byte("ignored"), 0644); err != nil {
		t.Fatalf("Failed to write other file: %v", err)
	}
	if err := os.WriteFile(testFile, []byte(`{"a": 1}`), 0644); err != nil {
		t.Fatalf("Failed to modify file: %v", err)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changes) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, batch := range changes {
		assert.Equal(t, []string{absPath(testFile)}, batch)
	}
}

func TestFileWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, ".config")
	watcher := &FileWatcher{files: map[string]struct{}{absPath(target): {}}}

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: target, Op: fsnotify.Remove}, false},
		{"sibling", fsnotify.Event{Name: filepath.Join(dir, ".config.backup"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, watcher.relevant(tt.event))
		})
	}
}

func TestFileWatcher_Directories(t *testing.T) {
	watcher := &FileWatcher{files: map[string]struct{}{
		"/srv/app/.config":    {},
		"/srv/app/other.json": {},
		"/etc/app/.config":    {},
	}}
	assert.Equal(t, []string{"/etc/app", "/srv/app"}, watcher.directories())
}

func TestDebouncer_Add(t *testing.T) {
	var mu sync.Mutex
	var called bool
	var files []string

	debouncer := NewDebouncer(50 * time.Millisecond)
	debouncer.SetCallback(func(f []string) {
		mu.Lock()
		defer mu.Unlock()
		called = true
		files = f
	})

	debouncer.Add("file2.json")
	debouncer.Add("file1.json")
	debouncer.Add("file2.json") // Duplicate

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if !called {
		t.Error("Expected callback to be called")
	}
	assert.Equal(t, []string{"file1.json", "file2.json"}, files)
}

func TestDebouncer_MultipleFlushes(t *testing.T) {
	var mu sync.Mutex
	var callCount int

	debouncer := NewDebouncer(30 * time.Millisecond)
	debouncer.SetCallback(func(f []string) {
		mu.Lock()
		defer mu.Unlock()
		callCount++
	})

	debouncer.Add("file1.json")
	time.Sleep(100 * time.Millisecond)

	debouncer.Add("file2.json")
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if callCount != 2 {
		t.Errorf("Expected 2 callback calls, got %d", callCount)
	}
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	var mu sync.Mutex
	var called bool

	debouncer := NewDebouncer(30 * time.Millisecond)
	debouncer.SetCallback(func(f []string) {
		mu.Lock()
		defer mu.Unlock()
		called = true
	})

	debouncer.Add("file.json")
	debouncer.Stop()
	debouncer.Add("late.json")
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, called)
}

func TestFileWatcher_Stop(t *testing.T) {
	watcher, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), ".config")}, DefaultDebounce,
		func(files []string) error { return nil }, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())

	assert.NoError(t, watcher.Stop())

	// Second stop should not panic
	assert.NoError(t, watcher.Stop())
}

func BenchmarkDebouncer_Add(b *testing.B) {
	debouncer := NewDebouncer(100 * time.Millisecond)
	debouncer.SetCallback(func(files []string) {})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		debouncer.Add(".config")
	}
}
