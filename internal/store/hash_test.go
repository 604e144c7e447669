package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileHasher_HashContent(t *testing.T) {
	hasher := NewFileHasher()

	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:     "empty content",
			content:  []byte(""),
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "simple content",
			content:  []byte("hello world"),
			expected: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := hasher.HashContent(tt.content)
			if result != tt.expected {
				t.Errorf("HashContent() = %s, expected %s", result, tt.expected)
			}
		})
	}
}

func TestFileHasher_HashFile(t *testing.T) {
	hasher := NewFileHasher()
	path := filepath.Join(t.TempDir(), ".config")
	content := []byte(`{"port": 8080}`)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	fileHash, err := hasher.HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	if fileHash != hasher.HashContent(content) {
		t.Errorf("HashFile() = %s, HashContent() = %s", fileHash, hasher.HashContent(content))
	}

	if _, err := hasher.HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("HashFile() expected error for missing file")
	}
}
