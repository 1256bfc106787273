package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// NewMemFS creates a new in-memory filesystem for testing
func NewMemFS() afero.Fs {
	return afero.NewMemMapFs()
}

// WriteFile creates path (and its parents) in fs with content
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// MkdirAll creates path in fs
func MkdirAll(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	if err := fs.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
}

// ReadFile returns the content of path in fs
func ReadFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists in fs
func Exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	_, err := fs.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	return err == nil
}
