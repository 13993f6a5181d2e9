// Package testutil provides shared test helpers for setting up content stores.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/virel/pagesmith/internal/remote"
)

// TestStore creates a temporary content directory with an FS store.
func TestStore(t *testing.T) (string, *remote.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := remote.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile seeds a file into the content directory directly on disk,
// bypassing the store's concurrency checks.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
