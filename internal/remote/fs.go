package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/virel/pagesmith/internal/apperr"
)

// FS implements Provider on a local directory holding a checkout of the
// blog repository. It is the development and test store: revisions are
// hex SHA-256 digests of file content, and the same conflict semantics
// apply as with the GitHub store. Commit messages are ignored.
type FS struct {
	root string // absolute path to the content directory
}

// NewFS creates an FS store rooted at the given directory, which must
// already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("remote: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("remote: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("remote: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute content directory.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the root and rejects any
// result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: absolute paths not allowed: %s", apperr.ErrRemoteRejected, rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("remote: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("%w: path escapes content root: %s", apperr.ErrRemoteRejected, rel)
	}
	return abs, nil
}

// Get returns the file at path with its content digest as revision.
func (f *FS) Get(_ context.Context, path string) (*File, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, path)
		}
		return nil, fmt.Errorf("remote: read %s: %w", path, err)
	}
	return &File{Path: path, Content: data, Revision: revision(data)}, nil
}

// Put writes content atomically: tmp file, fsync, rename.
func (f *FS) Put(ctx context.Context, path string, content []byte, _ string, expectedRevision string) (*File, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}

	existing, err := f.Get(ctx, path)
	switch {
	case err == nil:
		if expectedRevision == "" {
			return nil, fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, path)
		}
		if existing.Revision != expectedRevision {
			return nil, fmt.Errorf("%w: revision mismatch on %s", apperr.ErrConflict, path)
		}
	case errors.Is(err, apperr.ErrNotFound):
		if expectedRevision != "" {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, path)
		}
	default:
		return nil, err
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("remote: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".pagesmith-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("remote: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return nil, fmt.Errorf("remote: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("remote: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("remote: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return nil, fmt.Errorf("remote: rename: %w", err)
	}
	success = true

	return &File{Path: path, Content: content, Revision: revision(content)}, nil
}

// Delete removes the file after checking the expected revision.
func (f *FS) Delete(ctx context.Context, path, expectedRevision, _ string) error {
	existing, err := f.Get(ctx, path)
	if err != nil {
		return err
	}
	if expectedRevision != "" && existing.Revision != expectedRevision {
		return fmt.Errorf("%w: revision mismatch on %s", apperr.ErrConflict, path)
	}
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("remote: delete %s: %w", path, err)
	}
	return nil
}

// List returns the direct children of dir, mirroring the Contents API
// listing shape (non-recursive, file revisions included).
func (f *FS) List(_ context.Context, dir string) ([]Entry, error) {
	abs, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	items, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("remote: list %s: %w", dir, err)
	}

	var entries []Entry
	for _, item := range items {
		rel := item.Name()
		if dir != "" {
			rel = strings.TrimSuffix(dir, "/") + "/" + item.Name()
		}
		e := Entry{Name: item.Name(), Path: rel, Type: TypeFile}
		if item.IsDir() {
			e.Type = TypeDir
		} else {
			data, readErr := os.ReadFile(filepath.Join(abs, item.Name()))
			if readErr != nil {
				continue
			}
			e.Revision = revision(data)
			e.Size = int64(len(data))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// revision returns the hex-encoded SHA-256 digest of data.
func revision(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
