// Package remote abstracts the versioned file store holding the blog
// repository. The production implementation is the GitHub Contents API;
// a local-directory implementation backs development and tests.
//
// Every stored file is addressed by path and identified by an opaque
// revision token. Mutations take the revision from a prior read and fail
// with apperr.ErrConflict when it has gone stale; creates (empty expected
// revision) fail with apperr.ErrAlreadyExists when the path is taken.
package remote

import "context"

// Entry types returned by List.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// File is a stored file with its content and revision token.
type File struct {
	Path     string
	Content  []byte
	Revision string
}

// Entry describes a directory listing item. Revision may be empty for
// directories.
type Entry struct {
	Name     string
	Path     string
	Type     string
	Revision string
	Size     int64
}

// Provider is the versioned file store interface.
type Provider interface {
	// Get returns the file at path, or apperr.ErrNotFound.
	Get(ctx context.Context, path string) (*File, error)
	// Put writes content to path with a commit message. An empty
	// expectedRevision means create (apperr.ErrAlreadyExists if the path
	// is taken); otherwise update (apperr.ErrConflict if stale,
	// apperr.ErrNotFound if the path is gone). Returns the new revision.
	Put(ctx context.Context, path string, content []byte, message, expectedRevision string) (*File, error)
	// Delete removes the file at path, failing with apperr.ErrConflict if
	// expectedRevision is stale or apperr.ErrNotFound if absent.
	Delete(ctx context.Context, path, expectedRevision, message string) error
	// List returns the direct children of dir (not recursive).
	List(ctx context.Context, dir string) ([]Entry, error)
}
