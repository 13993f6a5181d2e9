// Package apperr defines the sentinel errors shared across the service.
// Handlers translate them to HTTP status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound means the requested path does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means a create collided with an existing path.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict means the supplied revision is stale. The caller must
	// re-fetch and re-apply its change; nothing here retries on its own.
	ErrConflict = errors.New("conflict")
	// ErrMalformedDocument means the document itself is invalid
	// (unterminated front matter, or a post without any).
	ErrMalformedDocument = errors.New("malformed document")
	// ErrRemoteUnavailable wraps transient store failures (5xx, timeouts).
	// Safe for the caller to retry with backoff.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrRemoteRejected wraps non-retryable store rejections (4xx other
	// than not-found and conflict).
	ErrRemoteRejected = errors.New("remote rejected")
	// ErrUnauthorized means the request carries no valid credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the identity is authenticated but not allowed in.
	ErrForbidden = errors.New("forbidden")
)
