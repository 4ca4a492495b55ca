package storage

import (
	"context"
	"io"
)

// EvidenceStorage persists inspection and claim photos and hands back opaque
// references. The booking core only ever stores and counts references; it
// never touches raw bytes beyond the initial upload.
type EvidenceStorage interface {
	// Store writes the photo and returns an opaque reference for it.
	Store(ctx context.Context, reader io.Reader, contentType string) (string, error)

	// Exists reports whether a reference resolves to a stored photo, with its
	// size in bytes.
	Exists(ctx context.Context, ref string) (bool, int64, error)

	// Open reads a stored photo back (used by the download handler).
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes a stored photo. Deleting a missing reference is a no-op.
	Delete(ctx context.Context, ref string) error
}
