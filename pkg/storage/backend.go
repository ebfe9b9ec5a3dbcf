package storage

import (
	"context"
	"io"
	"iter"

	"github.com/sdejongh/replicasync/pkg/models"
)

// SkipFunc reports whether an entry must be left out of a walk.
// A skipped directory is not descended into.
type SkipFunc func(entry models.Entry) bool

// Backend defines the operations the reconciler needs on a tree.
// All relative paths are relative to Root and use the platform separator.
type Backend interface {
	// Root returns the root path, normalized with one trailing separator
	Root() string

	// Path joins Root with a relative path
	Path(rel string) string

	// Walk lazily yields every entry under the root, parents before
	// children, hidden entries included, the root itself excluded.
	// Each call walks the tree as it is on disk at that moment.
	Walk(ctx context.Context, skip SkipFunc) iter.Seq2[models.Entry, error]

	// Lookup reports the kind of the object at rel without following
	// symbolic links. exists is false when nothing is there.
	Lookup(ctx context.Context, rel string) (kind models.EntryKind, exists bool, err error)

	// Stat returns the metadata of the object at rel
	Stat(ctx context.Context, rel string) (*models.Metadata, error)

	// Open opens a file for reading
	Open(ctx context.Context, rel string) (io.ReadCloser, error)

	// Mkdir creates a single directory; its parent must exist
	Mkdir(ctx context.Context, rel string) error

	// WriteFile replaces the file at rel with the reader's content and
	// applies owner, mode and modification time from metadata
	WriteFile(ctx context.Context, rel string, reader io.Reader, metadata *models.Metadata) (int64, error)

	// Chmod sets the permission bits of a raw mode word
	Chmod(ctx context.Context, rel string, mode uint32) error

	// Chown sets owner and group; a no-op where ownership is unsupported
	Chown(ctx context.Context, rel string, uid, gid uint32) error

	// Remove deletes a single non-directory object. Missing objects are not an error.
	Remove(ctx context.Context, rel string) error

	// RemoveAll deletes a directory tree. Missing objects are not an error.
	RemoveAll(ctx context.Context, rel string) error

	// Close releases any resources held by the backend
	Close() error
}

// OwnershipSupported reports whether this platform has POSIX owner and group
func OwnershipSupported() bool {
	return ownershipSupported
}
