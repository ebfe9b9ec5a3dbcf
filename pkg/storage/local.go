package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/sdejongh/replicasync/internal/platform"
	"github.com/sdejongh/replicasync/pkg/models"
)

const (
	// DefaultBufferSize is the copy buffer used by WriteFile
	DefaultBufferSize = 64 * 1024

	// TempFilePrefix marks in-flight copies inside the replica
	TempFilePrefix = ".replicasync-"

	dirPerm = 0o755
)

// errStopWalk ends a walk when the consumer stops iterating
var errStopWalk = errors.New("walk stopped")

// Local is a filesystem-based storage backend
type Local struct {
	rootPath   string
	bufferSize int
}

// NewLocal creates a new local filesystem backend. The root must exist
// and be a directory; it is kept as given (not made absolute) so paths
// reported for entries keep the caller's spelling.
func NewLocal(rootPath string) (*Local, error) {
	if err := platform.ValidatePath(rootPath); err != nil {
		return nil, err
	}

	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", rootPath)
	}

	return &Local{
		rootPath:   platform.NormalizeRoot(rootPath),
		bufferSize: DefaultBufferSize,
	}, nil
}

// SetBufferSize sets the copy buffer size used by WriteFile
func (l *Local) SetBufferSize(size int) {
	if size > 0 {
		l.bufferSize = size
	}
}

// Root returns the normalized root path
func (l *Local) Root() string {
	return l.rootPath
}

// Path joins the root with a relative path
func (l *Local) Path(rel string) string {
	return platform.Join(l.rootPath, rel)
}

// Walk yields every entry below the root. Symbolic links are reported as
// KindOther and never followed. A directory removed by the consumer while
// it is being yielded is not descended into, and entries that vanish
// mid-walk are skipped silently.
func (l *Local) Walk(ctx context.Context, skip SkipFunc) iter.Seq2[models.Entry, error] {
	return func(yield func(models.Entry, error) bool) {
		err := filepath.WalkDir(l.rootPath, func(p string, d fs.DirEntry, err error) error {
			// Check context cancellation
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rel := platform.RelativePath(p, l.rootPath)

			if err != nil {
				if rel != "" && errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}

			if rel == "" {
				return nil
			}

			entry := models.Entry{
				RelativePath: rel,
				AbsolutePath: p,
				Kind:         kindOf(d.Type()),
			}

			if skip != nil && skip(entry) {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(entry, nil) {
				return errStopWalk
			}

			if entry.IsDir() {
				if _, err := os.Lstat(p); errors.Is(err, fs.ErrNotExist) {
					return filepath.SkipDir
				}
			}

			return nil
		})

		if err != nil && !errors.Is(err, errStopWalk) {
			yield(models.Entry{}, fmt.Errorf("failed to walk %s: %w", l.rootPath, err))
		}
	}
}

// Lookup reports what kind of object exists at rel
func (l *Local) Lookup(ctx context.Context, rel string) (models.EntryKind, bool, error) {
	info, err := os.Lstat(l.Path(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to check existence: %w", err)
	}
	return kindOf(info.Mode().Type()), true, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, rel string) (*models.Metadata, error) {
	meta, err := statMetadata(l.Path(rel))
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return meta, nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, rel string) (io.ReadCloser, error) {
	file, err := os.Open(l.Path(rel))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Mkdir creates a single directory
func (l *Local) Mkdir(ctx context.Context, rel string) error {
	if err := os.Mkdir(l.Path(rel), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// WriteFile copies reader into a temporary sibling of the target, applies
// the metadata and renames it over the target. A read-only target is
// replaced like any other.
func (l *Local) WriteFile(ctx context.Context, rel string, reader io.Reader, metadata *models.Metadata) (int64, error) {
	target := l.Path(rel)

	tmp, err := os.CreateTemp(filepath.Dir(target), TempFilePrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.CopyBuffer(tmp, reader, make([]byte, l.bufferSize))
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return written, fmt.Errorf("failed to write file: %w", err)
	}

	if metadata != nil {
		if written != metadata.Size {
			os.Remove(tmpPath)
			return written, fmt.Errorf("incomplete write: expected %d bytes, wrote %d", metadata.Size, written)
		}
		if err := applyMetadata(tmpPath, metadata); err != nil {
			os.Remove(tmpPath)
			return written, err
		}
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return written, fmt.Errorf("failed to replace file: %w", err)
	}

	return written, nil
}

// Chmod sets the permission bits
func (l *Local) Chmod(ctx context.Context, rel string, mode uint32) error {
	if err := chmod(l.Path(rel), mode&models.PermMask); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	return nil
}

// Chown sets owner and group
func (l *Local) Chown(ctx context.Context, rel string, uid, gid uint32) error {
	if err := chown(l.Path(rel), uid, gid); err != nil {
		return fmt.Errorf("failed to set owners: %w", err)
	}
	return nil
}

// Remove deletes a file, symlink or other non-directory object
func (l *Local) Remove(ctx context.Context, rel string) error {
	err := os.Remove(l.Path(rel))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

// RemoveAll deletes a directory and everything below it
func (l *Local) RemoveAll(ctx context.Context, rel string) error {
	if err := os.RemoveAll(l.Path(rel)); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

// applyMetadata sets owner, then mode, then mtime. Changing the owner may
// clear setuid/setgid, and chmod/chown leave the mtime alone.
func applyMetadata(path string, metadata *models.Metadata) error {
	if metadata.HasOwner && ownershipSupported {
		current, err := statMetadata(path)
		if err != nil {
			return fmt.Errorf("failed to stat file: %w", err)
		}
		if current.UID != metadata.UID || current.GID != metadata.GID {
			if err := chown(path, metadata.UID, metadata.GID); err != nil {
				return fmt.Errorf("failed to set owners: %w", err)
			}
		}
	}

	if err := chmod(path, metadata.Perm()); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if !metadata.ModTime.IsZero() {
		if err := os.Chtimes(path, time.Now(), metadata.ModTime); err != nil {
			return fmt.Errorf("failed to set modification time: %w", err)
		}
	}

	return nil
}

func kindOf(mode fs.FileMode) models.EntryKind {
	switch {
	case mode.IsDir():
		return models.KindDirectory
	case mode.IsRegular():
		return models.KindFile
	default:
		return models.KindOther
	}
}
