package models

import (
	"time"
)

// EntryKind classifies an object found while walking a root
type EntryKind string

const (
	// KindDirectory is a directory
	KindDirectory EntryKind = "directory"
	// KindFile is a regular file
	KindFile EntryKind = "file"
	// KindOther is anything else: symbolic links, sockets, devices, pipes.
	// Symbolic links are never followed.
	KindOther EntryKind = "other"
)

// Entry is a filesystem object reached while walking a root.
// Entries are recomputed on every run and never persisted.
type Entry struct {
	// RelativePath is the path relative to the root, never empty
	RelativePath string

	// AbsolutePath is the root joined with RelativePath
	AbsolutePath string

	// Kind tells directories, regular files and other objects apart
	Kind EntryKind
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// IsFile reports whether the entry is a regular file
func (e Entry) IsFile() bool {
	return e.Kind == KindFile
}

// Metadata is the snapshot of a file's attributes used for comparison.
// It is queried from the filesystem on demand and never cached across runs.
type Metadata struct {
	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// Mode holds the raw mode word: file type bits plus permission bits
	// (including setuid, setgid and sticky) in the platform's stat layout
	Mode uint32

	// UID and GID are the owning user and group ids
	UID uint32
	GID uint32

	// HasOwner is false on platforms without POSIX ownership
	HasOwner bool
}

// Perm returns the permission bits, including setuid, setgid and sticky
func (m *Metadata) Perm() uint32 {
	return m.Mode & PermMask
}

// PermMask selects the permission bits of a raw mode word
const PermMask = 0o7777
