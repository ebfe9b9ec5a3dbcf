// Package runlock keeps two processes from synchronizing into the same
// replica at the same time.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrLocked is returned when another process holds the replica
var ErrLocked = errors.New("replica locked by another process")

// Lock is an advisory lock on one replica
type Lock struct {
	flock *flock.Flock
}

// PathFor returns the lock file for a replica. It lives in the OS temp
// directory so it never shows up in either tree.
func PathFor(replica string) (string, error) {
	abs, err := filepath.Abs(replica)
	if err != nil {
		return "", fmt.Errorf("failed to resolve replica path: %w", err)
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs)))
	return filepath.Join(os.TempDir(), "replicasync-"+id.String()+".lock"), nil
}

// Acquire takes the lock for replica without waiting
func Acquire(replica string) (*Lock, error) {
	path, err := PathFor(replica)
	if err != nil {
		return nil, err
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock replica: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	return &Lock{flock: fl}, nil
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.flock.Path()
}

// Release unlocks and removes the lock file
func (l *Lock) Release() error {
	// if this process hasn't locked the replica, then don't delete the lock file
	if !l.flock.Locked() {
		return nil
	}

	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock replica: %w", err)
	}

	return os.Remove(l.flock.Path())
}
