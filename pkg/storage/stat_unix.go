//go:build linux || darwin || freebsd

package storage

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"

	"github.com/sdejongh/replicasync/pkg/models"
)

const ownershipSupported = true

func statMetadata(path string) (*models.Metadata, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: err}
	}

	return &models.Metadata{
		Size:     st.Size,
		ModTime:  time.Unix(st.Mtim.Unix()),
		Mode:     uint32(st.Mode),
		UID:      st.Uid,
		GID:      st.Gid,
		HasOwner: true,
	}, nil
}

func chmod(path string, perm uint32) error {
	if err := unix.Chmod(path, perm); err != nil {
		return &fs.PathError{Op: "chmod", Path: path, Err: err}
	}
	return nil
}

func chown(path string, uid, gid uint32) error {
	if err := unix.Lchown(path, int(uid), int(gid)); err != nil {
		return &fs.PathError{Op: "lchown", Path: path, Err: err}
	}
	return nil
}
