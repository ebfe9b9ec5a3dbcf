//go:build !linux && !darwin && !freebsd

package storage

import (
	"io/fs"
	"os"

	"github.com/sdejongh/replicasync/pkg/models"
)

const ownershipSupported = false

// statMetadata builds a mode word from the portable FileMode bits.
// Owner and group are left unset.
func statMetadata(path string) (*models.Metadata, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}

	return &models.Metadata{
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    modeWord(info.Mode()),
	}, nil
}

func modeWord(mode fs.FileMode) uint32 {
	word := uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		word |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		word |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		word |= 0o1000
	}
	return word
}

func chmod(path string, perm uint32) error {
	mode := fs.FileMode(perm & 0o777)
	if perm&0o4000 != 0 {
		mode |= fs.ModeSetuid
	}
	if perm&0o2000 != 0 {
		mode |= fs.ModeSetgid
	}
	if perm&0o1000 != 0 {
		mode |= fs.ModeSticky
	}
	return os.Chmod(path, mode)
}

func chown(path string, uid, gid uint32) error {
	return nil
}
