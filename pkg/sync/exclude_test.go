package sync

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdejongh/replicasync/pkg/models"
)

func TestExcluder(t *testing.T) {
	assert.Nil(t, NewExcluder(nil))
	assert.Nil(t, NewExcluder([]string{""}))

	var none *Excluder
	assert.False(t, none.Excluded("anything", false))
	assert.Empty(t, none.Patterns())

	excluder := NewExcluder([]string{"*.tmp", ".git/", "build/*", "**/cache", "!keep.tmp"})
	assert.Len(t, excluder.Patterns(), 5)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"file.tmp", false, true},
		{filepath.Join("sub", "file.tmp"), false, true},
		{"keep.tmp", false, false},
		{".git", true, true},
		{filepath.Join(".git", "config"), false, true},
		{".gitignore", false, false},
		{filepath.Join("build", "out.bin"), false, true},
		{filepath.Join("a", "b", "cache"), true, true},
		{"main.go", false, false},
		{"", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, excluder.Excluded(tt.path, tt.isDir))
		})
	}

	assert.True(t, excluder.Match(models.Entry{RelativePath: ".git", Kind: models.KindDirectory}))
	assert.False(t, excluder.Match(models.Entry{RelativePath: ".git", Kind: models.KindFile}))
}

func TestErrors(t *testing.T) {
	cause := fs.ErrPermission

	dirErr := &InvalidDirectoryError{Role: "source", Path: "/missing", Err: fs.ErrNotExist}
	assert.ErrorIs(t, dirErr, ErrInvalidDirectory)
	assert.ErrorIs(t, dirErr, fs.ErrNotExist)
	assert.False(t, errors.Is(dirErr, ErrFilesystemOperation))
	assert.Equal(t, "wrong source directory was provided: /missing: file does not exist", dirErr.Error())

	opErr := &OperationError{Op: "chmod", Path: "/replica/a.txt", Err: cause}
	assert.ErrorIs(t, opErr, ErrFilesystemOperation)
	assert.ErrorIs(t, opErr, fs.ErrPermission)
	assert.False(t, errors.Is(opErr, ErrInvalidDirectory))
	assert.Equal(t, "chmod /replica/a.txt: permission denied", opErr.Error())
}
