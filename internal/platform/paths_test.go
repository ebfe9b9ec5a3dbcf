package platform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sep = string(filepath.Separator)

func TestNormalizeRoot(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"NoSeparator", "data" + sep + "source", "data" + sep + "source" + sep},
		{"TrailingSeparator", "data" + sep + "source" + sep, "data" + sep + "source" + sep},
		{"RepeatedSeparators", "data" + sep + sep + sep, "data" + sep},
		{"FilesystemRoot", sep, sep},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRoot(tt.in))
		})
	}

	t.Run("Idempotent", func(t *testing.T) {
		once := NormalizeRoot("replica")
		assert.Equal(t, once, NormalizeRoot(once))
	})
}

func TestRelativePath(t *testing.T) {
	root := "data" + sep + "source"

	assert.Equal(t, "", RelativePath(root, root))
	assert.Equal(t, "", RelativePath(root+sep, root))
	assert.Equal(t, "a.txt", RelativePath(root+sep+"a.txt", root))
	assert.Equal(t, "sub"+sep+".hidden", RelativePath(root+sep+"sub"+sep+".hidden", root+sep))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "replica"+sep+"sub"+sep+"a.txt", Join("replica", "sub"+sep+"a.txt"))
	assert.Equal(t, "replica"+sep, Join("replica"+sep, ""))
}

func TestValidatePath(t *testing.T) {
	assert.Error(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("some"+sep+"dir"))

	var pathErr *PathError
	assert.ErrorAs(t, ValidatePath(""), &pathErr)
}

func TestRelativePathDotRoot(t *testing.T) {
	root := "." + sep + "data"
	assert.Equal(t, "a.txt", RelativePath("data"+sep+"a.txt", root))
	assert.Equal(t, "", RelativePath("data", root))
}
