package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizeRoot returns root with exactly one trailing path separator.
// Calling it on an already normalized root returns the root unchanged.
func NormalizeRoot(root string) string {
	if root == "" {
		return root
	}
	trimmed := strings.TrimRight(root, separators())
	if trimmed == "" {
		// Filesystem root ("/" or "\\")
		return string(filepath.Separator)
	}
	return trimmed + string(filepath.Separator)
}

// RelativePath strips the normalized root prefix from entryPath.
// entryPath must lie under root. An empty result means entryPath is the
// root itself; callers skip it.
func RelativePath(entryPath, root string) string {
	cleanRoot := filepath.Clean(root)
	cleanEntry := filepath.Clean(entryPath)
	if cleanEntry == cleanRoot {
		return ""
	}

	prefix := NormalizeRoot(cleanRoot)
	if strings.HasPrefix(cleanEntry, prefix) {
		return cleanEntry[len(prefix):]
	}

	// Roots such as "./data" lose their leading "./" when cleaned
	rel, err := filepath.Rel(cleanRoot, cleanEntry)
	if err != nil {
		return cleanEntry
	}
	return rel
}

// Join joins a normalized root with a relative path without cleaning away
// the root as given by the caller.
func Join(root, rel string) string {
	if rel == "" {
		return NormalizeRoot(root)
	}
	return NormalizeRoot(root) + filepath.FromSlash(rel)
}

// separators returns the set of characters accepted as separators.
// Windows accepts both slash and backslash.
func separators() string {
	if runtime.GOOS == "windows" {
		return `\/`
	}
	return string(filepath.Separator)
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

// ValidatePath checks if a path is usable as a root on this platform
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	if runtime.GOOS == "windows" && !IsUNCPath(path) {
		for _, char := range []string{"<", ">", "\"", "|", "?", "*"} {
			if strings.Contains(path, char) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
