package sync

import (
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/sdejongh/replicasync/pkg/models"
)

// Excluder matches relative paths against gitignore-style patterns.
// Patterns support:
//   - Simple glob patterns: *.tmp, *.log
//   - Directory patterns: .git/, node_modules/
//   - Path patterns: build/*, **/test/*
//   - Negation: !important.log
//
// A nil Excluder excludes nothing.
type Excluder struct {
	patterns []string
	ignore   *gitignore.GitIgnore
}

// NewExcluder compiles patterns. It returns nil when there is nothing to
// exclude.
func NewExcluder(patterns []string) *Excluder {
	var lines []string
	for _, p := range patterns {
		if p != "" {
			lines = append(lines, p)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	return &Excluder{
		patterns: lines,
		ignore:   gitignore.CompileIgnoreLines(lines...),
	}
}

// Patterns returns the compiled patterns
func (e *Excluder) Patterns() []string {
	if e == nil {
		return nil
	}
	return e.patterns
}

// Excluded reports whether a relative path is excluded. Directory-only
// patterns such as "build/" also match the directory entry itself.
func (e *Excluder) Excluded(relativePath string, isDir bool) bool {
	if e == nil || relativePath == "" {
		return false
	}

	p := filepath.ToSlash(relativePath)
	if e.ignore.MatchesPath(p) {
		return true
	}
	return isDir && e.ignore.MatchesPath(p+"/")
}

// Match adapts the excluder to a walk skip function
func (e *Excluder) Match(entry models.Entry) bool {
	return e.Excluded(entry.RelativePath, entry.IsDir())
}
