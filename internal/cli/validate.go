package cli

import (
	"fmt"
	"path/filepath"
	"strings"
)

// validatePaths rejects replica layouts that can never converge. Existence
// and kind of both roots are checked by the synchronizer on every run.
func validatePaths(source, replica string) error {
	if source == "" {
		return fmt.Errorf("source directory is required (--source or sync.source)")
	}
	if replica == "" {
		return fmt.Errorf("replica directory is required (--replica or sync.replica)")
	}

	// Validate paths are not identical
	sourceAbs, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}

	replicaAbs, err := filepath.Abs(replica)
	if err != nil {
		return fmt.Errorf("failed to resolve replica path: %w", err)
	}

	if sourceAbs == replicaAbs {
		return fmt.Errorf("source and replica cannot be the same: %s", sourceAbs)
	}

	// Validate paths are not nested
	if isWithin(replicaAbs, sourceAbs) {
		return fmt.Errorf("replica cannot be inside source directory")
	}
	if isWithin(sourceAbs, replicaAbs) {
		return fmt.Errorf("source cannot be inside replica directory")
	}

	return nil
}

// isWithin reports whether path lies strictly below dir
func isWithin(path, dir string) bool {
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
