package compare

import (
	"github.com/sdejongh/replicasync/pkg/models"
)

// Staleness tells which aspects of a replica file no longer match source
type Staleness struct {
	// Content is set when size or modification time differ
	Content bool
	// Mode is set when permission bits differ
	Mode bool
	// Owner is set when owning user or group differ
	Owner bool
}

// Any reports whether at least one aspect is stale
func (s Staleness) Any() bool {
	return s.Content || s.Mode || s.Owner
}

// Comparator defines the interface for metadata comparison
type Comparator interface {
	// NeedsUpdate compares a source and replica snapshot. It must not
	// touch the filesystem.
	NeedsUpdate(source, replica *models.Metadata) Staleness

	// Name returns the name of the comparison method
	Name() string
}
