package compare

import (
	"github.com/sdejongh/replicasync/pkg/models"
)

// MetadataComparator decides staleness from size, mtime, mode and owners.
// Content is never hashed.
type MetadataComparator struct {
	// IgnoreOwnership disables owner/group comparison, e.g. on platforms
	// without POSIX ownership
	IgnoreOwnership bool
}

// NewMetadataComparator creates a new metadata comparator
func NewMetadataComparator(ignoreOwnership bool) *MetadataComparator {
	return &MetadataComparator{IgnoreOwnership: ignoreOwnership}
}

// NeedsUpdate compares two snapshots. Modification times are compared for
// equality, not ordering: a replica newer than source is still stale.
func (c *MetadataComparator) NeedsUpdate(source, replica *models.Metadata) Staleness {
	var s Staleness

	if source.Size != replica.Size || !source.ModTime.Equal(replica.ModTime) {
		s.Content = true
	}

	if source.Perm() != replica.Perm() {
		s.Mode = true
	}

	if !c.IgnoreOwnership && source.HasOwner && replica.HasOwner {
		if source.UID != replica.UID || source.GID != replica.GID {
			s.Owner = true
		}
	}

	return s
}

// Name returns the comparator name
func (c *MetadataComparator) Name() string {
	return "metadata"
}
