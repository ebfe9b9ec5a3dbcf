package compare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sdejongh/replicasync/pkg/models"
)

func baseMetadata() *models.Metadata {
	return &models.Metadata{
		Size:     14,
		ModTime:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Mode:     0o100644,
		UID:      1000,
		GID:      1000,
		HasOwner: true,
	}
}

// TestMetadataComparator tests staleness detection
func TestMetadataComparator(t *testing.T) {
	comparator := NewMetadataComparator(false)

	tests := []struct {
		name   string
		mutate func(m *models.Metadata)
		want   Staleness
	}{
		{
			name:   "Identical",
			mutate: func(m *models.Metadata) {},
			want:   Staleness{},
		},
		{
			name:   "SizeDiffers",
			mutate: func(m *models.Metadata) { m.Size = 20 },
			want:   Staleness{Content: true},
		},
		{
			name:   "ReplicaOlder",
			mutate: func(m *models.Metadata) { m.ModTime = m.ModTime.Add(-time.Hour) },
			want:   Staleness{Content: true},
		},
		{
			name:   "ReplicaNewer",
			mutate: func(m *models.Metadata) { m.ModTime = m.ModTime.Add(time.Hour) },
			want:   Staleness{Content: true},
		},
		{
			name:   "ModeDiffers",
			mutate: func(m *models.Metadata) { m.Mode = 0o100444 },
			want:   Staleness{Mode: true},
		},
		{
			name:   "SetuidDiffers",
			mutate: func(m *models.Metadata) { m.Mode = 0o104644 },
			want:   Staleness{Mode: true},
		},
		{
			name:   "OwnerDiffers",
			mutate: func(m *models.Metadata) { m.UID = 0 },
			want:   Staleness{Owner: true},
		},
		{
			name:   "GroupDiffers",
			mutate: func(m *models.Metadata) { m.GID = 0 },
			want:   Staleness{Owner: true},
		},
		{
			name: "EverythingDiffers",
			mutate: func(m *models.Metadata) {
				m.Size = 1
				m.Mode = 0o100600
				m.UID = 0
			},
			want: Staleness{Content: true, Mode: true, Owner: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := baseMetadata()
			replica := baseMetadata()
			tt.mutate(replica)

			got := comparator.NeedsUpdate(source, replica)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != Staleness{}, got.Any())
		})
	}
}

func TestMetadataComparatorTimezones(t *testing.T) {
	source := baseMetadata()
	replica := baseMetadata()
	replica.ModTime = replica.ModTime.In(time.FixedZone("CET", 3600))

	assert.False(t, NewMetadataComparator(false).NeedsUpdate(source, replica).Content)
}

func TestMetadataComparatorOwnershipGate(t *testing.T) {
	source := baseMetadata()
	replica := baseMetadata()
	replica.UID = 0

	t.Run("IgnoreOwnership", func(t *testing.T) {
		assert.False(t, NewMetadataComparator(true).NeedsUpdate(source, replica).Owner)
	})

	t.Run("PlatformWithoutOwners", func(t *testing.T) {
		source.HasOwner = false
		assert.False(t, NewMetadataComparator(false).NeedsUpdate(source, replica).Owner)
	})
}

func TestMetadataComparatorName(t *testing.T) {
	assert.Equal(t, "metadata", NewMetadataComparator(false).Name())
}
