package storage

import (
	"github.com/quarry-storage/quarry/pkg/types"
)

// NexusInfoStore is read/write access to the persisted nexus health
// records. The scheduler only reads; records are written back from the
// node reports after rebuild completion.
type NexusInfoStore interface {
	// GetNexusInfo looks up the health record for a nexus, keyed by its
	// owning volume (or none for an unmanaged nexus) and its id. A missing
	// record returns (nil, nil): the nexus was never created before.
	GetNexusInfo(owner *types.VolumeID, nexus types.NexusID) (*types.NexusInfo, error)

	// PutNexusInfo stores the health record for a nexus.
	PutNexusInfo(owner *types.VolumeID, nexus types.NexusID, info *types.NexusInfo) error

	// DeleteNexusInfo removes the record when the nexus is destroyed.
	DeleteNexusInfo(owner *types.VolumeID, nexus types.NexusID) error

	// Close releases the underlying database.
	Close() error
}
