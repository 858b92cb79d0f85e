package types

import (
	"github.com/google/uuid"
)

// NodeID identifies an io-engine instance.
type NodeID string

// PoolID identifies a storage pool on a node.
type PoolID string

// ReplicaID is the UUID of a replica.
type ReplicaID string

// NexusID is the UUID of a nexus.
type NexusID string

// VolumeID is the UUID of a volume.
type VolumeID string

// ChildURI is the URI through which a nexus accesses one of its children
// (e.g. bdev:///name for a local replica, nvmf:// for a remote one).
type ChildURI string

// NewReplicaID generates a fresh replica UUID.
func NewReplicaID() ReplicaID {
	return ReplicaID(uuid.New().String())
}

// NewNexusID generates a fresh nexus UUID.
func NewNexusID() NexusID {
	return NexusID(uuid.New().String())
}

// NewVolumeID generates a fresh volume UUID.
func NewVolumeID() VolumeID {
	return VolumeID(uuid.New().String())
}
