package types

// ReplicaStatus represents the current health of a replica.
type ReplicaStatus int

const (
	ReplicaStatusUnknown ReplicaStatus = iota
	ReplicaStatusOnline
	ReplicaStatusDegraded
	ReplicaStatusFaulted
)

// ReplicaStatusFromInt converts the numeric status reported by the io-engine.
func ReplicaStatusFromInt(status int32) ReplicaStatus {
	switch status {
	case 1:
		return ReplicaStatusOnline
	case 2:
		return ReplicaStatusDegraded
	case 3:
		return ReplicaStatusFaulted
	default:
		return ReplicaStatusUnknown
	}
}

func (s ReplicaStatus) String() string {
	switch s {
	case ReplicaStatusOnline:
		return "online"
	case ReplicaStatusDegraded:
		return "degraded"
	case ReplicaStatusFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Replica is the live state of a replica as reported by its node.
type Replica struct {
	Node   NodeID
	UUID   ReplicaID
	Pool   PoolID
	Thin   bool
	Size   uint64
	Share  Protocol
	URI    string
	Status ReplicaStatus
}

// Online reports whether the replica is healthy.
func (r *Replica) Online() bool {
	return r.Status == ReplicaStatusOnline
}

// ReplicaOwners records which higher-level resources claim a replica.
type ReplicaOwners struct {
	Volume  *VolumeID
	Nexuses []NexusID
}

// OwnedByVolume reports whether the given volume owns the replica.
func (o *ReplicaOwners) OwnedByVolume(id VolumeID) bool {
	return o.Volume != nil && *o.Volume == id
}

// ReplicaSpec is the desired state of a replica.
type ReplicaSpec struct {
	UUID   ReplicaID
	Size   uint64
	Pool   PoolID
	Share  Protocol
	Thin   bool
	Owners ReplicaOwners
}

// Local reports whether the replica is only accessible on its own node,
// i.e. it is not shared over a network protocol.
func (s *ReplicaSpec) Local() bool {
	return !s.Share.Shared()
}

// CreateReplica requests creation of a replica on a pool.
type CreateReplica struct {
	Node    NodeID
	UUID    ReplicaID
	Pool    PoolID
	Size    uint64
	Thin    bool
	Share   Protocol
	Managed bool
	Owners  ReplicaOwners
}

// DestroyReplica requests destruction of a replica.
type DestroyReplica struct {
	Node NodeID
	UUID ReplicaID
	Pool PoolID
}
