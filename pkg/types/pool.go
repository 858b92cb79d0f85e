package types

// PoolStatus represents the current health of a pool.
type PoolStatus int

const (
	// PoolStatusUnknown is the default state before the first report.
	PoolStatusUnknown PoolStatus = iota
	// PoolStatusOnline means the pool is healthy.
	PoolStatusOnline
	// PoolStatusDegraded means the pool is operational but impaired.
	PoolStatusDegraded
	// PoolStatusFaulted means the pool cannot serve IO.
	PoolStatusFaulted
)

// PoolStatusFromInt converts the numeric status reported by the io-engine.
func PoolStatusFromInt(status int32) PoolStatus {
	switch status {
	case 1:
		return PoolStatusOnline
	case 2:
		return PoolStatusDegraded
	case 3:
		return PoolStatusFaulted
	default:
		return PoolStatusUnknown
	}
}

func (s PoolStatus) String() string {
	switch s {
	case PoolStatusOnline:
		return "online"
	case PoolStatusDegraded:
		return "degraded"
	case PoolStatusFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Pool is the live state of a storage pool as reported by its node.
type Pool struct {
	Node     NodeID
	ID       PoolID
	Disks    []string
	Status   PoolStatus
	Capacity uint64
	Used     uint64
}

// FreeSpace returns the unallocated capacity of the pool in bytes.
func (p *Pool) FreeSpace() uint64 {
	if p.Capacity <= p.Used {
		return 0
	}
	return p.Capacity - p.Used
}

// Usable reports whether the pool may receive new replicas.
func (p *Pool) Usable() bool {
	return p.Status != PoolStatusFaulted && p.Status != PoolStatusUnknown
}

// PoolSpec is the desired state of a pool.
type PoolSpec struct {
	Node  NodeID
	ID    PoolID
	Disks []string
}

// CreatePool requests creation of a pool on a node from the given disk devices.
type CreatePool struct {
	Node  NodeID
	ID    PoolID
	Disks []string
}

// DestroyPool requests destruction of a pool.
type DestroyPool struct {
	Node NodeID
	ID   PoolID
}

// ImportPool requests importing an already-provisioned pool, e.g. after a
// node restart where the on-disk pool survived.
type ImportPool struct {
	Node  NodeID
	ID    PoolID
	Disks []string
}
