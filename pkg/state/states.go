package state

import (
	"github.com/quarry-storage/quarry/pkg/types"
)

// ResourceStates caches the latest observed runtime state of nexuses,
// pools and replicas. Each class is refreshed wholesale and independently:
// a single-class read never mixes snapshots, but a decision joining two
// classes may observe snapshots from different refresh instants. That
// relaxation is accepted; a decision made against a slightly stale join is
// rejected by the node when executed and the caller re-runs selection.
//
// The cache holds only the most recent snapshot, never history, and no
// policy: it is a pure state holder.
type ResourceStates struct {
	nexuses  *ResourceMap[types.NexusID, types.Nexus]
	pools    *ResourceMap[types.PoolID, types.Pool]
	replicas *ResourceMap[types.ReplicaID, types.Replica]
}

// NewResourceStates creates an empty cache.
func NewResourceStates() *ResourceStates {
	return &ResourceStates{
		nexuses:  NewResourceMap[types.NexusID, types.Nexus](),
		pools:    NewResourceMap[types.PoolID, types.Pool](),
		replicas: NewResourceMap[types.ReplicaID, types.Replica](),
	}
}

// Update refreshes every resource class from a full node report.
func (s *ResourceStates) Update(pools []types.Pool, replicas []types.Replica, nexuses []types.Nexus) {
	s.UpdateReplicas(replicas)
	s.UpdatePools(pools)
	s.UpdateNexuses(nexuses)
}

// UpdateNexuses atomically replaces the nexus snapshot.
func (s *ResourceStates) UpdateNexuses(nexuses []types.Nexus) {
	s.nexuses.Replace(nexuses, func(n types.Nexus) types.NexusID { return n.UUID })
}

// GetNexusStates returns detached copies of every cached nexus state.
func (s *ResourceStates) GetNexusStates() []types.Nexus {
	return s.nexuses.Values()
}

// GetNexusState returns a detached copy of one nexus state.
func (s *ResourceStates) GetNexusState(id types.NexusID) (types.Nexus, bool) {
	entry, ok := s.nexuses.Get(id)
	if !ok {
		return types.Nexus{}, false
	}
	return entry.Value(), true
}

// UpdatePools atomically replaces the pool snapshot.
func (s *ResourceStates) UpdatePools(pools []types.Pool) {
	s.pools.Replace(pools, func(p types.Pool) types.PoolID { return p.ID })
}

// GetPoolStates returns detached copies of every cached pool state.
func (s *ResourceStates) GetPoolStates() []types.Pool {
	return s.pools.Values()
}

// GetPoolState returns a detached copy of one pool state.
func (s *ResourceStates) GetPoolState(id types.PoolID) (types.Pool, bool) {
	entry, ok := s.pools.Get(id)
	if !ok {
		return types.Pool{}, false
	}
	return entry.Value(), true
}

// UpdateReplicas atomically replaces the replica snapshot.
func (s *ResourceStates) UpdateReplicas(replicas []types.Replica) {
	s.replicas.Replace(replicas, func(r types.Replica) types.ReplicaID { return r.UUID })
}

// GetReplicaStates returns detached copies of every cached replica state.
func (s *ResourceStates) GetReplicaStates() []types.Replica {
	return s.replicas.Values()
}

// GetReplicaState returns a detached copy of one replica state.
func (s *ResourceStates) GetReplicaState(id types.ReplicaID) (types.Replica, bool) {
	entry, ok := s.replicas.Get(id)
	if !ok {
		return types.Replica{}, false
	}
	return entry.Value(), true
}

// ClearAll resets every class, used on full resync or failover.
func (s *ResourceStates) ClearAll() {
	s.nexuses.Clear()
	s.pools.Clear()
	s.replicas.Clear()
}
