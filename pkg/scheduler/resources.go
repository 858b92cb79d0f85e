package scheduler

import (
	"github.com/quarry-storage/quarry/pkg/types"
)

// PoolItem joins a pool's live state with its node and the replicas it
// currently hosts. Items are built per scheduling call from a cache
// snapshot and discarded after use.
type PoolItem struct {
	Node     types.Node
	Pool     types.Pool
	Replicas []types.Replica
}

// ReplicaCount returns the number of replicas currently carved from the pool.
func (p *PoolItem) ReplicaCount() int {
	return len(p.Replicas)
}

// ChildItem joins a replica spec with its live state, the state of the
// pool it lives on and the persisted child health record, if any. It is
// the candidate unit for nexus child selection and replica addition.
type ChildItem struct {
	Replica types.ReplicaSpec
	State   types.Replica
	Pool    types.Pool
	Info    *types.ChildInfo
}

// RecordedHealthy reports whether a prior rebuild marked the child healthy.
// A candidate without a record is not considered healthy.
func (c *ChildItem) RecordedHealthy() bool {
	return c.Info != nil && c.Info.Healthy
}

// ReplicaItem is a removal candidate when shrinking a volume: a replica
// spec joined with its live state and, when the replica is attached to a
// nexus as a child, the child spec and child state.
type ReplicaItem struct {
	Spec       types.ReplicaSpec
	State      *types.Replica
	ChildSpec  *types.NexusChild
	ChildState *types.Child
}

// Attached reports whether the replica is currently a nexus child.
func (r *ReplicaItem) Attached() bool {
	return r.ChildSpec != nil
}

// NexusChildItem is a removal candidate when repairing a nexus: a child
// URI, the backing replica spec when the child is replica-backed, and the
// child's live state when reported.
type NexusChildItem struct {
	Replica *types.ReplicaSpec
	URI     types.ChildURI
	State   *types.Child
}

// ReplicaBacked reports whether the child is backed by a managed replica
// rather than a generic URI.
func (n *NexusChildItem) ReplicaBacked() bool {
	return n.Replica != nil
}

// Local reports whether the backing replica is unshared, i.e. local to the
// nexus node. Generic URI children are never local.
func (n *NexusChildItem) Local() bool {
	return n.Replica != nil && !n.Replica.Share.Shared()
}
