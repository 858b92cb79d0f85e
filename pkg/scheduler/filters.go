package scheduler

import (
	"context"
)

// NodeFilters groups the node eligibility predicates used for replica
// placement.
var NodeFilters nodeFilters

type nodeFilters struct{}

// Online only allows nodes that are currently reachable.
func (nodeFilters) Online(_ *GetSuitablePoolsContext, item PoolItem) bool {
	return item.Node.Online()
}

// Allowed only allows nodes permitted by the volume topology. An empty
// constraint is unconstrained.
func (nodeFilters) Allowed(request *GetSuitablePoolsContext, item PoolItem) bool {
	return request.AllowsNode(item.Pool.Node)
}

// Unused only allows nodes not already hosting a replica of the volume:
// one replica per node per volume.
func (nodeFilters) Unused(request *GetSuitablePoolsContext, item PoolItem) bool {
	for _, used := range request.UsedNodes() {
		if used == item.Pool.Node {
			return false
		}
	}
	return true
}

// PoolFilters groups the pool eligibility predicates used for replica
// placement.
var PoolFilters poolFilters

type poolFilters struct{}

// FreeSpace only allows pools with free space strictly greater than the
// requested size.
func (poolFilters) FreeSpace(request *GetSuitablePoolsContext, item PoolItem) bool {
	return item.Pool.FreeSpace() > request.Size()
}

// Usable only allows pools that are neither faulted nor of unknown health.
func (poolFilters) Usable(_ *GetSuitablePoolsContext, item PoolItem) bool {
	return item.Pool.Usable()
}

// ChildInfoFilters groups the persisted-health predicates for nexus child
// selection.
var ChildInfoFilters childInfoFilters

type childInfoFilters struct{}

// Healthy only allows children recorded healthy by a prior rebuild. On
// first-ever creation there is no record, so all children are deemed
// healthy.
func (childInfoFilters) Healthy(request *GetPersistedNexusChildrenCtx, item ChildItem) bool {
	return request.FirstCreate() || item.RecordedHealthy()
}

// ReplicaFilters groups the live-state predicates for nexus child
// selection.
var ReplicaFilters replicaFilters

type replicaFilters struct{}

// Online only allows children whose replica is online.
func (replicaFilters) Online(_ *GetPersistedNexusChildrenCtx, item ChildItem) bool {
	return item.State.Online()
}

// Size only allows children whose replica is at least the nexus size.
func (replicaFilters) Size(request *GetPersistedNexusChildrenCtx, item ChildItem) bool {
	return item.State.Size >= request.Spec().Size
}

// NodeReachable re-validates the liveness of the candidate's node through
// the context's prober. Without a prober the stage is a no-op.
func (replicaFilters) NodeReachable(ctx context.Context, request *GetPersistedNexusChildrenCtx, item ChildItem) bool {
	if request.prober == nil {
		return true
	}
	return request.prober.Probe(ctx, item.State.Node)
}

// AddReplicaFilters groups the eligibility predicates for growing a volume.
var AddReplicaFilters addReplicaFilters

type addReplicaFilters struct{}

// Online only allows online replicas.
func (addReplicaFilters) Online(_ *VolumeReplicasForNexusCtx, item ChildItem) bool {
	return item.State.Online()
}

// Size only allows replicas at least as large as the volume.
func (addReplicaFilters) Size(request *VolumeReplicasForNexusCtx, item ChildItem) bool {
	return item.State.Size >= request.VolSpec().Size
}
