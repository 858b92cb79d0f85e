package scheduler

import (
	"github.com/quarry-storage/quarry/pkg/types"
)

// PoolSorters groups the pool ranking comparators for replica placement.
var PoolSorters poolSorters

type poolSorters struct{}

// ByReplicaCount spreads load by ranking pools with fewer allocated
// replicas first. Ties keep their input order.
func (poolSorters) ByReplicaCount(a, b PoolItem) int {
	return a.ReplicaCount() - b.ReplicaCount()
}

// ChildItemSorters groups the comparators for nexus child selection at
// creation time.
var ChildItemSorters childItemSorters

type childItemSorters struct{}

// ByLocality ranks children local to the nexus target node before remote
// ones. Locality is the sole criterion: multi-path exposure is
// unsupported, so exactly one child is ultimately chosen.
func (childItemSorters) ByLocality(request *GetPersistedNexusChildrenCtx, a, b ChildItem) int {
	aLocal := a.State.Node == request.TargetNode()
	bLocal := b.State.Node == request.TargetNode()
	switch {
	case aLocal && !bLocal:
		return -1
	case !aLocal && bLocal:
		return 1
	default:
		return 0
	}
}

// AddReplicaSorters groups the comparators for growing a volume.
var AddReplicaSorters addReplicaSorters

type addReplicaSorters struct{}

// Sort ranks add-replica candidates lexicographically:
//  1. replicas local to the nexus node
//  2. replicas recorded healthy by a prior rebuild
//  3. replicas on pools with more free space
func (addReplicaSorters) Sort(request *VolumeReplicasForNexusCtx, a, b ChildItem) int {
	aLocal := a.State.Node == request.NexusSpec().Node
	bLocal := b.State.Node == request.NexusSpec().Node
	switch {
	case aLocal && !bLocal:
		return -1
	case !aLocal && bLocal:
		return 1
	}

	aHealthy := a.RecordedHealthy()
	bHealthy := b.RecordedHealthy()
	switch {
	case aHealthy && !bHealthy:
		return -1
	case !aHealthy && bHealthy:
		return 1
	}

	return cmpUint64(b.Pool.FreeSpace(), a.Pool.FreeSpace())
}

// ChildSorters ranks a volume's replicas for removal when decreasing its
// replica count. The first element of the sorted list is removed.
var ChildSorters childSorters

type childSorters struct{}

// Sort compares replicas by their nexus child first (presence, health
// state, rebuild progress); replicas that tie on all of that are broken by
// locality, retaining local replicas preferentially.
func (s childSorters) Sort(a, b ReplicaItem) int {
	if ord := s.sortByChild(a, b); ord != 0 {
		return ord
	}
	aLocal := a.Spec.Local()
	bLocal := b.Spec.Local()
	switch {
	case aLocal == bLocal:
		return 0
	case aLocal:
		return 1
	default:
		return -1
	}
}

func (childSorters) sortByChild(a, b ReplicaItem) int {
	// multi-path is unsupported, so a replica belongs to at most one nexus
	switch {
	case !a.Attached() && !b.Attached():
		return 0
	case !a.Attached():
		return 1
	case !b.Attached():
		return -1
	}

	switch {
	case a.ChildState != nil && b.ChildState != nil:
		if ord, ok := types.CompareChildState(a.ChildState.State, b.ChildState.State); ok && ord != 0 {
			return ord
		}
		// equal or incomparable health: remove the least-rebuilt child
		return a.ChildState.RebuildProgress - b.ChildState.RebuildProgress
	case a.ChildState != nil:
		return -1
	case b.ChildState != nil:
		return 1
	default:
		return 0
	}
}

// NexusChildSorter ranks the children of a nexus for removal when
// repairing it. The first element of the sorted list is removed.
var NexusChildSorter nexusChildSorter

type nexusChildSorter struct{}

// Sort removes generic URI children first, then children with no reported
// state, then the unhealthiest child, and finally prefers removing a
// non-local child over a local one.
func (nexusChildSorter) Sort(a, b NexusChildItem) int {
	switch {
	case a.ReplicaBacked() && !b.ReplicaBacked():
		return 1
	case !a.ReplicaBacked() && b.ReplicaBacked():
		return -1
	}

	switch {
	case a.State != nil && b.State != nil:
		if ord, ok := types.CompareChildState(a.State.State, b.State.State); ok && ord != 0 {
			return ord
		}
		aLocal := a.Local()
		bLocal := b.Local()
		switch {
		case aLocal == bLocal:
			return 0
		case aLocal:
			return 1
		default:
			return -1
		}
	case a.State != nil:
		return 1
	case b.State != nil:
		return -1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
