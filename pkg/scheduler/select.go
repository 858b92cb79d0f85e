package scheduler

import (
	"context"

	"github.com/quarry-storage/quarry/pkg/log"
	"github.com/quarry-storage/quarry/pkg/metrics"
	"github.com/quarry-storage/quarry/pkg/types"
)

// Decision point labels used for metrics.
const (
	decisionPool        = "pool"
	decisionNexusChild  = "nexus_child"
	decisionAddReplica  = "add_replica"
	decisionRemove      = "remove_replica"
	decisionChildRemove = "remove_child"
)

// NodeStage is the composite node eligibility stage for replica placement.
func NodeStage(l List[*GetSuitablePoolsContext, PoolItem]) List[*GetSuitablePoolsContext, PoolItem] {
	return l.
		Filter(NodeFilters.Online).
		Filter(NodeFilters.Allowed).
		Filter(NodeFilters.Unused)
}

// PoolStage is the composite pool eligibility stage for replica placement.
func PoolStage(l List[*GetSuitablePoolsContext, PoolItem]) List[*GetSuitablePoolsContext, PoolItem] {
	return l.
		Filter(PoolFilters.Usable).
		Filter(PoolFilters.FreeSpace)
}

// SelectSuitablePools ranks the pools a new replica of the requesting
// volume may be placed on. An empty result means placement is impossible
// under the current constraints.
func SelectSuitablePools(request *GetSuitablePoolsContext, candidates []PoolItem) []PoolItem {
	result := NewList(request, candidates).
		FilterStage(NodeStage).
		FilterStage(PoolStage).
		Sort(PoolSorters.ByReplicaCount).
		Collect()

	observe(decisionPool, len(candidates), len(result))
	if len(result) == 0 {
		logger := log.WithComponent("scheduler")
		logger.Debug().
			Str("volume", string(request.VolumeID())).
			Uint64("size", request.Size()).
			Int("candidates", len(candidates)).
			Msg("no suitable pool")
	}
	return result
}

// SelectNexusChildren ranks the replicas eligible to become children of a
// nexus being created. On first-ever creation every online, sufficiently
// sized candidate is eligible; afterwards only candidates recorded healthy
// by the persisted nexus info pass.
func SelectNexusChildren(ctx context.Context, request *GetPersistedNexusChildrenCtx, candidates []ChildItem) []ChildItem {
	result := NewList(request, candidates).
		Filter(ChildInfoFilters.Healthy).
		Filter(ReplicaFilters.Online).
		Filter(ReplicaFilters.Size).
		FilterContext(ctx, ReplicaFilters.NodeReachable).
		SortContext(ChildItemSorters.ByLocality).
		Collect()

	observe(decisionNexusChild, len(candidates), len(result))
	return result
}

// SelectReplicaToAdd ranks the replicas eligible to be added to an
// existing nexus when growing a volume.
func SelectReplicaToAdd(request *VolumeReplicasForNexusCtx, candidates []ChildItem) []ChildItem {
	result := NewList(request, candidates).
		Filter(AddReplicaFilters.Online).
		Filter(AddReplicaFilters.Size).
		SortContext(AddReplicaSorters.Sort).
		Collect()

	observe(decisionAddReplica, len(candidates), len(result))
	return result
}

// SelectReplicaToRemove ranks a volume's replicas for removal when
// decreasing its replica count. The first element is the removal
// candidate.
func SelectReplicaToRemove(candidates []ReplicaItem) []ReplicaItem {
	result := NewList(struct{}{}, candidates).
		Sort(ChildSorters.Sort).
		Collect()

	observe(decisionRemove, len(candidates), len(result))
	return result
}

// SelectNexusChildForRemoval ranks the children of a nexus for removal
// when repairing it. The first element is the removal candidate.
func SelectNexusChildForRemoval(children []NexusChildItem) []NexusChildItem {
	result := NewList(struct{}{}, children).
		Sort(NexusChildSorter.Sort).
		Collect()

	observe(decisionChildRemove, len(children), len(result))
	return result
}

// VolumeReplicasByNode partitions add-replica candidates by the node their
// replica lives on.
func VolumeReplicasByNode(request *VolumeReplicasForNexusCtx, candidates []ChildItem) map[types.NodeID][]ChildItem {
	return GroupBy(NewList(request, candidates),
		func(_ *VolumeReplicasForNexusCtx, item ChildItem) types.NodeID {
			return item.State.Node
		})
}

func observe(decision string, candidates, selected int) {
	metrics.SelectionsTotal.WithLabelValues(decision).Inc()
	metrics.SelectionCandidates.WithLabelValues(decision).Observe(float64(candidates))
	if selected == 0 {
		metrics.SelectionsEmpty.WithLabelValues(decision).Inc()
	}
}
