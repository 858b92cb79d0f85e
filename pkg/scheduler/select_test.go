package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-storage/quarry/pkg/types"
)

const gib = 1 << 30

// fakeSpecs satisfies the Specs read handle with a fixed node set.
type fakeSpecs struct {
	used []types.NodeID
}

func (f *fakeSpecs) VolumeDataNodes(types.VolumeID) []types.NodeID {
	return f.used
}

// fakeProber marks a fixed set of nodes reachable.
type fakeProber struct {
	reachable map[types.NodeID]bool
}

func (f *fakeProber) Probe(_ context.Context, node types.NodeID) bool {
	return f.reachable[node]
}

func poolItem(node types.NodeID, pool types.PoolID, status types.PoolStatus, capacity, used uint64, replicas int) PoolItem {
	item := PoolItem{
		Node: types.Node{ID: node, Status: types.NodeStatusOnline},
		Pool: types.Pool{ID: pool, Node: node, Status: status, Capacity: capacity, Used: used},
	}
	for i := 0; i < replicas; i++ {
		item.Replicas = append(item.Replicas, types.Replica{UUID: types.NewReplicaID(), Pool: pool, Node: node})
	}
	return item
}

func poolIDs(items []PoolItem) []types.PoolID {
	ids := make([]types.PoolID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Pool.ID)
	}
	return ids
}

func TestSelectSuitablePools(t *testing.T) {
	volume := types.VolumeSpec{UUID: types.NewVolumeID(), Size: 8 * gib}

	t.Run("faulted and undersized pools are excluded", func(t *testing.T) {
		// A: faulted with room, B: healthy but too small, C: healthy with room
		candidates := []PoolItem{
			poolItem("node-a", "pool-a", types.PoolStatusFaulted, 10*gib, 0, 0),
			poolItem("node-b", "pool-b", types.PoolStatusOnline, 5*gib, 0, 0),
			poolItem("node-c", "pool-c", types.PoolStatusOnline, 20*gib, 0, 0),
		}

		result := SelectSuitablePools(NewGetSuitablePoolsContext(&fakeSpecs{}, volume), candidates)
		assert.Equal(t, []types.PoolID{"pool-c"}, poolIDs(result))
	})

	t.Run("free space equal to the request is not enough", func(t *testing.T) {
		candidates := []PoolItem{
			poolItem("node-a", "pool-exact", types.PoolStatusOnline, 8*gib, 0, 0),
			poolItem("node-b", "pool-above", types.PoolStatusOnline, 8*gib+1, 0, 0),
		}

		result := SelectSuitablePools(NewGetSuitablePoolsContext(&fakeSpecs{}, volume), candidates)
		assert.Equal(t, []types.PoolID{"pool-above"}, poolIDs(result))
	})

	t.Run("unknown pool health is excluded", func(t *testing.T) {
		candidates := []PoolItem{
			poolItem("node-a", "pool-a", types.PoolStatusUnknown, 100*gib, 0, 0),
		}

		result := SelectSuitablePools(NewGetSuitablePoolsContext(&fakeSpecs{}, volume), candidates)
		assert.Empty(t, result)
	})

	t.Run("offline node is excluded", func(t *testing.T) {
		item := poolItem("node-a", "pool-a", types.PoolStatusOnline, 100*gib, 0, 0)
		item.Node.Status = types.NodeStatusOffline

		result := SelectSuitablePools(NewGetSuitablePoolsContext(&fakeSpecs{}, volume), []PoolItem{item})
		assert.Empty(t, result)
	})

	t.Run("nodes already hosting a replica are excluded", func(t *testing.T) {
		candidates := []PoolItem{
			poolItem("node-a", "pool-a", types.PoolStatusOnline, 100*gib, 0, 0),
			poolItem("node-b", "pool-b", types.PoolStatusOnline, 100*gib, 0, 0),
		}
		specs := &fakeSpecs{used: []types.NodeID{"node-a"}}

		result := SelectSuitablePools(NewGetSuitablePoolsContext(specs, volume), candidates)
		assert.Equal(t, []types.PoolID{"pool-b"}, poolIDs(result))
	})

	t.Run("topology constraint is honored", func(t *testing.T) {
		constrained := volume
		constrained.AllowedNodes = []types.NodeID{"node-b"}
		candidates := []PoolItem{
			poolItem("node-a", "pool-a", types.PoolStatusOnline, 100*gib, 0, 0),
			poolItem("node-b", "pool-b", types.PoolStatusOnline, 100*gib, 0, 0),
		}

		result := SelectSuitablePools(NewGetSuitablePoolsContext(&fakeSpecs{}, constrained), candidates)
		assert.Equal(t, []types.PoolID{"pool-b"}, poolIDs(result))
	})

	t.Run("pools ranked by ascending replica count", func(t *testing.T) {
		candidates := []PoolItem{
			poolItem("node-a", "pool-busy", types.PoolStatusOnline, 100*gib, 0, 3),
			poolItem("node-b", "pool-idle", types.PoolStatusOnline, 100*gib, 0, 0),
			poolItem("node-c", "pool-mid", types.PoolStatusOnline, 100*gib, 0, 1),
		}

		result := SelectSuitablePools(NewGetSuitablePoolsContext(&fakeSpecs{}, volume), candidates)
		assert.Equal(t, []types.PoolID{"pool-idle", "pool-mid", "pool-busy"}, poolIDs(result))
	})

	t.Run("no candidates yields empty, not an error", func(t *testing.T) {
		result := SelectSuitablePools(NewGetSuitablePoolsContext(&fakeSpecs{}, volume), nil)
		assert.Empty(t, result)
	})
}

func childItem(replica types.ReplicaID, node types.NodeID, size uint64, status types.ReplicaStatus, healthy *bool) ChildItem {
	item := ChildItem{
		Replica: types.ReplicaSpec{UUID: replica, Size: size},
		State:   types.Replica{UUID: replica, Node: node, Size: size, Status: status},
	}
	if healthy != nil {
		item.Info = &types.ChildInfo{UUID: replica, Healthy: *healthy}
	}
	return item
}

func boolPtr(b bool) *bool { return &b }

func childIDs(items []ChildItem) []types.ReplicaID {
	ids := make([]types.ReplicaID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Replica.UUID)
	}
	return ids
}

func TestSelectNexusChildren(t *testing.T) {
	nexus := types.NexusSpec{UUID: types.NewNexusID(), Node: "target", Size: 1 * gib}

	t.Run("first creation trusts every online candidate", func(t *testing.T) {
		request := NewGetPersistedNexusChildrenCtx(nexus, nil)
		require.True(t, request.FirstCreate())

		candidates := []ChildItem{
			childItem("r-remote", "other", 1*gib, types.ReplicaStatusOnline, nil),
			childItem("r-local", "target", 1*gib, types.ReplicaStatusOnline, nil),
		}

		result := SelectNexusChildren(context.Background(), request, candidates)
		assert.Equal(t, []types.ReplicaID{"r-local", "r-remote"}, childIDs(result),
			"local candidate must sort first")
	})

	t.Run("recreation excludes children not recorded healthy", func(t *testing.T) {
		info := &types.NexusInfo{
			Clean: true,
			Children: []types.ChildInfo{
				{UUID: "r-healthy", Healthy: true},
				{UUID: "r-stale", Healthy: false},
			},
		}
		request := NewGetPersistedNexusChildrenCtx(nexus, info)

		candidates := []ChildItem{
			childItem("r-healthy", "other", 1*gib, types.ReplicaStatusOnline, boolPtr(true)),
			childItem("r-stale", "target", 1*gib, types.ReplicaStatusOnline, boolPtr(false)),
			childItem("r-unrecorded", "other", 1*gib, types.ReplicaStatusOnline, nil),
		}

		result := SelectNexusChildren(context.Background(), request, candidates)
		assert.Equal(t, []types.ReplicaID{"r-healthy"}, childIDs(result))
	})

	t.Run("offline or undersized replicas are excluded", func(t *testing.T) {
		request := NewGetPersistedNexusChildrenCtx(nexus, nil)

		candidates := []ChildItem{
			childItem("r-offline", "target", 1*gib, types.ReplicaStatusFaulted, nil),
			childItem("r-small", "target", gib/2, types.ReplicaStatusOnline, nil),
			childItem("r-ok", "other", 1*gib, types.ReplicaStatusOnline, nil),
		}

		result := SelectNexusChildren(context.Background(), request, candidates)
		assert.Equal(t, []types.ReplicaID{"r-ok"}, childIDs(result))
	})

	t.Run("prober drops candidates on unreachable nodes", func(t *testing.T) {
		prober := &fakeProber{reachable: map[types.NodeID]bool{"target": true}}
		request := NewGetPersistedNexusChildrenCtx(nexus, nil).WithProber(prober)

		candidates := []ChildItem{
			childItem("r-reachable", "target", 1*gib, types.ReplicaStatusOnline, nil),
			childItem("r-dark", "dark-node", 1*gib, types.ReplicaStatusOnline, nil),
		}

		result := SelectNexusChildren(context.Background(), request, candidates)
		assert.Equal(t, []types.ReplicaID{"r-reachable"}, childIDs(result))
	})

	t.Run("without a prober liveness is not re-validated", func(t *testing.T) {
		request := NewGetPersistedNexusChildrenCtx(nexus, nil)

		result := SelectNexusChildren(context.Background(), request,
			[]ChildItem{childItem("r-1", "anywhere", 1*gib, types.ReplicaStatusOnline, nil)})
		assert.Len(t, result, 1)
	})
}

func addItem(replica types.ReplicaID, node types.NodeID, size uint64, status types.ReplicaStatus, healthy *bool, free uint64) ChildItem {
	item := childItem(replica, node, size, status, healthy)
	item.Pool = types.Pool{ID: types.PoolID("pool-" + string(replica)), Node: node, Capacity: free, Used: 0}
	return item
}

func TestSelectReplicaToAdd(t *testing.T) {
	volume := types.VolumeSpec{UUID: types.NewVolumeID(), Size: 1 * gib}
	nexus := types.NexusSpec{UUID: types.NewNexusID(), Node: "target", Size: 1 * gib}
	request := NewVolumeReplicasForNexusCtx(volume, nexus)

	t.Run("locality dominates recorded health", func(t *testing.T) {
		candidates := []ChildItem{
			addItem("r-remote-healthy", "other", 1*gib, types.ReplicaStatusOnline, boolPtr(true), 10*gib),
			addItem("r-local-unhealthy", "target", 1*gib, types.ReplicaStatusOnline, boolPtr(false), 10*gib),
		}

		result := SelectReplicaToAdd(request, candidates)
		assert.Equal(t, []types.ReplicaID{"r-local-unhealthy", "r-remote-healthy"}, childIDs(result))
	})

	t.Run("health dominates free space", func(t *testing.T) {
		candidates := []ChildItem{
			addItem("r-unhealthy-roomy", "other", 1*gib, types.ReplicaStatusOnline, boolPtr(false), 100*gib),
			addItem("r-healthy-tight", "other", 1*gib, types.ReplicaStatusOnline, boolPtr(true), 2*gib),
		}

		result := SelectReplicaToAdd(request, candidates)
		assert.Equal(t, []types.ReplicaID{"r-healthy-tight", "r-unhealthy-roomy"}, childIDs(result))
	})

	t.Run("larger free space ranks first on full tie", func(t *testing.T) {
		candidates := []ChildItem{
			addItem("r-tight", "other", 1*gib, types.ReplicaStatusOnline, boolPtr(true), 2*gib),
			addItem("r-roomy", "other", 1*gib, types.ReplicaStatusOnline, boolPtr(true), 50*gib),
		}

		result := SelectReplicaToAdd(request, candidates)
		assert.Equal(t, []types.ReplicaID{"r-roomy", "r-tight"}, childIDs(result))
	})

	t.Run("offline and undersized replicas are excluded", func(t *testing.T) {
		candidates := []ChildItem{
			addItem("r-offline", "target", 1*gib, types.ReplicaStatusDegraded, boolPtr(true), 10*gib),
			addItem("r-small", "target", gib/2, types.ReplicaStatusOnline, boolPtr(true), 10*gib),
		}

		result := SelectReplicaToAdd(request, candidates)
		assert.Empty(t, result)
	})

	t.Run("full ordering is transitive across criteria", func(t *testing.T) {
		candidates := []ChildItem{
			addItem("r-remote-unhealthy", "other", 1*gib, types.ReplicaStatusOnline, boolPtr(false), 100*gib),
			addItem("r-remote-healthy", "other", 1*gib, types.ReplicaStatusOnline, boolPtr(true), 2*gib),
			addItem("r-local-tight", "target", 1*gib, types.ReplicaStatusOnline, boolPtr(true), 2*gib),
			addItem("r-local-roomy", "target", 1*gib, types.ReplicaStatusOnline, boolPtr(true), 50*gib),
		}

		result := SelectReplicaToAdd(request, candidates)
		assert.Equal(t, []types.ReplicaID{
			"r-local-roomy", "r-local-tight", "r-remote-healthy", "r-remote-unhealthy",
		}, childIDs(result))
	})
}

func removalItem(replica types.ReplicaID, share types.Protocol, attached bool, state *types.Child) ReplicaItem {
	item := ReplicaItem{
		Spec:  types.ReplicaSpec{UUID: replica, Share: share},
		State: &types.Replica{UUID: replica, Status: types.ReplicaStatusOnline},
	}
	if attached {
		item.ChildSpec = &types.NexusChild{
			Replica: &types.ReplicaURI{UUID: replica, URI: types.ChildURI("bdev:///" + string(replica))},
		}
		item.ChildState = state
	}
	return item
}

func child(state types.ChildState, rebuild int) *types.Child {
	return &types.Child{State: state, RebuildProgress: rebuild}
}

func removalIDs(items []ReplicaItem) []types.ReplicaID {
	ids := make([]types.ReplicaID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Spec.UUID)
	}
	return ids
}

func TestSelectReplicaToRemove(t *testing.T) {
	t.Run("attached replicas are removed before detached ones", func(t *testing.T) {
		result := SelectReplicaToRemove([]ReplicaItem{
			removalItem("r-detached", types.ProtocolNone, false, nil),
			removalItem("r-attached", types.ProtocolNone, true, child(types.ChildStateOnline, types.NoRebuild)),
		})

		assert.Equal(t, []types.ReplicaID{"r-attached", "r-detached"}, removalIDs(result))
	})

	t.Run("the unhealthiest child goes first", func(t *testing.T) {
		result := SelectReplicaToRemove([]ReplicaItem{
			removalItem("r-online", types.ProtocolNvmf, true, child(types.ChildStateOnline, types.NoRebuild)),
			removalItem("r-faulted", types.ProtocolNvmf, true, child(types.ChildStateFaulted, types.NoRebuild)),
			removalItem("r-degraded", types.ProtocolNvmf, true, child(types.ChildStateDegraded, 40)),
		})

		assert.Equal(t, []types.ReplicaID{"r-faulted", "r-degraded", "r-online"}, removalIDs(result))
	})

	t.Run("equal health removes the least-rebuilt child", func(t *testing.T) {
		result := SelectReplicaToRemove([]ReplicaItem{
			removalItem("r-far", types.ProtocolNvmf, true, child(types.ChildStateDegraded, 80)),
			removalItem("r-early", types.ProtocolNvmf, true, child(types.ChildStateDegraded, 10)),
		})

		assert.Equal(t, []types.ReplicaID{"r-early", "r-far"}, removalIDs(result))
	})

	t.Run("incomparable health falls back to rebuild progress", func(t *testing.T) {
		// unknown vs online cannot be ranked by health alone
		result := SelectReplicaToRemove([]ReplicaItem{
			removalItem("r-online", types.ProtocolNvmf, true, child(types.ChildStateOnline, 90)),
			removalItem("r-unknown", types.ProtocolNvmf, true, child(types.ChildStateUnknown, 10)),
		})

		assert.Equal(t, []types.ReplicaID{"r-unknown", "r-online"}, removalIDs(result))
	})

	t.Run("a child with reported state goes before one without", func(t *testing.T) {
		result := SelectReplicaToRemove([]ReplicaItem{
			removalItem("r-stateless", types.ProtocolNvmf, true, nil),
			removalItem("r-stateful", types.ProtocolNvmf, true, child(types.ChildStateOnline, types.NoRebuild)),
		})

		assert.Equal(t, []types.ReplicaID{"r-stateful", "r-stateless"}, removalIDs(result))
	})

	t.Run("local replicas are retained on full tie", func(t *testing.T) {
		result := SelectReplicaToRemove([]ReplicaItem{
			removalItem("r-local", types.ProtocolNone, true, child(types.ChildStateOnline, types.NoRebuild)),
			removalItem("r-shared", types.ProtocolNvmf, true, child(types.ChildStateOnline, types.NoRebuild)),
		})

		assert.Equal(t, []types.ReplicaID{"r-shared", "r-local"}, removalIDs(result))
	})
}

func nexusChild(uri types.ChildURI, replica *types.ReplicaSpec, state *types.Child) NexusChildItem {
	return NexusChildItem{URI: uri, Replica: replica, State: state}
}

func TestSelectNexusChildForRemoval(t *testing.T) {
	shared := &types.ReplicaSpec{UUID: "r-shared", Share: types.ProtocolNvmf}
	local := &types.ReplicaSpec{UUID: "r-local", Share: types.ProtocolNone}

	t.Run("generic URI children are removed before replica-backed ones", func(t *testing.T) {
		result := SelectNexusChildForRemoval([]NexusChildItem{
			nexusChild("bdev:///r-shared", shared, child(types.ChildStateOnline, types.NoRebuild)),
			nexusChild("nvmf://generic", nil, child(types.ChildStateOnline, types.NoRebuild)),
		})

		require.Len(t, result, 2)
		assert.Equal(t, types.ChildURI("nvmf://generic"), result[0].URI)
	})

	t.Run("children without reported state go first", func(t *testing.T) {
		result := SelectNexusChildForRemoval([]NexusChildItem{
			nexusChild("bdev:///a", shared, child(types.ChildStateOnline, types.NoRebuild)),
			nexusChild("bdev:///b", shared, nil),
		})

		require.Len(t, result, 2)
		assert.Equal(t, types.ChildURI("bdev:///b"), result[0].URI)
	})

	t.Run("the unhealthiest child goes first", func(t *testing.T) {
		result := SelectNexusChildForRemoval([]NexusChildItem{
			nexusChild("bdev:///online", shared, child(types.ChildStateOnline, types.NoRebuild)),
			nexusChild("bdev:///faulted", shared, child(types.ChildStateFaulted, types.NoRebuild)),
		})

		require.Len(t, result, 2)
		assert.Equal(t, types.ChildURI("bdev:///faulted"), result[0].URI)
	})

	t.Run("local children are retained on tie", func(t *testing.T) {
		result := SelectNexusChildForRemoval([]NexusChildItem{
			nexusChild("bdev:///local", local, child(types.ChildStateOnline, types.NoRebuild)),
			nexusChild("nvmf://shared", shared, child(types.ChildStateOnline, types.NoRebuild)),
		})

		require.Len(t, result, 2)
		assert.Equal(t, types.ChildURI("nvmf://shared"), result[0].URI)
	})
}

func TestVolumeReplicasByNode(t *testing.T) {
	volume := types.VolumeSpec{UUID: types.NewVolumeID(), Size: 1 * gib}
	nexus := types.NexusSpec{UUID: types.NewNexusID(), Node: "target"}
	request := NewVolumeReplicasForNexusCtx(volume, nexus)

	groups := VolumeReplicasByNode(request, []ChildItem{
		childItem("r-1", "node-a", 1*gib, types.ReplicaStatusOnline, nil),
		childItem("r-2", "node-b", 1*gib, types.ReplicaStatusOnline, nil),
		childItem("r-3", "node-a", 1*gib, types.ReplicaStatusOnline, nil),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, []types.ReplicaID{"r-1", "r-3"}, childIDs(groups["node-a"]))
	assert.Equal(t, []types.ReplicaID{"r-2"}, childIDs(groups["node-b"]))
}
