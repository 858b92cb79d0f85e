package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-storage/quarry/pkg/events"
	"github.com/quarry-storage/quarry/pkg/registry"
	"github.com/quarry-storage/quarry/pkg/state"
	"github.com/quarry-storage/quarry/pkg/types"
)

// fakeNode is an in-memory NodeClient serving canned listings.
type fakeNode struct {
	node     types.NodeID
	mu       sync.Mutex
	pools    []types.Pool
	replicas []types.Replica
	nexuses  []types.Nexus
	err      error
}

func (f *fakeNode) Node() types.NodeID { return f.node }

func (f *fakeNode) ListPools(ctx context.Context) ([]types.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]types.Pool(nil), f.pools...), nil
}

func (f *fakeNode) ListReplicas(ctx context.Context) ([]types.Replica, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]types.Replica(nil), f.replicas...), nil
}

func (f *fakeNode) ListNexuses(ctx context.Context) ([]types.Nexus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]types.Nexus(nil), f.nexuses...), nil
}

func (f *fakeNode) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeNode) CreatePool(context.Context, *types.CreatePool) (*types.Pool, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeNode) DestroyPool(context.Context, *types.DestroyPool) error {
	return errors.New("not implemented")
}
func (f *fakeNode) ImportPool(context.Context, *types.ImportPool) (*types.Pool, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeNode) CreateReplica(context.Context, *types.CreateReplica) (*types.Replica, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeNode) DestroyReplica(context.Context, *types.DestroyReplica) error {
	return errors.New("not implemented")
}
func (f *fakeNode) CreateNexus(context.Context, *types.CreateNexus) (*types.Nexus, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeNode) DestroyNexus(context.Context, *types.DestroyNexus) error {
	return errors.New("not implemented")
}
func (f *fakeNode) ShareNexus(context.Context, *types.ShareNexus) (string, error) {
	return "", errors.New("not implemented")
}
func (f *fakeNode) UnshareNexus(context.Context, *types.UnshareNexus) error {
	return errors.New("not implemented")
}

func newTestRegistry() *registry.Registry {
	return registry.New(registry.NewSpecs(), state.NewResourceStates(), nil)
}

func TestRefreshPopulatesCache(t *testing.T) {
	reg := newTestRegistry()
	w := New(reg, nil, time.Minute)

	w.AddNode(&fakeNode{
		node:     "node-1",
		pools:    []types.Pool{{ID: "pool-1", Node: "node-1", Status: types.PoolStatusOnline, Capacity: 100, Used: 10}},
		replicas: []types.Replica{{UUID: "replica-1", Node: "node-1", Pool: "pool-1", Status: types.ReplicaStatusOnline}},
	})
	w.AddNode(&fakeNode{
		node:  "node-2",
		pools: []types.Pool{{ID: "pool-2", Node: "node-2", Status: types.PoolStatusDegraded, Capacity: 200, Used: 20}},
	})

	require.NoError(t, w.Refresh(context.Background()))

	assert.Len(t, reg.States().GetPoolStates(), 2)
	assert.Len(t, reg.States().GetReplicaStates(), 1)
	assert.Empty(t, reg.States().GetNexusStates())

	node, ok := reg.Node("node-1")
	require.True(t, ok)
	assert.Equal(t, types.NodeStatusOnline, node.Status)
}

func TestRefreshDropsFailedNode(t *testing.T) {
	reg := newTestRegistry()
	w := New(reg, nil, time.Minute)

	healthy := &fakeNode{
		node:  "node-1",
		pools: []types.Pool{{ID: "pool-1", Node: "node-1", Status: types.PoolStatusOnline}},
	}
	flaky := &fakeNode{
		node:  "node-2",
		pools: []types.Pool{{ID: "pool-2", Node: "node-2", Status: types.PoolStatusOnline}},
	}
	w.AddNode(healthy)
	w.AddNode(flaky)

	require.NoError(t, w.Refresh(context.Background()))
	assert.Len(t, reg.States().GetPoolStates(), 2)

	flaky.fail(errors.New("connection refused"))
	err := w.Refresh(context.Background())
	assert.Error(t, err)

	// the failed node's resources drop out of the snapshot
	pools := reg.States().GetPoolStates()
	require.Len(t, pools, 1)
	assert.Equal(t, types.PoolID("pool-1"), pools[0].ID)

	node, ok := reg.Node("node-2")
	require.True(t, ok)
	assert.Equal(t, types.NodeStatusOffline, node.Status)
}

func TestRefreshPublishesNodeTransitions(t *testing.T) {
	reg := newTestRegistry()
	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()
	sub := broker.Subscribe()

	w := New(reg, broker, time.Minute)
	node := &fakeNode{node: "node-1"}
	w.AddNode(node)

	require.NoError(t, w.Refresh(context.Background()))
	assertEvent(t, sub, events.EventNodeOnline)

	node.fail(errors.New("deadline exceeded"))
	_ = w.Refresh(context.Background())
	assertEvent(t, sub, events.EventNodeOffline)

	// no transition, no node event: next refresh publishes only the
	// per-class refresh events
	_ = w.Refresh(context.Background())
	assertNoEvent(t, sub, events.EventNodeOffline)
}

func assertEvent(t *testing.T, sub events.Subscriber, want events.EventType) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-sub:
			if event.Type == want {
				return
			}
		case <-deadline:
			t.Fatalf("event %s not received", want)
		}
	}
}

func assertNoEvent(t *testing.T, sub events.Subscriber, unwanted events.EventType) {
	t.Helper()
	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case event := <-sub:
			if event.Type == unwanted {
				t.Fatalf("unexpected event %s", unwanted)
			}
		case <-deadline:
			return
		}
	}
}

func TestRemoveNodeDropsResources(t *testing.T) {
	reg := newTestRegistry()
	w := New(reg, nil, time.Minute)

	w.AddNode(&fakeNode{
		node:  "node-1",
		pools: []types.Pool{{ID: "pool-1", Node: "node-1", Status: types.PoolStatusOnline}},
	})
	require.NoError(t, w.Refresh(context.Background()))
	require.Len(t, reg.States().GetPoolStates(), 1)

	w.RemoveNode("node-1")
	require.NoError(t, w.Refresh(context.Background()))
	assert.Empty(t, reg.States().GetPoolStates())
}

func TestStartStop(t *testing.T) {
	reg := newTestRegistry()
	w := New(reg, nil, 10*time.Millisecond)
	w.AddNode(&fakeNode{
		node:  "node-1",
		pools: []types.Pool{{ID: "pool-1", Node: "node-1", Status: types.PoolStatusOnline}},
	})

	w.Start()
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	assert.Len(t, reg.States().GetPoolStates(), 1)
}

func TestProbe(t *testing.T) {
	reg := newTestRegistry()
	w := New(reg, nil, time.Minute)

	node := &fakeNode{node: "node-1"}
	w.AddNode(node)

	assert.True(t, w.Probe(context.Background(), "node-1"))
	assert.False(t, w.Probe(context.Background(), "node-9"))

	node.fail(errors.New("unreachable"))
	assert.False(t, w.Probe(context.Background(), "node-1"))
}
