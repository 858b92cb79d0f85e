package registry

import (
	"fmt"
	"sync"

	"github.com/quarry-storage/quarry/pkg/scheduler"
	"github.com/quarry-storage/quarry/pkg/state"
	"github.com/quarry-storage/quarry/pkg/storage"
	"github.com/quarry-storage/quarry/pkg/types"
)

// Registry aggregates the desired-state specs, the live state cache and
// the persisted nexus-info store, and builds the joined candidate views
// the scheduler consumes. Candidate views are constructed per scheduling
// call and must not be retained across a refresh boundary.
type Registry struct {
	specs  *Specs
	states *state.ResourceStates
	store  storage.NexusInfoStore

	mu    sync.RWMutex
	nodes map[types.NodeID]types.Node
}

// New creates a registry over the given collaborators.
func New(specs *Specs, states *state.ResourceStates, store storage.NexusInfoStore) *Registry {
	return &Registry{
		specs:  specs,
		states: states,
		store:  store,
		nodes:  make(map[types.NodeID]types.Node),
	}
}

// Specs returns the desired-state collection.
func (r *Registry) Specs() *Specs {
	return r.specs
}

// States returns the live state cache.
func (r *Registry) States() *state.ResourceStates {
	return r.states
}

// SetNode records the latest observed liveness of a node.
func (r *Registry) SetNode(node types.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[node.ID] = node
}

// Node returns the latest observed state of a node.
func (r *Registry) Node(id types.NodeID) (types.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	node, ok := r.nodes[id]
	return node, ok
}

// Nodes returns the latest observed state of every node.
func (r *Registry) Nodes() []types.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nodes := make([]types.Node, 0, len(r.nodes))
	for _, node := range r.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

// SuitablePoolsContext builds the placement context for a new replica of
// the volume.
func (r *Registry) SuitablePoolsContext(volume types.VolumeSpec) *scheduler.GetSuitablePoolsContext {
	return scheduler.NewGetSuitablePoolsContext(r.specs, volume)
}

// PoolCandidates joins every cached pool state with its node and the
// replicas it hosts.
func (r *Registry) PoolCandidates() []scheduler.PoolItem {
	pools := r.states.GetPoolStates()
	replicas := r.states.GetReplicaStates()

	byPool := make(map[types.PoolID][]types.Replica)
	for _, replica := range replicas {
		byPool[replica.Pool] = append(byPool[replica.Pool], replica)
	}

	items := make([]scheduler.PoolItem, 0, len(pools))
	for _, pool := range pools {
		node, ok := r.Node(pool.Node)
		if !ok {
			node = types.Node{ID: pool.Node, Status: types.NodeStatusUnknown}
		}
		items = append(items, scheduler.PoolItem{
			Node:     node,
			Pool:     pool,
			Replicas: byPool[pool.ID],
		})
	}
	return items
}

// PersistedNexusChildrenCtx builds the child selection context for a
// nexus, loading its persisted health record. A missing record marks a
// first-ever creation.
func (r *Registry) PersistedNexusChildrenCtx(nexus types.NexusSpec) (*scheduler.GetPersistedNexusChildrenCtx, error) {
	info, err := r.store.GetNexusInfo(nexus.Owner, nexus.UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load nexus info for %s: %w", nexus.UUID, err)
	}
	return scheduler.NewGetPersistedNexusChildrenCtx(nexus, info), nil
}

// NexusChildCandidates joins the volume's replica specs with their live
// state, pool state and the persisted child health records of the nexus.
func (r *Registry) NexusChildCandidates(volume types.VolumeID, nexus types.NexusSpec) ([]scheduler.ChildItem, error) {
	info, err := r.store.GetNexusInfo(nexus.Owner, nexus.UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load nexus info for %s: %w", nexus.UUID, err)
	}

	var items []scheduler.ChildItem
	for _, spec := range r.specs.VolumeReplicas(volume) {
		replica, ok := r.states.GetReplicaState(spec.UUID)
		if !ok {
			// a replica with no reported state cannot become a child
			continue
		}
		pool, _ := r.states.GetPoolState(replica.Pool)

		var childInfo *types.ChildInfo
		if info != nil {
			if c, ok := info.Child(spec.UUID); ok {
				childInfo = &c
			}
		}
		items = append(items, scheduler.ChildItem{
			Replica: spec,
			State:   replica,
			Pool:    pool,
			Info:    childInfo,
		})
	}
	return items, nil
}

// RemovalCandidates joins the volume's replica specs with their live
// state and, when a replica is a child of the given nexus, the child spec
// and child state.
func (r *Registry) RemovalCandidates(volume types.VolumeID, nexus types.NexusSpec) []scheduler.ReplicaItem {
	nexusState, hasState := r.states.GetNexusState(nexus.UUID)

	var items []scheduler.ReplicaItem
	for _, spec := range r.specs.VolumeReplicas(volume) {
		item := scheduler.ReplicaItem{Spec: spec}

		if replica, ok := r.states.GetReplicaState(spec.UUID); ok {
			item.State = &replica
		}
		for i := range nexus.Children {
			child := nexus.Children[i]
			if child.Replica == nil || child.Replica.UUID != spec.UUID {
				continue
			}
			item.ChildSpec = &child
			if hasState {
				if cs, ok := nexusState.Child(child.ChildURI()); ok {
					item.ChildState = &cs
				}
			}
			break
		}
		items = append(items, item)
	}
	return items
}

// NexusChildItems joins the nexus spec children with the replica specs
// backing them and their reported child state.
func (r *Registry) NexusChildItems(nexus types.NexusSpec) []scheduler.NexusChildItem {
	nexusState, hasState := r.states.GetNexusState(nexus.UUID)

	items := make([]scheduler.NexusChildItem, 0, len(nexus.Children))
	for _, child := range nexus.Children {
		item := scheduler.NexusChildItem{URI: child.ChildURI()}

		if child.Replica != nil {
			if spec, ok := r.specs.Replica(child.Replica.UUID); ok {
				item.Replica = &spec
			}
		}
		if hasState {
			if cs, ok := nexusState.Child(child.ChildURI()); ok {
				item.State = &cs
			}
		}
		items = append(items, item)
	}
	return items
}
