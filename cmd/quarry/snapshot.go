package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quarry-storage/quarry/pkg/registry"
	"github.com/quarry-storage/quarry/pkg/state"
	"github.com/quarry-storage/quarry/pkg/types"
)

// snapshot is a YAML description of a cluster moment: live states, specs
// and the persisted nexus health record. It feeds the plan subcommands so
// placement decisions can be replayed and inspected offline.
type snapshot struct {
	Nodes []struct {
		ID     string `yaml:"id"`
		Status string `yaml:"status"`
	} `yaml:"nodes"`

	Pools []struct {
		ID       string `yaml:"id"`
		Node     string `yaml:"node"`
		Status   string `yaml:"status"`
		Capacity uint64 `yaml:"capacity"`
		Used     uint64 `yaml:"used"`
	} `yaml:"pools"`

	Replicas []struct {
		UUID   string `yaml:"uuid"`
		Node   string `yaml:"node"`
		Pool   string `yaml:"pool"`
		Size   uint64 `yaml:"size"`
		Status string `yaml:"status"`
		Share  string `yaml:"share"`
		Volume string `yaml:"volume"`
	} `yaml:"replicas"`

	Volume struct {
		UUID         string   `yaml:"uuid"`
		Size         uint64   `yaml:"size"`
		NumReplicas  uint     `yaml:"numReplicas"`
		AllowedNodes []string `yaml:"allowedNodes"`
	} `yaml:"volume"`

	Nexus struct {
		UUID     string `yaml:"uuid"`
		Node     string `yaml:"node"`
		Size     uint64 `yaml:"size"`
		Children []struct {
			Replica string `yaml:"replica"`
			URI     string `yaml:"uri"`
			State   string `yaml:"state"`
			Rebuild *int   `yaml:"rebuild"`
		} `yaml:"children"`
	} `yaml:"nexus"`

	NexusInfo *struct {
		Clean    bool `yaml:"clean"`
		Children []struct {
			UUID    string `yaml:"uuid"`
			Healthy bool   `yaml:"healthy"`
		} `yaml:"children"`
	} `yaml:"nexusInfo"`
}

func loadSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %v", err)
	}
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %v", err)
	}
	return &snap, nil
}

func poolStatus(s string) types.PoolStatus {
	switch s {
	case "online":
		return types.PoolStatusOnline
	case "degraded":
		return types.PoolStatusDegraded
	case "faulted":
		return types.PoolStatusFaulted
	default:
		return types.PoolStatusUnknown
	}
}

func replicaStatus(s string) types.ReplicaStatus {
	switch s {
	case "online":
		return types.ReplicaStatusOnline
	case "degraded":
		return types.ReplicaStatusDegraded
	case "faulted":
		return types.ReplicaStatusFaulted
	default:
		return types.ReplicaStatusUnknown
	}
}

func childState(s string) types.ChildState {
	switch s {
	case "online":
		return types.ChildStateOnline
	case "degraded":
		return types.ChildStateDegraded
	case "faulted":
		return types.ChildStateFaulted
	default:
		return types.ChildStateUnknown
	}
}

// memInfoStore serves the snapshot's nexus health record to the registry.
type memInfoStore struct {
	key  string
	info *types.NexusInfo
}

func (m *memInfoStore) GetNexusInfo(owner *types.VolumeID, nexus types.NexusID) (*types.NexusInfo, error) {
	if m.info != nil && types.NexusInfoKey(owner, nexus) == m.key {
		return m.info, nil
	}
	return nil, nil
}

func (m *memInfoStore) PutNexusInfo(*types.VolumeID, types.NexusID, *types.NexusInfo) error {
	return nil
}

func (m *memInfoStore) DeleteNexusInfo(*types.VolumeID, types.NexusID) error { return nil }
func (m *memInfoStore) Close() error                                        { return nil }

// buildRegistry loads a snapshot into a fresh registry, specs and cache.
func (s *snapshot) buildRegistry() *registry.Registry {
	specs := registry.NewSpecs()
	states := state.NewResourceStates()

	volume := s.volumeSpec()
	nexus := s.nexusSpec()

	store := &memInfoStore{key: types.NexusInfoKey(nexus.Owner, nexus.UUID)}
	if s.NexusInfo != nil {
		info := &types.NexusInfo{Clean: s.NexusInfo.Clean}
		for _, c := range s.NexusInfo.Children {
			info.Children = append(info.Children, types.ChildInfo{
				UUID:    types.ReplicaID(c.UUID),
				Healthy: c.Healthy,
			})
		}
		store.info = info
	}

	reg := registry.New(specs, states, store)

	specs.SetVolume(volume)
	specs.SetNexus(nexus)

	var pools []types.Pool
	for _, p := range s.Pools {
		pools = append(pools, types.Pool{
			ID:       types.PoolID(p.ID),
			Node:     types.NodeID(p.Node),
			Status:   poolStatus(p.Status),
			Capacity: p.Capacity,
			Used:     p.Used,
		})
		specs.SetPool(types.PoolSpec{ID: types.PoolID(p.ID), Node: types.NodeID(p.Node)})
	}

	var replicas []types.Replica
	for _, r := range s.Replicas {
		replicas = append(replicas, types.Replica{
			UUID:   types.ReplicaID(r.UUID),
			Node:   types.NodeID(r.Node),
			Pool:   types.PoolID(r.Pool),
			Size:   r.Size,
			Status: replicaStatus(r.Status),
			Share:  types.Protocol(r.Share),
		})
		spec := types.ReplicaSpec{
			UUID:  types.ReplicaID(r.UUID),
			Pool:  types.PoolID(r.Pool),
			Size:  r.Size,
			Share: types.Protocol(r.Share),
		}
		if r.Volume != "" {
			owner := types.VolumeID(r.Volume)
			spec.Owners = types.ReplicaOwners{Volume: &owner}
		}
		specs.SetReplica(spec)
	}

	var children []types.Child
	for _, c := range s.Nexus.Children {
		uri := c.URI
		if uri == "" {
			uri = "bdev:///" + c.Replica
		}
		rebuild := types.NoRebuild
		if c.Rebuild != nil {
			rebuild = *c.Rebuild
		}
		children = append(children, types.Child{
			URI:             types.ChildURI(uri),
			State:           childState(c.State),
			RebuildProgress: rebuild,
		})
	}
	nexuses := []types.Nexus{{
		UUID:     nexus.UUID,
		Node:     nexus.Node,
		Size:     nexus.Size,
		Children: children,
	}}

	states.Update(pools, replicas, nexuses)

	for _, n := range s.Nodes {
		status := types.NodeStatus(n.Status)
		if status == "" {
			status = types.NodeStatusOnline
		}
		reg.SetNode(types.Node{ID: types.NodeID(n.ID), Status: status})
	}

	return reg
}

func (s *snapshot) volumeSpec() types.VolumeSpec {
	spec := types.VolumeSpec{
		UUID:        types.VolumeID(s.Volume.UUID),
		Size:        s.Volume.Size,
		NumReplicas: s.Volume.NumReplicas,
	}
	for _, n := range s.Volume.AllowedNodes {
		spec.AllowedNodes = append(spec.AllowedNodes, types.NodeID(n))
	}
	return spec
}

func (s *snapshot) nexusSpec() types.NexusSpec {
	owner := types.VolumeID(s.Volume.UUID)
	spec := types.NexusSpec{
		UUID:    types.NexusID(s.Nexus.UUID),
		Node:    types.NodeID(s.Nexus.Node),
		Size:    s.Nexus.Size,
		Managed: true,
		Owner:   &owner,
	}
	for _, c := range s.Nexus.Children {
		child := types.NexusChild{}
		if c.Replica != "" {
			uri := c.URI
			if uri == "" {
				uri = "bdev:///" + c.Replica
			}
			child.Replica = &types.ReplicaURI{
				UUID: types.ReplicaID(c.Replica),
				URI:  types.ChildURI(uri),
			}
		} else {
			child.URI = types.ChildURI(c.URI)
		}
		spec.Children = append(spec.Children, child)
	}
	return spec
}
