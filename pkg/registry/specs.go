package registry

import (
	"sync"

	"github.com/quarry-storage/quarry/pkg/types"
)

// Specs holds the desired state of every managed resource. It is the
// in-memory projection of the persistent spec store; the scheduler only
// ever reads it through short-lived context objects.
type Specs struct {
	mu       sync.RWMutex
	volumes  map[types.VolumeID]types.VolumeSpec
	pools    map[types.PoolID]types.PoolSpec
	replicas map[types.ReplicaID]types.ReplicaSpec
	nexuses  map[types.NexusID]types.NexusSpec
}

// NewSpecs creates an empty spec collection.
func NewSpecs() *Specs {
	return &Specs{
		volumes:  make(map[types.VolumeID]types.VolumeSpec),
		pools:    make(map[types.PoolID]types.PoolSpec),
		replicas: make(map[types.ReplicaID]types.ReplicaSpec),
		nexuses:  make(map[types.NexusID]types.NexusSpec),
	}
}

// SetVolume adds or replaces a volume spec.
func (s *Specs) SetVolume(spec types.VolumeSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes[spec.UUID] = spec
}

// Volume returns the spec of a volume.
func (s *Specs) Volume(id types.VolumeID) (types.VolumeSpec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec, ok := s.volumes[id]
	return spec, ok
}

// DeleteVolume removes a volume spec.
func (s *Specs) DeleteVolume(id types.VolumeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.volumes, id)
}

// SetPool adds or replaces a pool spec.
func (s *Specs) SetPool(spec types.PoolSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[spec.ID] = spec
}

// Pool returns the spec of a pool.
func (s *Specs) Pool(id types.PoolID) (types.PoolSpec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec, ok := s.pools[id]
	return spec, ok
}

// DeletePool removes a pool spec.
func (s *Specs) DeletePool(id types.PoolID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pools, id)
}

// SetReplica adds or replaces a replica spec.
func (s *Specs) SetReplica(spec types.ReplicaSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replicas[spec.UUID] = spec
}

// Replica returns the spec of a replica.
func (s *Specs) Replica(id types.ReplicaID) (types.ReplicaSpec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec, ok := s.replicas[id]
	return spec, ok
}

// DeleteReplica removes a replica spec.
func (s *Specs) DeleteReplica(id types.ReplicaID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.replicas, id)
}

// SetNexus adds or replaces a nexus spec.
func (s *Specs) SetNexus(spec types.NexusSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nexuses[spec.UUID] = spec
}

// Nexus returns the spec of a nexus.
func (s *Specs) Nexus(id types.NexusID) (types.NexusSpec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec, ok := s.nexuses[id]
	return spec, ok
}

// DeleteNexus removes a nexus spec.
func (s *Specs) DeleteNexus(id types.NexusID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nexuses, id)
}

// VolumeReplicas returns the specs of every replica owned by the volume.
func (s *Specs) VolumeReplicas(volume types.VolumeID) []types.ReplicaSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var specs []types.ReplicaSpec
	for _, spec := range s.replicas {
		if spec.Owners.OwnedByVolume(volume) {
			specs = append(specs, spec)
		}
	}
	return specs
}

// VolumeDataNodes returns the nodes currently hosting a replica of the
// volume, resolved through the pool each replica lives on.
func (s *Specs) VolumeDataNodes(volume types.VolumeID) []types.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[types.NodeID]struct{})
	var nodes []types.NodeID
	for _, replica := range s.replicas {
		if !replica.Owners.OwnedByVolume(volume) {
			continue
		}
		pool, ok := s.pools[replica.Pool]
		if !ok {
			continue
		}
		if _, dup := seen[pool.Node]; dup {
			continue
		}
		seen[pool.Node] = struct{}{}
		nodes = append(nodes, pool.Node)
	}
	return nodes
}

// VolumeNexuses returns the specs of every nexus owned by the volume.
func (s *Specs) VolumeNexuses(volume types.VolumeID) []types.NexusSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var specs []types.NexusSpec
	for _, spec := range s.nexuses {
		if spec.Owner != nil && *spec.Owner == volume {
			specs = append(specs, spec)
		}
	}
	return specs
}
