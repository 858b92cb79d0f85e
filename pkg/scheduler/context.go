package scheduler

import (
	"context"

	"github.com/quarry-storage/quarry/pkg/types"
)

// Specs is the read handle into the desired-state registry that scheduling
// contexts consult. Contexts hold it only for the duration of one
// scheduling call.
type Specs interface {
	// VolumeDataNodes returns the nodes currently hosting a replica of
	// the volume.
	VolumeDataNodes(volume types.VolumeID) []types.NodeID
}

// NodeProber re-validates node liveness with an external call. It backs
// the asynchronous pipeline stage.
type NodeProber interface {
	Probe(ctx context.Context, node types.NodeID) bool
}

// GetSuitablePoolsContext is the per-request context for placing a new
// replica of a volume. Built fresh per scheduling call; never persisted.
type GetSuitablePoolsContext struct {
	specs  Specs
	volume types.VolumeSpec
}

// NewGetSuitablePoolsContext bundles a volume placement request with a
// read handle into the desired-state specs.
func NewGetSuitablePoolsContext(specs Specs, volume types.VolumeSpec) *GetSuitablePoolsContext {
	return &GetSuitablePoolsContext{specs: specs, volume: volume}
}

// VolumeID returns the requesting volume.
func (c *GetSuitablePoolsContext) VolumeID() types.VolumeID {
	return c.volume.UUID
}

// Size returns the requested replica size in bytes.
func (c *GetSuitablePoolsContext) Size() uint64 {
	return c.volume.Size
}

// AllowsNode reports whether the volume topology allows placement on the
// node. An empty constraint allows every node.
func (c *GetSuitablePoolsContext) AllowsNode(node types.NodeID) bool {
	return c.volume.AllowsNode(node)
}

// UsedNodes returns the nodes that already host a replica of the volume.
func (c *GetSuitablePoolsContext) UsedNodes() []types.NodeID {
	return c.specs.VolumeDataNodes(c.volume.UUID)
}

// GetPersistedNexusChildrenCtx is the per-request context for assembling
// the child set of a new nexus from existing replicas.
type GetPersistedNexusChildrenCtx struct {
	nexus     types.NexusSpec
	nexusInfo *types.NexusInfo
	prober    NodeProber
}

// NewGetPersistedNexusChildrenCtx bundles the nexus to create with its
// persisted health record. A nil record means the nexus was never created
// before.
func NewGetPersistedNexusChildrenCtx(nexus types.NexusSpec, info *types.NexusInfo) *GetPersistedNexusChildrenCtx {
	return &GetPersistedNexusChildrenCtx{nexus: nexus, nexusInfo: info}
}

// WithProber enables liveness re-validation of candidate nodes.
func (c *GetPersistedNexusChildrenCtx) WithProber(prober NodeProber) *GetPersistedNexusChildrenCtx {
	c.prober = prober
	return c
}

// Spec returns the nexus being created.
func (c *GetPersistedNexusChildrenCtx) Spec() types.NexusSpec {
	return c.nexus
}

// TargetNode returns the node the nexus will be created on.
func (c *GetPersistedNexusChildrenCtx) TargetNode() types.NodeID {
	return c.nexus.Node
}

// NexusInfo returns the persisted health record, nil on first creation.
func (c *GetPersistedNexusChildrenCtx) NexusInfo() *types.NexusInfo {
	return c.nexusInfo
}

// FirstCreate reports whether the nexus has never been created before.
func (c *GetPersistedNexusChildrenCtx) FirstCreate() bool {
	return c.nexusInfo == nil
}

// VolumeReplicasForNexusCtx is the per-request context for growing a
// volume: choosing a replica to add to an existing nexus.
type VolumeReplicasForNexusCtx struct {
	volume types.VolumeSpec
	nexus  types.NexusSpec
}

// NewVolumeReplicasForNexusCtx bundles the volume and the nexus to grow.
func NewVolumeReplicasForNexusCtx(volume types.VolumeSpec, nexus types.NexusSpec) *VolumeReplicasForNexusCtx {
	return &VolumeReplicasForNexusCtx{volume: volume, nexus: nexus}
}

// VolSpec returns the volume being grown.
func (c *VolumeReplicasForNexusCtx) VolSpec() types.VolumeSpec {
	return c.volume
}

// NexusSpec returns the nexus gaining the replica.
func (c *VolumeReplicasForNexusCtx) NexusSpec() types.NexusSpec {
	return c.nexus
}
