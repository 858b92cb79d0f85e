package types

import (
	"fmt"
)

// Protocol is a share protocol for exposing a resource over the network.
type Protocol string

const (
	ProtocolNone  Protocol = "none"
	ProtocolNvmf  Protocol = "nvmf"
	ProtocolIscsi Protocol = "iscsi"
	ProtocolNbd   Protocol = "nbd"
)

// Shared reports whether the protocol exposes the resource beyond its node.
func (p Protocol) Shared() bool {
	return p != ProtocolNone && p != ""
}

// NexusShareProtocol is the subset of protocols a nexus can be shared with.
type NexusShareProtocol string

const (
	NexusShareProtocolNvmf  NexusShareProtocol = "nvmf"
	NexusShareProtocolIscsi NexusShareProtocol = "iscsi"
)

// NexusShareProtocolFromProtocol validates that a generic protocol is usable
// for sharing a nexus.
func NexusShareProtocolFromProtocol(p Protocol) (NexusShareProtocol, error) {
	switch p {
	case ProtocolNvmf:
		return NexusShareProtocolNvmf, nil
	case ProtocolIscsi:
		return NexusShareProtocolIscsi, nil
	default:
		return "", InvalidArgument(ResourceKindNexus, "share_protocol",
			fmt.Sprintf("protocol %q cannot be used to share a nexus", p))
	}
}

// Protocol converts back to the generic protocol.
func (p NexusShareProtocol) Protocol() Protocol {
	if p == NexusShareProtocolIscsi {
		return ProtocolIscsi
	}
	return ProtocolNvmf
}

// NexusStatus is the health of a nexus, derived from the health of its
// children. It is never set directly by a client request.
type NexusStatus int

const (
	// NexusStatusUnknown is the default state before the first report.
	NexusStatusUnknown NexusStatus = iota
	// NexusStatusOnline means all children are healthy.
	NexusStatusOnline
	// NexusStatusDegraded means the nexus serves IO while a rebuild is in
	// progress or a child is out of sync.
	NexusStatusDegraded
	// NexusStatusFaulted means the nexus cannot serve IO.
	NexusStatusFaulted
)

// NexusStatusFromInt converts the numeric status reported by the io-engine.
func NexusStatusFromInt(status int32) NexusStatus {
	switch status {
	case 1:
		return NexusStatusOnline
	case 2:
		return NexusStatusDegraded
	case 3:
		return NexusStatusFaulted
	default:
		return NexusStatusUnknown
	}
}

func (s NexusStatus) String() string {
	switch s {
	case NexusStatusOnline:
		return "online"
	case NexusStatusDegraded:
		return "degraded"
	case NexusStatusFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// ChildState is the health of a single nexus child.
type ChildState int

const (
	ChildStateUnknown ChildState = iota
	ChildStateOnline
	ChildStateDegraded
	ChildStateFaulted
)

func (s ChildState) String() string {
	switch s {
	case ChildStateOnline:
		return "online"
	case ChildStateDegraded:
		return "degraded"
	case ChildStateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// CompareChildState orders child states from worst to best: faulted, then
// degraded, then online. Unknown is incomparable with the other states and
// ok is false in that case; callers fall through to their next criterion.
func CompareChildState(a, b ChildState) (int, bool) {
	if a == b {
		return 0, true
	}
	if a == ChildStateUnknown || b == ChildStateUnknown {
		return 0, false
	}
	return childStateRank(a) - childStateRank(b), true
}

func childStateRank(s ChildState) int {
	switch s {
	case ChildStateFaulted:
		return 0
	case ChildStateDegraded:
		return 1
	default: // online
		return 2
	}
}

// NoRebuild marks a child that has no rebuild job running.
const NoRebuild = -1

// Child is the live state of a nexus child.
type Child struct {
	URI   ChildURI
	State ChildState
	// RebuildProgress is the percentage of a running rebuild, or NoRebuild.
	RebuildProgress int
}

// Rebuilding reports whether a rebuild job is running for the child.
func (c *Child) Rebuilding() bool {
	return c.RebuildProgress != NoRebuild
}

// Nexus is the live state of a nexus as reported by its node.
type Nexus struct {
	Node     NodeID
	Name     string
	UUID     NexusID
	Size     uint64
	Status   NexusStatus
	Children []Child
	// DeviceURI is empty when the nexus is not published.
	DeviceURI string
	Rebuilds  uint32
	Share     Protocol
}

// ContainsChild reports whether the nexus has a child with the given URI.
func (n *Nexus) ContainsChild(uri ChildURI) bool {
	for i := range n.Children {
		if n.Children[i].URI == uri {
			return true
		}
	}
	return false
}

// Child returns the child with the given URI, if present.
func (n *Nexus) Child(uri ChildURI) (Child, bool) {
	for i := range n.Children {
		if n.Children[i].URI == uri {
			return n.Children[i], true
		}
	}
	return Child{}, false
}

// NexusChild is a desired-state child of a nexus: either a replica under
// control-plane management or a plain URI to an unmanaged device.
type NexusChild struct {
	// Replica is set when the child is backed by a managed replica.
	Replica *ReplicaURI
	// URI is set when the child is a generic, non-replica device.
	URI ChildURI
}

// ReplicaURI pairs a replica with the URI through which a nexus reaches it.
type ReplicaURI struct {
	UUID ReplicaID
	URI  ChildURI
}

// ChildURI returns the URI of the child regardless of its flavour.
func (c *NexusChild) ChildURI() ChildURI {
	if c.Replica != nil {
		return c.Replica.URI
	}
	return c.URI
}

// ReplicaBacked reports whether the child is backed by a managed replica.
func (c *NexusChild) ReplicaBacked() bool {
	return c.Replica != nil
}

// NexusSpec is the desired state of a nexus.
type NexusSpec struct {
	UUID     NexusID
	Name     string
	Node     NodeID
	Children []NexusChild
	Size     uint64
	Managed  bool
	Owner    *VolumeID
	Share    Protocol
}

// NexusOwners is a tagged variant describing which owners a destroy request
// disowns: none, a specific volume, or all of them. Disowning removes the
// claim without necessarily destroying the underlying nexus.
type NexusOwners struct {
	volume *VolumeID
	all    bool
}

// NexusOwnersNone disowns nothing.
func NexusOwnersNone() NexusOwners {
	return NexusOwners{}
}

// NexusOwnersVolume disowns the given volume.
func NexusOwnersVolume(id VolumeID) NexusOwners {
	return NexusOwners{volume: &id}
}

// NexusOwnersAll disowns every owner.
func NexusOwnersAll() NexusOwners {
	return NexusOwners{all: true}
}

// DisownAll reports whether every owner is disowned.
func (o NexusOwners) DisownAll() bool {
	return o.all
}

// Volume returns the volume owner being disowned, if any.
func (o NexusOwners) Volume() (VolumeID, bool) {
	if o.volume == nil {
		return "", false
	}
	return *o.volume, true
}

// CreateNexus requests creation of a nexus on a node.
type CreateNexus struct {
	Node NodeID
	UUID NexusID
	Size uint64
	// Children are the targets the nexus connects to; replicas may be
	// local bdevs or remote nvmf/iscsi targets.
	Children []NexusChild
	// Managed is true when the control plane owns the nexus lifecycle.
	Managed bool
	// Owner is the volume which owns this nexus, if any.
	Owner *VolumeID
	// Config carries the NVMe-oF target configuration.
	Config *NexusNvmfConfig
}

// Name returns the nexus name: the owning volume id when managed by a
// volume, otherwise the nexus uuid.
func (r *CreateNexus) Name() string {
	if r.Owner != nil {
		return string(*r.Owner)
	}
	return string(r.UUID)
}

// InfoKey returns the key under which the io-engine persists the NexusInfo
// health record for this nexus.
func (r *CreateNexus) InfoKey() string {
	return NexusInfoKey(r.Owner, r.UUID)
}

// DestroyNexus requests destruction of a nexus, optionally disowning it
// from its owners instead of a plain teardown.
type DestroyNexus struct {
	Node      NodeID
	UUID      NexusID
	disowners NexusOwners
}

// NewDestroyNexus builds a destroy request that disowns nothing.
func NewDestroyNexus(node NodeID, uuid NexusID) DestroyNexus {
	return DestroyNexus{Node: node, UUID: uuid}
}

// WithDisownAll disowns all owners.
func (r DestroyNexus) WithDisownAll() DestroyNexus {
	r.disowners = NexusOwnersAll()
	return r
}

// WithDisownVolume disowns the given volume owner.
func (r DestroyNexus) WithDisownVolume(volume VolumeID) DestroyNexus {
	r.disowners = NexusOwnersVolume(volume)
	return r
}

// Disowners returns the owners disowned by this request.
func (r DestroyNexus) Disowners() NexusOwners {
	return r.disowners
}

// ShareNexus requests sharing a nexus over the given protocol.
type ShareNexus struct {
	Node     NodeID
	UUID     NexusID
	Key      string
	Protocol NexusShareProtocol
}

// UnshareNexus requests unsharing a nexus.
type UnshareNexus struct {
	Node NodeID
	UUID NexusID
}
