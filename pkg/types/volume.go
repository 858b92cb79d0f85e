package types

// VolumeSpec is the desired state of a volume.
type VolumeSpec struct {
	UUID        VolumeID
	Size        uint64
	NumReplicas uint
	// AllowedNodes restricts replica placement to the listed nodes. An
	// empty list means unconstrained.
	AllowedNodes []NodeID
	// Target is the node where the volume nexus is (to be) created, when
	// the volume is published.
	Target *NodeID
}

// Constrained reports whether the volume carries a node topology constraint.
func (v *VolumeSpec) Constrained() bool {
	return len(v.AllowedNodes) > 0
}

// AllowsNode reports whether replica placement on the node satisfies the
// volume topology. An unconstrained volume allows every node.
func (v *VolumeSpec) AllowsNode(node NodeID) bool {
	if len(v.AllowedNodes) == 0 {
		return true
	}
	for _, n := range v.AllowedNodes {
		if n == node {
			return true
		}
	}
	return false
}
