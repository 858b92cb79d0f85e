package types

// NexusInfo is the persisted health record the io-engine writes for a
// nexus. It is the source of truth for which children held valid data the
// last time the nexus was open.
type NexusInfo struct {
	// Children are the health records of the nexus children.
	Children []ChildInfo `json:"children"`
	// Clean is true when the nexus was shut down cleanly.
	Clean bool `json:"clean"`
}

// ChildInfo is the persisted health record of one nexus child.
type ChildInfo struct {
	UUID    ReplicaID `json:"uuid"`
	Healthy bool      `json:"healthy"`
}

// Child returns the record for the given replica, if present.
func (n *NexusInfo) Child(uuid ReplicaID) (ChildInfo, bool) {
	for _, c := range n.Children {
		if c.UUID == uuid {
			return c, true
		}
	}
	return ChildInfo{}, false
}

// NexusInfoKey builds the key under which a nexus health record is
// persisted: scoped by the owning volume when the nexus is managed,
// otherwise by the nexus id alone.
func NexusInfoKey(owner *VolumeID, nexus NexusID) string {
	if owner != nil {
		return string(*owner) + "/" + string(nexus)
	}
	return string(nexus)
}
