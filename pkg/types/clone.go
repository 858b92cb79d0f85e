package types

// Clone returns a detached deep copy of the pool state.
func (p Pool) Clone() Pool {
	out := p
	out.Disks = append([]string(nil), p.Disks...)
	return out
}

// Clone returns a detached deep copy of the replica state.
func (r Replica) Clone() Replica {
	return r
}

// Clone returns a detached deep copy of the nexus state.
func (n Nexus) Clone() Nexus {
	out := n
	out.Children = append([]Child(nil), n.Children...)
	return out
}
