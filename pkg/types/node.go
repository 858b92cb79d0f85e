package types

// NodeStatus represents the observed liveness of an io-engine node.
type NodeStatus string

const (
	NodeStatusUnknown NodeStatus = "unknown"
	NodeStatusOnline  NodeStatus = "online"
	NodeStatusOffline NodeStatus = "offline"
)

// Node is an io-engine instance that hosts pools, replicas and nexuses.
type Node struct {
	ID           NodeID
	GrpcEndpoint string
	Status       NodeStatus
}

// Online reports whether the node is reachable.
func (n *Node) Online() bool {
	return n.Status == NodeStatusOnline
}
