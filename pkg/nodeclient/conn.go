package nodeclient

import (
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/quarry-storage/quarry/pkg/types"
)

// Conn is a managed grpc connection to one io-engine node. Engine
// implementations of NodeClient are built on top of it.
type Conn struct {
	node types.NodeID
	cc   *grpc.ClientConn
}

// Dial opens a connection to the node's grpc endpoint. Engines live on
// the storage network and speak plaintext grpc; keepalives detect nodes
// that die between polls.
func Dial(node types.NodeID, endpoint string) (*Conn, error) {
	cc, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to node %s at %s: %w", node, endpoint, err)
	}

	return &Conn{node: node, cc: cc}, nil
}

// Node returns the node this connection belongs to.
func (c *Conn) Node() types.NodeID {
	return c.node
}

// ClientConn exposes the underlying grpc connection for engine stubs.
func (c *Conn) ClientConn() *grpc.ClientConn {
	return c.cc
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.cc.Close()
}
