package nodeclient

import (
	"context"

	"github.com/quarry-storage/quarry/pkg/types"
)

// NodeClient is the operation surface of one io-engine node. Engine
// version specific implementations (wrapping the node's RPC stubs) live
// outside the control-plane core; the core only consumes this interface.
//
// Failures surface as *types.ReqError carrying the resource kind and the
// operation name, wrapping the underlying transport error.
type NodeClient interface {
	// Node returns the id of the node this client talks to.
	Node() types.NodeID

	ListPools(ctx context.Context) ([]types.Pool, error)
	ListReplicas(ctx context.Context) ([]types.Replica, error)
	ListNexuses(ctx context.Context) ([]types.Nexus, error)

	CreatePool(ctx context.Context, request *types.CreatePool) (*types.Pool, error)
	DestroyPool(ctx context.Context, request *types.DestroyPool) error
	ImportPool(ctx context.Context, request *types.ImportPool) (*types.Pool, error)

	CreateReplica(ctx context.Context, request *types.CreateReplica) (*types.Replica, error)
	DestroyReplica(ctx context.Context, request *types.DestroyReplica) error

	CreateNexus(ctx context.Context, request *types.CreateNexus) (*types.Nexus, error)
	DestroyNexus(ctx context.Context, request *types.DestroyNexus) error
	ShareNexus(ctx context.Context, request *types.ShareNexus) (string, error)
	UnshareNexus(ctx context.Context, request *types.UnshareNexus) error
}
