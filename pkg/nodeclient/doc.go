/*
Package nodeclient defines how the control plane talks to io-engine
nodes.

The core never encodes the wire protocol itself: NodeClient is the
operation surface (list/create/destroy/import for pools, replicas and
nexuses) and engine-version specific implementations wrap their generated
RPC stubs around the Conn plumbing provided here.

# Error taxonomy

Every failure is a *types.ReqError tagging the resource kind and the
operation, wrapping the grpc status error:

	pool "create_pool": rpc error: code = NotFound desc = ...

Helpers classify wrapped errors (IsNotFound, IsUnimplemented,
IsUnavailable) and apply the engine quirks that callers should not have
to know about: create_pool reports a missing disk device as an internal
BDEV failure, which CreatePoolError reclassifies as not-found; engines
without pool import support get a stable Unimplemented error via
ImportPoolUnsupportedError.

A decision made against a slightly stale cache snapshot may be rejected
here when executed (e.g. the pool filled up between selection and
creation). That is expected: callers surface the error and re-run
selection after the next state refresh. No retries happen at this layer.
*/
package nodeclient
