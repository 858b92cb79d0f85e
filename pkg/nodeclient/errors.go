package nodeclient

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quarry-storage/quarry/pkg/types"
)

// RequestError wraps a failed node call as a resource-tagged request
// error. The result unwraps to the transport error, so grpc status
// inspection keeps working on it.
func RequestError(kind types.ResourceKind, request string, err error) error {
	if err == nil {
		return nil
	}
	return types.NewReqError(kind, request, err)
}

// CreatePoolError shapes a failed create_pool call. Engines report a
// missing disk device as an internal "Failed to create a BDEV" error;
// that case is reclassified as not-found so callers can tell a bad disk
// from an engine fault.
func CreatePoolError(request *types.CreatePool, err error) error {
	if err == nil {
		return nil
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.Internal {
		disk := ""
		if len(request.Disks) > 0 {
			disk = request.Disks[0]
		}
		if s.Message() == fmt.Sprintf("Failed to create a BDEV '%s'", disk) {
			err = status.Error(codes.NotFound, s.Message())
		}
	}
	return RequestError(types.ResourceKindPool, "create_pool", err)
}

// ImportPoolUnsupportedError is returned by engine versions that cannot
// import pre-provisioned pools.
func ImportPoolUnsupportedError() error {
	return RequestError(types.ResourceKindPool, "import_pool",
		status.Error(codes.Unimplemented, "import_pool is not supported by this engine"))
}

// Code extracts the grpc status code from a (possibly wrapped) node error.
func Code(err error) codes.Code {
	var reqErr *types.ReqError
	if errors.As(err, &reqErr) {
		err = reqErr.Err
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Unknown
}

// IsNotFound reports whether the node rejected the request because a
// referenced resource does not exist.
func IsNotFound(err error) bool {
	return Code(err) == codes.NotFound
}

// IsUnimplemented reports whether the node does not support the operation.
func IsUnimplemented(err error) bool {
	return Code(err) == codes.Unimplemented
}

// IsUnavailable reports whether the node was unreachable. Callers treat
// this as a stale-state signal: re-run selection after the next refresh.
func IsUnavailable(err error) bool {
	return Code(err) == codes.Unavailable
}
