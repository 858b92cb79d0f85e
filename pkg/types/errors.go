package types

import (
	"fmt"
)

// ResourceKind tags an error with the resource class it relates to.
type ResourceKind string

const (
	ResourceKindUnknown ResourceKind = "unknown"
	ResourceKindNode    ResourceKind = "node"
	ResourceKindPool    ResourceKind = "pool"
	ResourceKindReplica ResourceKind = "replica"
	ResourceKindNexus   ResourceKind = "nexus"
	ResourceKindVolume  ResourceKind = "volume"
	ResourceKindChild   ResourceKind = "child"
)

// ReqError is a structured request error carrying the resource kind and the
// operation that failed. It is the error shape surfaced by the node client
// and by request/constructor validation.
type ReqError struct {
	Kind    ResourceKind
	Request string
	Err     error
}

// NewReqError wraps err as a request error for the given resource and operation.
func NewReqError(kind ResourceKind, request string, err error) *ReqError {
	return &ReqError{Kind: kind, Request: request, Err: err}
}

// InvalidArgument builds a validation error for a malformed field value.
func InvalidArgument(kind ResourceKind, field, reason string) *ReqError {
	return &ReqError{
		Kind:    kind,
		Request: field,
		Err:     fmt.Errorf("invalid argument: %s", reason),
	}
}

func (e *ReqError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Request, e.Err)
}

func (e *ReqError) Unwrap() error {
	return e.Err
}
