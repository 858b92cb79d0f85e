/*
Package types defines the core data model shared by all Quarry components.

Quarry manages three classes of storage resources hosted on io-engine
nodes, plus the volume abstraction built on top of them:

	┌─────────────────────────────────────────────────────────┐
	│                        Volume                           │
	│            (desired state: size, replicas,              │
	│             topology, publish target)                   │
	└──────────────┬──────────────────────────────────────────┘
	               │ owns
	               ▼
	┌─────────────────────────────────────────────────────────┐
	│                        Nexus                            │
	│     replicated virtual block device on one node,        │
	│     exposed over nvmf/iscsi, composed of children       │
	└──────────────┬──────────────────────────────────────────┘
	               │ children
	               ▼
	┌─────────────────────────────────────────────────────────┐
	│                       Replica                           │
	│        one data copy of the volume, carved out          │
	│        of a Pool (physical capacity on a node)          │
	└─────────────────────────────────────────────────────────┘

# State vs Spec

Each resource exists in two forms:

  - Live state (Pool, Replica, Nexus, Child): what a node last reported.
    These records are owned by the state cache and are refreshed wholesale;
    consumers receive detached copies.
  - Desired state (PoolSpec, ReplicaSpec, NexusSpec, VolumeSpec): what the
    control plane wants to exist. These live in the registry.

Health statuses (NexusStatus, PoolStatus, ReplicaStatus, ChildState) follow
the io-engine's numeric encoding: 0 unknown, 1 online, 2 degraded,
3 faulted. A nexus status is always derived from its children, never set by
a client request.

# Requests

CreateNexus, DestroyNexus, ShareNexus, CreatePool, CreateReplica and
friends model the operations issued to a node through the node client. The
DestroyNexus disowner variants (NexusOwners) distinguish tearing a nexus
down from merely releasing a volume's claim on it.

# NVMe-oF configuration

NexusNvmfConfig carries the controller id window (NvmfControllerIdRange,
bounded to 1..0xffef) and the persistent reservation keys used for
ANA-aware fencing. Range construction validates its bounds and returns a
resource-tagged error; it never clamps silently.

# Errors

ReqError is the structured error shape used across the control plane: a
ResourceKind, the operation or field that failed, and the wrapped cause.
*/
package types
