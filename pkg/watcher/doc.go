/*
Package watcher keeps the resource state cache synchronized with the
io-engine nodes.

The watcher is the single writer of the state cache. On a fixed interval
it polls every registered node for its full pool, replica and nexus
listings and replaces the cache snapshots class by class. Schedulers and
other readers never talk to the nodes directly; they only see the cache.

# Architecture

	┌────────────────────────────────────────────────────────────┐
	│                      Poll Loop                             │
	│                 (every 5 seconds)                          │
	└────────────────┬───────────────────────────────────────────┘
	                 │ errgroup fan-out
	    ┌────────────┼────────────┐
	    ▼            ▼            ▼
	┌────────┐  ┌────────┐  ┌────────┐
	│ node A │  │ node B │  │ node C │   ListPools / ListReplicas /
	└───┬────┘  └───┬────┘  └───┬────┘   ListNexuses per node
	    │           │           │
	    └───────────┼───────────┘
	                ▼
	     ResourceStates.UpdateReplicas
	     ResourceStates.UpdatePools      whole-class snapshot swaps
	     ResourceStates.UpdateNexuses

# Failure Handling

A node that fails any of its three listings contributes nothing to the
refresh: its resources drop out of the snapshot and the node is marked
offline in the registry, which in turn makes the scheduler's node filters
reject it. A node.offline event is published on the transition; when the
node reports successfully again it is marked online and a node.online
event follows.

Resource classes are replaced in a fixed order (replicas, then pools,
then nexuses) so that a reader joining pools to their replicas never
observes a pool whose replicas have not landed yet. Cross-class
consistency beyond that ordering is not guaranteed; each class snapshot
is internally consistent.
*/
package watcher
