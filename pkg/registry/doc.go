/*
Package registry aggregates the three sources a scheduling decision reads:

	┌──────────────┐   ┌──────────────────┐   ┌──────────────────┐
	│    Specs     │   │  ResourceStates  │   │  NexusInfoStore  │
	│ (desired)    │   │  (observed)      │   │  (persisted      │
	│              │   │                  │   │   child health)  │
	└──────┬───────┘   └────────┬─────────┘   └────────┬─────────┘
	       │                    │                      │
	       └────────────┬───────┴──────────────────────┘
	                    ▼
	             Registry joins
	      PoolItem / ChildItem / ReplicaItem / NexusChildItem

The joined views are ephemeral: built fresh for one scheduling call from
the current cache snapshot and discarded afterwards. Holding one across a
refresh boundary would pin a retired snapshot.

Specs is the in-memory desired-state collection (volumes, pools, replicas,
nexuses) with the derived lookups placement policy needs, most notably
VolumeDataNodes: the set of nodes already hosting a replica of a volume,
which backs the one-replica-per-node anti-affinity rule.

The registry also tracks node liveness, fed by the state watcher, so pool
candidates carry their node's reachability.
*/
package registry
