/*
Package storage persists nexus health records across control-plane
restarts.

When a nexus is open, the io-engine records which children hold valid data
(NexusInfo). Quarry keeps a copy of those records so that, when a nexus is
re-created after a failure, child selection can reject replicas that were
marked unhealthy by a previous rebuild even if they currently report
online.

Records live in a single BoltDB bucket ("nexus_info") as JSON values. The
key is scoped by the owning volume for managed nexuses, or by the nexus id
alone for unmanaged ones:

	<volume-id>/<nexus-id>    managed nexus
	<nexus-id>                unmanaged nexus

A lookup for a nexus that was never created before returns nil without an
error; the scheduler interprets that as "first creation" and deems every
candidate healthy by default.

The store is opened once per process:

	store, err := storage.NewBoltStore(dataDir)
	...
	defer store.Close()
*/
package storage
