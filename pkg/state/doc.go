/*
Package state holds the concurrent cache of observed resource state.

Every io-engine node continuously reports the pools, replicas and nexuses
it hosts. The cache keeps only the latest snapshot of each class and makes
it available to the scheduler without any policy of its own.

# Locking discipline

The cache is built on ResourceMap, a keyed concurrent map with two levels
of locking:

	             outer sync.RWMutex (entry existence)
	┌───────────────────────────────────────────────────────┐
	│  key ──► Entry ──► inner sync.Mutex (entry value)     │
	│  key ──► Entry ──► inner sync.Mutex                   │
	│  key ──► Entry ──► inner sync.Mutex                   │
	└───────────────────────────────────────────────────────┘

Whole-class Replace and Clear take the outer lock exclusively and are the
only operations that change which entries exist; lookups share the outer
lock briefly and then work against the per-entry lock, so independent
resources are read and updated without serializing on the collection.

# Snapshot semantics

Replace swaps the entire population of one class at once. A reader racing
with a refresh observes either the old snapshot or the new one, never a
mixture within a class. There is no cross-class atomicity: pools and
replicas refreshed by different reports may briefly disagree, which the
control plane accepts (a stale decision is rejected downstream and
re-run).

All reads return detached copies (Clone), so a caller can never observe a
concurrent mutation through a value it already holds, and must never
retain a value across a refresh boundary expecting it to stay current.
*/
package state
