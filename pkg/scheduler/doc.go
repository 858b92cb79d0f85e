/*
Package scheduler implements resource selection for volume provisioning:
picking pools for new replicas, assembling nexus children, and ranking
replicas or children for removal.

Every decision runs a filter/sort pipeline over candidate items copied
out of the state cache. Filters narrow the candidate set with pure
predicates; sorters rank what survives. Stages return new list values,
so policies compose by chaining and the inputs are never mutated:

	candidates ──▶ Filter ──▶ Filter ──▶ FilterContext ──▶ Sort ──▶ Collect
	               (pure)     (pure)     (may block on      (stable)
	                                      external call)

An empty result is a normal outcome at every stage, not an error: it
means placement is impossible under the current constraints and the
caller decides whether to retry, degrade or report.

# Decision Points

Five decisions are built from the pipeline:

  - SelectSuitablePools: where a new replica may live. Node stage
    (online, allowed by topology, not already hosting a replica of the
    volume) then pool stage (usable health, free space strictly greater
    than the requested size), ranked by ascending replica count to
    spread load.

  - SelectNexusChildren: which replicas become children of a nexus at
    creation. Persisted health gates the set: on the first-ever creation
    of a nexus there is no record and every candidate is deemed healthy;
    afterwards only children recorded healthy by a prior rebuild pass.
    Live filters require an online replica of sufficient size; an
    optional prober re-validates node liveness. Local candidates sort
    before remote ones.

  - SelectReplicaToAdd: which existing replica joins a nexus when a
    volume grows. Ranked by locality to the nexus node, then recorded
    health, then descending pool free space.

  - SelectReplicaToRemove: which replica to drop when a volume shrinks.
    Replicas attached to a nexus as children are considered before
    detached ones, ranked by child health (worst first) and rebuild
    progress (least-rebuilt first); local replicas are retained
    preferentially on full ties.

  - SelectNexusChildForRemoval: which child to drop when repairing a
    nexus. Generic URI children go first, then children with no reported
    state, then the unhealthiest, preferring to keep local children.

# Consistency

Candidate items are detached copies built from one cache snapshot per
scheduling call. The pipeline holds no locks; a concurrent refresh never
changes a decision in flight, only the inputs of the next one.
*/
package scheduler
