package scheduler

import (
	"context"
	"sort"
)

// List carries a placement request and its current candidate items through
// a sequence of filter and sort stages. Stages return a new List value, so
// pipelines compose by chaining; the input slice is never mutated.
//
// An empty candidate list is a valid, non-error outcome at every stage:
// it means placement is impossible and the caller decides what to do.
type List[R any, I any] struct {
	request R
	items   []I
}

// NewList starts a pipeline over the given request and candidates.
func NewList[R any, I any](request R, items []I) List[R, I] {
	return List[R, I]{request: request, items: items}
}

// Request returns the request the pipeline was built for.
func (l List[R, I]) Request() R {
	return l.request
}

// Filter retains the items for which the predicate holds. Predicates are
// pure and total: an unsatisfiable condition yields zero candidates, never
// an error.
func (l List[R, I]) Filter(pred func(R, I) bool) List[R, I] {
	kept := make([]I, 0, len(l.items))
	for _, item := range l.items {
		if pred(l.request, item) {
			kept = append(kept, item)
		}
	}
	l.items = kept
	return l
}

// FilterContext is the asynchronous stage variant: the predicate may block
// on an external call (e.g. re-validating a node's liveness). Items are
// evaluated strictly sequentially; no cache lock is held here because the
// candidates were copied out of the cache before the pipeline began.
func (l List[R, I]) FilterContext(ctx context.Context, pred func(context.Context, R, I) bool) List[R, I] {
	kept := make([]I, 0, len(l.items))
	for _, item := range l.items {
		if pred(ctx, l.request, item) {
			kept = append(kept, item)
		}
	}
	l.items = kept
	return l
}

// FilterStage applies a named composite stage, the mechanism by which
// policy libraries compose into pipelines.
func (l List[R, I]) FilterStage(stage func(List[R, I]) List[R, I]) List[R, I] {
	return stage(l)
}

// Sort orders the remaining items by the comparator (negative means a
// before b). The sort is stable, so ties keep their input order.
func (l List[R, I]) Sort(cmp func(a, b I) int) List[R, I] {
	items := append([]I(nil), l.items...)
	sort.SliceStable(items, func(i, j int) bool {
		return cmp(items[i], items[j]) < 0
	})
	l.items = items
	return l
}

// SortContext orders the remaining items by a comparator that also sees
// the request.
func (l List[R, I]) SortContext(cmp func(r R, a, b I) int) List[R, I] {
	items := append([]I(nil), l.items...)
	sort.SliceStable(items, func(i, j int) bool {
		return cmp(l.request, items[i], items[j]) < 0
	})
	l.items = items
	return l
}

// Collect terminates the pipeline and returns the final ordered candidates.
func (l List[R, I]) Collect() []I {
	return l.items
}

// Len returns the number of remaining candidates.
func (l List[R, I]) Len() int {
	return len(l.items)
}

// GroupBy terminates a pipeline by partitioning the remaining candidates
// by a derived key, e.g. grouping replicas by their node for
// locality-aware decisions.
func GroupBy[R any, I any, K comparable](l List[R, I], key func(R, I) K) map[K][]I {
	groups := make(map[K][]I)
	for _, item := range l.items {
		k := key(l.request, item)
		groups[k] = append(groups[k], item)
	}
	return groups
}
