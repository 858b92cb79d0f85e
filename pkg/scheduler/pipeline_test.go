package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testRequest struct {
	min int
}

func TestFilterRetainsMatching(t *testing.T) {
	list := NewList(testRequest{min: 3}, []int{1, 2, 3, 4, 5})

	result := list.
		Filter(func(r testRequest, item int) bool { return item >= r.min }).
		Collect()

	assert.Equal(t, []int{3, 4, 5}, result)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := []int{5, 1, 4, 2}
	list := NewList(testRequest{}, items)

	_ = list.
		Filter(func(testRequest, int) bool { return false }).
		Collect()
	_ = list.Sort(func(a, b int) int { return a - b }).Collect()

	assert.Equal(t, []int{5, 1, 4, 2}, items)
}

func TestFilterToEmptyIsNotAnError(t *testing.T) {
	list := NewList(testRequest{min: 100}, []int{1, 2, 3})

	result := list.
		Filter(func(r testRequest, item int) bool { return item >= r.min }).
		Sort(func(a, b int) int { return a - b }).
		Collect()

	assert.Empty(t, result)
	assert.Zero(t, list.Filter(func(r testRequest, item int) bool { return item >= r.min }).Len())
}

func TestFilterContextSequential(t *testing.T) {
	var order []int
	list := NewList(testRequest{}, []int{1, 2, 3})

	result := list.
		FilterContext(context.Background(), func(_ context.Context, _ testRequest, item int) bool {
			order = append(order, item)
			return item != 2
		}).
		Collect()

	assert.Equal(t, []int{1, 2, 3}, order, "every item must be evaluated, in order")
	assert.Equal(t, []int{1, 3}, result)
}

func TestFilterStageComposes(t *testing.T) {
	evens := func(l List[testRequest, int]) List[testRequest, int] {
		return l.Filter(func(_ testRequest, item int) bool { return item%2 == 0 })
	}
	small := func(l List[testRequest, int]) List[testRequest, int] {
		return l.Filter(func(_ testRequest, item int) bool { return item < 10 })
	}

	result := NewList(testRequest{}, []int{1, 2, 3, 4, 12, 14}).
		FilterStage(evens).
		FilterStage(small).
		Collect()

	assert.Equal(t, []int{2, 4}, result)
}

func TestSortIsStable(t *testing.T) {
	type pair struct{ key, seq int }
	items := []pair{{1, 0}, {0, 1}, {1, 2}, {0, 3}, {1, 4}}

	result := NewList(testRequest{}, items).
		Sort(func(a, b pair) int { return a.key - b.key }).
		Collect()

	assert.Equal(t, []pair{{0, 1}, {0, 3}, {1, 0}, {1, 2}, {1, 4}}, result)
}

func TestSortContextSeesRequest(t *testing.T) {
	result := NewList(testRequest{min: 3}, []int{1, 5, 3, 2}).
		SortContext(func(r testRequest, a, b int) int {
			// items at or above the threshold first
			aAbove := a >= r.min
			bAbove := b >= r.min
			switch {
			case aAbove && !bAbove:
				return -1
			case !aAbove && bAbove:
				return 1
			default:
				return 0
			}
		}).
		Collect()

	assert.Equal(t, []int{5, 3, 1, 2}, result)
}

func TestGroupBy(t *testing.T) {
	groups := GroupBy(
		NewList(testRequest{}, []int{1, 2, 3, 4, 5, 6}),
		func(_ testRequest, item int) int { return item % 3 },
	)

	assert.Equal(t, map[int][]int{
		0: {3, 6},
		1: {1, 4},
		2: {2, 5},
	}, groups)
}

func TestRequestCarriedThroughStages(t *testing.T) {
	list := NewList(testRequest{min: 7}, []int{9, 8}).
		Filter(func(testRequest, int) bool { return true }).
		Sort(func(a, b int) int { return a - b })

	assert.Equal(t, 7, list.Request().min)
}
