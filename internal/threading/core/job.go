package core

import "fmt"

// Range is a half-open interval [From, To) of item indices
type Range struct {
	From int
	To   int
}

// Len returns the number of indices covered by the range
func (r Range) Len() int {
	return r.To - r.From
}

// Empty reports whether the range covers no indices
func (r Range) Empty() bool {
	return r.To <= r.From
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.From, r.To)
}

// JobDescriptor describes one slice of work for a single cycle.
//
// The scheduler rewrites From/To (and refreshes Items) in place right before
// each dispatch. Only the goroutine that owns the slice reads it while the
// cycle is in flight, and the callback must treat World and Items as read-only.
type JobDescriptor[W any, E any] struct {
	World W
	Items []E
	From  int // inclusive
	To    int // exclusive
}

// Len returns the number of items in the slice
func (j *JobDescriptor[W, E]) Len() int {
	return j.To - j.From
}

// Slice returns the items in [From, To)
func (j *JobDescriptor[W, E]) Slice() []E {
	return j.Items[j.From:j.To]
}

// Range returns the descriptor's index interval
func (j *JobDescriptor[W, E]) Range() Range {
	return Range{From: j.From, To: j.To}
}

// assign points the descriptor at a new window of the shared sequence
func (j *JobDescriptor[W, E]) assign(items []E, r Range) {
	j.Items = items
	j.From = r.From
	j.To = r.To
}

// release drops the descriptor's references so teardown doesn't pin them
func (j *JobDescriptor[W, E]) release() {
	var zero W
	j.World = zero
	j.Items = nil
	j.From, j.To = 0, 0
}
