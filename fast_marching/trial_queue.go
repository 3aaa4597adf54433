package fastmarching

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/notargets/golsm/utils"
)

var (
	// ErrDuplicateTrial is returned when inserting a point that is already queued.
	ErrDuplicateTrial = errors.New("fastmarching: point already in trial queue")
	// ErrNotQueued is returned when updating a point that is not queued.
	ErrNotQueued = errors.New("fastmarching: point not in trial queue")
)

type trialEntry[T utils.Float] struct {
	offset int
	key    T
}

// TrialQueue is a binary min-heap of grid points keyed by tentative distance.
// The slot table maps a grid offset to its heap position (-1 when absent),
// so decrease-key never searches.
type TrialQueue[T utils.Float] struct {
	entries []trialEntry[T]
	slot    []int
}

// NewTrialQueue returns an empty queue for offsets in [0, numPoints).
func NewTrialQueue[T utils.Float](numPoints int) (q *TrialQueue[T], err error) {
	var slot []int
	if slot, err = utils.ConstArray(numPoints, -1); err != nil {
		return
	}
	q = &TrialQueue[T]{slot: slot}
	return
}

// heap.Interface, ordered by key ascending
func (q *TrialQueue[T]) Len() int           { return len(q.entries) }
func (q *TrialQueue[T]) Less(i, j int) bool { return q.entries[i].key < q.entries[j].key }
func (q *TrialQueue[T]) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
	q.slot[q.entries[i].offset] = i
	q.slot[q.entries[j].offset] = j
}
func (q *TrialQueue[T]) Push(x interface{}) {
	e := x.(trialEntry[T])
	q.slot[e.offset] = len(q.entries)
	q.entries = append(q.entries, e)
}
func (q *TrialQueue[T]) Pop() interface{} {
	n := len(q.entries)
	e := q.entries[n-1]
	q.entries = q.entries[:n-1]
	q.slot[e.offset] = -1
	return e
}

func (q *TrialQueue[T]) Contains(offset int) bool { return q.slot[offset] >= 0 }

// Key returns the queued key of offset.
func (q *TrialQueue[T]) Key(offset int) (key T, ok bool) {
	if s := q.slot[offset]; s >= 0 {
		return q.entries[s].key, true
	}
	return
}

func (q *TrialQueue[T]) Insert(offset int, key T) error {
	if q.Contains(offset) {
		return fmt.Errorf("%w: offset %d", ErrDuplicateTrial, offset)
	}
	heap.Push(q, trialEntry[T]{offset: offset, key: key})
	return nil
}

func (q *TrialQueue[T]) DecreaseKey(offset int, key T) error {
	s := q.slot[offset]
	if s < 0 {
		return fmt.Errorf("%w: offset %d", ErrNotQueued, offset)
	}
	if key > q.entries[s].key {
		return fmt.Errorf("fastmarching: key for offset %d would increase from %v to %v",
			offset, q.entries[s].key, key)
	}
	q.entries[s].key = key
	heap.Fix(q, s)
	return nil
}

// ExtractMin removes and returns the point with the smallest key. The queue
// must not be empty.
func (q *TrialQueue[T]) ExtractMin() (offset int, key T) {
	e := heap.Pop(q).(trialEntry[T])
	return e.offset, e.key
}
