package mapcanvas

import "fmt"

// bucket is a FIFO backed by a slice. head indexes the next item to pop;
// once the bucket empties, the slice is truncated so its storage is reused.
type bucket[T any] struct {
	items []T
	head  int
}

func (b *bucket[T]) len() int {
	return len(b.items) - b.head
}

// BucketQueue is a priority queue over a small fixed range of integer
// priorities. Items pop in (priority ascending, insertion ascending) order:
// a stable sort with O(1) amortized Push and O(N) PopMin for N buckets.
//
// It is not safe for concurrent use.
type BucketQueue[T any] struct {
	buckets []bucket[T]
	count   int
	// lowest is a lower bound on the smallest non-empty bucket index.
	lowest int
}

// NewBucketQueue creates a queue with n buckets, indexed 0..n-1.
func NewBucketQueue[T any](n int) *BucketQueue[T] {
	if n <= 0 {
		panic(fmt.Sprintf("mapcanvas: bucket count must be positive, got %d", n))
	}
	return &BucketQueue[T]{buckets: make([]bucket[T], n), lowest: n}
}

// Count returns the total number of pending items across all buckets.
func (q *BucketQueue[T]) Count() int {
	return q.count
}

// Push appends item to the bucket for priority.
func (q *BucketQueue[T]) Push(item T, priority int) error {
	if priority < 0 || priority >= len(q.buckets) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrPriorityOutOfRange, priority, len(q.buckets)-1)
	}
	b := &q.buckets[priority]
	b.items = append(b.items, item)
	q.count++
	if priority < q.lowest {
		q.lowest = priority
	}
	return nil
}

// PopMin removes and returns the oldest item of the lowest-indexed non-empty
// bucket. It returns false if the queue is empty.
func (q *BucketQueue[T]) PopMin() (T, bool) {
	var zero T
	if q.count == 0 {
		return zero, false
	}
	for i := q.lowest; i < len(q.buckets); i++ {
		b := &q.buckets[i]
		if b.len() == 0 {
			continue
		}
		item := b.items[b.head]
		b.items[b.head] = zero // drop references held by the popped slot
		b.head++
		if b.head == len(b.items) {
			b.items = b.items[:0]
			b.head = 0
		}
		q.count--
		q.lowest = i
		if q.count == 0 {
			q.lowest = len(q.buckets)
		}
		return item, true
	}
	return zero, false
}

// Drain pops every item in priority order and passes it to fn, leaving the
// queue empty. Items pushed by fn are drained too.
func (q *BucketQueue[T]) Drain(fn func(T)) {
	for q.count > 0 {
		item, _ := q.PopMin()
		fn(item)
	}
}

// PendingAt returns the number of items waiting in the bucket for priority.
// Out-of-range priorities report zero.
func (q *BucketQueue[T]) PendingAt(priority int) int {
	if priority < 0 || priority >= len(q.buckets) {
		return 0
	}
	return q.buckets[priority].len()
}
