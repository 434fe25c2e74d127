// fifo_queue.go
package threadpool

const initialQueueCapacity = 64

// jobQueue is a growable circular-buffer FIFO of pending jobs.
// Jobs are processed strictly in the order they are submitted.
// No priorities, no aging, no reordering.
//
// The queue is unbounded: when the buffer fills it grows instead of
// dropping, since Submit must never block or shed load. Not safe for
// concurrent use; callers hold the pool's queue mutex.
type jobQueue struct {
	buf        []Job // circular buffer
	head, tail int   // read/write indices
	size       int   // number of jobs currently buffered
	capacity   int
}

// newJobQueue creates a FIFO queue with the given initial capacity.
func newJobQueue(cap int) *jobQueue {
	if cap <= 0 {
		cap = initialQueueCapacity
	}
	return &jobQueue{
		buf:      make([]Job, cap),
		capacity: cap,
	}
}

// Len returns the number of jobs currently waiting in the queue.
func (q *jobQueue) Len() int { return q.size }

// Push inserts a job at the tail, growing the buffer when full.
func (q *jobQueue) Push(j Job) {
	if q.size == q.capacity {
		q.grow()
	}
	q.buf[q.tail] = j
	q.tail++
	if q.tail == q.capacity {
		q.tail = 0
	}
	q.size++
}

// Pop removes and returns the oldest job.
//
// If the queue is empty, returns nil and false.
func (q *jobQueue) Pop() (Job, bool) {
	if q.size == 0 {
		return nil, false
	}
	j := q.buf[q.head]
	q.buf[q.head] = nil // release the closure
	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.size--
	return j, true
}

// Clear drops every queued job and reports how many were dropped.
// The buffer keeps its capacity.
func (q *jobQueue) Clear() int {
	n := q.size
	for i := range q.buf {
		q.buf[i] = nil
	}
	q.head, q.tail, q.size = 0, 0, 0
	return n
}

// grow doubles the capacity, unwrapping the ring so the oldest job
// lands at index 0.
func (q *jobQueue) grow() {
	newCap := q.capacity * 2
	buf := make([]Job, newCap)
	for i := 0; i < q.size; i++ {
		buf[i] = q.buf[(q.head+i)%q.capacity]
	}
	q.buf = buf
	q.head = 0
	q.tail = q.size
	q.capacity = newCap
}
