// Package threadpool provides a fixed-size pool of long-lived workers
// for running argument-less, result-less jobs.
//
// Design goals
//
// The package is a small, embeddable concurrency primitive rather than
// a task framework:
//
//   - A fixed worker count, chosen at construction and never resized
//   - An unbounded FIFO queue, so Submit never blocks the producer
//   - Explicit drain (WaitAll) and two-phase shutdown semantics
//   - Strict job accounting: Pending reaches zero exactly when no
//     work remains outstanding, on every shutdown path
//
// Architecture overview
//
// Workers pull jobs directly from one mutex-guarded FIFO queue; there
// is no intermediate scheduler goroutine. Two independent condition
// variables coordinate the pool:
//
//   1. Work available (on the queue mutex)
//      Wakes idle workers when a job is enqueued or shutdown begins.
//
//   2. Drain complete (on its own mutex)
//      Wakes WaitAll callers when the pending counter reaches zero.
//
// Keeping the two separate means submissions never wake drain waiters
// and drain checks never wake workers.
//
// Ordering
//
// Jobs are dequeued in submission order. With one worker that makes
// end-to-end execution order deterministic; with more than one worker
// only the dequeue order is defined, and job bodies run concurrently
// with no mutual exclusion between them. Whatever shared state a job
// touches is the caller's responsibility to synchronize.
//
// Shutdown semantics
//
// Shutdown(ctx, true) waits for every pending job to finish before
// stopping the workers: everything submitted before the call runs.
//
// Shutdown(ctx, false) lets jobs already executing finish and drops
// everything still queued. Dropped jobs never run; the pending counter
// is balanced for them, so Pending still reads zero afterwards. This
// is "finish current, drop rest", not a flush.
//
// Both forms are idempotent, block until every worker goroutine has
// returned, and reject later Submit calls with ErrPoolClosed. Stop is
// the drain-first form with a background context, intended for defer.
//
// Error handling
//
// Job bodies have no error return. A panic inside a job is recovered
// at the worker boundary, logged, and reported through the optional
// OnJobError handler, so one faulty job cannot silently shrink the
// pool by killing its worker. For fallible work, WithRetry wraps a
// func() error into a Job with exponential backoff between attempts.
//
// Intended use cases
//
// threadpool suits programs that want a bounded degree of parallelism
// for fire-and-forget work: background maintenance, fan-out of
// independent closures, or throttling CPU-bound batches. It is not a
// task-graph scheduler and carries no futures, priorities, or per-job
// cancellation.
package threadpool
