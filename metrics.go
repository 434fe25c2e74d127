package threadpool

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the pool to report submission
// and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncSubmitted increments the accepted jobs counter.
	IncSubmitted()

	// IncExecuted increments the executed jobs counter.
	IncExecuted()

	// BatchDiscarded adds n to the discarded jobs counter.
	//
	// Jobs are discarded only by a non-draining shutdown, which drops
	// everything still queued in one batch.
	BatchDiscarded(n int64)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// submitted is the total number of jobs accepted by Submit.
	submitted atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	// executed is the total number of jobs run to completion.
	executed atomic.Uint64

	_ [56]byte

	// discarded is the total number of queued jobs dropped at shutdown.
	discarded atomic.Uint64
}

// Submitted returns the total number of accepted jobs.
// Intended for cold-path observation.
func (m *AtomicMetrics) Submitted() uint64 {
	return m.submitted.Load()
}

// Executed returns the total number of executed jobs.
// Intended for cold-path observation.
func (m *AtomicMetrics) Executed() uint64 {
	return m.executed.Load()
}

// Discarded returns the total number of discarded jobs.
func (m *AtomicMetrics) Discarded() uint64 {
	return m.discarded.Load()
}

// IncSubmitted increments the accepted jobs counter by one.
func (m *AtomicMetrics) IncSubmitted() {
	m.submitted.Add(1)
}

// IncExecuted increments the executed jobs counter by one.
func (m *AtomicMetrics) IncExecuted() {
	m.executed.Add(1)
}

// BatchDiscarded adds n to the discarded jobs counter.
func (m *AtomicMetrics) BatchDiscarded(n int64) {
	m.discarded.Add(uint64(n))
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
//
// It can be used when metrics collection is disabled and
// zero overhead is desired. It is the default policy.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()          {}
func (m *NoopMetrics) IncExecuted()           {}
func (m *NoopMetrics) BatchDiscarded(n int64) {}
