package threadpool

import "context"

// Options configure a Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the number of worker goroutines. Fixed for the
	// pool's whole lifetime; there is no resize operation.
	Workers int

	// Ctx carries the logger used for pool lifecycle events. It does
	// not cancel or time out jobs; the pool has no per-job
	// cancellation.
	Ctx context.Context

	// Metrics receives submission and execution events.
	Metrics MetricsPolicy

	// OnJobError receives errors synthesized from recovered job
	// panics. Optional; handlers must be safe for concurrent use.
	OnJobError func(error)

	// PinWorkers locks each worker to an OS thread and pins it to a
	// CPU core. Linux only; a no-op elsewhere.
	PinWorkers bool
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = DefaultMaxWorkers
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}
