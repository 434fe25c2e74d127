package threadpool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PromMetrics is a MetricsPolicy implementation backed by Prometheus
// counters, for programs that already scrape a registry.
//
// Counter increments are cheap enough for the submit/execute hot
// paths; everything else is left to the scraper.
type PromMetrics struct {
	submitted prometheus.Counter
	executed  prometheus.Counter
	discarded prometheus.Counter
}

// NewPromMetrics registers the pool's counters with reg and returns
// the policy. Pass prometheus.DefaultRegisterer to use the global
// registry. Registering two pools with the same registry requires
// wrapping reg with distinct labels first.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	f := promauto.With(reg)
	return &PromMetrics{
		submitted: f.NewCounter(prometheus.CounterOpts{
			Name: "threadpool_jobs_submitted_total",
			Help: "Total number of jobs accepted by Submit.",
		}),
		executed: f.NewCounter(prometheus.CounterOpts{
			Name: "threadpool_jobs_executed_total",
			Help: "Total number of jobs run to completion by workers.",
		}),
		discarded: f.NewCounter(prometheus.CounterOpts{
			Name: "threadpool_jobs_discarded_total",
			Help: "Total number of queued jobs dropped by a non-draining shutdown.",
		}),
	}
}

func (m *PromMetrics) IncSubmitted() { m.submitted.Inc() }

func (m *PromMetrics) IncExecuted() { m.executed.Inc() }

func (m *PromMetrics) BatchDiscarded(n int64) { m.discarded.Add(float64(n)) }
