package tracking

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// solverMetrics is the Prometheus instrumentation for Solver.Solve,
// registered once against the default registerer and shared by every
// Solver in the process — one registration per instance would panic on
// the second Solver constructed in the same process.
type solverMetrics struct {
	solveDuration   prometheus.Histogram
	variableCount   prometheus.Gauge
	constraintCount prometheus.Gauge
	infeasibleTotal prometheus.Counter
	timeoutTotal    prometheus.Counter
}

var (
	metricsOnce sync.Once
	metrics     *solverMetrics
)

func getMetrics() *solverMetrics {
	metricsOnce.Do(func() {
		metrics = &solverMetrics{
			solveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "tracecore",
				Subsystem: "solver",
				Name:      "solve_duration_seconds",
				Help:      "Duration of Solver.Solve calls",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
			}),
			variableCount: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "tracecore",
				Subsystem: "solver",
				Name:      "variable_count",
				Help:      "Number of ILP variables in the last built model",
			}),
			constraintCount: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "tracecore",
				Subsystem: "solver",
				Name:      "constraint_count",
				Help:      "Number of ILP constraints in the last built model",
			}),
			infeasibleTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "tracecore",
				Subsystem: "solver",
				Name:      "infeasible_total",
				Help:      "Total Solve calls that returned an infeasible model",
			}),
			timeoutTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "tracecore",
				Subsystem: "solver",
				Name:      "timeout_total",
				Help:      "Total Solve calls that exceeded their deadline",
			}),
		}
	})

	return metrics
}
