package eval

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// evalMetrics aggregates match outcomes across every Evaluate call in
// the process. Registered once against the default registerer, same as
// the tracking package's solver metrics.
type evalMetrics struct {
	evaluationsTotal  prometheus.Counter
	matchedEdgesTotal prometheus.Counter
	fpEdgesTotal      prometheus.Counter
	fnEdgesTotal      prometheus.Counter
}

var (
	metricsOnce sync.Once
	metrics     *evalMetrics
)

func getMetrics() *evalMetrics {
	metricsOnce.Do(func() {
		metrics = &evalMetrics{
			evaluationsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "tracecore",
				Subsystem: "eval",
				Name:      "evaluations_total",
				Help:      "Total Evaluate calls",
			}),
			matchedEdgesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "tracecore",
				Subsystem: "eval",
				Name:      "matched_edges_total",
				Help:      "Ground-truth edges matched across all evaluations",
			}),
			fpEdgesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "tracecore",
				Subsystem: "eval",
				Name:      "false_positive_edges_total",
				Help:      "Reconstruction edges with no ground-truth pre-image",
			}),
			fnEdgesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "tracecore",
				Subsystem: "eval",
				Name:      "false_negative_edges_total",
				Help:      "Ground-truth edges missing from the reconstruction",
			}),
		}
	})

	return metrics
}

func recordScores(s Scores) {
	m := getMetrics()
	m.evaluationsTotal.Inc()
	m.matchedEdgesTotal.Add(float64(s.NumMatchedEdges))
	m.fpEdgesTotal.Add(float64(s.NumFPEdges))
	m.fnEdgesTotal.Add(float64(s.NumFNEdges))
}
