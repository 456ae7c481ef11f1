package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the Prometheus collectors the monitor publishes.
type metrics struct {
	activeOperations  prometheus.Gauge
	queueLength       prometheus.Gauge
	memoryBytes       prometheus.Gauge
	errorRate         prometheus.Gauge
	operations        *prometheus.CounterVec
	processingSeconds *prometheus.HistogramVec
	alerts            *prometheus.CounterVec
}

// newMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		activeOperations: f.NewGauge(prometheus.GaugeOpts{
			Name: "extractbench_active_operations",
			Help: "Number of pipeline operations currently in flight",
		}),
		queueLength: f.NewGauge(prometheus.GaugeOpts{
			Name: "extractbench_queue_length",
			Help: "Number of operations waiting in the processing queue",
		}),
		memoryBytes: f.NewGauge(prometheus.GaugeOpts{
			Name: "extractbench_memory_bytes",
			Help: "Process memory usage at the last sample",
		}),
		errorRate: f.NewGauge(prometheus.GaugeOpts{
			Name: "extractbench_error_rate_percent",
			Help: "Share of operations that failed",
		}),
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "extractbench_operations_total",
			Help: "Completed pipeline operations by outcome",
		}, []string{"status"}),
		processingSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "extractbench_processing_seconds",
			Help:    "Pipeline operation duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"document_type"}),
		alerts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "extractbench_alerts_total",
			Help: "Performance alerts raised by severity and metric",
		}, []string{"severity", "metric"}),
	}
}

func (m *metrics) reset() {
	m.activeOperations.Set(0)
	m.queueLength.Set(0)
	m.memoryBytes.Set(0)
	m.errorRate.Set(0)
}
