package monitor

import (
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/extractbench/internal/model"
)

var suggestions = map[string][]string{
	model.MetricProcessingTime: {
		"Split large documents into smaller page batches",
		"Lower OCR resolution for high-quality scans",
		"Check the extraction service for slow responses",
	},
	model.MetricMemoryUsage: {
		"Reduce the number of documents processed concurrently",
		"Release page images as soon as OCR completes",
		"Increase the memory available to the pipeline",
	},
	model.MetricQueueLength: {
		"Add extraction workers to drain the queue",
		"Throttle document intake until the backlog clears",
		"Prioritise small documents to reduce wait times",
	},
	model.MetricErrorRate: {
		"Inspect recent pipeline errors for a common cause",
		"Verify the OCR engine is reachable and healthy",
		"Route failing document types to manual review",
	},
	model.MetricThroughput: {
		"Batch entity mapping calls",
		"Profile the extraction stage for slow patterns",
		"Cache template detection results between documents",
	},
	model.MetricPipelineError: {
		"Check the document for corruption or an unsupported format",
		"Retry the operation once the pipeline is healthy",
		"Review pipeline logs for the operation id",
	},
}

// severityFor grades how far an observed value overshoots its limit.
func severityFor(ratio float64) model.AlertSeverity {
	switch {
	case ratio >= 2:
		return model.SeverityCritical
	case ratio >= 1.5:
		return model.SeverityError
	default:
		return model.SeverityWarning
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (m *Monitor) newAlert(severity model.AlertSeverity, metric, message string, current, threshold float64) model.PerformanceAlert {
	s := make([]string, len(suggestions[metric]))
	copy(s, suggestions[metric])
	return model.PerformanceAlert{
		Timestamp:    m.cfg.Now(),
		Severity:     severity,
		Metric:       metric,
		Message:      message,
		Suggestions:  s,
		CurrentValue: current,
		Threshold:    threshold,
	}
}

// checkSystem evaluates memory, queue length and error rate in a snapshot.
func (m *Monitor) checkSystem(snap model.PerformanceSnapshot) []model.PerformanceAlert {
	t := m.cfg.Alerts.Thresholds
	var alerts []model.PerformanceAlert

	if t.MaxMemoryBytes > 0 && snap.MemoryUsage > t.MaxMemoryBytes {
		ratio := float64(snap.MemoryUsage) / float64(t.MaxMemoryBytes)
		alerts = append(alerts, m.newAlert(severityFor(ratio), model.MetricMemoryUsage,
			fmt.Sprintf("Memory usage %s exceeds the %s limit", FormatBytes(snap.MemoryUsage), FormatBytes(t.MaxMemoryBytes)),
			float64(snap.MemoryUsage), float64(t.MaxMemoryBytes)))
	}

	if t.MaxQueueLength > 0 && snap.QueueLength > t.MaxQueueLength {
		ratio := float64(snap.QueueLength) / float64(t.MaxQueueLength)
		alerts = append(alerts, m.newAlert(severityFor(ratio), model.MetricQueueLength,
			fmt.Sprintf("Queue holds %d operations, above the limit of %d", snap.QueueLength, t.MaxQueueLength),
			float64(snap.QueueLength), float64(t.MaxQueueLength)))
	}

	if t.MaxErrorRate > 0 && snap.ErrorRate > t.MaxErrorRate {
		ratio := snap.ErrorRate / t.MaxErrorRate
		alerts = append(alerts, m.newAlert(severityFor(ratio), model.MetricErrorRate,
			fmt.Sprintf("Error rate %.1f%% exceeds the %.1f%% limit", snap.ErrorRate, t.MaxErrorRate),
			snap.ErrorRate, t.MaxErrorRate))
	}

	return alerts
}

// checkOperation evaluates processing time and throughput of one operation.
func (m *Monitor) checkOperation(id string, perf model.PerformanceMetrics) []model.PerformanceAlert {
	t := m.cfg.Alerts.Thresholds
	var alerts []model.PerformanceAlert

	if t.MaxProcessingTime > 0 && perf.ProcessingTime > t.MaxProcessingTime {
		ratio := float64(perf.ProcessingTime) / float64(t.MaxProcessingTime)
		a := m.newAlert(severityFor(ratio), model.MetricProcessingTime,
			fmt.Sprintf("Operation %s took %s, exceeding the %s limit", id, perf.ProcessingTime.Round(time.Millisecond), t.MaxProcessingTime),
			millis(perf.ProcessingTime), millis(t.MaxProcessingTime))
		a.OperationID = id
		alerts = append(alerts, a)
	}

	if perf.Success && t.MinThroughput > 0 && perf.Throughput < t.MinThroughput {
		ratio := math.Inf(1)
		if perf.Throughput > 0 {
			ratio = t.MinThroughput / perf.Throughput
		}
		a := m.newAlert(severityFor(ratio), model.MetricThroughput,
			fmt.Sprintf("Operation %s extracted %.2f entities/s, below the %.2f minimum", id, perf.Throughput, t.MinThroughput),
			perf.Throughput, t.MinThroughput)
		a.OperationID = id
		alerts = append(alerts, a)
	}

	return alerts
}
