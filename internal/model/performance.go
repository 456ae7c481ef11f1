package model

import "time"

// Stage is the pipeline stage an operation is currently in.
type Stage string

// Pipeline stages in the order an operation moves through them.
const (
	StageOCR        Stage = "ocr"
	StageExtraction Stage = "extraction"
	StageMapping    Stage = "mapping"
	StageComplete   Stage = "complete"
)

// StageTimings breaks total processing time down per stage. Estimated is set
// when the breakdown was derived from fixed ratios instead of observed
// stage transitions.
type StageTimings struct {
	OCR        time.Duration `json:"ocr"`
	Extraction time.Duration `json:"extraction"`
	Mapping    time.Duration `json:"mapping"`
	Estimated  bool          `json:"estimated"`
}

// PerformanceMetrics describes one completed pipeline operation.
type PerformanceMetrics struct {
	ProcessingTime time.Duration `json:"processing_time"`
	StageTimings   StageTimings  `json:"stage_timings"`
	MemoryUsage    int64         `json:"memory_usage"`
	Throughput     float64       `json:"throughput"`
	EntityCount    int           `json:"entity_count"`
	Success        bool          `json:"success"`
}

// PerformanceSnapshot is a point-in-time sample of monitor state.
type PerformanceSnapshot struct {
	Timestamp        time.Time `json:"timestamp"`
	MemoryUsage      uint64    `json:"memory_usage"`
	ErrorRate        float64   `json:"error_rate"`
	ActiveOperations int       `json:"active_operations"`
	QueueLength      int       `json:"queue_length"`
}

// AlertSeverity grades a threshold breach.
type AlertSeverity string

// Alert severities, least to most severe.
const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityError    AlertSeverity = "error"
	SeverityCritical AlertSeverity = "critical"
)

// Rank orders severities so they can be compared.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	case SeverityCritical:
		return 3
	default:
		return 0
	}
}

// Alert metric names.
const (
	MetricProcessingTime = "processing_time"
	MetricMemoryUsage    = "memory_usage"
	MetricQueueLength    = "queue_length"
	MetricErrorRate      = "error_rate"
	MetricThroughput     = "throughput"
	MetricPipelineError  = "pipeline_error"
)

// PerformanceAlert records one threshold breach. Processing time values are
// expressed in milliseconds.
type PerformanceAlert struct {
	Timestamp    time.Time     `json:"timestamp"`
	Severity     AlertSeverity `json:"severity"`
	Metric       string        `json:"metric"`
	Message      string        `json:"message"`
	OperationID  string        `json:"operation_id,omitempty"`
	Suggestions  []string      `json:"suggestions"`
	CurrentValue float64       `json:"current_value"`
	Threshold    float64       `json:"threshold"`
}
