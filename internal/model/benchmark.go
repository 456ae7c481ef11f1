package model

import "time"

// AccuracyBenchmark is one scored extraction run combining accuracy and
// performance measurements.
type AccuracyBenchmark struct {
	Timestamp    time.Time          `json:"timestamp"`
	DocumentID   string             `json:"document_id"`
	DocumentType string             `json:"document_type"`
	GroundTruth  GroundTruthDataset `json:"ground_truth"`
	Extraction   ExtractionResult   `json:"extraction"`
	Accuracy     AccuracyMetrics    `json:"accuracy"`
	Performance  PerformanceMetrics `json:"performance"`
}

// Priority ranks recommendations and improvement areas.
type Priority string

// Priority levels.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities so they can be sorted.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// DocumentScore identifies a document by its overall accuracy.
type DocumentScore struct {
	DocumentID    string  `json:"document_id"`
	DocumentType  string  `json:"document_type"`
	AccuracyScore float64 `json:"accuracy_score"`
}

// BenchmarkSummary holds the averaged statistics of a report.
type BenchmarkSummary struct {
	AverageAccuracy    AccuracyMetrics    `json:"average_accuracy"`
	AveragePerformance PerformanceMetrics `json:"average_performance"`
	BestDocument       DocumentScore      `json:"best_document"`
	WorstDocument      DocumentScore      `json:"worst_document"`
	TotalBenchmarks    int                `json:"total_benchmarks"`
	TotalExpected      int                `json:"total_expected"`
	TotalExtracted     int                `json:"total_extracted"`
}

// Recommendation is one piece of advice derived from averaged metrics.
type Recommendation struct {
	Priority Priority `json:"priority"`
	Area     string   `json:"area"`
	Message  string   `json:"message"`
}

// ImprovementArea is a metric that fell short of its target.
type ImprovementArea struct {
	Area         string   `json:"area"`
	Priority     Priority `json:"priority"`
	Description  string   `json:"description"`
	CurrentScore float64  `json:"current_score"`
	TargetScore  float64  `json:"target_score"`
}

// TrendDirection classifies how accuracy moved over time.
type TrendDirection string

// Trend directions.
const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// TrendPoint is one benchmark's overall score on the timeline.
type TrendPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	DocumentID    string    `json:"document_id"`
	AccuracyScore float64   `json:"accuracy_score"`
}

// SignificantChange flags a large jump between consecutive benchmarks.
type SignificantChange struct {
	From          TrendPoint `json:"from"`
	To            TrendPoint `json:"to"`
	ChangePercent float64    `json:"change_percent"`
}

// AccuracyTrend describes accuracy over time.
type AccuracyTrend struct {
	Direction          TrendDirection      `json:"direction"`
	Points             []TrendPoint        `json:"points"`
	SignificantChanges []SignificantChange `json:"significant_changes"`
	ChangePercent      float64             `json:"change_percent"`
}

// BenchmarkReport is derived entirely from a set of benchmarks.
type BenchmarkReport struct {
	GeneratedAt      time.Time         `json:"generated_at"`
	Summary          BenchmarkSummary  `json:"summary"`
	Recommendations  []Recommendation  `json:"recommendations"`
	ImprovementAreas []ImprovementArea `json:"improvement_areas"`
	Trend            AccuracyTrend     `json:"trend"`
}
