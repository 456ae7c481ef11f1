// Package benchmark combines accuracy scores and performance measurements
// into benchmarks and rolls many benchmarks up into reports.
package benchmark

import (
	"fmt"
	"time"

	"github.com/Veraticus/extractbench/internal/accuracy"
	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/model"
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithEvaluator sets the evaluator used to score extractions.
func WithEvaluator(e *accuracy.Evaluator) Option {
	return func(a *Aggregator) {
		a.evaluator = e
	}
}

// Aggregator builds benchmarks and reports.
type Aggregator struct {
	evaluator *accuracy.Evaluator
	now       func() time.Time
}

// NewAggregator creates an aggregator with a default evaluator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		evaluator: accuracy.NewEvaluator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAggregator = NewAggregator()

// CreateBenchmark scores result against gt with the default aggregator.
func CreateBenchmark(gt *model.GroundTruthDataset, result *model.ExtractionResult, perf model.PerformanceMetrics) model.AccuracyBenchmark {
	return defaultAggregator.CreateBenchmark(gt, result, perf)
}

// GenerateReport builds a report with the default aggregator.
func GenerateReport(benchmarks []model.AccuracyBenchmark) (model.BenchmarkReport, error) {
	return defaultAggregator.GenerateReport(benchmarks)
}

// CreateBenchmark scores result against gt and stamps the benchmark with the
// current time.
func (a *Aggregator) CreateBenchmark(gt *model.GroundTruthDataset, result *model.ExtractionResult, perf model.PerformanceMetrics) model.AccuracyBenchmark {
	b := model.AccuracyBenchmark{
		Timestamp:   a.now(),
		Accuracy:    a.evaluator.Score(gt, result),
		Performance: perf,
	}
	if gt != nil {
		b.GroundTruth = *gt
		b.DocumentID = gt.DocumentID
		b.DocumentType = gt.TemplateID
	}
	if result != nil {
		b.Extraction = *result
		if b.DocumentID == "" {
			b.DocumentID = result.DocumentID
		}
	}
	return b
}

// GenerateReport summarizes benchmarks. An empty list returns
// ErrNoBenchmarks.
func (a *Aggregator) GenerateReport(benchmarks []model.AccuracyBenchmark) (model.BenchmarkReport, error) {
	if len(benchmarks) == 0 {
		return model.BenchmarkReport{}, fmt.Errorf("failed to generate report: %w", common.ErrNoBenchmarks)
	}

	summary := summarize(benchmarks)
	return model.BenchmarkReport{
		GeneratedAt:      a.now(),
		Summary:          summary,
		Recommendations:  Recommendations(summary),
		ImprovementAreas: ImprovementAreas(summary.AverageAccuracy),
		Trend:            AnalyzeTrend(benchmarks),
	}, nil
}

func summarize(benchmarks []model.AccuracyBenchmark) model.BenchmarkSummary {
	s := model.BenchmarkSummary{
		TotalBenchmarks:    len(benchmarks),
		AverageAccuracy:    averageAccuracy(benchmarks),
		AveragePerformance: averagePerformance(benchmarks),
	}

	for i, b := range benchmarks {
		s.TotalExpected += b.GroundTruth.TotalExpectedEntities
		s.TotalExtracted += b.Extraction.CountEntities()

		score := documentScore(b)
		if i == 0 || score.AccuracyScore > s.BestDocument.AccuracyScore {
			s.BestDocument = score
		}
		if i == 0 || score.AccuracyScore < s.WorstDocument.AccuracyScore {
			s.WorstDocument = score
		}
	}
	return s
}

func documentScore(b model.AccuracyBenchmark) model.DocumentScore {
	return model.DocumentScore{
		DocumentID:    b.DocumentID,
		DocumentType:  b.DocumentType,
		AccuracyScore: b.Accuracy.Overall.AccuracyScore,
	}
}

// averageAccuracy averages every score component-wise across benchmarks.
// Counts are summed so the totals stay visible.
func averageAccuracy(benchmarks []model.AccuracyBenchmark) model.AccuracyMetrics {
	n := float64(len(benchmarks))
	out := model.AccuracyMetrics{EntityTypes: make(map[model.Category]model.EntityAccuracy, len(model.Categories))}

	for _, c := range model.Categories {
		var sum model.EntityAccuracy
		for _, b := range benchmarks {
			sum = accumulate(sum, b.Accuracy.Category(c))
		}
		out.EntityTypes[c] = divide(sum, n)
	}

	var overall model.EntityAccuracy
	var q model.QualityMetrics
	for _, b := range benchmarks {
		overall = accumulate(overall, b.Accuracy.Overall)

		bq := b.Accuracy.Quality
		q.AverageConfidence += bq.AverageConfidence
		q.TextQualityScore += bq.TextQualityScore
		q.StructuralAccuracy += bq.StructuralAccuracy
		q.ConfidenceDistribution.High += bq.ConfidenceDistribution.High
		q.ConfidenceDistribution.Medium += bq.ConfidenceDistribution.Medium
		q.ConfidenceDistribution.Low += bq.ConfidenceDistribution.Low
	}
	out.Overall = divide(overall, n)

	q.AverageConfidence /= n
	q.TextQualityScore /= n
	q.StructuralAccuracy /= n
	out.Quality = q
	return out
}

func accumulate(sum, a model.EntityAccuracy) model.EntityAccuracy {
	sum.Precision += a.Precision
	sum.Recall += a.Recall
	sum.F1Score += a.F1Score
	sum.AccuracyScore += a.AccuracyScore
	sum.TruePositives += a.TruePositives
	sum.FalsePositives += a.FalsePositives
	sum.FalseNegatives += a.FalseNegatives
	return sum
}

func divide(sum model.EntityAccuracy, n float64) model.EntityAccuracy {
	sum.Precision /= n
	sum.Recall /= n
	sum.F1Score /= n
	sum.AccuracyScore /= n
	return sum
}

func averagePerformance(benchmarks []model.AccuracyBenchmark) model.PerformanceMetrics {
	n := len(benchmarks)
	var (
		processing, ocr, extraction, mapping time.Duration
		memory                               int64
		throughput                           float64
		entities                             int
	)
	out := model.PerformanceMetrics{Success: true}

	for _, b := range benchmarks {
		p := b.Performance
		processing += p.ProcessingTime
		ocr += p.StageTimings.OCR
		extraction += p.StageTimings.Extraction
		mapping += p.StageTimings.Mapping
		memory += p.MemoryUsage
		throughput += p.Throughput
		entities += p.EntityCount
		out.Success = out.Success && p.Success
		out.StageTimings.Estimated = out.StageTimings.Estimated || p.StageTimings.Estimated
	}

	d := time.Duration(n)
	out.ProcessingTime = processing / d
	out.StageTimings.OCR = ocr / d
	out.StageTimings.Extraction = extraction / d
	out.StageTimings.Mapping = mapping / d
	out.MemoryUsage = memory / int64(n)
	out.Throughput = throughput / float64(n)
	out.EntityCount = entities / n
	return out
}
