package benchmark

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/Veraticus/extractbench/internal/model"
)

// Limits on averaged metrics below which a recommendation is made.
const (
	MinOverallAccuracy    = 70.0
	MinCategoryF1         = 0.6
	MinAverageConfidence  = 0.6
	MinTextQuality        = 70.0
	MinStructuralAccuracy = 70.0
	MaxAverageProcessing  = 30 * time.Second
	MinAverageThroughput  = 1.0
)

// Accuracy targets for improvement areas.
const (
	CategoryTarget = 80.0
	OverallTarget  = 75.0
)

// AreaOverall names the improvement area for overall accuracy.
const AreaOverall = "overall"

var categoryAdvice = map[model.Category]string{
	model.CategoryProjectStatus: "Tighten RAG status detection: map colour cells and status keywords to red, amber and green explicitly",
	model.CategoryRisk:          "Improve risk table parsing: keep multi-line descriptions together and read impact from its own column",
	model.CategoryFinancial:     "Improve amount extraction: strip currency symbols and thousands separators before parsing numbers",
	model.CategoryMilestone:     "Improve milestone detection: anchor on date columns and link each milestone to its project row",
	model.CategoryTeamUpdate:    "Improve team update parsing: read utilization percentages and headcounts from the team table",
}

// Recommendations derives advice from averaged metrics, highest priority
// first.
func Recommendations(s model.BenchmarkSummary) []model.Recommendation {
	acc := s.AverageAccuracy
	var recs []model.Recommendation

	if score := acc.Overall.AccuracyScore; score < MinOverallAccuracy {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityHigh,
			Area:     AreaOverall,
			Message:  fmt.Sprintf("Overall accuracy is %.1f%%: improve document preprocessing (deskew, denoise, raise scan resolution) before extraction", score),
		})
	}

	for _, c := range model.Categories {
		f1 := acc.Category(c).F1Score
		if f1 >= MinCategoryF1 {
			continue
		}
		priority := model.PriorityMedium
		if f1 < MinCategoryF1/2 {
			priority = model.PriorityHigh
		}
		recs = append(recs, model.Recommendation{
			Priority: priority,
			Area:     string(c),
			Message:  fmt.Sprintf("%s F1 is %.2f: %s", c.DisplayName(), f1, categoryAdvice[c]),
		})
	}

	q := acc.Quality
	if q.AverageConfidence < MinAverageConfidence {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityHigh,
			Area:     "ocr_quality",
			Message:  fmt.Sprintf("Average confidence is %.2f: improve OCR quality with higher resolution scans or a better engine", q.AverageConfidence),
		})
	}
	if q.TextQualityScore < MinTextQuality {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityMedium,
			Area:     "text_quality",
			Message:  fmt.Sprintf("Text quality score is %.0f: recognized text shows scan noise, clean it before entity mapping", q.TextQualityScore),
		})
	}
	if q.StructuralAccuracy < MinStructuralAccuracy {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityLow,
			Area:     "structure",
			Message:  fmt.Sprintf("Structural accuracy is %.0f: check section detection and span boundaries", q.StructuralAccuracy),
		})
	}

	perf := s.AveragePerformance
	if perf.ProcessingTime > MaxAverageProcessing {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityMedium,
			Area:     "performance",
			Message:  fmt.Sprintf("Average processing time is %s: process pages in parallel or reduce OCR resolution", perf.ProcessingTime.Round(time.Millisecond)),
		})
	}
	if perf.Throughput < MinAverageThroughput {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityLow,
			Area:     "throughput",
			Message:  fmt.Sprintf("Average throughput is %.2f entities/s: batch entity mapping calls", perf.Throughput),
		})
	}

	slices.SortStableFunc(recs, func(a, b model.Recommendation) int {
		return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
	})
	return recs
}

// ImprovementAreas lists categories below CategoryTarget and overall
// accuracy below OverallTarget, highest priority first.
func ImprovementAreas(acc model.AccuracyMetrics) []model.ImprovementArea {
	var areas []model.ImprovementArea

	for _, c := range model.Categories {
		score := acc.Category(c).AccuracyScore
		if score >= CategoryTarget {
			continue
		}
		areas = append(areas, model.ImprovementArea{
			Area:         string(c),
			Priority:     gapPriority(CategoryTarget - score),
			Description:  fmt.Sprintf("%s accuracy %.1f%% is below the %.0f%% target", c.DisplayName(), score, CategoryTarget),
			CurrentScore: score,
			TargetScore:  CategoryTarget,
		})
	}

	if score := acc.Overall.AccuracyScore; score < OverallTarget {
		areas = append(areas, model.ImprovementArea{
			Area:         AreaOverall,
			Priority:     gapPriority(OverallTarget - score),
			Description:  fmt.Sprintf("Overall accuracy %.1f%% is below the %.0f%% target", score, OverallTarget),
			CurrentScore: score,
			TargetScore:  OverallTarget,
		})
	}

	slices.SortStableFunc(areas, func(a, b model.ImprovementArea) int {
		if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(b.TargetScore-b.CurrentScore, a.TargetScore-a.CurrentScore)
	})
	return areas
}

func gapPriority(gap float64) model.Priority {
	switch {
	case gap > 30:
		return model.PriorityHigh
	case gap > 15:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
