package benchmark

import (
	"cmp"
	"math"
	"slices"

	"github.com/Veraticus/extractbench/internal/model"
)

const (
	// StableBand is the first-to-last change, in percent, treated as stable.
	StableBand = 5.0
	// SignificantChangePercent flags consecutive benchmarks that differ by
	// more than this many percent.
	SignificantChangePercent = 10.0
)

// AnalyzeTrend orders benchmarks chronologically and classifies how overall
// accuracy moved from the first to the last one.
func AnalyzeTrend(benchmarks []model.AccuracyBenchmark) model.AccuracyTrend {
	points := make([]model.TrendPoint, 0, len(benchmarks))
	for _, b := range benchmarks {
		points = append(points, model.TrendPoint{
			Timestamp:     b.Timestamp,
			DocumentID:    b.DocumentID,
			AccuracyScore: b.Accuracy.Overall.AccuracyScore,
		})
	}
	slices.SortStableFunc(points, func(a, b model.TrendPoint) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	trend := model.AccuracyTrend{
		Direction:          model.TrendStable,
		Points:             points,
		SignificantChanges: []model.SignificantChange{},
	}
	if len(points) < 2 {
		return trend
	}

	for i := 1; i < len(points); i++ {
		change := percentChange(points[i-1].AccuracyScore, points[i].AccuracyScore)
		if math.Abs(change) > SignificantChangePercent {
			trend.SignificantChanges = append(trend.SignificantChanges, model.SignificantChange{
				From:          points[i-1],
				To:            points[i],
				ChangePercent: change,
			})
		}
	}

	trend.ChangePercent = percentChange(points[0].AccuracyScore, points[len(points)-1].AccuracyScore)
	switch {
	case trend.ChangePercent > StableBand:
		trend.Direction = model.TrendImproving
	case trend.ChangePercent < -StableBand:
		trend.Direction = model.TrendDeclining
	}
	return trend
}

// percentChange is the relative change from a to b in percent. Any move
// away from zero counts as a full 100%.
func percentChange(a, b float64) float64 {
	if a == 0 {
		if b == 0 {
			return 0
		}
		return 100 * float64(cmp.Compare(b, a))
	}
	return (b - a) / a * 100
}
