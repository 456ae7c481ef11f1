package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEntityAccuracy(t *testing.T) {
	tests := []struct {
		name          string
		tp, fp, fn    int
		wantPrecision float64
		wantRecall    float64
		wantF1        float64
		wantAccuracy  float64
	}{
		{name: "perfect", tp: 4, wantPrecision: 1, wantRecall: 1, wantF1: 1, wantAccuracy: 100},
		{name: "nothing at all"},
		{name: "only misses", fn: 3},
		{name: "only spurious", fp: 2},
		{name: "mixed", tp: 3, fp: 1, fn: 2, wantPrecision: 0.75, wantRecall: 0.6, wantF1: 2 * 0.75 * 0.6 / 1.35, wantAccuracy: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewEntityAccuracy(tt.tp, tt.fp, tt.fn)
			assert.InDelta(t, tt.wantPrecision, a.Precision, 1e-9)
			assert.InDelta(t, tt.wantRecall, a.Recall, 1e-9)
			assert.InDelta(t, tt.wantF1, a.F1Score, 1e-9)
			assert.InDelta(t, tt.wantAccuracy, a.AccuracyScore, 1e-9)
			assert.Equal(t, tt.tp, a.TruePositives)
			assert.Equal(t, tt.fp, a.FalsePositives)
			assert.Equal(t, tt.fn, a.FalseNegatives)

			for _, v := range []float64{a.Precision, a.Recall, a.F1Score} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
			assert.LessOrEqual(t, a.AccuracyScore, 100.0)
		})
	}
}

func TestEntityAccuracy_Add(t *testing.T) {
	sum := NewEntityAccuracy(2, 0, 1).Add(NewEntityAccuracy(1, 1, 0))
	assert.Equal(t, NewEntityAccuracy(3, 1, 1), sum)
	assert.InDelta(t, 60.0, sum.AccuracyScore, 1e-9)
}

func TestAccuracyMetrics_Category(t *testing.T) {
	var empty AccuracyMetrics
	assert.Equal(t, EntityAccuracy{}, empty.Category(CategoryRisk))

	m := AccuracyMetrics{EntityTypes: map[Category]EntityAccuracy{
		CategoryRisk: NewEntityAccuracy(1, 0, 0),
	}}
	assert.InDelta(t, 100.0, m.Category(CategoryRisk).AccuracyScore, 1e-9)
	assert.Equal(t, EntityAccuracy{}, m.Category(CategoryMilestone))

	scored := func() AccuracyMetrics { return m }
	assert.InDelta(t, 100.0, scored().Category(CategoryRisk).AccuracyScore, 1e-9)
}

func TestRanks(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Zero(t, Priority("urgent").Rank())

	assert.Greater(t, SeverityCritical.Rank(), SeverityError.Rank())
	assert.Greater(t, SeverityError.Rank(), SeverityWarning.Rank())
	assert.Zero(t, AlertSeverity("info").Rank())
}
