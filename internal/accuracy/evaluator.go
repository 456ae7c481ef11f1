// Package accuracy scores an extraction result against its ground truth.
package accuracy

import (
	"log/slog"

	"github.com/Veraticus/extractbench/internal/model"
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithReuse lets one extracted entity satisfy several expected entities.
// By default matching is one-to-one.
func WithReuse() Option {
	return func(e *Evaluator) {
		e.reuse = true
	}
}

// Evaluator scores extraction results. It holds no mutable state and is
// safe for concurrent use.
type Evaluator struct {
	reuse bool
}

// NewEvaluator creates an evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEvaluator = NewEvaluator()

// Score compares an extraction with ground truth using one-to-one matching.
func Score(gt *model.GroundTruthDataset, result *model.ExtractionResult) model.AccuracyMetrics {
	return defaultEvaluator.Score(gt, result)
}

// Score compares an extraction with ground truth. Missing input scores as
// total inaccuracy rather than failing.
func (e *Evaluator) Score(gt *model.GroundTruthDataset, result *model.ExtractionResult) model.AccuracyMetrics {
	if gt == nil {
		gt = &model.GroundTruthDataset{}
	}
	if result == nil {
		result = &model.ExtractionResult{}
	}

	types := map[model.Category]model.EntityAccuracy{
		model.CategoryProjectStatus: categoryAccuracy(
			countMatches(gt.ProjectStatuses, result.ProjectStatuses, e.reuse, matchProjectStatus),
			len(gt.ProjectStatuses), len(result.ProjectStatuses)),
		model.CategoryRisk: categoryAccuracy(
			countMatches(gt.Risks, result.Risks, e.reuse, matchRisk),
			len(gt.Risks), len(result.Risks)),
		model.CategoryFinancial: categoryAccuracy(
			countMatches(gt.Financials, result.Financials, e.reuse, matchFinancial),
			len(gt.Financials), len(result.Financials)),
		model.CategoryMilestone: categoryAccuracy(
			countMatches(gt.Milestones, result.Milestones, e.reuse, matchMilestone),
			len(gt.Milestones), len(result.Milestones)),
		model.CategoryTeamUpdate: categoryAccuracy(
			countMatches(gt.TeamUpdates, result.TeamUpdates, e.reuse, matchTeamUpdate),
			len(gt.TeamUpdates), len(result.TeamUpdates)),
	}

	var overall model.EntityAccuracy
	for _, c := range model.Categories {
		overall = overall.Add(types[c])
	}

	metrics := model.AccuracyMetrics{
		Overall:     overall,
		EntityTypes: types,
		Quality:     AssessQuality(result),
	}

	slog.Debug("Scored extraction",
		"document_id", gt.DocumentID,
		"accuracy", overall.AccuracyScore,
		"f1", overall.F1Score)

	return metrics
}
