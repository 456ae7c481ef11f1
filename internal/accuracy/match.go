package accuracy

import (
	"math"
	"strings"

	"github.com/Veraticus/extractbench/internal/model"
)

// Matching thresholds.
const (
	RiskOverlapThreshold       = 0.7
	MilestoneNameThreshold     = 0.8
	FinancialTolerance         = 0.10
	UtilizationTolerancePoints = 5.0
)

func matchProjectStatus(e model.ExpectedProjectStatus, x model.ExtractedProjectStatus) bool {
	return sameName(e.ProjectName, x.ProjectName) && e.Status == x.Status
}

func matchRisk(e model.ExpectedRisk, x model.ExtractedRisk) bool {
	return WordOverlap(e.Description, x.Description) > RiskOverlapThreshold &&
		strings.EqualFold(string(e.Impact), string(x.Impact))
}

func matchFinancial(e model.ExpectedFinancial, x model.ExtractedFinancial) bool {
	if !sameName(e.ProjectName, x.ProjectName) {
		return false
	}
	return withinTolerance(e.Budget, x.Budget, FinancialTolerance) ||
		withinTolerance(e.Actual, x.Actual, FinancialTolerance) ||
		withinTolerance(e.Forecast, x.Forecast, FinancialTolerance)
}

func matchMilestone(e model.ExpectedMilestone, x model.ExtractedMilestone) bool {
	return NameSimilarity(e.Name, x.Name) > MilestoneNameThreshold &&
		sameName(e.ProjectName, x.ProjectName)
}

func matchTeamUpdate(e model.ExpectedTeamUpdate, x model.ExtractedTeamUpdate) bool {
	return sameName(e.TeamName, x.TeamName) &&
		math.Abs(e.Utilization-x.Utilization) <= UtilizationTolerancePoints
}

// countMatches returns the number of expected entities with a satisfying
// extracted entity. Each expected entity takes the first candidate that
// matches. With reuse disabled a matched candidate is consumed.
func countMatches[E, X any](expected []E, extracted []X, reuse bool, match func(E, X) bool) int {
	used := make([]bool, len(extracted))
	matched := 0
	for _, e := range expected {
		for j, x := range extracted {
			if used[j] && !reuse {
				continue
			}
			if match(e, x) {
				used[j] = true
				matched++
				break
			}
		}
	}
	return matched
}

// categoryAccuracy turns a match count into EntityAccuracy. False positives
// are clamped at zero because reuse can match more expected entities than
// there are extracted ones.
func categoryAccuracy(matched, expected, extracted int) model.EntityAccuracy {
	fp := max(extracted-matched, 0)
	fn := max(expected-matched, 0)
	return model.NewEntityAccuracy(matched, fp, fn)
}
