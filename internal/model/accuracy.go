package model

// EntityAccuracy holds retrieval metrics for one comparison. Every score is
// derived from the three counts by NewEntityAccuracy.
type EntityAccuracy struct {
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1Score        float64 `json:"f1_score"`
	AccuracyScore  float64 `json:"accuracy_score"`
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	FalseNegatives int     `json:"false_negatives"`
}

// NewEntityAccuracy computes precision, recall, F1 and the 0-100 accuracy
// score from raw counts. Undefined ratios are reported as 0.
func NewEntityAccuracy(tp, fp, fn int) EntityAccuracy {
	a := EntityAccuracy{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}
	if tp+fp > 0 {
		a.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		a.Recall = float64(tp) / float64(tp+fn)
	}
	if a.Precision+a.Recall > 0 {
		a.F1Score = 2 * a.Precision * a.Recall / (a.Precision + a.Recall)
	}
	if total := tp + fp + fn; total > 0 {
		a.AccuracyScore = 100 * float64(tp) / float64(total)
	}
	return a
}

// Add returns the accuracy recomputed from the summed counts of a and b.
func (a EntityAccuracy) Add(b EntityAccuracy) EntityAccuracy {
	return NewEntityAccuracy(
		a.TruePositives+b.TruePositives,
		a.FalsePositives+b.FalsePositives,
		a.FalseNegatives+b.FalseNegatives,
	)
}

// ConfidenceDistribution buckets extracted entities by confidence.
// High is above 0.8, medium is 0.6 to 0.8 inclusive, low is below 0.6.
type ConfidenceDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// QualityMetrics summarizes the quality of an extraction beyond matching.
type QualityMetrics struct {
	ConfidenceDistribution ConfidenceDistribution `json:"confidence_distribution"`
	AverageConfidence      float64                `json:"average_confidence"`
	TextQualityScore       float64                `json:"text_quality_score"`
	StructuralAccuracy     float64                `json:"structural_accuracy"`
}

// AccuracyMetrics is the full score of one extraction against its ground truth.
type AccuracyMetrics struct {
	EntityTypes map[Category]EntityAccuracy `json:"entity_types"`
	Overall     EntityAccuracy              `json:"overall"`
	Quality     QualityMetrics              `json:"quality"`
}

// Category returns the accuracy of one category, zero-valued when absent.
func (m AccuracyMetrics) Category(c Category) EntityAccuracy {
	if m.EntityTypes == nil {
		return EntityAccuracy{}
	}
	return m.EntityTypes[c]
}
