package accuracy

import (
	"regexp"
	"strings"

	"github.com/Veraticus/extractbench/internal/model"
)

// Confidence bucket bounds.
const (
	HighConfidence   = 0.8
	MediumConfidence = 0.6
	// VeryLowConfidence marks entities that count against structural accuracy.
	VeryLowConfidence = 0.4
)

const (
	noisePenalty = 15.0

	sparsePenalty        = 20.0
	lowConfidencePenalty = 30.0
	snippetPenalty       = 20.0

	minSnippetLength = 3
	maxSnippetLength = 500
)

// noisePatterns indicate scan noise in OCR output. Each pattern that
// matches costs noisePenalty points once.
var noisePatterns = []*regexp.Regexp{
	// ambiguous glyph runs: l/I/| confusion and mixed O/0
	regexp.MustCompile(`[Il|]{4,}|[0O]*(?:O0|0O)[0O]*`),
	// unusual punctuation
	regexp.MustCompile("[~^`¬§¶¦]|[,;:!?]{2,}"),
	// excessive whitespace
	regexp.MustCompile(`[ \t]{5,}|\n{4,}`),
	// very long uppercase runs
	regexp.MustCompile(`[A-Z]{20,}`),
}

// AssessQuality computes the confidence distribution and heuristic text and
// structural scores of an extraction.
func AssessQuality(result *model.ExtractionResult) model.QualityMetrics {
	if result == nil {
		return model.QualityMetrics{}
	}

	spans := result.Spans()
	q := model.QualityMetrics{
		TextQualityScore:   TextQuality(result.RawText),
		StructuralAccuracy: structuralAccuracy(spans),
	}

	if len(spans) == 0 {
		return q
	}

	var sum float64
	for _, s := range spans {
		sum += s.Confidence
		switch {
		case s.Confidence > HighConfidence:
			q.ConfidenceDistribution.High++
		case s.Confidence >= MediumConfidence:
			q.ConfidenceDistribution.Medium++
		default:
			q.ConfidenceDistribution.Low++
		}
	}
	q.AverageConfidence = sum / float64(len(spans))

	return q
}

// TextQuality scores OCR text from 100 down, deducting a fixed penalty for
// each noise pattern present. Empty text scores 0.
func TextQuality(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	score := 100.0
	for _, p := range noisePatterns {
		if p.MatchString(text) {
			score -= noisePenalty
		}
	}
	return max(score, 0)
}

func structuralAccuracy(spans []model.Span) float64 {
	if len(spans) == 0 {
		return 0
	}

	score := 100.0
	total := float64(len(spans))

	if total/float64(len(model.Categories)) < 1 {
		score -= sparsePenalty
	}

	var veryLow, badSnippets int
	for _, s := range spans {
		if s.Confidence < VeryLowConfidence {
			veryLow++
		}
		n := len([]rune(strings.TrimSpace(s.Text)))
		if n < minSnippetLength || n > maxSnippetLength {
			badSnippets++
		}
	}
	if float64(veryLow)/total > 0.5 {
		score -= lowConfidencePenalty
	}
	if float64(badSnippets)/total > 0.2 {
		score -= snippetPenalty
	}

	return max(score, 0)
}
