package benchmark

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/extractbench/internal/cli"
	"github.com/Veraticus/extractbench/internal/model"
)

// CLIFormatter renders reports for terminal display.
type CLIFormatter struct {
	styles *Styles
}

// NewCLIFormatter creates a new CLI formatter with default styles.
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles(),
	}
}

// FormatReport renders a full report.
func (f *CLIFormatter) FormatReport(report *model.BenchmarkReport) string {
	if report == nil {
		return f.styles.Error.Render("No report available")
	}

	sections := []string{
		f.formatHeader(report),
		f.formatScore(report.Summary.AverageAccuracy.Overall.AccuracyScore),
		f.formatCategories(report.Summary.AverageAccuracy),
		f.formatDocuments(report.Summary),
		f.formatTrend(report.Trend),
	}
	if len(report.Recommendations) > 0 {
		sections = append(sections, f.formatRecommendations(report.Recommendations))
	}
	if len(report.ImprovementAreas) > 0 {
		sections = append(sections, f.formatImprovementAreas(report.ImprovementAreas))
	}
	return strings.Join(sections, "\n\n")
}

// FormatBenchmark renders the score of a single benchmark.
func (f *CLIFormatter) FormatBenchmark(b *model.AccuracyBenchmark) string {
	if b == nil {
		return f.styles.Error.Render("No benchmark available")
	}

	title := f.styles.Title.Render(fmt.Sprintf("%s Benchmark: %s", cli.ChartIcon, b.DocumentID))
	q := b.Accuracy.Quality
	quality := strings.Join([]string{
		cli.FormatKeyValue("Average confidence", fmt.Sprintf("%.2f", q.AverageConfidence)),
		cli.FormatKeyValue("Confidence (high/medium/low)", fmt.Sprintf("%d/%d/%d",
			q.ConfidenceDistribution.High, q.ConfidenceDistribution.Medium, q.ConfidenceDistribution.Low)),
		cli.FormatKeyValue("Text quality", fmt.Sprintf("%.0f", q.TextQualityScore)),
		cli.FormatKeyValue("Structural accuracy", fmt.Sprintf("%.0f", q.StructuralAccuracy)),
	}, "\n")

	return strings.Join([]string{
		title,
		f.formatScore(b.Accuracy.Overall.AccuracyScore),
		f.formatCategories(b.Accuracy),
		f.styles.Box.Render(quality),
	}, "\n\n")
}

func (f *CLIFormatter) formatHeader(report *model.BenchmarkReport) string {
	title := f.styles.Title.Render(cli.ChartIcon + " Extraction Benchmark Report")
	s := report.Summary
	counts := f.styles.Subtitle.Render(fmt.Sprintf("%d benchmarks, %d expected entities, %d extracted",
		s.TotalBenchmarks, s.TotalExpected, s.TotalExtracted))
	generated := f.styles.Subtle.Render("Generated: " + report.GeneratedAt.Format(time.RFC3339))
	return fmt.Sprintf("%s\n%s\n%s", title, counts, generated)
}

func (f *CLIFormatter) formatScore(score float64) string {
	style := f.styles.ForScore(score)
	text := style.Render(fmt.Sprintf("Overall accuracy: %.1f%%", score))
	return text + "\n" + style.Render(f.styles.RenderBar(score, 30))
}

func (f *CLIFormatter) formatCategories(acc model.AccuracyMetrics) string {
	header := f.styles.Cell.Bold(true).Render(fmt.Sprintf("%-16s", "Category")) +
		f.styles.Cell.Bold(true).Render(fmt.Sprintf("%9s", "Precision")) +
		f.styles.Cell.Bold(true).Render(fmt.Sprintf("%7s", "Recall")) +
		f.styles.Cell.Bold(true).Render(fmt.Sprintf("%5s", "F1")) +
		f.styles.Cell.Bold(true).Render(fmt.Sprintf("%9s", "Accuracy"))

	lines := []string{header}
	for _, c := range model.Categories {
		a := acc.Category(c)
		lines = append(lines,
			f.styles.Cell.Render(fmt.Sprintf("%-16s", c.DisplayName()))+
				f.styles.Cell.Render(fmt.Sprintf("%9.2f", a.Precision))+
				f.styles.Cell.Render(fmt.Sprintf("%7.2f", a.Recall))+
				f.styles.Cell.Render(fmt.Sprintf("%5.2f", a.F1Score))+
				f.styles.ForScore(a.AccuracyScore).Render(fmt.Sprintf("%8.1f%%", a.AccuracyScore)))
	}
	return f.styles.Box.Render(strings.Join(lines, "\n"))
}

func (f *CLIFormatter) formatDocuments(s model.BenchmarkSummary) string {
	best := f.styles.Success.Render(fmt.Sprintf("Best:  %s (%s) %.1f%%",
		s.BestDocument.DocumentID, s.BestDocument.DocumentType, s.BestDocument.AccuracyScore))
	worst := f.styles.Error.Render(fmt.Sprintf("Worst: %s (%s) %.1f%%",
		s.WorstDocument.DocumentID, s.WorstDocument.DocumentType, s.WorstDocument.AccuracyScore))

	perf := s.AveragePerformance
	timing := f.styles.Subtle.Render(fmt.Sprintf("Average processing %s, %.2f entities/s",
		perf.ProcessingTime.Round(time.Millisecond), perf.Throughput))
	return strings.Join([]string{best, worst, timing}, "\n")
}

func (f *CLIFormatter) formatTrend(trend model.AccuracyTrend) string {
	var icon string
	var style = f.styles.Info
	switch trend.Direction {
	case model.TrendImproving:
		icon, style = cli.TrendUp, f.styles.Success
	case model.TrendDeclining:
		icon, style = cli.TrendDown, f.styles.Error
	default:
		icon = "➡️"
	}

	lines := []string{
		style.Render(fmt.Sprintf("%s Trend: %s (%+.1f%%)", icon, trend.Direction, trend.ChangePercent)),
	}
	for _, c := range trend.SignificantChanges {
		lines = append(lines, f.styles.Warning.Render(fmt.Sprintf("  %s %s → %s: %.1f%% → %.1f%% (%+.1f%%)",
			cli.WarningIcon, c.From.DocumentID, c.To.DocumentID,
			c.From.AccuracyScore, c.To.AccuracyScore, c.ChangePercent)))
	}
	return f.styles.TrendBox.Render(strings.Join(lines, "\n"))
}

func (f *CLIFormatter) formatRecommendations(recs []model.Recommendation) string {
	lines := []string{f.styles.Info.Bold(true).Render(" Recommendations ")}
	for _, r := range recs {
		tag := f.styles.ForPriority(r.Priority).Render(fmt.Sprintf("[%s]", strings.ToUpper(string(r.Priority))))
		lines = append(lines, fmt.Sprintf("%s %s", tag, r.Message))
	}
	return f.styles.Recommendation.Render(strings.Join(lines, "\n"))
}

func (f *CLIFormatter) formatImprovementAreas(areas []model.ImprovementArea) string {
	lines := []string{f.styles.Subtitle.UnsetMargins().Render("Improvement areas:")}
	for _, a := range areas {
		style := f.styles.ForPriority(a.Priority)
		lines = append(lines, style.Render(fmt.Sprintf("  • %-16s %5.1f%% → %.0f%%", a.Area, a.CurrentScore, a.TargetScore)))
	}
	return strings.Join(lines, "\n")
}
