package benchmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/extractbench/internal/model"
)

func TestCLIFormatterFormatReport(t *testing.T) {
	formatter := NewCLIFormatter()

	assert.Contains(t, formatter.FormatReport(nil), "No report available")

	report, err := NewAggregator(WithClock(fixedClock(baseTime))).GenerateReport([]model.AccuracyBenchmark{
		scored("q1-report", baseTime, 90),
		scored("q2-report", baseTime.Add(time.Hour), 95),
		scored("q3-report", baseTime.Add(2*time.Hour), 20),
	})
	require.NoError(t, err)

	out := formatter.FormatReport(&report)
	for _, want := range []string{
		"Extraction Benchmark Report",
		"3 benchmarks",
		"Overall accuracy: 68.3%",
		"Project Status",
		"Team Update",
		"Best:  q2-report",
		"Worst: q3-report",
		"declining",
		"q2-report → q3-report",
		"Recommendations",
		"Improvement areas:",
	} {
		assert.Contains(t, out, want)
	}
}

func TestCLIFormatterFormatBenchmark(t *testing.T) {
	formatter := NewCLIFormatter()
	assert.Contains(t, formatter.FormatBenchmark(nil), "No benchmark available")

	b := scored("doc-9", baseTime, 82)
	out := formatter.FormatBenchmark(&b)
	assert.Contains(t, out, "Benchmark: doc-9")
	assert.Contains(t, out, "Overall accuracy: 82.0%")
	assert.Contains(t, out, "Average confidence")
}

