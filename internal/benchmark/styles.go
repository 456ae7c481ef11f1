package benchmark

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/extractbench/internal/cli"
	"github.com/Veraticus/extractbench/internal/model"
)

// Styles holds the lipgloss styles used by Formatter.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style
	Cell     lipgloss.Style

	Box            lipgloss.Style
	TrendBox       lipgloss.Style
	Recommendation lipgloss.Style

	priority map[model.Priority]lipgloss.Style
}

func bordered(b lipgloss.Border, color lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Border(b).BorderForeground(color).Padding(0, 1)
}

// NewStyles builds report styles on top of the cli palette.
func NewStyles() *Styles {
	return &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
		Cell:     cli.TableCellStyle,

		Box:            bordered(lipgloss.RoundedBorder(), cli.BorderColor),
		TrendBox:       bordered(lipgloss.DoubleBorder(), cli.InfoColor).MarginTop(1),
		Recommendation: bordered(lipgloss.RoundedBorder(), cli.WarningColor).MarginTop(1),

		priority: map[model.Priority]lipgloss.Style{
			model.PriorityHigh:   cli.ErrorStyle.Bold(true),
			model.PriorityMedium: cli.WarningStyle,
			model.PriorityLow:    cli.SubtleStyle,
		},
	}
}

// ForPriority returns the style for a recommendation priority.
func (s *Styles) ForPriority(p model.Priority) lipgloss.Style {
	if style, ok := s.priority[p]; ok {
		return style
	}
	return s.Normal
}

// ForScore returns the style for a 0-100 accuracy score.
func (s *Styles) ForScore(score float64) lipgloss.Style {
	switch {
	case score >= CategoryTarget:
		return s.Success
	case score >= MinOverallAccuracy:
		return s.Warning
	default:
		return s.Error
	}
}

// RenderBar draws a bar for a 0-100 score.
func (s *Styles) RenderBar(score float64, width int) string {
	if width <= 0 {
		width = 30
	}
	filled := min(max(int(float64(width)*score/100), 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
