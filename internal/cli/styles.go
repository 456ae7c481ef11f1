// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	PrimaryColor = lipgloss.Color("#7AA2F7")
	SuccessColor = lipgloss.Color("#9ECE6A")
	WarningColor = lipgloss.Color("#E0AF68")
	ErrorColor   = lipgloss.Color("#F7768E")
	InfoColor    = lipgloss.Color("#7DCFFF")
	SubtleColor  = lipgloss.Color("#565F89")
	BorderColor  = lipgloss.Color("#3B4261")
)

var (
	// TitleStyle renders report and box headings.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	// SubtitleStyle renders section headings inside a report.
	SubtitleStyle = lipgloss.NewStyle().Foreground(SubtleColor).MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// TableCellStyle pads aligned report columns.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)
)

// Icons.
const (
	SuccessIcon = "✓"
	WarningIcon = "⚠️"
	BenchIcon   = "🔬"
	ChartIcon   = "📊"
	TrendUp     = "📈"
	TrendDown   = "📉"
)

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatStatus renders message as a success line when ok holds and as a
// warning otherwise.
func FormatStatus(ok bool, message string) string {
	if ok {
		return FormatSuccess(message)
	}
	return FormatWarning(message)
}

// FormatTitle formats a title with the bench icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(BenchIcon + " " + title)
}

// FormatKeyValue formats a label and value pair on one line.
func FormatKeyValue(key, value string) string {
	return SubtleStyle.Render(key+":") + " " + BoldStyle.Render(value)
}

// RenderBox draws content under title inside a rounded border.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
