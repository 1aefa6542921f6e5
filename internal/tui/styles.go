package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/swarmsim/internal/entity"
)

// The palette follows the two node kinds: people are warm, files are cool.
var (
	sourceColor = lipgloss.Color("#f2a65a")
	targetColor = lipgloss.Color("#5ab4f2")
	mutedColor  = lipgloss.Color("#7a7f8c")
	alertColor  = lipgloss.Color("#e5534b")
)

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(sourceColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	stepping     = lipgloss.NewStyle().Bold(true).Foreground(targetColor)
	held         = lipgloss.NewStyle().Bold(true).Foreground(sourceColor)
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(alertColor)

	labelStyle = lipgloss.NewStyle().Foreground(mutedColor).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(targetColor)
)

func kindStyle(k entity.Kind) lipgloss.Style {
	if k == entity.Source {
		return lipgloss.NewStyle().Foreground(sourceColor)
	}
	return lipgloss.NewStyle().Foreground(targetColor)
}

// Row renders one "label value" line.
func Row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// gauge renders how far through a frame limit the run is.
func gauge(done float64, width int) string {
	n := int(done * float64(width))
	n = max(0, min(n, width))
	return lipgloss.NewStyle().Foreground(targetColor).Render(strings.Repeat("=", n)) +
		mutedStyle.Render(strings.Repeat(".", width-n))
}
