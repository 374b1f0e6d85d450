// Package ui renders styled blocks for the scrolling console session.
package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlcoach/internal/ui/theme"
)

// DefaultWidth is the frame width assumed when the terminal size is unknown.
const DefaultWidth = 80

// ContentWidth returns the inner width used for cards and bars so the
// session's blocks visually align.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 4
	if w > 76 {
		w = 76
	}
	if w < 40 {
		w = 40
	}
	return w
}

// Banner renders the session header box.
func Banner(title, subtitle string) string {
	content := theme.Title.Render(title)
	if subtitle != "" {
		content += "\n" + theme.Subtitle.Render(subtitle)
	}
	return theme.Banner.Render(content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, width int) string {
	return theme.Card.Width(width).Render(content)
}

// ConceptList renders concept names as a highlighted comma list.
func ConceptList(names []string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = theme.Concept.Render(n)
	}
	return strings.Join(parts, ", ")
}

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += theme.Subtitle.Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}
