package tui

import (
	"fmt"
	"strings"

	"riskwatch/internal/stats"
)

// renderChart draws a labeled horizontal bar chart. width bounds the
// longest bar; empty data collapses to a placeholder.
func renderChart(title string, data []stats.Point, width int) string {
	if width <= 0 {
		return ""
	}
	lines := []string{titleStyle.Render(title)}
	maxV := 0.0
	for _, p := range data {
		if p.Value > maxV {
			maxV = p.Value
		}
	}
	if maxV <= 0 {
		return lines[0] + "\n" + dimStyle.Render("(no data)")
	}
	barSpace := width - 16
	if barSpace < 1 {
		barSpace = 1
	}
	for _, p := range data {
		w := int((p.Value / maxV) * float64(barSpace))
		if p.Value > 0 && w < 1 {
			w = 1
		}
		lines = append(lines, fmt.Sprintf("%-8s %s %d", p.Label, strings.Repeat("█", w), int(p.Value)))
	}
	return strings.Join(lines, "\n")
}
