package view

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
)

var (
	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	rankStyle = lipgloss.NewStyle().Width(3).Foreground(lipgloss.Color("240"))
)

// renderChart draws the violation counts of the summary chart as bars.
func renderChart(points []analytics.ChartPoint, width, height int) string {
	if len(points) == 0 {
		return mutedStyle.Render("No chart data")
	}

	chart := barchart.New(max(width, 20), max(height, 6))

	bars := make([]barchart.BarData, 0, len(points))
	for _, p := range points {
		bars = append(bars, barchart.BarData{
			Label: p.Label,
			Values: []barchart.BarValue{{
				Name:  p.Label,
				Value: float64(p.Value),
				Style: barStyle,
			}},
		})
	}

	chart.PushAll(bars)
	chart.Draw()

	return chart.View()
}

// renderTopBranches lists the branches with the most violations.
func renderTopBranches(branches []analytics.TopBranch, limit int) string {
	if len(branches) == 0 {
		return mutedStyle.Render("No violations")
	}

	lines := make([]string, 0, min(len(branches), limit))
	for i, b := range branches {
		if i == limit {
			break
		}

		name := b.Name
		if b.Code != "" {
			name = fmt.Sprintf("%s (%s)", b.Name, b.Code)
		}

		lines = append(lines, rankStyle.Render(fmt.Sprintf("%d.", i+1))+fmt.Sprintf("%-28s %5d", truncate(name, 28), b.Count))
	}

	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
