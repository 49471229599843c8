package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateWeekly(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Export):
		m.status = "Exporting last 30 days..."
		return m, tea.Batch(m.exportWeeklyCSV(), clearStatusAfter(statusTimeout))
	}
	return m, nil
}

func (m Model) viewWeekly() string {
	var sb strings.Builder
	w := m.weekly
	t := m.theme

	if w.loading {
		sb.WriteString(m.spin.View())
		sb.WriteString(t.subtleStyle().Render("Loading weekly summary..."))
		return sb.String()
	}
	if len(w.summary.Days) == 0 {
		sb.WriteString(t.subtleStyle().Render("No data this week. Press r to refresh."))
		return sb.String()
	}

	sb.WriteString(w.chart.Render(t))
	sb.WriteString("\n\n")

	sb.WriteString(t.textStyle().Render(fmt.Sprintf(
		"Daily average: %d kcal (target %d)",
		int(w.summary.AverageCalories+0.5), w.summary.Target)))
	sb.WriteString("\n")

	stats := w.stats
	if stats.ActiveDays > 0 {
		sb.WriteString(t.textStyle().Render(fmt.Sprintf(
			"Active days: %d   avg protein %dg, carbs %dg, fat %dg",
			stats.ActiveDays, stats.AvgProtein, stats.AvgCarbs, stats.AvgFat)))
		sb.WriteString("\n")
		if stats.MaxDay != nil {
			sb.WriteString(t.subtleStyle().Render(fmt.Sprintf(
				"Highest: %s (%d kcal)   Lowest: %s (%d kcal)",
				stats.MaxDay.DayName, int(stats.MaxDay.TotalCalories+0.5),
				stats.MinDay.DayName, int(stats.MinDay.TotalCalories+0.5))))
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString(t.subtleStyle().Render("No meals logged this week"))
		sb.WriteString("\n")
	}

	return sb.String()
}
