package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/tracker"
)

// The history screen browses by calendar day. The backend only serves the
// current day's meals, so past days render as empty with a note, and
// jumping back to today restores the list.
func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := &m.history
	visible := tracker.HistoryMeals(m.dashboard.summary.Meals, h.viewDate, time.Now())

	switch {
	case msg.String() == "up", msg.String() == "k":
		if h.cursor > 0 {
			h.cursor--
		}

	case msg.String() == "down", msg.String() == "j":
		if h.cursor < len(visible)-1 {
			h.cursor++
		}

	case key.Matches(msg, m.keyMap.PrevDay):
		h.viewDate = h.viewDate.AddDate(0, 0, -1)
		h.cursor = 0

	case key.Matches(msg, m.keyMap.NextDay):
		if !h.viewDate.After(time.Now()) {
			h.viewDate = h.viewDate.AddDate(0, 0, 1)
			h.cursor = 0
		}

	case key.Matches(msg, m.keyMap.JumpToToday):
		h.viewDate = time.Now()
		h.cursor = 0
		return m, m.fetchToday()
	}

	return m, nil
}

func (m Model) viewHistory() string {
	var sb strings.Builder
	h := m.history
	t := m.theme

	sb.WriteString(t.accentStyle().Render(h.viewDate.Format("Monday, January 2 2006")))
	sb.WriteString("\n\n")

	visible := tracker.HistoryMeals(m.dashboard.summary.Meals, h.viewDate, time.Now())
	if len(visible) == 0 {
		if sameCalendarDay(h.viewDate, time.Now()) {
			sb.WriteString(t.subtleStyle().Render("No meals logged today"))
		} else {
			sb.WriteString(t.subtleStyle().Render("Meal details are kept for the current day only"))
		}
		sb.WriteString("\n")
	} else {
		cal, protein, carbs, fat := tracker.MealTotals(visible)
		sb.WriteString(t.textStyle().Render(fmt.Sprintf(
			"%d meals, %d kcal (protein %dg, carbs %dg, fat %dg)",
			len(visible), int(cal+0.5), int(protein+0.5), int(carbs+0.5), int(fat+0.5))))
		sb.WriteString("\n\n")

		for i, meal := range visible {
			line := fmt.Sprintf("%s %4d kcal  %s  %s",
				scoreBadge(t, meal.FoodScore),
				int(meal.Calories+0.5),
				meal.LoggedAt.Local().Format("15:04"),
				meal.FoodName)
			if i == h.cursor {
				line = t.accentStyle().Render("> ") + t.textStyle().Bold(true).Render(line)
			} else {
				line = "  " + t.textStyle().Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}

		if h.cursor < len(visible) {
			meal := visible[h.cursor]
			if len(meal.HealthBenefits) > 0 {
				sb.WriteString("\n")
				sb.WriteString(t.textStyle().Foreground(t.Success).
					Render("+ " + strings.Join(meal.HealthBenefits, ", ")))
				sb.WriteString("\n")
			}
			if len(meal.HealthNegatives) > 0 {
				sb.WriteString(t.textStyle().Foreground(t.Error).
					Render("- " + strings.Join(meal.HealthNegatives, ", ")))
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
