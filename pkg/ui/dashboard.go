package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/tracker"
)

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.dashboard

	if d.editingTarget {
		switch {
		case key.Matches(msg, m.keyMap.Back):
			d.editingTarget = false
			d.targetInput.Reset()
			return m, nil
		case msg.String() == "enter":
			target, err := strconv.Atoi(strings.TrimSpace(d.targetInput.Value()))
			if err != nil || !tracker.ValidTarget(target) {
				m.err = fmt.Errorf("target must be between 500 and 10000")
				return m, nil
			}
			m.err = nil
			return m, m.saveTarget(target)
		}
		var cmd tea.Cmd
		d.targetInput, cmd = d.targetInput.Update(msg)
		return m, cmd
	}

	if d.confirmDelete {
		switch {
		case msg.String() == "y", msg.String() == "Y":
			d.confirmDelete = false
			if d.cursor < len(d.summary.Meals) {
				return m, m.deleteMeal(d.summary.Meals[d.cursor].ID)
			}
			return m, nil
		case msg.String() == "n", msg.String() == "N", key.Matches(msg, m.keyMap.Back):
			d.confirmDelete = false
			return m, nil
		}
		return m, nil
	}

	switch {
	case msg.String() == "up", msg.String() == "k":
		if d.cursor > 0 {
			d.cursor--
		}

	case msg.String() == "down", msg.String() == "j":
		if d.cursor < len(d.summary.Meals)-1 {
			d.cursor++
		}

	case key.Matches(msg, m.keyMap.AddItem):
		return m.switchScreen(ScreenCapture)

	case key.Matches(msg, m.keyMap.DeleteItem):
		if len(d.summary.Meals) > 0 && d.cursor < len(d.summary.Meals) {
			d.confirmDelete = true
		}

	case key.Matches(msg, m.keyMap.SetTarget):
		d.editingTarget = true
		d.targetInput.SetValue(strconv.Itoa(m.target))
		d.targetInput.Focus()

	case key.Matches(msg, m.keyMap.Suggest):
		if d.showSuggestions {
			d.showSuggestions = false
			return m, nil
		}
		remaining := m.target - int(d.summary.TotalCalories)
		if !tracker.SuggestionsWanted(d.summary.TotalCalories, m.target, len(d.summary.Meals)) {
			m.status = "Suggestions appear when you are within 500 kcal of your target"
			return m, clearStatusAfter(statusTimeout)
		}
		return m, m.fetchSuggestions(remaining)

	case key.Matches(msg, m.keyMap.Back):
		d.showSuggestions = false
	}

	return m, nil
}

func (m Model) viewDashboard() string {
	var sb strings.Builder
	d := m.dashboard
	t := m.theme

	if d.loading {
		sb.WriteString(m.spin.View())
		sb.WriteString(t.subtleStyle().Render("Loading today's meals..."))
		return sb.String()
	}

	sb.WriteString(renderProgressBar(t, d.summary.TotalCalories, m.target, 40))
	sb.WriteString("\n\n")
	sb.WriteString(d.macro.Render(t))
	sb.WriteString("\n\n")

	if d.editingTarget {
		sb.WriteString(t.accentStyle().Render("Daily calorie target:"))
		sb.WriteString("\n")
		sb.WriteString(d.targetInput.View())
		sb.WriteString("\n")
		sb.WriteString(t.subtleStyle().Render("enter to save, esc to cancel"))
		return sb.String()
	}

	if len(d.summary.Meals) == 0 {
		sb.WriteString(t.subtleStyle().Render("Nothing logged today. Press a to log a meal."))
	} else {
		sb.WriteString(t.accentStyle().Render("Today's meals"))
		sb.WriteString("\n")
		for i, meal := range d.summary.Meals {
			marker := " "
			if meal.HasImage {
				marker = "◆"
			}
			line := fmt.Sprintf("%s %s %4d kcal  %s  %s",
				marker,
				scoreBadge(t, meal.FoodScore),
				int(meal.Calories+0.5),
				meal.LoggedAt.Local().Format("15:04"),
				meal.FoodName)
			if i == d.cursor {
				line = t.accentStyle().Render("> ") + t.textStyle().Bold(true).Render(line)
			} else {
				line = "  " + t.textStyle().Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	if d.confirmDelete && d.cursor < len(d.summary.Meals) {
		sb.WriteString("\n")
		sb.WriteString(t.errorTitleStyle().Render(" Remove meal "))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Remove %q from today's log? (y/n)", d.summary.Meals[d.cursor].FoodName))
		sb.WriteString("\n")
	}

	if d.showSuggestions {
		sb.WriteString("\n")
		sb.WriteString(t.accentStyle().Render("Suggestions"))
		sb.WriteString("\n")
		if len(d.suggestions) == 0 {
			sb.WriteString(t.subtleStyle().Render("No suggestions available"))
			sb.WriteString("\n")
		}
		for _, s := range d.suggestions {
			sb.WriteString(fmt.Sprintf("  %s (%d kcal) - %s\n", s.Name, s.Calories, s.Reason))
		}
	}

	return sb.String()
}

// scoreBadge colors the food score by bucket: 7+ healthy, 4-6 middling,
// below 4 flagged.
func scoreBadge(t Theme, score int) string {
	label := fmt.Sprintf("[%d]", score)
	switch tracker.BucketScore(score) {
	case tracker.ScoreHigh:
		return t.textStyle().Foreground(t.Success).Render(label)
	case tracker.ScoreMid:
		return t.textStyle().Foreground(t.Warning).Render(label)
	default:
		return t.textStyle().Foreground(t.Error).Render(label)
	}
}
