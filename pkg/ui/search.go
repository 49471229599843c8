package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/tracker"
)

// The search screen looks up a food without committing to logging it.
// Its result stage runs the same portion machine as the capture screen.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.search

	if s.searching {
		if key.Matches(msg, m.keyMap.Back) {
			s.gen++
			s.searching = false
		}
		return m, nil
	}

	if s.analysis == nil {
		switch {
		case key.Matches(msg, m.keyMap.Back):
			s.input.Reset()
			return m.switchScreen(ScreenDashboard)

		case msg.String() == "enter":
			query := strings.TrimSpace(s.input.Value())
			if query == "" {
				return m, nil
			}
			s.gen++
			s.searching = true
			m.err = nil
			return m, tea.Batch(m.analyzeText(s.gen, true, query), m.spin.Tick)
		}

		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return m, cmd
	}

	if s.editingPortion {
		switch {
		case key.Matches(msg, m.keyMap.Back):
			s.editingPortion = false
			s.portionInput.Reset()
			return m, nil
		case msg.String() == "enter":
			mult, err := strconv.ParseFloat(strings.TrimSpace(s.portionInput.Value()), 64)
			if err != nil || !tracker.ValidMultiplier(mult) {
				m.err = fmt.Errorf("multiplier must be greater than 0 and at most 10")
				return m, nil
			}
			m.err = nil
			s.editingPortion = false
			s.portionInput.Reset()
			return m, m.setSearchMultiplier(mult)
		}
		var cmd tea.Cmd
		s.portionInput, cmd = s.portionInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Back):
		s.analysis = nil
		s.multiplier = 1.0
		s.input.Reset()

	case msg.String() == "1", msg.String() == "2", msg.String() == "3", msg.String() == "4":
		idx := int(msg.String()[0] - '1')
		return m, m.setSearchMultiplier(portionPresets[idx])

	case msg.String() == "p":
		s.editingPortion = true
		s.portionInput.SetValue(strconv.FormatFloat(s.multiplier, 'g', -1, 64))
		s.portionInput.Focus()
		return m, nil

	case key.Matches(msg, m.keyMap.PortionUp):
		if tracker.ValidMultiplier(s.multiplier + multiplierStep) {
			return m, m.setSearchMultiplier(s.multiplier + multiplierStep)
		}

	case key.Matches(msg, m.keyMap.PortionDown):
		if tracker.ValidMultiplier(s.multiplier - multiplierStep) {
			return m, m.setSearchMultiplier(s.multiplier - multiplierStep)
		}

	case key.Matches(msg, m.keyMap.Confirm):
		entry := tracker.BuildMealLog(*s.analysis, s.multiplier, "text")
		return m, m.logMeal(entry)
	}

	return m, nil
}

func (m *Model) setSearchMultiplier(mult float64) tea.Cmd {
	m.search.multiplier = mult
	m.search.updating = true
	return settlePortionAfter(portionSettle)
}

func (m Model) viewSearch() string {
	var sb strings.Builder
	s := m.search
	t := m.theme

	if s.searching {
		sb.WriteString(m.spin.View())
		sb.WriteString(t.subtleStyle().Render("Searching... (esc to cancel)"))
		return sb.String()
	}

	if s.analysis == nil {
		sb.WriteString(t.accentStyle().Render("Food search:"))
		sb.WriteString("\n")
		sb.WriteString(s.input.View())
		sb.WriteString("\n\n")
		sb.WriteString(t.subtleStyle().Render("enter to search, esc to go back"))
		return sb.String()
	}

	sb.WriteString(renderAnalysisCard(t, *s.analysis, s.multiplier))
	if s.updating {
		sb.WriteString(t.subtleStyle().Render("updating..."))
		sb.WriteString("\n")
	}

	if s.editingPortion {
		sb.WriteString("\n")
		sb.WriteString(t.accentStyle().Render("Portion multiplier:"))
		sb.WriteString("\n")
		sb.WriteString(s.portionInput.View())
		sb.WriteString("\n")
		sb.WriteString(t.subtleStyle().Render("enter to apply, esc to cancel"))
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(t.subtleStyle().Render(
		"1-4 presets (0.5/1/1.5/2), +/- adjust, p custom, enter to log, esc for a new search"))
	return sb.String()
}
