package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/models"
	"ntrack/pkg/tracker"
)

const (
	multiplierStep = 0.25
	portionSettle  = 300 * time.Millisecond
)

var portionPresets = []float64{0.5, 1, 1.5, 2}

func (m Model) updateCapture(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &m.capture

	if c.analyzing {
		if key.Matches(msg, m.keyMap.Back) {
			// Bump the generation so the in-flight answer is dropped.
			c.gen++
			c.analyzing = false
		}
		return m, nil
	}

	if c.analysis == nil {
		switch {
		case key.Matches(msg, m.keyMap.Back):
			c.input.Reset()
			return m.switchScreen(ScreenDashboard)

		case msg.String() == "ctrl+p":
			if c.entry == entryText {
				c.entry = entryPhoto
				c.input.Placeholder = "Path to a meal photo (e.g. ~/photos/lunch.jpg)"
			} else {
				c.entry = entryText
				c.input.Placeholder = "Describe the meal (e.g. grilled chicken with rice)"
			}
			c.input.Reset()
			return m, nil

		case msg.String() == "enter":
			value := strings.TrimSpace(c.input.Value())
			if value == "" {
				return m, nil
			}
			c.gen++
			c.analyzing = true
			m.err = nil
			if c.entry == entryPhoto {
				return m, tea.Batch(m.analyzePhoto(c.gen, value), m.spin.Tick)
			}
			return m, tea.Batch(m.analyzeText(c.gen, false, value), m.spin.Tick)
		}

		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return m, cmd
	}

	if c.editingPortion {
		switch {
		case key.Matches(msg, m.keyMap.Back):
			c.editingPortion = false
			c.portionInput.Reset()
			return m, nil
		case msg.String() == "enter":
			mult, err := strconv.ParseFloat(strings.TrimSpace(c.portionInput.Value()), 64)
			if err != nil || !tracker.ValidMultiplier(mult) {
				m.err = fmt.Errorf("multiplier must be greater than 0 and at most 10")
				return m, nil
			}
			m.err = nil
			c.editingPortion = false
			c.portionInput.Reset()
			return m, m.setMultiplier(mult)
		}
		var cmd tea.Cmd
		c.portionInput, cmd = c.portionInput.Update(msg)
		return m, cmd
	}

	// Review stage: adjust the portion, then save or discard.
	switch {
	case key.Matches(msg, m.keyMap.Back):
		c.analysis = nil
		c.multiplier = 1.0
		return m, nil

	case msg.String() == "1", msg.String() == "2", msg.String() == "3", msg.String() == "4":
		idx := int(msg.String()[0] - '1')
		return m, m.setMultiplier(portionPresets[idx])

	case msg.String() == "p":
		c.editingPortion = true
		c.portionInput.SetValue(strconv.FormatFloat(c.multiplier, 'g', -1, 64))
		c.portionInput.Focus()
		return m, nil

	case key.Matches(msg, m.keyMap.PortionUp):
		if tracker.ValidMultiplier(c.multiplier + multiplierStep) {
			return m, m.setMultiplier(c.multiplier + multiplierStep)
		}

	case key.Matches(msg, m.keyMap.PortionDown):
		if tracker.ValidMultiplier(c.multiplier - multiplierStep) {
			return m, m.setMultiplier(c.multiplier - multiplierStep)
		}

	case key.Matches(msg, m.keyMap.Confirm):
		if c.saving {
			return m, nil
		}
		c.saving = true
		method := "text"
		if c.entry == entryPhoto {
			method = "photo"
		}
		entry := tracker.BuildMealLog(*c.analysis, c.multiplier, method)
		return m, m.logMeal(entry)
	}

	return m, nil
}

// setMultiplier applies a portion change and flags the card as updating
// until the settle tick arrives.
func (m *Model) setMultiplier(mult float64) tea.Cmd {
	m.capture.multiplier = mult
	m.capture.updating = true
	return settlePortionAfter(portionSettle)
}

func (m Model) viewCapture() string {
	var sb strings.Builder
	c := m.capture
	t := m.theme

	if c.analyzing {
		sb.WriteString(m.spin.View())
		sb.WriteString(t.subtleStyle().Render(
			fmt.Sprintf("Analyzing %q... (esc to cancel)", strings.TrimSpace(c.input.Value()))))
		return sb.String()
	}

	if c.analysis == nil {
		label := "Describe your meal:"
		if c.entry == entryPhoto {
			label = "Photo path:"
		}
		sb.WriteString(t.accentStyle().Render(label))
		sb.WriteString("\n")
		sb.WriteString(c.input.View())
		sb.WriteString("\n\n")
		sb.WriteString(t.subtleStyle().Render("enter to analyze, ctrl+p to switch text/photo, esc to go back"))
		return sb.String()
	}

	sb.WriteString(renderAnalysisCard(t, *c.analysis, c.multiplier))
	if c.updating {
		sb.WriteString(t.subtleStyle().Render("updating..."))
		sb.WriteString("\n")
	}

	if c.editingPortion {
		sb.WriteString("\n")
		sb.WriteString(t.accentStyle().Render("Portion multiplier:"))
		sb.WriteString("\n")
		sb.WriteString(c.portionInput.View())
		sb.WriteString("\n")
		sb.WriteString(t.subtleStyle().Render("enter to apply, esc to cancel"))
		return sb.String()
	}

	sb.WriteString("\n")
	if c.saving {
		sb.WriteString(t.subtleStyle().Render("Saving..."))
	} else {
		sb.WriteString(t.subtleStyle().Render(
			"1-4 presets (0.5/1/1.5/2), +/- adjust, p custom, enter to log, esc to discard"))
	}
	return sb.String()
}

// renderAnalysisCard shows an analysis with the portion scaling applied.
func renderAnalysisCard(t Theme, a models.Analysis, multiplier float64) string {
	var sb strings.Builder
	scaled := tracker.Scale(a, multiplier)

	sb.WriteString(t.titleStyle().Render(" " + a.FoodName + " "))
	sb.WriteString("  ")
	sb.WriteString(scoreBadge(t, a.FoodScore))
	sb.WriteString("\n\n")

	if a.PortionEstimate != "" {
		sb.WriteString(t.subtleStyle().Render(
			fmt.Sprintf("Portion: %s x %.2g", a.PortionEstimate, multiplier)))
	} else {
		sb.WriteString(t.subtleStyle().Render(fmt.Sprintf("Portion: x %.2g", multiplier)))
	}
	sb.WriteString("\n")

	sb.WriteString(t.textStyle().Render(fmt.Sprintf(
		"Calories %d   Protein %dg   Carbs %dg   Fat %dg",
		scaled.Calories, scaled.Protein, scaled.Carbs, scaled.Fat)))
	sb.WriteString("\n")

	if len(a.HealthBenefits) > 0 {
		sb.WriteString("\n")
		sb.WriteString(t.textStyle().Foreground(t.Success).Render("+ " + strings.Join(a.HealthBenefits, ", ")))
	}
	if len(a.HealthNegatives) > 0 {
		sb.WriteString("\n")
		sb.WriteString(t.textStyle().Foreground(t.Error).Render("- " + strings.Join(a.HealthNegatives, ", ")))
	}
	sb.WriteString("\n")
	return sb.String()
}
