package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ntrack/pkg/models"
	"ntrack/pkg/tracker"
)

// MacroChart renders today's macro split as a single proportional bar.
// One instance lives in the model and is updated in place on refresh
// instead of being rebuilt, so repeated refreshes stay cheap.
type MacroChart struct {
	width    int
	protein  float64
	carbs    float64
	fat      float64
	segments [3]int
}

func NewMacroChart(width int) *MacroChart {
	if width < 12 {
		width = 12
	}
	return &MacroChart{width: width}
}

func (c *MacroChart) SetWidth(width int) {
	if width >= 12 {
		c.width = width
	}
}

// Set replaces the chart data and recomputes segment widths in place.
func (c *MacroChart) Set(protein, carbs, fat float64) {
	c.protein, c.carbs, c.fat = protein, carbs, fat

	total := protein + carbs + fat
	if total <= 0 {
		c.segments = [3]int{0, 0, 0}
		return
	}
	c.segments[0] = int(float64(c.width) * protein / total)
	c.segments[1] = int(float64(c.width) * carbs / total)
	c.segments[2] = c.width - c.segments[0] - c.segments[1]
}

func (c *MacroChart) Render(t Theme) string {
	if c.protein+c.carbs+c.fat <= 0 {
		return t.subtleStyle().Render("No macros logged yet")
	}

	colors := []lipgloss.TerminalColor{t.Success, t.Warning, t.Accent}
	var bar strings.Builder
	for i, width := range c.segments {
		bar.WriteString(lipgloss.NewStyle().
			Foreground(colors[i]).
			Render(strings.Repeat("█", width)))
	}

	legend := fmt.Sprintf("protein %dg  carbs %dg  fat %dg",
		int(c.protein+0.5), int(c.carbs+0.5), int(c.fat+0.5))
	return bar.String() + "\n" + t.subtleStyle().Render(legend)
}

// WeeklyChart renders one horizontal bar per day of the current week.
// Days over the calorie target are drawn in the error color, the rest in
// the success color, with a marker at the target position.
type WeeklyChart struct {
	width  int
	target int
	days   []models.WeekDay
}

func NewWeeklyChart(width int) *WeeklyChart {
	if width < 20 {
		width = 20
	}
	return &WeeklyChart{width: width}
}

func (c *WeeklyChart) SetWidth(width int) {
	if width >= 20 {
		c.width = width
	}
}

// Set swaps in a new week, reusing the backing slice where possible.
func (c *WeeklyChart) Set(days []models.WeekDay, target int) {
	c.target = target
	c.days = c.days[:0]
	c.days = append(c.days, days...)
}

func (c *WeeklyChart) Render(t Theme) string {
	if len(c.days) == 0 {
		return t.subtleStyle().Render("No data this week")
	}

	// Scale bars so the longest day (or the target, if larger) fills the width.
	max := float64(c.target)
	for _, d := range c.days {
		if d.TotalCalories > max {
			max = d.TotalCalories
		}
	}
	if max <= 0 {
		max = 1
	}

	targetPos := -1
	if c.target > 0 {
		targetPos = int(float64(c.width) * float64(c.target) / max)
		if targetPos >= c.width {
			targetPos = c.width - 1
		}
	}

	var sb strings.Builder
	for i, d := range c.days {
		if i > 0 {
			sb.WriteString("\n")
		}

		barLen := int(float64(c.width) * d.TotalCalories / max)
		color := t.Success
		if c.target > 0 && d.TotalCalories > float64(c.target) {
			color = t.Error
		}

		row := make([]rune, c.width)
		for j := range row {
			switch {
			case j < barLen:
				row[j] = '█'
			case j == targetPos:
				row[j] = '┊'
			default:
				row[j] = ' '
			}
		}

		line := lipgloss.NewStyle().Foreground(color).Render(string(row[:barLen]))
		rest := string(row[barLen:])
		if targetPos >= barLen {
			line += t.subtleStyle().Render(rest)
		} else {
			line += rest
		}

		label := d.DayName
		if len(label) > 3 {
			label = label[:3]
		}
		sb.WriteString(fmt.Sprintf("%-3s %s %5d", label, line, int(d.TotalCalories+0.5)))
	}
	return sb.String()
}

// renderProgressBar draws the daily calorie progress with the state colors
// used across the app: normal, warning from 75 percent, danger at or over
// the target.
func renderProgressBar(t Theme, totalCalories float64, target, width int) string {
	if width < 10 {
		width = 10
	}
	pct := tracker.ProgressPercent(totalCalories, target)

	var color lipgloss.TerminalColor
	switch tracker.Progress(totalCalories, target) {
	case tracker.ProgressDanger:
		color = t.Error
	case tracker.ProgressWarning:
		color = t.Warning
	default:
		color = t.Success
	}

	filled := int(float64(width) * pct / 100)
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		t.subtleStyle().Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %d / %d kcal (%d%%)", bar, int(totalCalories+0.5), target, int(pct))
}
