package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the palette for one appearance mode. The "auto" theme uses
// adaptive colors so it follows the terminal background, matching the
// behavior of honoring the system preference.
type Theme struct {
	Name string

	Accent  lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Subtle  lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor

	SelectedText lipgloss.TerminalColor
	SelectedBg   lipgloss.TerminalColor
}

// ThemeByName resolves a stored theme name. Unknown names fall back to auto.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return Theme{
			Name:         "light",
			Accent:       lipgloss.Color("127"),
			Border:       lipgloss.Color("250"),
			Text:         lipgloss.Color("235"),
			Subtle:       lipgloss.Color("244"),
			Error:        lipgloss.Color("124"),
			Success:      lipgloss.Color("28"),
			Warning:      lipgloss.Color("130"),
			SelectedText: lipgloss.Color("231"),
			SelectedBg:   lipgloss.Color("127"),
		}
	case "dark":
		return Theme{
			Name:         "dark",
			Accent:       lipgloss.Color("205"),
			Border:       lipgloss.Color("240"),
			Text:         lipgloss.Color("252"),
			Subtle:       lipgloss.Color("243"),
			Error:        lipgloss.Color("9"),
			Success:      lipgloss.Color("42"),
			Warning:      lipgloss.Color("214"),
			SelectedText: lipgloss.Color("229"),
			SelectedBg:   lipgloss.Color("57"),
		}
	default:
		return Theme{
			Name:         "auto",
			Accent:       lipgloss.AdaptiveColor{Light: "127", Dark: "205"},
			Border:       lipgloss.AdaptiveColor{Light: "250", Dark: "240"},
			Text:         lipgloss.AdaptiveColor{Light: "235", Dark: "252"},
			Subtle:       lipgloss.AdaptiveColor{Light: "244", Dark: "243"},
			Error:        lipgloss.AdaptiveColor{Light: "124", Dark: "9"},
			Success:      lipgloss.AdaptiveColor{Light: "28", Dark: "42"},
			Warning:      lipgloss.AdaptiveColor{Light: "130", Dark: "214"},
			SelectedText: lipgloss.AdaptiveColor{Light: "231", Dark: "229"},
			SelectedBg:   lipgloss.AdaptiveColor{Light: "127", Dark: "57"},
		}
	}
}

// NextThemeName cycles auto -> light -> dark -> auto.
func NextThemeName(current string) string {
	switch current {
	case "auto":
		return "light"
	case "light":
		return "dark"
	default:
		return "auto"
	}
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(t.SelectedText).
		Background(t.Accent).
		Padding(0, 1)
}

func (t Theme) errorTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(t.SelectedText).
		Background(t.Error).
		Padding(0, 1)
}

func (t Theme) textStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

func (t Theme) subtleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Subtle)
}

func (t Theme) accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}
