package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View renders the active screen with the tab bar and status line.
func (m Model) View() string {
	var sb strings.Builder

	if m.screen == ScreenSessionExpired {
		sb.WriteString(m.theme.errorTitleStyle().Render(" Session Expired "))
		sb.WriteString("\n\n")
		sb.WriteString(m.theme.textStyle().Render(
			"Your session has expired. Log in again in the browser, then press r to retry."))
		sb.WriteString("\n\n")
		sb.WriteString(m.helpBar())
		return sb.String()
	}

	sb.WriteString(m.tabBar())
	sb.WriteString("\n\n")

	if m.showHelp {
		sb.WriteString(m.renderHelp())
	} else {
		switch m.screen {
		case ScreenDashboard:
			sb.WriteString(m.viewDashboard())
		case ScreenCapture:
			sb.WriteString(m.viewCapture())
		case ScreenSearch:
			sb.WriteString(m.viewSearch())
		case ScreenHistory:
			sb.WriteString(m.viewHistory())
		case ScreenWeekly:
			sb.WriteString(m.viewWeekly())
		case ScreenTasks:
			sb.WriteString(m.viewTasks())
		case ScreenDevLog:
			sb.WriteString(m.viewDevLog())
		case ScreenNews:
			sb.WriteString(m.viewNews())
		}
	}

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(m.theme.Error).
			Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(m.theme.Success).Render(m.status))
	}

	sb.WriteString("\n")
	sb.WriteString(m.helpBar())

	return sb.String()
}

func (m Model) tabBar() string {
	t := m.theme
	var tabs []string
	for i, name := range screenNames {
		if Screen(i) == m.screen {
			tabs = append(tabs, t.titleStyle().Render(" "+name+" "))
		} else {
			tabs = append(tabs, t.subtleStyle().Render(" "+name+" "))
		}
	}
	line := strings.Join(tabs, "")
	if m.username != "" {
		line += t.subtleStyle().Render("  " + m.username)
	}
	return line
}

// renderHelp is the fullscreen command list.
func (m Model) renderHelp() string {
	var sb strings.Builder
	t := m.theme

	keyStyle := t.accentStyle()
	descStyle := t.textStyle()

	addCommand := func(binding key.Binding) {
		sb.WriteString(fmt.Sprintf("%s: %s\n",
			descStyle.Render(binding.Help().Desc),
			keyStyle.Render(binding.Help().Key)))
	}

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Available Commands"))
	sb.WriteString("\n\n")
	addCommand(m.keyMap.QuitApp)
	addCommand(m.keyMap.ShowHelp)
	addCommand(m.keyMap.NextScreen)
	addCommand(m.keyMap.PrevScreen)
	addCommand(m.keyMap.Refresh)
	addCommand(m.keyMap.CycleTheme)

	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Screens"))
	sb.WriteString("\n\n")
	addCommand(m.keyMap.GoDashboard)
	addCommand(m.keyMap.GoCapture)
	addCommand(m.keyMap.GoSearch)
	addCommand(m.keyMap.GoHistory)
	addCommand(m.keyMap.GoWeekly)
	addCommand(m.keyMap.GoTasks)
	addCommand(m.keyMap.GoDevLog)
	addCommand(m.keyMap.GoNews)

	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Screen Commands"))
	sb.WriteString("\n\n")
	addCommand(m.keyMap.AddItem)
	addCommand(m.keyMap.EditItem)
	addCommand(m.keyMap.DeleteItem)
	addCommand(m.keyMap.ToggleStatus)
	addCommand(m.keyMap.CycleFilter)
	addCommand(m.keyMap.Suggest)
	addCommand(m.keyMap.SetTarget)
	addCommand(m.keyMap.ToggleBookmark)
	addCommand(m.keyMap.ToggleReadOnly)
	addCommand(m.keyMap.OpenLink)
	addCommand(m.keyMap.AssignToMe)
	addCommand(m.keyMap.PrevDay)
	addCommand(m.keyMap.NextDay)
	addCommand(m.keyMap.JumpToToday)

	return sb.String()
}

// helpBar renders a sleek status bar with available actions
func (m Model) helpBar() string {
	var actions []string
	t := m.theme

	keyStyle := t.accentStyle()
	descStyle := t.textStyle()
	separator := lipgloss.NewStyle().Foreground(t.Border).Render(" • ")

	addAction := func(k, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(k), descStyle.Render(desc)))
	}

	switch m.screen {
	case ScreenSessionExpired:
		addAction("r", "retry")
		addAction("q", "quit")
		return strings.Join(actions, separator)

	case ScreenDashboard:
		addAction("a", "log meal")
		addAction("d", "delete")
		addAction("s", "suggest")
		addAction("g", "target")

	case ScreenCapture:
		addAction("enter", "analyze/log")
		addAction("ctrl+p", "text/photo")
		addAction("esc", "back")

	case ScreenSearch:
		addAction("enter", "search/log")
		addAction("esc", "back")

	case ScreenHistory:
		addAction("ctrl+←/→", "day")
		addAction("h", "today")

	case ScreenWeekly:
		addAction("x", "export")
		addAction("r", "refresh")

	case ScreenTasks:
		addAction("a", "add")
		addAction("e", "edit")
		addAction("d", "del")
		addAction("space", "toggle")
		addAction("f", "filter")
		addAction("m", "mine")

	case ScreenDevLog:
		addAction("a", "add")
		addAction("f", "filter")
		addAction("o", "commit")

	case ScreenNews:
		addAction("b", "bookmark")
		addAction("o", "open")
		addAction("f", "filter")
		addAction("u", "unread")
		addAction("ctrl+←/→", "day")
	}

	addAction("tab", "screens")
	addAction("t", "theme")
	addAction("ctrl+b", "help")
	addAction("q", "quit")

	return strings.Join(actions, separator)
}
