package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateDevLog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.devlog
	var cmd tea.Cmd

	switch d.mode {
	case devlogAdd, devlogEdit:
		switch {
		case key.Matches(msg, m.keyMap.Back):
			d.mode = devlogNormal
			d.editing = nil
			d.titleInput.Reset()
			d.descInput.Reset()
			return m, nil

		case msg.String() == "tab", msg.String() == "shift+tab":
			if d.activeInput == 0 {
				d.activeInput = 1
				d.titleInput.Blur()
				d.descInput.Focus()
			} else {
				d.activeInput = 0
				d.descInput.Blur()
				d.titleInput.Focus()
			}
			return m, nil

		case msg.String() == "ctrl+t":
			d.category = (d.category + 1) % len(devlogCategories)
			return m, nil

		case msg.String() == "enter":
			if d.activeInput == 0 {
				d.activeInput = 1
				d.titleInput.Blur()
				d.descInput.Focus()
				return m, nil
			}
			title := strings.TrimSpace(d.titleInput.Value())
			if title == "" {
				m.err = fmt.Errorf("entry title is required")
				return m, nil
			}
			desc := strings.TrimSpace(d.descInput.Value())
			m.err = nil
			d.activeInput = 0
			d.descInput.Blur()
			d.titleInput.Focus()
			id := 0
			status := "completed"
			if d.editing != nil {
				id = d.editing.ID
				status = d.editing.Status
			}
			return m, m.saveDevLog(id, title, desc, devlogCategories[d.category], status)
		}

		if d.activeInput == 0 {
			d.titleInput, cmd = d.titleInput.Update(msg)
		} else {
			d.descInput, cmd = d.descInput.Update(msg)
		}
		return m, cmd

	case devlogSearch:
		switch {
		case key.Matches(msg, m.keyMap.Back):
			d.mode = devlogNormal
			d.search = ""
			d.searchInput.Reset()
			return m, m.fetchDevLogs(d.filter, "")
		case msg.String() == "enter":
			d.mode = devlogNormal
			d.search = strings.TrimSpace(d.searchInput.Value())
			d.cursor = 0
			return m, m.fetchDevLogs(d.filter, d.search)
		}
		d.searchInput, cmd = d.searchInput.Update(msg)
		return m, cmd

	case devlogConfirmDelete:
		switch {
		case msg.String() == "y", msg.String() == "Y":
			d.mode = devlogNormal
			if d.cursor < len(d.entries) {
				return m, m.deleteDevLog(d.entries[d.cursor].ID)
			}
			return m, nil
		case msg.String() == "n", msg.String() == "N", key.Matches(msg, m.keyMap.Back):
			d.mode = devlogNormal
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
		if d.cursor < len(d.entries)-1 {
			d.cursor++
		}

	case key.Matches(msg, m.keyMap.AddItem):
		d.mode = devlogAdd
		d.editing = nil
		d.activeInput = 0
		d.titleInput.Focus()
		d.descInput.Blur()

	case key.Matches(msg, m.keyMap.EditItem):
		if d.cursor < len(d.entries) {
			entry := d.entries[d.cursor]
			d.mode = devlogEdit
			d.editing = &entry
			d.titleInput.SetValue(entry.Title)
			d.descInput.SetValue(entry.Description)
			for i, c := range devlogCategories {
				if c == entry.Category {
					d.category = i
					break
				}
			}
			d.activeInput = 0
			d.titleInput.Focus()
			d.descInput.Blur()
		}

	case key.Matches(msg, m.keyMap.DeleteItem):
		if d.cursor < len(d.entries) {
			d.mode = devlogConfirmDelete
		}

	case msg.String() == "/":
		d.mode = devlogSearch
		d.searchInput.SetValue(d.search)
		d.searchInput.Focus()

	case key.Matches(msg, m.keyMap.CycleFilter):
		// Cycle: all categories, then each one.
		if d.filter == "" {
			d.filter = devlogCategories[0]
		} else {
			next := ""
			for i, c := range devlogCategories {
				if c == d.filter && i+1 < len(devlogCategories) {
					next = devlogCategories[i+1]
					break
				}
			}
			d.filter = next
		}
		d.cursor = 0
		return m, m.fetchDevLogs(d.filter, d.search)

	case key.Matches(msg, m.keyMap.OpenLink):
		if d.cursor < len(d.entries) && d.entries[d.cursor].CommitURL != "" {
			return m, openLink(d.entries[d.cursor].CommitURL)
		}
	}

	return m, nil
}

func (m Model) viewDevLog() string {
	var sb strings.Builder
	d := m.devlog
	t := m.theme

	switch d.mode {
	case devlogAdd, devlogEdit:
		title := " New DevLog Entry "
		if d.mode == devlogEdit {
			title = " Edit DevLog Entry "
		}
		sb.WriteString(t.titleStyle().Render(title))
		sb.WriteString("\n\n")
		sb.WriteString("Title:\n")
		sb.WriteString(d.titleInput.View())
		sb.WriteString("\n\n")
		sb.WriteString("Description:\n")
		sb.WriteString(d.descInput.View())
		sb.WriteString("\n\n")
		sb.WriteString(t.subtleStyle().Render(
			fmt.Sprintf("Category: %s (ctrl+t to change)", devlogCategories[d.category])))
		return sb.String()

	case devlogSearch:
		sb.WriteString(t.titleStyle().Render(" Search DevLog "))
		sb.WriteString("\n\n")
		sb.WriteString(d.searchInput.View())
		sb.WriteString("\n")
		sb.WriteString(t.subtleStyle().Render("enter to search, esc to clear"))
		return sb.String()

	case devlogConfirmDelete:
		sb.WriteString(t.errorTitleStyle().Render(" Delete Entry "))
		sb.WriteString("\n\n")
		if d.cursor < len(d.entries) {
			sb.WriteString(fmt.Sprintf("Delete %q? (y/n)", d.entries[d.cursor].Title))
		}
		return sb.String()
	}

	filter := d.filter
	if filter == "" {
		filter = "all"
	}
	header := fmt.Sprintf("%d entries, filter: %s", d.stats.TotalLogs, filter)
	if d.search != "" {
		header += fmt.Sprintf(", search: %q", d.search)
	}
	sb.WriteString(t.subtleStyle().Render(header))
	sb.WriteString("\n\n")

	if len(d.entries) == 0 {
		sb.WriteString(t.subtleStyle().Render("No entries. Press a to add one."))
		sb.WriteString("\n")
		return sb.String()
	}

	for i, entry := range d.entries {
		line := fmt.Sprintf("[%s] %s  %s",
			entry.Category, entry.CreatedAt.Local().Format("Jan 2"), entry.Title)
		if entry.CommitHash != "" {
			short := entry.CommitHash
			if len(short) > 7 {
				short = short[:7]
			}
			line += " (" + short + ")"
		}
		if i == d.cursor {
			line = t.accentStyle().Render("> ") + t.textStyle().Bold(true).Render(line)
		} else {
			line = "  " + t.textStyle().Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if d.cursor < len(d.entries) {
		entry := d.entries[d.cursor]
		if entry.Description != "" {
			sb.WriteString("\n")
			sb.WriteString(t.textStyle().Render(entry.Description))
			sb.WriteString("\n")
		}
		sb.WriteString(t.subtleStyle().Render(
			fmt.Sprintf("%s by %s", entry.Status, entry.CreatedBy)))
		sb.WriteString("\n")
	}

	return sb.String()
}
