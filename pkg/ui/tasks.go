package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/tracker"
)

var taskFilterNames = map[tracker.TaskFilter]string{
	tracker.TasksAll:       "all",
	tracker.TasksPending:   "pending",
	tracker.TasksCompleted: "completed",
	tracker.TasksMine:      "mine",
}

// applyTaskFilter recomputes the visible tasks and the table rows.
func (m *Model) applyTaskFilter() {
	ts := &m.tasks
	ts.items = tracker.FilterTasks(ts.all, ts.filter, m.userID)

	rows := make([]table.Row, 0, len(ts.items))
	for _, item := range ts.items {
		status := "[ ]"
		if item.IsCompleted {
			status = "[x]"
		}
		assignee := ""
		if item.AssignedTo != "" {
			assignee = " @" + item.AssignedTo
		}
		rows = append(rows, table.Row{fmt.Sprintf("%s %s%s", status, item.Title, assignee)})
	}
	ts.table.SetRows(rows)
	if ts.table.Cursor() >= len(rows) && len(rows) > 0 {
		ts.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) selectedTask() (int, bool) {
	idx := m.tasks.table.Cursor()
	if len(m.tasks.items) == 0 || idx >= len(m.tasks.items) {
		return 0, false
	}
	return idx, true
}

func (m Model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ts := &m.tasks
	var cmd tea.Cmd

	switch ts.mode {
	case taskAdd, taskEdit:
		switch {
		case key.Matches(msg, m.keyMap.Back):
			ts.mode = taskNormal
			ts.editing = nil
			ts.titleInput.Reset()
			ts.descInput.Reset()
			return m, nil

		case msg.String() == "tab", msg.String() == "shift+tab":
			if ts.activeInput == 0 {
				ts.activeInput = 1
				ts.titleInput.Blur()
				ts.descInput.Focus()
			} else {
				ts.activeInput = 0
				ts.descInput.Blur()
				ts.titleInput.Focus()
			}
			return m, nil

		case msg.String() == "ctrl+a":
			// Cycle assignee: unassigned, then each board user.
			ts.assigneeIdx = (ts.assigneeIdx + 1) % (len(ts.users) + 1)
			return m, nil

		case msg.String() == "enter":
			if ts.activeInput == 0 {
				ts.activeInput = 1
				ts.titleInput.Blur()
				ts.descInput.Focus()
				return m, nil
			}
			title := strings.TrimSpace(ts.titleInput.Value())
			if title == "" {
				m.err = fmt.Errorf("task title is required")
				return m, nil
			}
			desc := strings.TrimSpace(ts.descInput.Value())
			mode := ts.mode
			editing := ts.editing
			assignee := 0
			if ts.assigneeIdx > 0 && ts.assigneeIdx <= len(ts.users) {
				assignee = ts.users[ts.assigneeIdx-1].ID
			}
			ts.mode = taskNormal
			ts.editing = nil
			ts.assigneeIdx = 0
			ts.titleInput.Reset()
			ts.descInput.Reset()
			ts.activeInput = 0
			ts.descInput.Blur()
			ts.titleInput.Focus()
			m.err = nil
			if mode == taskEdit && editing != nil {
				return m, m.updateTask(editing.ID, title, desc)
			}
			return m, m.createTask(title, desc, assignee)
		}

		if ts.activeInput == 0 {
			ts.titleInput, cmd = ts.titleInput.Update(msg)
		} else {
			ts.descInput, cmd = ts.descInput.Update(msg)
		}
		return m, cmd

	case taskConfirmDelete:
		switch {
		case msg.String() == "y", msg.String() == "Y":
			ts.mode = taskNormal
			if idx, ok := m.selectedTask(); ok {
				return m, m.deleteTask(ts.items[idx].ID)
			}
			return m, nil
		case msg.String() == "n", msg.String() == "N", key.Matches(msg, m.keyMap.Back):
			ts.mode = taskNormal
			ts.editing = nil
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.ToggleStatus):
		if idx, ok := m.selectedTask(); ok {
			return m, m.toggleTask(ts.items[idx].ID)
		}

	case key.Matches(msg, m.keyMap.AddItem):
		ts.mode = taskAdd
		ts.activeInput = 0
		ts.titleInput.Focus()
		ts.descInput.Blur()

	case key.Matches(msg, m.keyMap.EditItem):
		if idx, ok := m.selectedTask(); ok {
			item := ts.items[idx]
			ts.mode = taskEdit
			ts.editing = &item
			ts.titleInput.SetValue(item.Title)
			ts.descInput.SetValue(item.Description)
			ts.activeInput = 0
			ts.titleInput.Focus()
			ts.descInput.Blur()
		}

	case key.Matches(msg, m.keyMap.DeleteItem):
		if _, ok := m.selectedTask(); ok {
			ts.mode = taskConfirmDelete
		}

	case key.Matches(msg, m.keyMap.CycleFilter):
		ts.filter = (ts.filter + 1) % 4
		m.applyTaskFilter()

	case key.Matches(msg, m.keyMap.AssignToMe):
		if idx, ok := m.selectedTask(); ok {
			return m, m.assignTask(ts.items[idx].ID, m.userID)
		}

	default:
		ts.table, cmd = ts.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) viewTasks() string {
	var sb strings.Builder
	ts := m.tasks
	t := m.theme

	switch ts.mode {
	case taskAdd, taskEdit:
		title := " Add Task "
		if ts.mode == taskEdit {
			title = " Edit Task "
		}
		sb.WriteString(t.titleStyle().Render(title))
		sb.WriteString("\n\n")
		sb.WriteString("Title:\n")
		sb.WriteString(ts.titleInput.View())
		sb.WriteString("\n\n")
		sb.WriteString("Description:\n")
		sb.WriteString(ts.descInput.View())
		if ts.mode == taskAdd {
			assignee := "unassigned"
			if ts.assigneeIdx > 0 && ts.assigneeIdx <= len(ts.users) {
				assignee = ts.users[ts.assigneeIdx-1].Username
			}
			sb.WriteString("\n\n")
			sb.WriteString(t.subtleStyle().Render(
				fmt.Sprintf("Assignee: %s (ctrl+a to change)", assignee)))
		}
		return sb.String()

	case taskConfirmDelete:
		sb.WriteString(t.errorTitleStyle().Render(" Delete Task "))
		sb.WriteString("\n\n")
		if idx, ok := m.selectedTask(); ok {
			sb.WriteString(fmt.Sprintf("Delete %q? (y/n)", ts.items[idx].Title))
		}
		return sb.String()
	}

	sb.WriteString(ts.table.View())
	sb.WriteString("\n")

	stats := tracker.CountTasks(ts.all)
	sb.WriteString(t.subtleStyle().Render(fmt.Sprintf(
		"Filter: %s   %d total, %d pending, %d done",
		taskFilterNames[ts.filter], stats.Total, stats.Pending, stats.Completed)))
	sb.WriteString("\n")

	if idx, ok := m.selectedTask(); ok {
		item := ts.items[idx]
		if item.Description != "" {
			sb.WriteString(t.textStyle().Render(item.Description))
			sb.WriteString("\n")
		}
		meta := fmt.Sprintf("created by %s on %s", item.CreatedBy, item.CreatedAt.Local().Format("Jan 2"))
		if item.CompletedAt != nil {
			meta += ", completed " + item.CompletedAt.Local().Format("Jan 2")
		}
		sb.WriteString(t.subtleStyle().Render(meta))
		sb.WriteString("\n")
	}

	return sb.String()
}
