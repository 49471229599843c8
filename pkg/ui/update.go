package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/tracker"
	"ntrack/pkg/utils"
)

const statusTimeout = 3 * time.Second

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.tasks.table.SetWidth(msg.Width - 4)
		if msg.Width > 50 {
			m.dashboard.macro.SetWidth(msg.Width - 20)
			m.weekly.chart.SetWidth(msg.Width - 16)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case errMsg:
		m.err = msg.err
		// A failed save keeps the result on screen and re-enables the action.
		m.capture.saving = false
		m.dashboard.loading = false
		m.weekly.loading = false
		m.news.loading = false
		return m, nil

	case unauthorizedMsg:
		m.screen = ScreenSessionExpired
		return m, nil

	case statusClearMsg:
		m.status = ""
		return m, nil

	case linkOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case authMsg:
		m.username = msg.status.Username
		m.userID = msg.status.UserID
		m.target = msg.status.CalorieTarget
		return m, nil

	case summaryMsg:
		m.err = nil
		m.dashboard.summary = msg.summary
		m.dashboard.loading = false
		m.dashboard.confirmDelete = false
		if msg.summary.Target > 0 {
			m.target = msg.summary.Target
		}
		m.dashboard.macro.Set(
			msg.summary.TotalProtein, msg.summary.TotalCarbs, msg.summary.TotalFat)
		if m.dashboard.cursor >= len(msg.summary.Meals) {
			m.dashboard.cursor = 0
		}
		if m.history.cursor >= len(msg.summary.Meals) {
			m.history.cursor = 0
		}
		return m, nil

	case suggestionsMsg:
		m.dashboard.suggestions = msg.suggestions
		m.dashboard.showSuggestions = msg.ok
		return m, nil

	case portionSettledMsg:
		m.capture.updating = false
		m.search.updating = false
		return m, nil

	case csvExportedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = "Exported to " + msg.path
		return m, clearStatusAfter(statusTimeout)

	case analyzeMsg:
		if msg.search {
			if msg.gen != m.search.gen {
				utils.Log("search: dropping stale response gen=%d current=%d", msg.gen, m.search.gen)
				return m, nil
			}
			m.search.searching = false
			a := msg.analysis
			m.search.analysis = &a
			return m, nil
		}
		if msg.gen != m.capture.gen {
			utils.Log("capture: dropping stale response gen=%d current=%d", msg.gen, m.capture.gen)
			return m, nil
		}
		m.capture.analyzing = false
		a := msg.analysis
		m.capture.analysis = &a
		m.capture.multiplier = 1.0
		return m, nil

	case analyzeErrMsg:
		if msg.search {
			if msg.gen != m.search.gen {
				return m, nil
			}
			m.search.searching = false
		} else {
			if msg.gen != m.capture.gen {
				return m, nil
			}
			m.capture.analyzing = false
		}
		m.err = msg.err
		return m, nil

	case mealLoggedMsg:
		m.capture.saving = false
		m.capture.analysis = nil
		m.capture.input.Reset()
		m.capture.multiplier = 1.0
		m.search.analysis = nil
		m.search.multiplier = 1.0
		m.search.input.Reset()
		m.status = "Meal logged"
		m.screen = ScreenDashboard
		return m, tea.Batch(m.fetchToday(), clearStatusAfter(statusTimeout))

	case mealDeletedMsg:
		m.status = "Meal removed"
		return m, tea.Batch(m.fetchToday(), clearStatusAfter(statusTimeout))

	case targetSavedMsg:
		m.target = msg.target
		m.dashboard.editingTarget = false
		m.dashboard.targetInput.Reset()
		m.status = "Target updated"
		return m, tea.Batch(m.fetchToday(), clearStatusAfter(statusTimeout))

	case weeklyMsg:
		m.err = nil
		m.weekly.loading = false
		m.weekly.summary = msg.summary
		m.weekly.stats = tracker.ComputeWeekStats(msg.summary.Days)
		m.weekly.chart.Set(msg.summary.Days, msg.summary.Target)
		return m, nil

	case tasksMsg:
		m.err = nil
		m.tasks.all = msg.tasks
		m.applyTaskFilter()
		return m, nil

	case usersMsg:
		m.tasks.users = msg.users
		return m, nil

	case taskMutatedMsg:
		return m, m.fetchTasks()

	case devlogMsg:
		m.err = nil
		m.devlog.entries = msg.entries
		if m.devlog.cursor >= len(msg.entries) {
			m.devlog.cursor = 0
		}
		return m, nil

	case devStatsMsg:
		m.devlog.stats = msg.stats
		return m, nil

	case devlogSavedMsg:
		m.devlog.mode = devlogNormal
		m.devlog.editing = nil
		m.devlog.titleInput.Reset()
		m.devlog.descInput.Reset()
		m.status = "Entry saved"
		return m, tea.Batch(
			m.fetchDevLogs(m.devlog.filter, m.devlog.search), m.fetchDevStats(),
			clearStatusAfter(statusTimeout))

	case devlogDeletedMsg:
		m.status = "Entry deleted"
		return m, tea.Batch(
			m.fetchDevLogs(m.devlog.filter, m.devlog.search), m.fetchDevStats(),
			clearStatusAfter(statusTimeout))

	case newsMsg:
		m.err = nil
		m.news.loading = false
		m.news.articles = msg.articles
		m.news.direct = msg.direct
		m.applyNewsFilter()
		return m, nil
	}

	return m, nil
}

// updateKey routes keys. Screens holding a focused text input get the key
// stream untouched so global shortcuts cannot swallow typed characters.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == ScreenSessionExpired {
		switch {
		case key.Matches(msg, m.keyMap.QuitApp), msg.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Refresh):
			return m, m.fetchAuth()
		}
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.typing() {
		return m.updateScreen(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.QuitApp):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.ShowHelp):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.NextScreen):
		return m.switchScreen((m.screen + 1) % ScreenSessionExpired)

	case key.Matches(msg, m.keyMap.PrevScreen):
		return m.switchScreen((m.screen + ScreenSessionExpired - 1) % ScreenSessionExpired)

	case key.Matches(msg, m.keyMap.GoDashboard):
		return m.switchScreen(ScreenDashboard)
	case key.Matches(msg, m.keyMap.GoCapture):
		return m.switchScreen(ScreenCapture)
	case key.Matches(msg, m.keyMap.GoSearch):
		return m.switchScreen(ScreenSearch)
	case key.Matches(msg, m.keyMap.GoHistory):
		return m.switchScreen(ScreenHistory)
	case key.Matches(msg, m.keyMap.GoWeekly):
		return m.switchScreen(ScreenWeekly)
	case key.Matches(msg, m.keyMap.GoTasks):
		return m.switchScreen(ScreenTasks)
	case key.Matches(msg, m.keyMap.GoDevLog):
		return m.switchScreen(ScreenDevLog)
	case key.Matches(msg, m.keyMap.GoNews):
		return m.switchScreen(ScreenNews)

	case key.Matches(msg, m.keyMap.CycleTheme):
		m.setTheme(NextThemeName(m.theme.Name))
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		return m.refreshScreen()
	}

	return m.updateScreen(msg)
}

// typing reports whether the active screen currently owns a text input.
func (m Model) typing() bool {
	switch m.screen {
	case ScreenDashboard:
		return m.dashboard.editingTarget
	case ScreenCapture:
		// The review stage owns the preset digit keys too.
		return !m.capture.analyzing
	case ScreenSearch:
		return !m.search.searching
	case ScreenTasks:
		return m.tasks.mode == taskAdd || m.tasks.mode == taskEdit
	case ScreenDevLog:
		return m.devlog.mode == devlogAdd || m.devlog.mode == devlogEdit ||
			m.devlog.mode == devlogSearch
	}
	return false
}

// switchScreen activates a screen and kicks off its initial load.
func (m Model) switchScreen(s Screen) (tea.Model, tea.Cmd) {
	m.screen = s
	m.err = nil
	switch s {
	case ScreenWeekly:
		if len(m.weekly.summary.Days) == 0 {
			m.weekly.loading = true
		}
	case ScreenNews:
		if len(m.news.articles) == 0 {
			m.news.loading = true
		}
	}
	return m, tea.Batch(m.loadCmd(s), m.spin.Tick)
}

func (m Model) refreshScreen() (tea.Model, tea.Cmd) {
	return m, m.loadCmd(m.screen)
}

func (m Model) loadCmd(s Screen) tea.Cmd {
	switch s {
	case ScreenDashboard, ScreenHistory:
		return m.fetchToday()
	case ScreenWeekly:
		return m.fetchWeekly()
	case ScreenTasks:
		return tea.Batch(m.fetchTasks(), m.fetchUsers())
	case ScreenDevLog:
		return tea.Batch(m.fetchDevLogs(m.devlog.filter, m.devlog.search), m.fetchDevStats())
	case ScreenNews:
		return m.fetchNews()
	}
	return nil
}

// updateScreen dispatches the key to the active screen's handler.
func (m Model) updateScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenDashboard:
		return m.updateDashboard(msg)
	case ScreenCapture:
		return m.updateCapture(msg)
	case ScreenSearch:
		return m.updateSearch(msg)
	case ScreenHistory:
		return m.updateHistory(msg)
	case ScreenWeekly:
		return m.updateWeekly(msg)
	case ScreenTasks:
		return m.updateTasks(msg)
	case ScreenDevLog:
		return m.updateDevLog(msg)
	case ScreenNews:
		return m.updateNews(msg)
	}
	return m, nil
}
