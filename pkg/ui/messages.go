package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/api"
	"ntrack/pkg/models"
	"ntrack/pkg/news"
	"ntrack/pkg/utils"
)

// Messages delivered by the async commands below.
type (
	errMsg          struct{ err error }
	unauthorizedMsg struct{}
	statusClearMsg  struct{}

	authMsg    struct{ status models.AuthStatus }
	summaryMsg struct{ summary models.DaySummary }

	// ok is false when the fetch failed; the panel hides silently.
	suggestionsMsg struct {
		suggestions []models.Suggestion
		ok          bool
	}

	// analyzeMsg and analyzeErrMsg carry the request generation so answers
	// to superseded requests can be dropped.
	analyzeMsg struct {
		gen      int
		search   bool
		analysis models.Analysis
	}
	analyzeErrMsg struct {
		gen    int
		search bool
		err    error
	}

	mealLoggedMsg     struct{}
	mealDeletedMsg    struct{}
	targetSavedMsg    struct{ target int }
	portionSettledMsg struct{}

	weeklyMsg      struct{ summary models.WeeklySummary }
	csvExportedMsg struct {
		path string
		err  error
	}

	tasksMsg       struct{ tasks []models.TaskItem }
	usersMsg       struct{ users []models.User }
	taskMutatedMsg struct{}

	devlogMsg        struct{ entries []models.DevLogEntry }
	devStatsMsg      struct{ stats models.DevStats }
	devlogSavedMsg   struct{}
	devlogDeletedMsg struct{}

	newsMsg struct {
		articles []models.NewsArticle
		direct   bool
	}

	linkOpenedMsg struct{ err error }
)

// wrap converts a client error to the right message. Session expiry is
// routed to the dedicated screen instead of the inline error line.
func wrap(err error) tea.Msg {
	if errors.Is(err, api.ErrUnauthorized) {
		return unauthorizedMsg{}
	}
	return errMsg{err}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func (m Model) fetchAuth() tea.Cmd {
	return func() tea.Msg {
		var status models.AuthStatus
		if err := m.api.Get(context.Background(), "/auth/status", &status); err != nil {
			return wrap(err)
		}
		if !status.LoggedIn {
			return unauthorizedMsg{}
		}
		return authMsg{status}
	}
}

func (m Model) fetchToday() tea.Cmd {
	return func() tea.Msg {
		var summary models.DaySummary
		if err := m.api.Get(context.Background(), "/api/meals/today", &summary); err != nil {
			return wrap(err)
		}
		return summaryMsg{summary}
	}
}

// fetchSuggestions is non-critical: failures hide the panel instead of
// raising an alert.
func (m Model) fetchSuggestions(remaining int) tea.Cmd {
	return func() tea.Msg {
		var out struct {
			Suggestions []models.Suggestion `json:"suggestions"`
		}
		path := fmt.Sprintf("/api/meals/suggest?remaining_cal=%d", remaining)
		if err := m.api.Get(context.Background(), path, &out); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return unauthorizedMsg{}
			}
			utils.Log("suggestions fetch failed: %v", err)
			return suggestionsMsg{}
		}
		return suggestionsMsg{suggestions: out.Suggestions, ok: true}
	}
}

func settlePortionAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return portionSettledMsg{}
	})
}

func (m Model) analyzeText(gen int, search bool, query string) tea.Cmd {
	return func() tea.Msg {
		var analysis models.Analysis
		err := m.api.Post(context.Background(), "/api/meals/analyze-text",
			map[string]string{"query": query}, &analysis)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return unauthorizedMsg{}
			}
			return analyzeErrMsg{gen: gen, search: search, err: err}
		}
		return analyzeMsg{gen: gen, search: search, analysis: analysis}
	}
}

func (m Model) analyzePhoto(gen int, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return analyzeErrMsg{gen: gen, err: err}
		}
		var analysis models.Analysis
		err = m.api.PostFile(context.Background(), "/api/meals/analyze",
			"image", filepath.Base(path), data, &analysis)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return unauthorizedMsg{}
			}
			return analyzeErrMsg{gen: gen, err: err}
		}
		return analyzeMsg{gen: gen, analysis: analysis}
	}
}

func (m Model) logMeal(entry models.MealLog) tea.Cmd {
	return func() tea.Msg {
		if err := m.api.Post(context.Background(), "/api/meals/log", entry, nil); err != nil {
			return wrap(err)
		}
		return mealLoggedMsg{}
	}
}

func (m Model) deleteMeal(id int) tea.Cmd {
	return func() tea.Msg {
		if err := m.api.Delete(context.Background(), fmt.Sprintf("/api/meals/%d", id), nil); err != nil {
			return wrap(err)
		}
		return mealDeletedMsg{}
	}
}

func (m Model) saveTarget(target int) tea.Cmd {
	return func() tea.Msg {
		err := m.api.Put(context.Background(), "/api/dashboard/target",
			map[string]int{"target": target}, nil)
		if err != nil {
			return wrap(err)
		}
		return targetSavedMsg{target}
	}
}

// exportWeeklyCSV pulls the last 30 days of meal data and writes it next
// to the user's home directory.
func (m Model) exportWeeklyCSV() tea.Cmd {
	return func() tea.Msg {
		end := time.Now()
		start := end.AddDate(0, 0, -30)
		path := fmt.Sprintf("/api/export/csv?start=%s&end=%s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
		data, err := m.api.GetRaw(context.Background(), path)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return unauthorizedMsg{}
			}
			return csvExportedMsg{err: err}
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return csvExportedMsg{err: err}
		}
		out := filepath.Join(home, "ntrack-meals.csv")
		if err := os.WriteFile(out, data, 0644); err != nil {
			return csvExportedMsg{err: err}
		}
		return csvExportedMsg{path: out}
	}
}

func (m Model) fetchWeekly() tea.Cmd {
	return func() tea.Msg {
		var summary models.WeeklySummary
		if err := m.api.Get(context.Background(), "/api/dashboard/weekly", &summary); err != nil {
			return wrap(err)
		}
		return weeklyMsg{summary}
	}
}

func (m Model) fetchTasks() tea.Cmd {
	return func() tea.Msg {
		var out struct {
			Tasks []models.TaskItem `json:"tasks"`
		}
		if err := m.api.Get(context.Background(), "/todo/api/tasks", &out); err != nil {
			return wrap(err)
		}
		return tasksMsg{out.Tasks}
	}
}

func (m Model) fetchUsers() tea.Cmd {
	return func() tea.Msg {
		var out struct {
			Users []models.User `json:"users"`
		}
		if err := m.api.Get(context.Background(), "/todo/api/users", &out); err != nil {
			return wrap(err)
		}
		return usersMsg{out.Users}
	}
}

func (m Model) createTask(title, description string, assigneeID int) tea.Cmd {
	return func() tea.Msg {
		body := map[string]any{"title": title, "description": description}
		if assigneeID > 0 {
			body["assigned_to_id"] = assigneeID
		}
		err := m.api.Post(context.Background(), "/todo/api/tasks", body, nil)
		if err != nil {
			return wrap(err)
		}
		return taskMutatedMsg{}
	}
}

func (m Model) updateTask(id int, title, description string) tea.Cmd {
	return func() tea.Msg {
		err := m.api.Put(context.Background(), fmt.Sprintf("/todo/api/tasks/%d", id),
			map[string]string{"title": title, "description": description}, nil)
		if err != nil {
			return wrap(err)
		}
		return taskMutatedMsg{}
	}
}

func (m Model) toggleTask(id int) tea.Cmd {
	return func() tea.Msg {
		err := m.api.Post(context.Background(),
			fmt.Sprintf("/todo/api/tasks/%d/toggle", id), nil, nil)
		if err != nil {
			return wrap(err)
		}
		return taskMutatedMsg{}
	}
}

func (m Model) assignTask(id, userID int) tea.Cmd {
	return func() tea.Msg {
		err := m.api.Post(context.Background(),
			fmt.Sprintf("/todo/api/tasks/%d/assign", id),
			map[string]int{"user_id": userID}, nil)
		if err != nil {
			return wrap(err)
		}
		return taskMutatedMsg{}
	}
}

func (m Model) deleteTask(id int) tea.Cmd {
	return func() tea.Msg {
		err := m.api.Delete(context.Background(), fmt.Sprintf("/todo/api/tasks/%d", id), nil)
		if err != nil {
			return wrap(err)
		}
		return taskMutatedMsg{}
	}
}

// fetchDevLogs delegates search and category filtering to the server.
func (m Model) fetchDevLogs(category, search string) tea.Cmd {
	return func() tea.Msg {
		params := url.Values{}
		if category != "" {
			params.Set("category", category)
		}
		if search != "" {
			params.Set("search", search)
		}
		path := "/api/devboard/logs"
		if len(params) > 0 {
			path += "?" + params.Encode()
		}
		var out struct {
			Logs []models.DevLogEntry `json:"logs"`
		}
		if err := m.api.Get(context.Background(), path, &out); err != nil {
			return wrap(err)
		}
		return devlogMsg{out.Logs}
	}
}

// fetchDevStats is non-critical: failures leave the last stats in place.
func (m Model) fetchDevStats() tea.Cmd {
	return func() tea.Msg {
		var stats models.DevStats
		if err := m.api.Get(context.Background(), "/api/devboard/stats", &stats); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return unauthorizedMsg{}
			}
			utils.Log("devboard stats fetch failed: %v", err)
			return devStatsMsg{}
		}
		return devStatsMsg{stats}
	}
}

func (m Model) saveDevLog(id int, title, description, category, status string) tea.Cmd {
	return func() tea.Msg {
		body := map[string]string{
			"title":       title,
			"description": description,
			"category":    category,
			"status":      status,
		}
		var err error
		if id > 0 {
			err = m.api.Put(context.Background(), fmt.Sprintf("/api/devboard/logs/%d", id), body, nil)
		} else {
			err = m.api.Post(context.Background(), "/api/devboard/logs", body, nil)
		}
		if err != nil {
			return wrap(err)
		}
		return devlogSavedMsg{}
	}
}

func (m Model) deleteDevLog(id int) tea.Cmd {
	return func() tea.Msg {
		err := m.api.Delete(context.Background(), fmt.Sprintf("/api/devboard/logs/%d", id), nil)
		if err != nil {
			return wrap(err)
		}
		return devlogDeletedMsg{}
	}
}

// fetchNews asks the backend first and falls back to parsing the feeds
// directly when the backend is unreachable.
func (m Model) fetchNews() tea.Cmd {
	return func() tea.Msg {
		var out struct {
			News []models.NewsArticle `json:"news"`
		}
		err := m.api.Get(context.Background(), "/news/api/fetch", &out)
		if err == nil {
			return newsMsg{articles: out.News}
		}
		if errors.Is(err, api.ErrUnauthorized) {
			return unauthorizedMsg{}
		}
		utils.Log("news: server fetch failed, going direct: %v", err)
		fetcher := news.NewFetcher(m.feeds)
		return newsMsg{articles: fetcher.FetchAll(), direct: true}
	}
}

func openLink(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		return linkOpenedMsg{err: cmd.Start()}
	}
}
