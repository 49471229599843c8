package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/api"
	"ntrack/pkg/config"
	"ntrack/pkg/keymaps"
	"ntrack/pkg/models"
	"ntrack/pkg/storage"
	"ntrack/pkg/tracker"
)

func newTestModel(t *testing.T) Model {
	return newTestModelAt(t, "http://127.0.0.1:1")
}

func newTestModelAt(t *testing.T, serverURL string) Model {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Config{KeyMap: keymaps.GetDefaultKeyMappings()}
	return NewModel(api.New(serverURL), store, cfg)
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStaleAnalysisIsDropped(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenCapture
	m.capture.gen = 2
	m.capture.analyzing = true

	// An answer from the first request must not land.
	m = apply(t, m, analyzeMsg{gen: 1, analysis: models.Analysis{FoodName: "Old"}})
	if m.capture.analysis != nil {
		t.Fatalf("stale analysis applied: %+v", m.capture.analysis)
	}
	if !m.capture.analyzing {
		t.Error("still waiting for current request, analyzing flag must stay set")
	}

	// The current generation lands normally.
	m = apply(t, m, analyzeMsg{gen: 2, analysis: models.Analysis{FoodName: "Current"}})
	if m.capture.analysis == nil || m.capture.analysis.FoodName != "Current" {
		t.Fatalf("current analysis not applied: %+v", m.capture.analysis)
	}
	if m.capture.multiplier != 1.0 {
		t.Errorf("multiplier = %v, want reset to 1.0", m.capture.multiplier)
	}
}

func TestStaleSearchErrorIsDropped(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenSearch
	m.search.gen = 3
	m.search.searching = true

	m = apply(t, m, analyzeErrMsg{gen: 2, search: true, err: errTest})
	if m.err != nil {
		t.Errorf("stale error surfaced: %v", m.err)
	}

	m = apply(t, m, analyzeErrMsg{gen: 3, search: true, err: errTest})
	if m.err == nil {
		t.Error("current-generation error should surface")
	}
	if m.search.searching {
		t.Error("searching flag should clear")
	}
}

var errTest = &api.ServerError{Message: "analysis failed"}

func TestPortionAdjustStaysInRange(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenCapture
	a := models.Analysis{FoodName: "Banana", Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4, FoodScore: 8}
	m.capture.analysis = &a
	m.capture.multiplier = 1.0

	for i := 0; i < 100; i++ {
		m = apply(t, m, keyMsg("-"))
	}
	if !tracker.ValidMultiplier(m.capture.multiplier) {
		t.Fatalf("multiplier %v left the valid range going down", m.capture.multiplier)
	}
	if m.capture.multiplier != multiplierStep {
		t.Errorf("multiplier = %v, want floor %v", m.capture.multiplier, multiplierStep)
	}

	for i := 0; i < 100; i++ {
		m = apply(t, m, keyMsg("+"))
	}
	if !tracker.ValidMultiplier(m.capture.multiplier) {
		t.Fatalf("multiplier %v left the valid range going up", m.capture.multiplier)
	}
}

func TestUnauthorizedSwitchesToSessionExpired(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenWeekly

	m = apply(t, m, unauthorizedMsg{})
	if m.screen != ScreenSessionExpired {
		t.Fatalf("screen = %v, want ScreenSessionExpired", m.screen)
	}

	// Only quit and retry work on the expired screen.
	m = apply(t, m, keyMsg("5"))
	if m.screen != ScreenSessionExpired {
		t.Error("screen switching must be disabled while session is expired")
	}
}

func TestTaskFilterCycling(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenTasks
	m.userID = 7
	assigned := 7
	m = apply(t, m, tasksMsg{tasks: []models.TaskItem{
		{ID: 1, Title: "open", IsCompleted: false},
		{ID: 2, Title: "done", IsCompleted: true},
		{ID: 3, Title: "mine", IsCompleted: false, AssignedToID: &assigned},
	}})

	if len(m.tasks.items) != 3 {
		t.Fatalf("all filter shows %d items, want 3", len(m.tasks.items))
	}

	m = apply(t, m, keyMsg("f")) // pending
	if len(m.tasks.items) != 2 {
		t.Errorf("pending filter shows %d items, want 2", len(m.tasks.items))
	}

	m = apply(t, m, keyMsg("f")) // completed
	if len(m.tasks.items) != 1 || m.tasks.items[0].ID != 2 {
		t.Errorf("completed filter shows %+v", m.tasks.items)
	}

	m = apply(t, m, keyMsg("f")) // mine
	if len(m.tasks.items) != 1 || m.tasks.items[0].ID != 3 {
		t.Errorf("mine filter shows %+v", m.tasks.items)
	}

	m = apply(t, m, keyMsg("f")) // back to all
	if len(m.tasks.items) != 3 {
		t.Errorf("filter did not wrap to all, shows %d", len(m.tasks.items))
	}
}

func TestThemeCyclePersists(t *testing.T) {
	m := newTestModel(t)
	if m.theme.Name != "auto" {
		t.Fatalf("initial theme = %q, want auto", m.theme.Name)
	}

	m = apply(t, m, keyMsg("t"))
	if m.theme.Name != "light" {
		t.Fatalf("theme after one cycle = %q, want light", m.theme.Name)
	}
	if got := storage.LoadTheme(m.store); got != "light" {
		t.Errorf("persisted theme = %q, want light", got)
	}

	m = apply(t, m, keyMsg("t"))
	m = apply(t, m, keyMsg("t"))
	if m.theme.Name != "auto" {
		t.Errorf("theme after full cycle = %q, want auto", m.theme.Name)
	}
}

func TestBookmarkToggleNeverDuplicates(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenNews
	article := models.NewsArticle{Title: "One", Link: "https://example.com/1"}
	m = apply(t, m, newsMsg{articles: []models.NewsArticle{article}})

	for i := 0; i < 3; i++ {
		m = apply(t, m, keyMsg("b"))
	}
	if m.bookmarks.Len() != 1 {
		t.Fatalf("bookmarks after odd toggles = %d, want 1", m.bookmarks.Len())
	}

	m = apply(t, m, keyMsg("b"))
	if m.bookmarks.Len() != 0 {
		t.Errorf("bookmarks after even toggles = %d, want 0", m.bookmarks.Len())
	}
}

func TestFetchNewsDecodesServerList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"news":[{"title":"New model ships","link":"https://example.com/ai","source":"TechCrunch","published":"2026-08-29T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	m := newTestModelAt(t, srv.URL)
	msg := m.fetchNews()()
	nm, ok := msg.(newsMsg)
	if !ok {
		t.Fatalf("fetchNews returned %T, want newsMsg", msg)
	}
	if len(nm.articles) != 1 || nm.articles[0].Title != "New model ships" {
		t.Fatalf("articles = %+v, want the one server article", nm.articles)
	}
	if nm.direct {
		t.Error("server response must not be marked as direct feed mode")
	}
}

func TestSearchPortionAdjusts(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenSearch
	a := models.Analysis{FoodName: "Banana", Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4, FoodScore: 8}
	m.search.analysis = &a
	m.search.multiplier = 1.0

	m = apply(t, m, keyMsg("4"))
	if m.search.multiplier != 2.0 {
		t.Fatalf("multiplier after preset 4 = %v, want 2.0", m.search.multiplier)
	}
	if !m.search.updating {
		t.Error("updating flag should be set until the settle tick")
	}
	m = apply(t, m, portionSettledMsg{})
	if m.search.updating {
		t.Error("updating flag should clear on the settle tick")
	}

	for i := 0; i < 100; i++ {
		m = apply(t, m, keyMsg("-"))
	}
	if !tracker.ValidMultiplier(m.search.multiplier) {
		t.Fatalf("multiplier %v left the valid range", m.search.multiplier)
	}

	m = apply(t, m, keyMsg("esc"))
	if m.search.analysis != nil {
		t.Error("esc should discard the search result")
	}
	if m.search.multiplier != 1.0 {
		t.Errorf("multiplier after discard = %v, want 1.0", m.search.multiplier)
	}
}

func TestUnreadOnlyKeyTogglesFilter(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenNews
	m = apply(t, m, newsMsg{articles: []models.NewsArticle{
		{Title: "A", Link: "https://example.com/a"},
		{Title: "B", Link: "https://example.com/b"},
	}})
	if err := m.readSet.MarkRead("https://example.com/a"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	m = apply(t, m, keyMsg("u"))
	if m.news.filter != newsUnread || len(m.news.visible) != 1 {
		t.Fatalf("filter = %v with %d visible, want unread with 1", m.news.filter, len(m.news.visible))
	}
	m = apply(t, m, keyMsg("u"))
	if m.news.filter != newsAll || len(m.news.visible) != 2 {
		t.Errorf("filter = %v with %d visible, want all with 2", m.news.filter, len(m.news.visible))
	}
}

func TestDevLogCreateDefaultsToCompleted(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	m := newTestModelAt(t, srv.URL)
	m.screen = ScreenDevLog
	m.devlog.mode = devlogAdd
	m.devlog.titleInput.SetValue("Add export")
	m.devlog.activeInput = 1

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("submitting the form should issue a save command")
	}
	if _, ok := cmd().(devlogSavedMsg); !ok {
		t.Fatal("save command did not succeed")
	}
	if body["status"] != "completed" {
		t.Errorf("new entry status = %q, want completed", body["status"])
	}
}

func TestNewsUnreadFilter(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenNews
	m = apply(t, m, newsMsg{articles: []models.NewsArticle{
		{Title: "A", Link: "https://example.com/a"},
		{Title: "B", Link: "https://example.com/b"},
	}})

	if err := m.readSet.MarkRead("https://example.com/a"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	m = apply(t, m, keyMsg("f")) // unread
	if len(m.news.visible) != 1 || m.news.visible[0].Link != "https://example.com/b" {
		t.Errorf("unread filter shows %+v", m.news.visible)
	}
}

func TestTypingGuardKeepsGlobalKeysOut(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenCapture

	// "t" while typing a meal description must not cycle the theme.
	before := m.theme.Name
	m = apply(t, m, keyMsg("t"))
	if m.theme.Name != before {
		t.Error("theme changed while typing in capture input")
	}
	if m.capture.input.Value() != "t" {
		t.Errorf("input value = %q, want the typed character", m.capture.input.Value())
	}
}

func TestSummaryUpdatesDashboardAndTarget(t *testing.T) {
	m := newTestModel(t)
	summary := models.DaySummary{
		Meals: []models.Meal{
			{ID: 1, FoodName: "Oats", Calories: 350, FoodScore: 7, LoggedAt: time.Now()},
		},
		TotalCalories: 350,
		TotalProtein:  12,
		TotalCarbs:    60,
		TotalFat:      6,
		Target:        2200,
	}
	m = apply(t, m, summaryMsg{summary})

	if m.target != 2200 {
		t.Errorf("target = %d, want 2200 from summary", m.target)
	}
	if m.dashboard.loading {
		t.Error("loading flag should clear")
	}
	if len(m.dashboard.summary.Meals) != 1 {
		t.Errorf("meals = %d, want 1", len(m.dashboard.summary.Meals))
	}
}

func TestWeeklyMessageComputesStats(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m, weeklyMsg{summary: models.WeeklySummary{
		Days: []models.WeekDay{
			{DayName: "Monday", TotalCalories: 1800, TotalProtein: 90, TotalCarbs: 200, TotalFat: 60, MealCount: 3},
			{DayName: "Tuesday", TotalCalories: 0, MealCount: 0},
		},
		AverageCalories: 900,
		Target:          2000,
	}})

	if m.weekly.stats.ActiveDays != 1 {
		t.Errorf("active days = %d, want 1", m.weekly.stats.ActiveDays)
	}
	if m.weekly.stats.MaxDay == nil || m.weekly.stats.MaxDay.DayName != "Monday" {
		t.Errorf("max day = %+v", m.weekly.stats.MaxDay)
	}
}
