package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ntrack/pkg/api"
	"ntrack/pkg/config"
	"ntrack/pkg/keymaps"
	"ntrack/pkg/models"
	"ntrack/pkg/news"
	"ntrack/pkg/storage"
	"ntrack/pkg/tracker"
)

// Screen identifies the active top-level view.
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenCapture
	ScreenSearch
	ScreenHistory
	ScreenWeekly
	ScreenTasks
	ScreenDevLog
	ScreenNews
	ScreenSessionExpired
)

var screenNames = []string{
	"Dashboard", "Log", "Search", "History", "Weekly", "Tasks", "DevLog", "News",
}

// dashboardState backs the today view.
type dashboardState struct {
	summary         models.DaySummary
	suggestions     []models.Suggestion
	showSuggestions bool
	cursor          int
	confirmDelete   bool
	editingTarget   bool
	targetInput     textinput.Model
	macro           *MacroChart
	loading         bool
}

// captureEntry selects how a meal gets into the analyzer.
type captureEntry int

const (
	entryText captureEntry = iota
	entryPhoto
)

// captureState drives the analyze-adjust-save flow. gen increments on
// every analyze request so stale answers are ignored.
type captureState struct {
	entry          captureEntry
	input          textinput.Model
	portionInput   textinput.Model
	editingPortion bool
	analysis       *models.Analysis
	multiplier     float64
	updating       bool
	gen            int
	analyzing      bool
	saving         bool
}

type searchState struct {
	input          textinput.Model
	portionInput   textinput.Model
	editingPortion bool
	analysis       *models.Analysis
	multiplier     float64
	updating       bool
	gen            int
	searching      bool
}

type historyState struct {
	viewDate time.Time
	meals    []models.Meal
	cursor   int
}

type weeklyState struct {
	summary models.WeeklySummary
	stats   tracker.WeekStats
	chart   *WeeklyChart
	loading bool
}

type taskInputMode int

const (
	taskNormal taskInputMode = iota
	taskAdd
	taskEdit
	taskConfirmDelete
)

type tasksState struct {
	table       table.Model
	all         []models.TaskItem
	items       []models.TaskItem
	users       []models.User
	filter      tracker.TaskFilter
	mode        taskInputMode
	titleInput  textinput.Model
	descInput   textinput.Model
	activeInput int
	assigneeIdx int
	editing     *models.TaskItem
}

type devlogInputMode int

const (
	devlogNormal devlogInputMode = iota
	devlogAdd
	devlogEdit
	devlogConfirmDelete
	devlogSearch
)

var devlogCategories = []string{"feature", "bugfix", "improvement", "note"}

type devlogState struct {
	entries     []models.DevLogEntry
	stats       models.DevStats
	cursor      int
	filter      string
	search      string
	mode        devlogInputMode
	titleInput  textinput.Model
	descInput   textinput.Model
	searchInput textinput.Model
	activeInput int
	category    int
	editing     *models.DevLogEntry
}

type newsFilter int

const (
	newsAll newsFilter = iota
	newsUnread
	newsBookmarked
)

type newsState struct {
	articles []models.NewsArticle
	visible  []models.NewsArticle
	cursor   int
	filter   newsFilter
	day      time.Time
	direct   bool
	loading  bool
}

// Model is the root Bubble Tea model.
type Model struct {
	api    *api.Client
	store  *storage.Store
	keyMap keymaps.KeyMap
	theme  Theme
	feeds  []news.Feed
	spin   spinner.Model

	screen        Screen
	width, height int
	err           error
	status        string
	showHelp      bool

	username string
	userID   int
	target   int

	bookmarks *storage.Bookmarks
	readSet   *storage.ReadSet

	dashboard dashboardState
	capture   captureState
	search    searchState
	history   historyState
	weekly    weeklyState
	tasks     tasksState
	devlog    devlogState
	news      newsState
}

// NewModel creates the root model wired to the API client and local store.
func NewModel(client *api.Client, store *storage.Store, cfg config.Config) Model {
	theme := ThemeByName(storage.LoadTheme(store))

	bookmarks, err := storage.LoadBookmarks(store)
	if err != nil {
		bookmarks = storage.NewBookmarks(store)
	}
	readSet, err := storage.LoadReadSet(store)
	if err != nil {
		readSet = storage.NewReadSet(store)
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		api:       client,
		store:     store,
		keyMap:    keymaps.BuildKeyMap(cfg.KeyMap),
		theme:     theme,
		feeds:     cfg.Feeds,
		spin:      spin,
		screen:    ScreenDashboard,
		bookmarks: bookmarks,
		readSet:   readSet,
	}

	m.dashboard = newDashboardState()
	m.capture = newCaptureState()
	m.search = newSearchState()
	m.history = historyState{viewDate: time.Now()}
	m.weekly = weeklyState{chart: NewWeeklyChart(40)}
	m.tasks = newTasksState(theme)
	m.devlog = newDevlogState()

	return m
}

func newDashboardState() dashboardState {
	targetInput := textinput.New()
	targetInput.Placeholder = "Daily calorie target (500-10000)"
	targetInput.Width = 30
	targetInput.CharLimit = 5

	return dashboardState{
		targetInput: targetInput,
		macro:       NewMacroChart(40),
		loading:     true,
	}
}

func newCaptureState() captureState {
	input := textinput.New()
	input.Placeholder = "Describe the meal (e.g. grilled chicken with rice)"
	input.Width = 50
	input.Focus()

	portionInput := textinput.New()
	portionInput.Placeholder = "Custom multiplier (e.g. 0.75)"
	portionInput.Width = 20
	portionInput.CharLimit = 6

	return captureState{
		entry:        entryText,
		input:        input,
		portionInput: portionInput,
		multiplier:   1.0,
	}
}

func newSearchState() searchState {
	input := textinput.New()
	input.Placeholder = "Search a food (e.g. banana)"
	input.Width = 50
	input.Focus()

	portionInput := textinput.New()
	portionInput.Placeholder = "Custom multiplier (e.g. 0.75)"
	portionInput.Width = 20
	portionInput.CharLimit = 6

	return searchState{input: input, portionInput: portionInput, multiplier: 1.0}
}

func newTasksState(theme Theme) tasksState {
	columns := []table.Column{
		{Title: "", Width: 60},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderBottom(false).
		Bold(false).
		Foreground(lipgloss.NoColor{})
	s.Selected = s.Selected.
		Foreground(theme.SelectedText).
		Background(theme.SelectedBg).
		Bold(true)
	t.SetStyles(s)

	titleInput := textinput.New()
	titleInput.Placeholder = "Task title"
	titleInput.Width = 40
	titleInput.Focus()

	descInput := textinput.New()
	descInput.Placeholder = "Description (optional)"
	descInput.Width = 40

	return tasksState{
		table:      t,
		filter:     tracker.TasksAll,
		titleInput: titleInput,
		descInput:  descInput,
	}
}

func newDevlogState() devlogState {
	titleInput := textinput.New()
	titleInput.Placeholder = "Entry title"
	titleInput.Width = 40
	titleInput.Focus()

	descInput := textinput.New()
	descInput.Placeholder = "What changed?"
	descInput.Width = 40

	searchInput := textinput.New()
	searchInput.Placeholder = "Search entries"
	searchInput.Width = 40

	return devlogState{
		titleInput:  titleInput,
		descInput:   descInput,
		searchInput: searchInput,
	}
}

// Init loads the session and the dashboard.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchAuth(), m.fetchToday(), m.spin.Tick)
}

// busy reports whether any screen is waiting on the network.
func (m Model) busy() bool {
	return m.dashboard.loading || m.weekly.loading || m.news.loading ||
		m.capture.analyzing || m.search.searching
}

// setTheme applies and persists a theme change.
func (m *Model) setTheme(name string) {
	m.theme = ThemeByName(name)
	storage.SaveTheme(m.store, name)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderBottom(false).
		Bold(false).
		Foreground(lipgloss.NoColor{})
	s.Selected = s.Selected.
		Foreground(m.theme.SelectedText).
		Background(m.theme.SelectedBg).
		Bold(true)
	m.tasks.table.SetStyles(s)
}
