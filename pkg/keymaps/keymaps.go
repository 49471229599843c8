package keymaps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

var KeyDefinitions = map[string]KeyDefinition{
	"ShowHelp":        {"ctrl+b", "show/hide commands"},
	"QuitApp":         {"q", "quit"},
	"NextScreen":      {"tab", "next screen"},
	"PrevScreen":      {"shift+tab", "previous screen"},
	"GoDashboard":     {"1", "dashboard"},
	"GoCapture":       {"2", "log a meal"},
	"GoSearch":        {"3", "search foods"},
	"GoHistory":       {"4", "history"},
	"GoWeekly":        {"5", "weekly summary"},
	"GoTasks":         {"6", "tasks"},
	"GoDevLog":        {"7", "devlog"},
	"GoNews":          {"8", "news"},
	"Refresh":         {"r", "refresh"},
	"AddItem":         {"a", "add"},
	"EditItem":        {"e", "edit"},
	"DeleteItem":      {"d", "delete"},
	"ToggleStatus":    {"space", "toggle status"},
	"Confirm":         {"enter", "confirm"},
	"Back":            {"esc", "back"},
	"CycleFilter":     {"f", "cycle filter"},
	"CycleTheme":      {"t", "cycle theme"},
	"ToggleBookmark":  {"b", "bookmark"},
	"OpenLink":        {"o", "open link"},
	"Export":          {"x", "export"},
	"Suggest":         {"s", "suggestions"},
	"SetTarget":       {"g", "set calorie target"},
	"PortionUp":       {"+,=", "increase portion"},
	"PortionDown":     {"-", "decrease portion"},
	"PrevDay":         {"ctrl+left", "previous day"},
	"NextDay":         {"ctrl+right", "next day"},
	"JumpToToday":     {"h", "jump to today"},
	"ToggleReadOnly":  {"u", "unread only"},
	"AssignToMe":      {"m", "assign to me"},
}

type KeyMap struct {
	ShowHelp       key.Binding
	QuitApp        key.Binding
	NextScreen     key.Binding
	PrevScreen     key.Binding
	GoDashboard    key.Binding
	GoCapture      key.Binding
	GoSearch       key.Binding
	GoHistory      key.Binding
	GoWeekly       key.Binding
	GoTasks        key.Binding
	GoDevLog       key.Binding
	GoNews         key.Binding
	Refresh        key.Binding
	AddItem        key.Binding
	EditItem       key.Binding
	DeleteItem     key.Binding
	ToggleStatus   key.Binding
	Confirm        key.Binding
	Back           key.Binding
	CycleFilter    key.Binding
	CycleTheme     key.Binding
	ToggleBookmark key.Binding
	OpenLink       key.Binding
	Export         key.Binding
	Suggest        key.Binding
	SetTarget      key.Binding
	PortionUp      key.Binding
	PortionDown    key.Binding
	PrevDay        key.Binding
	NextDay        key.Binding
	JumpToToday    key.Binding
	ToggleReadOnly key.Binding
	AssignToMe     key.Binding
}

func BuildKeyMap(configOverrides map[string]string) KeyMap {
	// Config loaders may lowercase map keys, match case-insensitively.
	overrides := make(map[string]string, len(configOverrides))
	for action, binding := range configOverrides {
		overrides[strings.ToLower(action)] = binding
	}

	km := KeyMap{}
	for action, def := range KeyDefinitions {
		keyStr := def.DefaultKey
		if override, exists := overrides[strings.ToLower(action)]; exists && override != "" {
			keyStr = override
		}

		binding := parseKeyBinding(keyStr, def.DefaultKey, def.Help)
		switch action {
		case "ShowHelp":
			km.ShowHelp = binding
		case "QuitApp":
			km.QuitApp = binding
		case "NextScreen":
			km.NextScreen = binding
		case "PrevScreen":
			km.PrevScreen = binding
		case "GoDashboard":
			km.GoDashboard = binding
		case "GoCapture":
			km.GoCapture = binding
		case "GoSearch":
			km.GoSearch = binding
		case "GoHistory":
			km.GoHistory = binding
		case "GoWeekly":
			km.GoWeekly = binding
		case "GoTasks":
			km.GoTasks = binding
		case "GoDevLog":
			km.GoDevLog = binding
		case "GoNews":
			km.GoNews = binding
		case "Refresh":
			km.Refresh = binding
		case "AddItem":
			km.AddItem = binding
		case "EditItem":
			km.EditItem = binding
		case "DeleteItem":
			km.DeleteItem = binding
		case "ToggleStatus":
			km.ToggleStatus = binding
		case "Confirm":
			km.Confirm = binding
		case "Back":
			km.Back = binding
		case "CycleFilter":
			km.CycleFilter = binding
		case "CycleTheme":
			km.CycleTheme = binding
		case "ToggleBookmark":
			km.ToggleBookmark = binding
		case "OpenLink":
			km.OpenLink = binding
		case "Export":
			km.Export = binding
		case "Suggest":
			km.Suggest = binding
		case "SetTarget":
			km.SetTarget = binding
		case "PortionUp":
			km.PortionUp = binding
		case "PortionDown":
			km.PortionDown = binding
		case "PrevDay":
			km.PrevDay = binding
		case "NextDay":
			km.NextDay = binding
		case "JumpToToday":
			km.JumpToToday = binding
		case "ToggleReadOnly":
			km.ToggleReadOnly = binding
		case "AssignToMe":
			km.AssignToMe = binding
		}
	}
	return km
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if keyStr == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	keys := strings.Split(keyStr, ",")
	for i, k := range keys {
		keys[i] = strings.TrimSpace(k)
	}

	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], helpText),
	)
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}
