package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"ntrack/pkg/keymaps"
	"ntrack/pkg/news"
)

// Config holds the application configuration
type Config struct {
	ServerURL string            `json:"server_url"`
	Database  string            `json:"database"`
	KeyMap    map[string]string `json:"keymap"`
	Feeds     []news.Feed       `json:"feeds"`
}

const defaultServerURL = "http://localhost:5000"

// Load reads the configuration from configPath, or from
// ~/.config/ntrack/config.json when configPath is empty. A default
// config file is written on first run.
func Load(configPath string) (Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}

	configDir := filepath.Join(homeDir, ".config", "ntrack")
	config := Config{
		ServerURL: defaultServerURL,
		Database:  filepath.Join(configDir, "ntrack.db"),
		KeyMap:    keymaps.GetDefaultKeyMappings(),
		Feeds:     news.DefaultFeeds(),
	}

	v := viper.New()
	v.SetConfigType("json")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return config, err
		}
		// Config file not found, create default config
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return config, err
		}
		v.Set("server_url", config.ServerURL)
		v.Set("database", config.Database)
		v.Set("keymap", config.KeyMap)
		if err := v.WriteConfigAs(filepath.Join(configDir, "config.json")); err != nil {
			return config, err
		}
		return config, nil
	}

	if v.IsSet("server_url") {
		config.ServerURL = v.GetString("server_url")
	}
	if v.IsSet("database") {
		config.Database = v.GetString("database")
	}
	if v.IsSet("keymap") {
		for action, binding := range v.GetStringMapString("keymap") {
			config.KeyMap[action] = binding
		}
	}
	if v.IsSet("feeds") {
		var feeds []news.Feed
		if err := v.UnmarshalKey("feeds", &feeds); err == nil && len(feeds) > 0 {
			config.Feeds = feeds
		}
	}

	return config, nil
}
