package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/api"
	"ntrack/pkg/cache"
	"ntrack/pkg/cli"
	"ntrack/pkg/config"
	"ntrack/pkg/storage"
	"ntrack/pkg/ui"
	"ntrack/pkg/utils"
)

func main() {
	args := cli.ParseArgs()

	utils.InitLogger(args.Verbose)
	defer utils.CloseLogger()

	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if args.ServerURL != "" {
		cfg.ServerURL = args.ServerURL
	}

	store, err := storage.Open(cfg.Database)
	if err != nil {
		fmt.Printf("Error opening local store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// The offline cache sits under the API client as a transport.
	offline := cache.New(store)
	client := api.NewWithHTTPClient(cfg.ServerURL, &http.Client{
		Transport: offline,
		Timeout:   30 * time.Second,
	})

	if cli.HandleCommands(client, store, offline, cfg.ServerURL, args) {
		return
	}

	// Drop cached entries from older versions before first use.
	if err := offline.Activate(); err != nil {
		utils.Log("cache activate failed: %v", err)
	}

	p := tea.NewProgram(ui.NewModel(client, store, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
