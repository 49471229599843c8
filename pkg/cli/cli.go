package cli

import (
	"flag"

	"ntrack/pkg/api"
	"ntrack/pkg/cache"
	"ntrack/pkg/commands"
	"ntrack/pkg/storage"
)

// Args represents parsed command line arguments
type Args struct {
	ConfigPath string
	ServerURL  string
	Verbose    bool

	// Task operations
	AddTask  string
	DescFlag string

	// Offline cache operations
	CacheCmd string

	// Import/Export operations
	ImportFile string
	ExportFile string
	TypeFlag   string
	StartFlag  string
	EndFlag    string
}

// ParseArgs parses command line arguments and returns Args struct
func ParseArgs() *Args {
	args := &Args{}

	flag.StringVar(&args.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&args.ServerURL, "server", "", "Backend server URL (overrides config)")
	flag.BoolVar(&args.Verbose, "verbose", false, "Enable verbose logging")

	// Task operations
	flag.StringVar(&args.AddTask, "add", "", "Add a shared task without opening the UI")
	flag.StringVar(&args.DescFlag, "desc", "", "Description for -add")

	// Offline cache operations
	flag.StringVar(&args.CacheCmd, "cache", "", "Cache command (warm, purge)")

	// Import/Export operations
	flag.StringVar(&args.ImportFile, "import", "", "Import bookmarks from a JSON file")
	flag.StringVar(&args.ExportFile, "export", "", "Export to file")
	flag.StringVar(&args.TypeFlag, "type", "csv", "Export file type (csv, md, html)")
	flag.StringVar(&args.StartFlag, "start", "", "Export start date (YYYY-MM-DD)")
	flag.StringVar(&args.EndFlag, "end", "", "Export end date (YYYY-MM-DD)")

	flag.Parse()
	return args
}

// HandleCommands processes CLI commands and returns true if a command was handled
func HandleCommands(client *api.Client, store *storage.Store, c *cache.Cache, serverURL string, args *Args) bool {
	if args.AddTask != "" {
		commands.HandleAddTask(client, args.AddTask, args.DescFlag)
		return true
	}

	if args.CacheCmd != "" {
		commands.HandleCacheCommand(c, serverURL, args.CacheCmd)
		return true
	}

	if args.ImportFile != "" {
		commands.HandleImportCommand(store, args.ImportFile)
		return true
	}

	if args.ExportFile != "" {
		commands.HandleExportCommand(client, store, args.ExportFile, args.TypeFlag, args.StartFlag, args.EndFlag)
		return true
	}

	// No CLI command was handled
	return false
}
