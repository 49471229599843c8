package commands

import (
	"context"
	"fmt"
	"os"

	"ntrack/pkg/cache"
)

// HandleCacheCommand processes -cache commands (warm, purge).
func HandleCacheCommand(c *cache.Cache, serverURL, cmd string) {
	switch cmd {
	case "warm":
		if err := c.Activate(); err != nil {
			fmt.Printf("Error activating cache: %v\n", err)
			os.Exit(1)
		}
		if err := c.Warm(context.Background(), serverURL); err != nil {
			fmt.Printf("Error warming cache: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Cache warmed")

	case "purge":
		if err := c.Purge(); err != nil {
			fmt.Printf("Error purging cache: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Cache purged")

	default:
		fmt.Printf("Unknown cache command: %s (expected warm or purge)\n", cmd)
		os.Exit(1)
	}
}
