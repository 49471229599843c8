package commands

import (
	"context"
	"fmt"
	"os"

	"ntrack/pkg/api"
)

// HandleAddTask processes the -add command: it creates a shared task on
// the board without opening the UI.
func HandleAddTask(client *api.Client, title, description string) {
	err := client.Post(context.Background(), "/todo/api/tasks",
		map[string]string{"title": title, "description": description}, nil)
	if err != nil {
		fmt.Printf("Error adding task: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Task added: %s\n", title)
}
