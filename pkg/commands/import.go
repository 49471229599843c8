package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"ntrack/pkg/models"
	"ntrack/pkg/storage"
)

// HandleImportCommand processes the -import command: it merges a JSON
// array of articles into the local bookmark set. Links already bookmarked
// are skipped.
func HandleImportCommand(store *storage.Store, filename string) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	var articles []models.NewsArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		fmt.Printf("Error parsing file: %v\n", err)
		os.Exit(1)
	}

	bookmarks, err := storage.LoadBookmarks(store)
	if err != nil {
		fmt.Printf("Error loading bookmarks: %v\n", err)
		os.Exit(1)
	}

	added := 0
	for _, a := range articles {
		if a.Link == "" || bookmarks.Contains(a.Link) {
			continue
		}
		if err := bookmarks.Add(a); err != nil {
			fmt.Printf("Error saving bookmark: %v\n", err)
			os.Exit(1)
		}
		added++
	}

	fmt.Printf("Imported %d bookmark(s) from %s\n", added, filename)
}
