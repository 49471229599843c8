package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"ntrack/pkg/api"
	"ntrack/pkg/storage"
)

// HandleExportCommand processes -export commands. Type csv pulls the meal
// export from the backend; md and html render the local bookmark list.
func HandleExportCommand(client *api.Client, store *storage.Store, filename, exportType, start, end string) {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	var content []byte
	var err error

	switch exportType {
	case "csv":
		content, err = exportMealsCSV(client, start, end)
	case "md":
		content, err = bookmarksMarkdown(store)
	case "html":
		content, err = bookmarksHTML(store)
	default:
		fmt.Printf("Unknown export type: %s\n", exportType)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Error exporting: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(filename, content, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully exported to %s\n", filename)
}

func exportMealsCSV(client *api.Client, start, end string) ([]byte, error) {
	path := "/api/export/csv"
	params := url.Values{}
	if start != "" {
		params.Set("start", start)
	}
	if end != "" {
		params.Set("end", end)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return client.GetRaw(context.Background(), path)
}

func bookmarksMarkdown(store *storage.Store) ([]byte, error) {
	bookmarks, err := storage.LoadBookmarks(store)
	if err != nil {
		return nil, err
	}

	var lines []string
	lines = append(lines, "# Saved Articles", "")
	for _, a := range bookmarks.All() {
		lines = append(lines, fmt.Sprintf("- [%s](%s) - %s, %s",
			a.Title, a.Link, a.Source, a.PublishedReadable))
	}
	lines = append(lines, "")
	return []byte(strings.Join(lines, "\n")), nil
}

// bookmarksHTML renders the markdown export to HTML.
func bookmarksHTML(store *storage.Store) ([]byte, error) {
	md, err := bookmarksMarkdown(store)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Saved Articles</title></head><body>\n")
	if err := goldmark.Convert(md, &buf); err != nil {
		return nil, err
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}
