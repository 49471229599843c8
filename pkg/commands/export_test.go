package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"ntrack/pkg/models"
	"ntrack/pkg/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedBookmarks(t *testing.T, s *storage.Store) {
	t.Helper()
	bookmarks, err := storage.LoadBookmarks(s)
	if err != nil {
		t.Fatalf("LoadBookmarks: %v", err)
	}
	articles := []models.NewsArticle{
		{Title: "First", Link: "https://example.com/1", Source: "Example", PublishedReadable: "January 2, 2026 at 3:04 PM"},
		{Title: "Second", Link: "https://example.com/2", Source: "Example", PublishedReadable: "January 3, 2026 at 9:00 AM"},
	}
	for _, a := range articles {
		if err := bookmarks.Add(a); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
}

func TestBookmarksMarkdown(t *testing.T) {
	s := openTestStore(t)
	seedBookmarks(t, s)

	out, err := bookmarksMarkdown(s)
	if err != nil {
		t.Fatalf("bookmarksMarkdown: %v", err)
	}
	md := string(out)
	if !strings.HasPrefix(md, "# Saved Articles") {
		t.Errorf("missing heading:\n%s", md)
	}
	if !strings.Contains(md, "[First](https://example.com/1)") {
		t.Errorf("missing first link:\n%s", md)
	}
	if !strings.Contains(md, "[Second](https://example.com/2)") {
		t.Errorf("missing second link:\n%s", md)
	}
}

func TestBookmarksHTML(t *testing.T) {
	s := openTestStore(t)
	seedBookmarks(t, s)

	out, err := bookmarksHTML(s)
	if err != nil {
		t.Fatalf("bookmarksHTML: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1") {
		t.Errorf("markdown heading not rendered:\n%s", html)
	}
	if !strings.Contains(html, `href="https://example.com/1"`) {
		t.Errorf("link not rendered:\n%s", html)
	}
	if !strings.HasPrefix(html, "<!DOCTYPE html>") || !strings.Contains(html, "</html>") {
		t.Errorf("document wrapper missing:\n%s", html)
	}
}
