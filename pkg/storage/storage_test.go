package storage

import (
	"path/filepath"
	"testing"

	"ntrack/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("some.key", map[string]int{"a": 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var got map[string]int
	if err := s.Get("some.key", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got["a"] != 1 {
		t.Errorf("got %v, want a=1", got)
	}

	if err := s.Get("missing", &got); err != ErrNotFound {
		t.Errorf("Get missing key: err = %v, want ErrNotFound", err)
	}
}

func art(link string) models.NewsArticle {
	return models.NewsArticle{Title: "Article " + link, Link: link, Source: "Test"}
}

func TestBookmarkToggleNeverDuplicates(t *testing.T) {
	s := openTestStore(t)
	b, err := LoadBookmarks(s)
	if err != nil {
		t.Fatalf("LoadBookmarks: %v", err)
	}

	// Arbitrary toggle sequence across two links.
	seq := []string{"a", "b", "a", "a", "b", "b", "a"}
	for _, link := range seq {
		if _, err := b.Toggle(art(link)); err != nil {
			t.Fatalf("Toggle(%s): %v", link, err)
		}
		seen := map[string]int{}
		for _, a := range b.All() {
			seen[a.Link]++
			if seen[a.Link] > 1 {
				t.Fatalf("duplicate link %q after toggles", a.Link)
			}
		}
	}

	// Add of an existing link must be a no-op.
	if err := b.Add(art("a")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(art("a")); err != nil {
		t.Fatalf("Add again: %v", err)
	}
	count := 0
	for _, a := range b.All() {
		if a.Link == "a" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("link a appears %d times, want 1", count)
	}
}

func TestBookmarksPersistAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, _ := LoadBookmarks(s)
	b.Add(art("x"))
	b.Add(art("y"))
	b.RemoveAt(0)
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	b2, err := LoadBookmarks(s2)
	if err != nil {
		t.Fatalf("LoadBookmarks after reopen: %v", err)
	}
	if b2.Len() != 1 || !b2.Contains("y") || b2.Contains("x") {
		t.Errorf("persisted set wrong: %+v", b2.All())
	}
}

func TestReadSetIdempotent(t *testing.T) {
	s := openTestStore(t)
	r, err := LoadReadSet(s)
	if err != nil {
		t.Fatalf("LoadReadSet: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := r.MarkRead("link-1"); err != nil {
			t.Fatalf("MarkRead: %v", err)
		}
	}
	if !r.IsRead("link-1") {
		t.Error("link-1 should be read")
	}
	if r.IsRead("link-2") {
		t.Error("link-2 should not be read")
	}

	var stored []string
	if err := s.Get(KeyRead, &stored); err != nil {
		t.Fatalf("Get read set: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("stored %d links, want 1", len(stored))
	}
}

func TestThemePersistence(t *testing.T) {
	s := openTestStore(t)

	if got := LoadTheme(s); got != "auto" {
		t.Errorf("default theme = %q, want auto", got)
	}
	if err := SaveTheme(s, "dark"); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	if got := LoadTheme(s); got != "dark" {
		t.Errorf("theme = %q, want dark", got)
	}
}
