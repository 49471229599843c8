package news

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func rssDoc(items string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test Feed</title>` + items + `</channel></rss>`
}

func rssItem(title, link, pubDate, desc string) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate><description>%s</description></item>`,
		title, link, pubDate, desc)
}

func TestFetchAllLimitsAndSorts(t *testing.T) {
	var items string
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		items += rssItem(
			fmt.Sprintf("Article %d", i),
			fmt.Sprintf("https://example.com/%d", i),
			ts.Format(time.RFC1123Z),
			"Some summary",
		)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssDoc(items)))
	}))
	defer srv.Close()

	f := NewFetcher([]Feed{{Name: "Example", URL: srv.URL}})
	articles := f.FetchAll()

	if len(articles) != maxPerFeed {
		t.Fatalf("articles = %d, want %d (per-feed cap)", len(articles), maxPerFeed)
	}
	for i := 1; i < len(articles); i++ {
		if articles[i-1].Published < articles[i].Published {
			t.Errorf("articles not sorted newest first at %d: %s < %s",
				i, articles[i-1].Published, articles[i].Published)
		}
	}
	if articles[0].Source != "Example" {
		t.Errorf("source = %q, want Example", articles[0].Source)
	}
	if articles[0].PublishedReadable == "" {
		t.Error("readable date missing")
	}
}

func TestFetchAllSkipsDeadFeeds(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssDoc(rssItem("Only", "https://example.com/a", "Mon, 02 Jan 2026 15:04:05 +0000", "x"))))
	}))
	defer good.Close()
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer dead.Close()

	f := NewFetcher([]Feed{{Name: "Dead", URL: dead.URL}, {Name: "Good", URL: good.URL}})
	articles := f.FetchAll()
	if len(articles) != 1 {
		t.Fatalf("articles = %d, want 1", len(articles))
	}
	if articles[0].Title != "Only" {
		t.Errorf("title = %q", articles[0].Title)
	}
}

func TestConvertItemSkipsUntitled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssDoc(
			rssItem("  ", "https://example.com/a", "Mon, 02 Jan 2026 15:04:05 +0000", "x") +
				rssItem("Kept", "https://example.com/b", "Mon, 02 Jan 2026 15:04:05 +0000", "<p>tags &amp; entities</p>"),
		)))
	}))
	defer srv.Close()

	f := NewFetcher([]Feed{{Name: "F", URL: srv.URL}})
	articles := f.FetchAll()
	if len(articles) != 1 || articles[0].Title != "Kept" {
		t.Fatalf("articles = %+v, want single Kept entry", articles)
	}
	if articles[0].Description != "tags & entities" {
		t.Errorf("description = %q", articles[0].Description)
	}
}

func TestDescribeTruncatesOnRuneBoundary(t *testing.T) {
	// One leading byte shifts the cut point into the middle of a
	// two-byte rune.
	raw := "a" + strings.Repeat("é", 200)
	got := describe(raw)
	if len(got) > maxDescription {
		t.Errorf("description length = %d, want at most %d", len(got), maxDescription)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated description is not valid UTF-8")
	}
}

func TestFilterByDay(t *testing.T) {
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.Local)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssDoc(
			rssItem("Today", "https://example.com/t", day.Format(time.RFC1123Z), "x") +
				rssItem("Older", "https://example.com/o", day.AddDate(0, 0, -3).Format(time.RFC1123Z), "x"),
		)))
	}))
	defer srv.Close()

	f := NewFetcher([]Feed{{Name: "F", URL: srv.URL}})
	articles := f.FetchAll()
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(articles))
	}

	filtered := FilterByDay(articles, day)
	if len(filtered) != 1 || filtered[0].Title != "Today" {
		t.Errorf("filtered = %+v, want Today only", filtered)
	}
	if got := FilterByDay(articles, time.Time{}); len(got) != 2 {
		t.Errorf("zero time should return all, got %d", len(got))
	}
}
