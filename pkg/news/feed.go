// Package news implements the direct feed mode: when the backend's news
// service is unavailable, the client fetches the configured RSS feeds
// itself and produces the same article shape the /news/api/fetch endpoint
// returns.
package news

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"ntrack/pkg/models"
	"ntrack/pkg/utils"
)

const (
	maxPerFeed     = 5
	maxArticles    = 30
	maxDescription = 300
)

// Feed is one configured source.
type Feed struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
}

// DefaultFeeds mirrors the backend's built-in AI news sources.
func DefaultFeeds() []Feed {
	return []Feed{
		{Name: "TechCrunch", URL: "https://techcrunch.com/category/artificial-intelligence/feed/"},
		{Name: "MIT Technology Review", URL: "https://www.technologyreview.com/topic/artificial-intelligence/feed"},
		{Name: "VentureBeat", URL: "https://venturebeat.com/category/ai/feed/"},
		{Name: "The Verge", URL: "https://www.theverge.com/ai-artificial-intelligence/rss/index.xml"},
		{Name: "AI News", URL: "https://www.artificialintelligence-news.com/feed/"},
	}
}

// Fetcher pulls and normalizes articles from RSS/Atom feeds.
type Fetcher struct {
	feeds  []Feed
	parser *gofeed.Parser
}

// NewFetcher creates a fetcher for the given feed list.
func NewFetcher(feeds []Feed) *Fetcher {
	if len(feeds) == 0 {
		feeds = DefaultFeeds()
	}
	return &Fetcher{feeds: feeds, parser: gofeed.NewParser()}
}

// FetchAll parses every configured feed, takes the top entries from each,
// and returns up to maxArticles sorted newest first. Per-feed failures are
// logged and skipped so one dead feed cannot empty the view.
func (f *Fetcher) FetchAll() []models.NewsArticle {
	var all []models.NewsArticle
	for _, feed := range f.feeds {
		articles, err := f.fetchOne(feed)
		if err != nil {
			utils.Log("news: feed %s failed: %v", feed.URL, err)
			continue
		}
		all = append(all, articles...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Published > all[j].Published
	})
	if len(all) > maxArticles {
		all = all[:maxArticles]
	}
	return all
}

func (f *Fetcher) fetchOne(fc Feed) ([]models.NewsArticle, error) {
	feed, err := f.parser.ParseURL(fc.URL)
	if err != nil {
		return nil, err
	}

	source := fc.Name
	if source == "" {
		source = feed.Title
	}

	var articles []models.NewsArticle
	for _, item := range feed.Items {
		if len(articles) >= maxPerFeed {
			break
		}
		a := convertItem(item, source)
		if a == nil {
			continue
		}
		articles = append(articles, *a)
	}
	return articles, nil
}

func convertItem(item *gofeed.Item, source string) *models.NewsArticle {
	link := item.Link
	if link == "" {
		link = item.GUID
	}
	if link == "" || strings.TrimSpace(item.Title) == "" {
		return nil
	}

	published := time.Now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	return &models.NewsArticle{
		Title:             strings.TrimSpace(item.Title),
		Link:              link,
		Description:       describe(item.Description),
		Source:            source,
		Published:         published.Format(time.RFC3339),
		PublishedReadable: published.Format("January 2, 2006 at 3:04 PM"),
		Image:             itemImage(item),
	}
}

// describe strips tags from a feed summary and clamps it for card display.
func describe(raw string) string {
	var b strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	s := strings.Join(strings.Fields(b.String()), " ")
	if len(s) > maxDescription {
		// Back up to a rune boundary so the cut never leaves invalid UTF-8.
		cut := maxDescription
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image") {
			return enc.URL
		}
	}
	return ""
}

// FilterByDay returns the articles whose publish date falls on the same
// calendar day as selected. A zero selected time restores the full set.
func FilterByDay(articles []models.NewsArticle, selected time.Time) []models.NewsArticle {
	if selected.IsZero() {
		return articles
	}
	var out []models.NewsArticle
	for _, a := range articles {
		t, err := time.Parse(time.RFC3339, a.Published)
		if err != nil {
			continue
		}
		t = t.Local()
		if t.Year() == selected.Year() && t.Month() == selected.Month() && t.Day() == selected.Day() {
			out = append(out, a)
		}
	}
	return out
}
