package storage

import (
	"errors"

	"ntrack/pkg/models"
)

// Bookmarks is the persisted, ordered set of saved articles. Uniqueness by
// link is enforced on insert, not left to caller discipline.
type Bookmarks struct {
	store    *Store
	articles []models.NewsArticle
}

// NewBookmarks returns an empty bookmark set backed by the store.
func NewBookmarks(s *Store) *Bookmarks {
	return &Bookmarks{store: s}
}

// LoadBookmarks reads the bookmark set from the store.
func LoadBookmarks(s *Store) (*Bookmarks, error) {
	b := &Bookmarks{store: s}
	err := s.Get(KeyBookmarks, &b.articles)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return b, nil
}

// All returns the bookmarked articles in insertion order.
func (b *Bookmarks) All() []models.NewsArticle {
	return b.articles
}

// Len returns the number of bookmarks.
func (b *Bookmarks) Len() int {
	return len(b.articles)
}

// Contains reports whether an article with the given link is bookmarked.
func (b *Bookmarks) Contains(link string) bool {
	for _, a := range b.articles {
		if a.Link == link {
			return true
		}
	}
	return false
}

// Toggle adds the article if absent or removes it if present, then
// persists the whole set. Adding an already-present link is a no-op
// removal-then-add cannot produce duplicates.
func (b *Bookmarks) Toggle(article models.NewsArticle) (added bool, err error) {
	if b.Contains(article.Link) {
		b.remove(article.Link)
		return false, b.save()
	}
	b.articles = append(b.articles, article)
	return true, b.save()
}

// Add inserts the article unless its link is already present.
func (b *Bookmarks) Add(article models.NewsArticle) error {
	if b.Contains(article.Link) {
		return nil
	}
	b.articles = append(b.articles, article)
	return b.save()
}

// RemoveAt deletes the bookmark at index and persists.
func (b *Bookmarks) RemoveAt(i int) error {
	if i < 0 || i >= len(b.articles) {
		return nil
	}
	b.articles = append(b.articles[:i], b.articles[i+1:]...)
	return b.save()
}

func (b *Bookmarks) remove(link string) {
	out := b.articles[:0]
	for _, a := range b.articles {
		if a.Link != link {
			out = append(out, a)
		}
	}
	b.articles = out
}

func (b *Bookmarks) save() error {
	if b.articles == nil {
		return b.store.Put(KeyBookmarks, []models.NewsArticle{})
	}
	return b.store.Put(KeyBookmarks, b.articles)
}

// ReadSet tracks which article links have been opened.
type ReadSet struct {
	store *Store
	links []string
}

// NewReadSet returns an empty read set backed by the store.
func NewReadSet(s *Store) *ReadSet {
	return &ReadSet{store: s}
}

// LoadReadSet reads the read-state set from the store.
func LoadReadSet(s *Store) (*ReadSet, error) {
	r := &ReadSet{store: s}
	err := s.Get(KeyRead, &r.links)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return r, nil
}

// IsRead reports whether the link has been opened before.
func (r *ReadSet) IsRead(link string) bool {
	for _, l := range r.links {
		if l == link {
			return true
		}
	}
	return false
}

// MarkRead records the link and persists. Marking twice is a no-op.
func (r *ReadSet) MarkRead(link string) error {
	if r.IsRead(link) {
		return nil
	}
	r.links = append(r.links, link)
	return r.store.Put(KeyRead, r.links)
}

// LoadTheme returns the persisted theme preference, defaulting to "auto".
func LoadTheme(s *Store) string {
	var theme string
	if err := s.Get(KeyTheme, &theme); err != nil || theme == "" {
		return "auto"
	}
	return theme
}

// SaveTheme persists the theme preference.
func SaveTheme(s *Store, theme string) error {
	return s.Put(KeyTheme, theme)
}
