package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ntrack/pkg/news"
)

var newsFilterNames = map[newsFilter]string{
	newsAll:        "all",
	newsUnread:     "unread",
	newsBookmarked: "bookmarked",
}

// applyNewsFilter recomputes the visible article list from the active
// filter and the optional day selection.
func (m *Model) applyNewsFilter() {
	n := &m.news
	switch n.filter {
	case newsUnread:
		n.visible = n.visible[:0]
		for _, a := range n.articles {
			if !m.readSet.IsRead(a.Link) {
				n.visible = append(n.visible, a)
			}
		}
	case newsBookmarked:
		n.visible = append(n.visible[:0], m.bookmarks.All()...)
	default:
		n.visible = append(n.visible[:0], n.articles...)
	}
	n.visible = news.FilterByDay(n.visible, n.day)
	if n.cursor >= len(n.visible) {
		n.cursor = 0
	}
}

func (m Model) updateNews(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := &m.news

	switch {
	case msg.String() == "up", msg.String() == "k":
		if n.cursor > 0 {
			n.cursor--
		}

	case msg.String() == "down", msg.String() == "j":
		if n.cursor < len(n.visible)-1 {
			n.cursor++
		}

	case key.Matches(msg, m.keyMap.CycleFilter):
		n.filter = (n.filter + 1) % 3
		m.applyNewsFilter()

	case key.Matches(msg, m.keyMap.ToggleReadOnly):
		if n.filter == newsUnread {
			n.filter = newsAll
		} else {
			n.filter = newsUnread
		}
		n.cursor = 0
		m.applyNewsFilter()

	case key.Matches(msg, m.keyMap.PrevDay):
		if n.day.IsZero() {
			n.day = time.Now()
		} else {
			n.day = n.day.AddDate(0, 0, -1)
		}
		n.cursor = 0
		m.applyNewsFilter()

	case key.Matches(msg, m.keyMap.NextDay):
		if !n.day.IsZero() {
			n.day = n.day.AddDate(0, 0, 1)
			n.cursor = 0
			m.applyNewsFilter()
		}

	case key.Matches(msg, m.keyMap.JumpToToday):
		// Clear the day filter and restore the full set.
		n.day = time.Time{}
		n.cursor = 0
		m.applyNewsFilter()

	case key.Matches(msg, m.keyMap.ToggleBookmark):
		if n.cursor < len(n.visible) {
			added, err := m.bookmarks.Toggle(n.visible[n.cursor])
			if err != nil {
				m.err = err
				return m, nil
			}
			if added {
				m.status = "Bookmarked"
			} else {
				m.status = "Bookmark removed"
			}
			m.applyNewsFilter()
			return m, clearStatusAfter(statusTimeout)
		}

	case key.Matches(msg, m.keyMap.OpenLink):
		if n.cursor < len(n.visible) {
			article := n.visible[n.cursor]
			if err := m.readSet.MarkRead(article.Link); err != nil {
				m.err = err
			}
			return m, openLink(article.Link)
		}
	}

	return m, nil
}

func (m Model) viewNews() string {
	var sb strings.Builder
	n := m.news
	t := m.theme

	if n.loading {
		sb.WriteString(m.spin.View())
		sb.WriteString(t.subtleStyle().Render("Fetching news..."))
		return sb.String()
	}

	header := fmt.Sprintf("Filter: %s   %d bookmarks", newsFilterNames[n.filter], m.bookmarks.Len())
	if !n.day.IsZero() {
		header += "   day: " + n.day.Format("Jan 2")
	}
	if n.direct {
		header += "   (direct feeds, server unreachable)"
	}
	sb.WriteString(t.subtleStyle().Render(header))
	sb.WriteString("\n\n")

	if len(n.visible) == 0 {
		sb.WriteString(t.subtleStyle().Render("No articles. Press r to refresh."))
		sb.WriteString("\n")
		return sb.String()
	}

	for i, article := range n.visible {
		marker := " "
		if m.bookmarks.Contains(article.Link) {
			marker = "*"
		}
		title := article.Title
		if m.readSet.IsRead(article.Link) {
			title = t.subtleStyle().Render(title)
		} else {
			title = t.textStyle().Render(title)
		}
		line := fmt.Sprintf("%s %s  %s", marker, t.subtleStyle().Render(article.Source), title)
		if i == n.cursor {
			line = t.accentStyle().Render("> ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if n.cursor < len(n.visible) {
		article := n.visible[n.cursor]
		sb.WriteString("\n")
		if article.Description != "" {
			sb.WriteString(t.textStyle().Render(article.Description))
			sb.WriteString("\n")
		}
		sb.WriteString(t.subtleStyle().Render(article.PublishedReadable))
		sb.WriteString("\n")
	}

	return sb.String()
}
