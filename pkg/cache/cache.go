// Package cache is an offline response cache for the backend API, applied
// as an http.RoundTripper beneath the API client. API and auth paths are
// served network-first with the cache as a fallback; everything else is
// cache-first. Entries are tagged with a version string and rows from other
// versions are purged on activation.
package cache

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ntrack/pkg/storage"
	"ntrack/pkg/utils"
)

// Version tags cached rows; bumping it invalidates everything on Activate.
const Version = "ntrack-v1"

// ShellPaths are prefetched by Warm so the core screens have data offline.
var ShellPaths = []string{
	"/auth/status",
	"/api/meals/today",
	"/api/dashboard/weekly",
	"/todo/api/tasks",
	"/news/api/fetch",
}

// Cache wraps a transport with the offline policies.
type Cache struct {
	db      *sql.DB
	version string
	next    http.RoundTripper
}

// New creates a cache over the shared local store.
func New(s *storage.Store) *Cache {
	return &Cache{db: s.DB(), version: Version, next: http.DefaultTransport}
}

// WithTransport overrides the underlying transport (used in tests).
func (c *Cache) WithTransport(rt http.RoundTripper) *Cache {
	c.next = rt
	return c
}

// RoundTrip implements http.RoundTripper. Non-GET requests pass through
// untouched.
func (c *Cache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.next.RoundTrip(req)
	}

	if networkFirst(req.URL.Path) {
		resp, err := c.next.RoundTrip(req)
		if err != nil {
			if cached := c.lookup(req); cached != nil {
				utils.Log("cache: serving %s from cache after network failure", req.URL.Path)
				return cached, nil
			}
			return nil, err
		}
		c.maybeStore(req, resp)
		return resp, nil
	}

	if cached := c.lookup(req); cached != nil {
		return cached, nil
	}
	resp, err := c.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.maybeStore(req, resp)
	return resp, nil
}

func networkFirst(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/auth/")
}

// cacheKey normalizes the storage key for a request. The tz_offset
// parameter the API client appends to every GET varies per host and would
// keep warmed rows from ever matching a live request, so it is excluded.
func cacheKey(u *url.URL) string {
	q := u.Query()
	if _, ok := q["tz_offset"]; !ok {
		return u.String()
	}
	q.Del("tz_offset")
	v := *u
	v.RawQuery = q.Encode()
	return v.String()
}

func (c *Cache) lookup(req *http.Request) *http.Response {
	var contentType string
	var body []byte
	err := c.db.QueryRow(
		"SELECT content_type, body FROM cache WHERE version = ? AND url = ?",
		c.version, cacheKey(req.URL),
	).Scan(&contentType, &body)
	if err != nil {
		return nil
	}

	header := make(http.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}
}

// maybeStore copies a successful response body into the cache and restores
// the body for the caller.
func (c *Cache) maybeStore(req *http.Request, resp *http.Response) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return
	}

	_, err = c.db.Exec(
		`INSERT INTO cache (version, url, content_type, body, fetched_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(version, url) DO UPDATE SET
			content_type = excluded.content_type,
			body = excluded.body,
			fetched_at = CURRENT_TIMESTAMP`,
		c.version, cacheKey(req.URL), resp.Header.Get("Content-Type"), body,
	)
	if err != nil {
		utils.Log("cache: store failed for %s: %v", req.URL.String(), err)
	}
}

// Warm prefetches the shell paths through the cache so they are available
// offline. Individual failures are logged and skipped.
func (c *Cache) Warm(ctx context.Context, baseURL string) error {
	client := &http.Client{Transport: c}
	base := strings.TrimRight(baseURL, "/")

	for _, path := range ShellPaths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			utils.Log("cache: warm %s failed: %v", path, err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	return nil
}

// Activate removes entries whose version tag differs from the current one.
func (c *Cache) Activate() error {
	_, err := c.db.Exec("DELETE FROM cache WHERE version != ?", c.version)
	return err
}

// Purge removes every cached entry, current version included.
func (c *Cache) Purge() error {
	_, err := c.db.Exec("DELETE FROM cache")
	return err
}
