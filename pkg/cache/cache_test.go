package cache

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

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

// failAfter lets the backend be switched off to simulate going offline.
type failAfter struct {
	next    http.RoundTripper
	offline atomic.Bool
}

func (f *failAfter) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.offline.Load() {
		return nil, io.ErrUnexpectedEOF
	}
	return f.next.RoundTrip(req)
}

func TestNetworkFirstFallsBackToCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_calories": 1600}`))
	}))
	defer srv.Close()

	transport := &failAfter{next: http.DefaultTransport}
	c := New(openTestStore(t)).WithTransport(transport)
	client := &http.Client{Transport: c}

	// Online: request hits the network and is stored.
	resp, err := client.Get(srv.URL + "/api/meals/today")
	if err != nil {
		t.Fatalf("online request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != `{"total_calories": 1600}` {
		t.Errorf("online body = %q", body)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}

	// Offline: same request is served from cache.
	transport.offline.Store(true)
	resp, err = client.Get(srv.URL + "/api/meals/today")
	if err != nil {
		t.Fatalf("offline request: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != `{"total_calories": 1600}` {
		t.Errorf("cached body = %q", body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("cached content type = %q", ct)
	}

	// An uncached path while offline propagates the network error.
	if _, err := client.Get(srv.URL + "/api/dashboard/weekly"); err == nil {
		t.Error("expected error for uncached path while offline")
	}
}

func TestCacheFirstSkipsNetworkOnHit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("asset"))
	}))
	defer srv.Close()

	c := New(openTestStore(t))
	client := &http.Client{Transport: c}

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL + "/static/style.css")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != "asset" {
			t.Errorf("request %d body = %q", i, body)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 (cache-first)", hits.Load())
	}
}

func TestNonGetPassesThrough(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := New(openTestStore(t))
	client := &http.Client{Transport: c}
	resp, err := client.Post(srv.URL+"/api/meals/log", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if method != http.MethodPost {
		t.Errorf("server saw %s, want POST", method)
	}
}

func TestActivatePurgesOldVersions(t *testing.T) {
	s := openTestStore(t)
	c := New(s)

	_, err := s.DB().Exec(
		"INSERT INTO cache (version, url, body) VALUES (?, ?, ?)",
		"ntrack-v0", "http://example.com/api/meals/today", []byte("old"),
	)
	if err != nil {
		t.Fatalf("seed old row: %v", err)
	}
	_, err = s.DB().Exec(
		"INSERT INTO cache (version, url, body) VALUES (?, ?, ?)",
		Version, "http://example.com/static/app.css", []byte("new"),
	)
	if err != nil {
		t.Fatalf("seed current row: %v", err)
	}

	if err := c.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	var count int
	s.DB().QueryRow("SELECT COUNT(*) FROM cache").Scan(&count)
	if count != 1 {
		t.Errorf("rows after activate = %d, want 1", count)
	}
	var version string
	s.DB().QueryRow("SELECT version FROM cache").Scan(&version)
	if version != Version {
		t.Errorf("surviving version = %q, want %q", version, Version)
	}
}

func TestWarmedRowsServeOfflineClientRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_calories": 900}`))
	}))
	defer srv.Close()

	transport := &failAfter{next: http.DefaultTransport}
	c := New(openTestStore(t)).WithTransport(transport)
	if err := c.Warm(context.Background(), srv.URL); err != nil {
		t.Fatalf("Warm: %v", err)
	}

	// The API client appends tz_offset to every GET; warmed rows must
	// still match once the network is gone.
	transport.offline.Store(true)
	client := &http.Client{Transport: c}
	resp, err := client.Get(srv.URL + "/api/meals/today?tz_offset=-120")
	if err != nil {
		t.Fatalf("offline request after warm: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != `{"total_calories": 900}` {
		t.Errorf("warmed body = %q", body)
	}
}

func TestWarmPrefetchesShellPaths(t *testing.T) {
	seen := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.URL.Path] = true
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	s := openTestStore(t)
	c := New(s)
	if err := c.Warm(context.Background(), srv.URL); err != nil {
		t.Fatalf("Warm: %v", err)
	}

	for _, path := range ShellPaths {
		if !seen[path] {
			t.Errorf("shell path %s not fetched", path)
		}
	}
	var count int
	s.DB().QueryRow("SELECT COUNT(*) FROM cache WHERE version = ?", Version).Scan(&count)
	if count != len(ShellPaths) {
		t.Errorf("cached rows = %d, want %d", count, len(ShellPaths))
	}
}
