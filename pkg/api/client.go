package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized is returned for any 401 response. Callers must stop the
// current operation; no response data accompanies it.
var ErrUnauthorized = errors.New("session expired")

// ServerError is a response that parsed but carries a failure flag.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Client is a thin JSON wrapper around the tracker backend. Every method
// makes exactly one attempt; there are no retries at this layer.
type Client struct {
	base     string
	http     *http.Client
	tzOffset int
}

// New creates a client for the given base URL, e.g. "http://localhost:5000".
func New(baseURL string) *Client {
	return &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		tzOffset: localTZOffset(),
	}
}

// NewWithHTTPClient creates a client using a caller-supplied http.Client,
// letting the offline cache layer sit underneath as a transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	c.http = hc
	return c
}

// localTZOffset returns minutes behind UTC, matching what the backend
// expects in the tz_offset query parameter (UTC minus local, in minutes).
func localTZOffset() int {
	_, secs := time.Now().Zone()
	return -secs / 60
}

// Get issues a GET request with the timezone offset appended.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	url := fmt.Sprintf("%s%s%stz_offset=%d", c.base, path, sep, c.tzOffset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// GetRaw issues a GET and returns the raw body, for non-JSON endpoints
// like the CSV export.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	url := fmt.Sprintf("%s%s%stz_offset=%d", c.base, path, sep, c.tzOffset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	req, err := c.jsonRequest(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// PostFile issues a multipart POST with a single file field, used by the
// photo analyze endpoint.
func (c *Client) PostFile(ctx context.Context, path, field, filename string, data []byte, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// envelope matches the backend's failure shapes. The error field is a bool
// on most blueprints but a message string on the todo routes.
type envelope struct {
	Success *bool           `json:"success"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("request failed: %s", resp.Status)
		}
		return fmt.Errorf("parsing response: %w", err)
	}
	if msg, failed := env.failure(); failed {
		return &ServerError{Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// failure reports whether the envelope marks a failed request and returns
// the best available message.
func (e *envelope) failure() (string, bool) {
	failed := false
	msg := e.Message

	if len(e.Error) > 0 {
		if string(e.Error) == "true" {
			failed = true
		} else {
			var s string
			if json.Unmarshal(e.Error, &s) == nil && s != "" {
				failed = true
				if msg == "" {
					msg = s
				}
			}
		}
	}
	if e.Success != nil && !*e.Success {
		failed = true
	}

	if failed && msg == "" {
		msg = "request failed"
	}
	return msg, failed
}
