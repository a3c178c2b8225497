package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// StatusError is returned when a remote call answers with an unexpected status.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("clients: %s %s: unexpected status %d: %s", e.Method, e.Path, e.Status, strings.TrimSpace(string(e.Body)))
}

// BaseClient provides JSON request helpers against a base URL.
type BaseClient struct {
	baseURL string
	client  HTTPDoer
	headers map[string]string
}

// NewBaseClient builds client with base URL.
func NewBaseClient(baseURL string, client HTTPDoer) *BaseClient {
	if client == nil {
		client = NewDefaultHTTPClient(10 * time.Second)
	}
	return &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		headers: make(map[string]string),
	}
}

// SetHeader adds a header sent with every request.
func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		path = c.baseURL + path
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path
}

// Do executes HTTP request and returns status/body.
func (c *BaseClient) Do(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), reader)
	if err != nil {
		return 0, nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// DoJSON marshals in (when non-nil), expects one of the accepted statuses and
// decodes the response into out (when non-nil).
func (c *BaseClient) DoJSON(ctx context.Context, method, path string, query url.Values, in, out interface{}, accepted ...int) error {
	var body []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = data
	}
	status, respBody, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if !statusAccepted(status, accepted) {
		return &StatusError{Method: method, Path: path, Status: status, Body: respBody}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("clients: decode %s %s: %w", method, path, err)
	}
	return nil
}

func statusAccepted(status int, accepted []int) bool {
	if len(accepted) == 0 {
		return status >= 200 && status < 300
	}
	for _, s := range accepted {
		if s == status {
			return true
		}
	}
	return false
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
