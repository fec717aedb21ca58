// Package testutil provides testing utilities for the application.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestServer wraps httptest.Server with convenience methods
type TestServer struct {
	Server  *httptest.Server
	BaseURL string
	t       *testing.T
}

// ProjectRoot returns the root directory of the project.
// It works by finding the go.mod file.
func ProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("could not get caller info")
	}

	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// TestConfig returns environment overrides suitable for testing. The
// data directory is unique per test so tests never share a ledger.
func TestConfig(t *testing.T) map[string]string {
	return map[string]string{
		"SMARTSPEND_DATA_DIR":    t.TempDir(),
		"SMARTSPEND_DEBUG":       "true",
		"SMARTSPEND_LISTEN_ADDR": ":0", // Random port
	}
}

// SetTestEnv sets environment variables for testing and returns a cleanup function
func SetTestEnv(t *testing.T) func() {
	t.Helper()

	cfg := TestConfig(t)
	oldValues := make(map[string]string)

	for k, v := range cfg {
		oldValues[k] = os.Getenv(k)
		os.Setenv(k, v)
	}

	return func() {
		for k, v := range oldValues {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}
}

// NewTestServer creates a new test server using the application's router
func NewTestServer(t *testing.T, router http.Handler) *TestServer {
	t.Helper()

	server := httptest.NewServer(router)

	return &TestServer{
		Server:  server,
		BaseURL: server.URL,
		t:       t,
	}
}

// GET performs a GET request to the given path
func (ts *TestServer) GET(path string) *http.Response {
	ts.t.Helper()

	resp, err := http.Get(ts.BaseURL + path)
	if err != nil {
		ts.t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

// POST performs a POST request to the given path
func (ts *TestServer) POST(path string, contentType string, body io.Reader) *http.Response {
	ts.t.Helper()

	resp, err := http.Post(ts.BaseURL+path, contentType, body)
	if err != nil {
		ts.t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

// PostJSON marshals v and POSTs it to the given path
func (ts *TestServer) PostJSON(path string, v interface{}) *http.Response {
	ts.t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		ts.t.Fatalf("failed to marshal body for POST %s: %v", path, err)
	}
	return ts.POST(path, "application/json", bytes.NewReader(data))
}

// PutJSON marshals v and PUTs it to the given path
func (ts *TestServer) PutJSON(path string, v interface{}) *http.Response {
	ts.t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		ts.t.Fatalf("failed to marshal body for PUT %s: %v", path, err)
	}

	req, err := http.NewRequest(http.MethodPut, ts.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		ts.t.Fatalf("PUT %s failed: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ts.t.Fatalf("PUT %s failed: %v", path, err)
	}
	return resp
}

// DELETE performs a DELETE request to the given path
func (ts *TestServer) DELETE(path string) *http.Response {
	ts.t.Helper()

	req, err := http.NewRequest(http.MethodDelete, ts.BaseURL+path, nil)
	if err != nil {
		ts.t.Fatalf("DELETE %s failed: %v", path, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ts.t.Fatalf("DELETE %s failed: %v", path, err)
	}
	return resp
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// ReadBody reads and returns the response body as a string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

// DecodeBody decodes the JSON response body into dst
func DecodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}
