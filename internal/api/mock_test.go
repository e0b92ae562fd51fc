package api

import (
	"io"
	"strings"
	"sync"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
)

// mockDoer is an HTTPDoer that answers every request with respond
type mockDoer struct {
	mu       sync.Mutex
	requests []*fhttp.Request
	bodies   []string
	respond  func(req *fhttp.Request) (*fhttp.Response, error)
}

func (m *mockDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.bodies = append(m.bodies, string(data))
	} else {
		m.bodies = append(m.bodies, "")
	}
	m.mu.Unlock()
	return m.respond(req)
}

func (m *mockDoer) lastRequest(t *testing.T) (*fhttp.Request, string) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		t.Fatal("no request was sent")
	}
	return m.requests[len(m.requests)-1], m.bodies[len(m.bodies)-1]
}

// respondWith returns a mockDoer that answers with a fixed status and body
func respondWith(status int, body string) *mockDoer {
	return &mockDoer{
		respond: func(req *fhttp.Request) (*fhttp.Response, error) {
			return newResponse(status, io.NopCloser(strings.NewReader(body))), nil
		},
	}
}

func respondErr(err error) *mockDoer {
	return &mockDoer{
		respond: func(req *fhttp.Request) (*fhttp.Response, error) {
			return nil, err
		},
	}
}

func newResponse(status int, body io.ReadCloser) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Body:       body,
		Header:     fhttp.Header{},
	}
}

func newTestClient(t *testing.T, doer HTTPDoer) *Client {
	t.Helper()
	client, err := NewClient("http://localhost:5000/", WithHTTPClient(doer))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

// closeTracker records whether a body was closed
type closeTracker struct {
	io.Reader
	mu     sync.Mutex
	closed bool
}

func (c *closeTracker) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *closeTracker) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
