// Package api implements the HTTP transport to the chat server.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	apierrors "github.com/diogo/webchat/internal/errors"
)

const (
	// errorBodyLimit caps how much of a failed response is kept for diagnostics
	errorBodyLimit = 4096
	// replyBodyLimit caps a single JSON reply
	replyBodyLimit = 4 << 20
	// transportCeiling bounds any connection, streams included
	transportCeiling = 3600
)

// HTTPDoer is the part of tls_client.HttpClient the chat client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the chat server
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	timeout    time.Duration
	log        *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout bounds non-streaming requests. Zero disables the bound.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a client for the server at baseURL.
// Unless WithHTTPClient is given, a TLS client with a cookie jar is created so
// the server's session cookie is kept between requests.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("server URL cannot be empty")
	}

	client := &Client{
		baseURL: baseURL,
		timeout: 2 * time.Minute,
		log:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(transportCeiling),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithCookieJar(tls_client.NewCookieJar()),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the server URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections. Later requests fail with ErrClientClosed.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if idle, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		idle.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) url(endpoint string) string {
	return c.baseURL + endpoint
}

// withTimeout applies the request timeout to ctx, if one is set
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// do sends req and maps transport failures onto typed errors
func (c *Client) do(ctx context.Context, req *http.Request, operation, endpoint string) (*http.Response, error) {
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, operation, endpoint, err)
	}

	c.log.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return resp, nil
}

func (c *Client) transportError(ctx context.Context, operation, endpoint string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%s: %w", operation, context.Canceled)
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return apierrors.NewTimeoutError(fmt.Sprintf("%s after %v", operation, c.timeout))
	default:
		return apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// readErrorBody reads at most errorBodyLimit bytes of a failed response
func readErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, errorBodyLimit))
	return string(data)
}
