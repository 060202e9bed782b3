package request

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"
)

// Client is the shared request pipeline:
//
//	RequestID -> Headers -> Retry -> RateLimit -> Token -> http.Client
//
// It is safe for concurrent use.
type Client struct {
	sender     Sender
	httpClient *http.Client

	credential  *Credential
	headers     map[string]string
	rateLimiter ratelimit.Limiter
	retry       RetryPolicy
	logger      zerolog.Logger
	proxy       string
	timeout     time.Duration
	transport   http.RoundTripper
	extra       []Middleware
}

type ClientOption func(*Client)

func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

func WithRateLimiter(rl ratelimit.Limiter) ClientOption {
	return func(c *Client) {
		c.rateLimiter = rl
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxy = proxyURL
	}
}

func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *Client) {
		c.retry = policy
	}
}

func WithCredential(cred *Credential) ClientOption {
	return func(c *Client) {
		c.credential = cred
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTransport replaces the connection pool, mostly for tests.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithHTTPClient uses a caller supplied client as the innermost sender.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMiddleware adds stages between Retry and Token.
func WithMiddleware(mw ...Middleware) ClientOption {
	return func(c *Client) {
		c.extra = append(c.extra, mw...)
	}
}

func New(opts ...ClientOption) (*Client, error) {
	c := &Client{
		headers: make(map[string]string),
		retry:   DefaultRetryPolicy(),
		logger:  zerolog.Nop(),
		timeout: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.credential == nil {
		c.credential = NewCredential("")
	}

	if c.httpClient == nil {
		rt := c.transport
		if rt == nil {
			transport, err := NewTransport(c.proxy)
			if err != nil {
				return nil, err
			}
			rt = transport
		}

		c.httpClient = &http.Client{
			Transport: rt,
			Timeout:   c.timeout,
		}
	}

	middlewares := []Middleware{
		RequestID(),
		Headers(c.headers),
		Retry(c.retry, c.logger),
		RateLimit(c.rateLimiter),
	}
	middlewares = append(middlewares, c.extra...)
	middlewares = append(middlewares, Token(c.credential))

	c.sender = Chain(c.httpClient, middlewares...)

	return c, nil
}

// Do sends req through the pipeline. The response status is not checked.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.sender.Do(req)
}

// MakeRequest sends req, checks the status and returns the body.
func (c *Client) MakeRequest(req *http.Request) ([]byte, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	resp, err = EnsureSuccess(resp)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

func (c *Client) Credential() *Credential {
	return c.credential
}

func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) Logger() zerolog.Logger {
	return c.logger
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
