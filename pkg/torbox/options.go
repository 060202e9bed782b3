package torbox

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"

	"github.com/dylanmazurek/torbox-go/internal/request"
)

type (
	RetryPolicy = request.RetryPolicy
	Sender      = request.Sender
	SenderFunc  = request.SenderFunc
	Middleware  = request.Middleware
)

func DefaultRetryPolicy() RetryPolicy {
	return request.DefaultRetryPolicy()
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL     string
	apiVersion  string
	token       string
	authHeader  string
	authPrefix  string
	userAgent   string
	proxy       string
	timeout     time.Duration
	retry       RetryPolicy
	rateLimiter ratelimit.Limiter
	httpClient  *http.Client
	transport   http.RoundTripper
	logger      zerolog.Logger
	middleware  []Middleware
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		baseURL:    Production.BaseURL,
		apiVersion: DefaultAPIVersion,
		authHeader: request.DefaultAuthHeader,
		authPrefix: request.DefaultAuthPrefix,
		userAgent:  DefaultUserAgent,
		timeout:    60 * time.Second,
		retry:      request.DefaultRetryPolicy(),
		logger:     zerolog.Nop(),
	}
}

func WithEnvironment(env Environment) Option {
	return func(o *clientOptions) {
		o.baseURL = env.BaseURL
	}
}

func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

func WithAccessToken(token string) Option {
	return func(o *clientOptions) {
		o.token = token
	}
}

// WithAuthHeader changes the header and prefix carrying the token. An empty
// prefix sends the bare token.
func WithAuthHeader(header, prefix string) Option {
	return func(o *clientOptions) {
		o.authHeader = header
		o.authPrefix = prefix
	}
}

func WithAPIVersion(version string) Option {
	return func(o *clientOptions) {
		o.apiVersion = version
	}
}

// WithHTTPClient sends through hc instead of a client built from the proxy,
// timeout and transport options.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *clientOptions) {
		o.retry = policy
	}
}

// WithRateLimit takes a rate such as "250/minute". An invalid value disables
// client side limiting.
func WithRateLimit(rate string) Option {
	return func(o *clientOptions) {
		o.rateLimiter = request.ParseRateLimit(rate)
	}
}

func WithRateLimiter(rl ratelimit.Limiter) Option {
	return func(o *clientOptions) {
		o.rateLimiter = rl
	}
}

// WithProxy routes requests through an http, https or socks5 proxy.
func WithProxy(proxyURL string) Option {
	return func(o *clientOptions) {
		o.proxy = proxyURL
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithMiddleware inserts extra stages inside the retry loop, just before the
// token is attached.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *clientOptions) {
		o.middleware = append(o.middleware, mw...)
	}
}
