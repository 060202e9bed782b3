package torbox

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dylanmazurek/torbox-go/internal/request"
)

// Client is the TorBox API client. Services share one pipeline and one
// connection pool; a Client is safe for concurrent use.
type Client struct {
	core *core

	General       *GeneralService
	Torrents      *TorrentsService
	Usenet        *UsenetService
	WebDownloads  *WebDownloadsService
	Notifications *NotificationsService
	User          *UserService
	RSSFeeds      *RSSFeedsService
	Integrations  *IntegrationsService
	Queued        *QueuedService
}

type core struct {
	mu         sync.RWMutex
	baseURL    string
	apiVersion string

	http       *request.Client
	credential *request.Credential
	logger     zerolog.Logger
}

type service struct {
	core *core
}

func New(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if _, err := parseBaseURL(o.baseURL); err != nil {
		return nil, err
	}

	cred := request.NewCredential(o.token)
	cred.SetHeader(o.authHeader)
	cred.SetPrefix(o.authPrefix)

	headers := map[string]string{}
	if o.userAgent != "" {
		headers["User-Agent"] = o.userAgent
	}

	reqOpts := []request.ClientOption{
		request.WithCredential(cred),
		request.WithHeaders(headers),
		request.WithRetryPolicy(o.retry),
		request.WithRateLimiter(o.rateLimiter),
		request.WithLogger(o.logger),
		request.WithProxy(o.proxy),
		request.WithTimeout(o.timeout),
		request.WithMiddleware(o.middleware...),
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, request.WithHTTPClient(o.httpClient))
	}
	if o.transport != nil {
		reqOpts = append(reqOpts, request.WithTransport(o.transport))
	}

	httpClient, err := request.New(reqOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	c := &core{
		baseURL:    o.baseURL,
		apiVersion: o.apiVersion,
		http:       httpClient,
		credential: cred,
		logger:     o.logger,
	}

	return &Client{
		core:          c,
		General:       &GeneralService{core: c},
		Torrents:      &TorrentsService{core: c},
		Usenet:        &UsenetService{core: c},
		WebDownloads:  &WebDownloadsService{core: c},
		Notifications: &NotificationsService{core: c},
		User:          &UserService{core: c},
		RSSFeeds:      &RSSFeedsService{core: c},
		Integrations:  &IntegrationsService{core: c},
		Queued:        &QueuedService{core: c},
	}, nil
}

func (c *Client) SetEnvironment(env Environment) {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	c.core.baseURL = env.BaseURL
}

// SetBaseURL points later calls at another deployment.
func (c *Client) SetBaseURL(baseURL string) error {
	if _, err := parseBaseURL(baseURL); err != nil {
		return err
	}

	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	c.core.baseURL = baseURL
	return nil
}

func (c *Client) BaseURL() string {
	return c.core.getBaseURL()
}

// SetAccessToken replaces the token. Calls already in flight keep the token
// they started with.
func (c *Client) SetAccessToken(token string) {
	c.core.credential.SetToken(token)
}

func (c *Client) AccessToken() string {
	return c.core.credential.Token()
}

func (c *Client) SetAPIVersion(version string) {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	c.core.apiVersion = version
}

func (c *Client) APIVersion() string {
	return c.core.getAPIVersion()
}

// Close releases idle connections.
func (c *Client) Close() {
	c.core.http.CloseIdleConnections()
}

func (c *core) getBaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.baseURL
}

func (c *core) getAPIVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.apiVersion
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %w", ErrInvalidConfig, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: base url must be http or https, got %q", ErrInvalidConfig, baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: base url has no host: %q", ErrInvalidConfig, baseURL)
	}

	return u, nil
}
