package request

import (
	"net/http"
	"sync"
)

const (
	DefaultAuthHeader = "Authorization"
	DefaultAuthPrefix = "Bearer"
)

// Credential holds the access token applied to outgoing requests. It is safe
// for concurrent use; a new token applies to sends that start after the
// update.
type Credential struct {
	mu     sync.RWMutex
	token  string
	header string
	prefix string
}

// NewCredential returns a Credential using the standard Authorization header
// and Bearer prefix.
func NewCredential(token string) *Credential {
	return &Credential{
		token:  token,
		header: DefaultAuthHeader,
		prefix: DefaultAuthPrefix,
	}
}

func (c *Credential) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

func (c *Credential) SetHeader(header string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.header = header
}

func (c *Credential) SetPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prefix = prefix
}

func (c *Credential) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

func (c *Credential) snapshot() (token, header, prefix string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token, c.header, c.prefix
}

// Token attaches the credential header to every request. Any existing header
// with the same name is replaced. Without a token or header name the request
// passes through untouched.
func Token(cred *Credential) Middleware {
	return func(next Sender) Sender {
		return SenderFunc(func(req *http.Request) (*http.Response, error) {
			if cred == nil {
				return next.Do(req)
			}

			token, header, prefix := cred.snapshot()
			if token != "" && header != "" {
				value := token
				if prefix != "" {
					value = prefix + " " + token
				}

				req.Header.Del(header)
				req.Header.Set(header, value)
			}

			return next.Do(req)
		})
	}
}
